package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestLookupVerifier_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts:lookup" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if key := r.URL.Query().Get("key"); key != "api-key" {
			t.Errorf("unexpected api key %q", key)
		}
		var req struct {
			IDToken string `json:"idToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.IDToken != "the-token" {
			t.Errorf("unexpected token %q", req.IDToken)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]string{{"localId": "uid-1"}},
		})
	}))
	defer srv.Close()

	v := NewLookupVerifier(srv.URL, "api-key", zap.NewNop())
	subject, err := v.Verify(context.Background(), "the-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "uid-1" {
		t.Errorf("expected uid-1, got %q", subject)
	}
}

func TestLookupVerifier_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "INVALID_ID_TOKEN"},
		})
	}))
	defer srv.Close()

	v := NewLookupVerifier(srv.URL, "api-key", zap.NewNop())
	if _, err := v.Verify(context.Background(), "bad"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestLookupVerifier_EmptyUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"users": []any{}})
	}))
	defer srv.Close()

	v := NewLookupVerifier(srv.URL, "api-key", zap.NewNop())
	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}
