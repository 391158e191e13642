package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LookupVerifier valida ID tokens contra el endpoint accounts:lookup del
// proveedor de identidad.
type LookupVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewLookupVerifier construye un verificador apuntando al proveedor externo.
// La espera está acotada por el timeout del cliente HTTP.
func NewLookupVerifier(baseURL, apiKey string, logger *zap.Logger) *LookupVerifier {
	if baseURL == "" {
		baseURL = "https://identitytoolkit.googleapis.com"
	}
	return &LookupVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID string `json:"localId"`
	} `json:"users"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (v *LookupVerifier) Verify(ctx context.Context, token string) (string, error) {
	bodyBytes, err := json.Marshal(lookupRequest{IDToken: token})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := v.baseURL + "/v1/accounts:lookup?key=" + url.QueryEscape(v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity lookup: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var lr lookupResponse
	if err := json.Unmarshal(respBody, &lr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if resp.StatusCode >= 400 {
		msg := ""
		if lr.Error != nil {
			msg = lr.Error.Message
		}
		if v.logger != nil {
			v.logger.Warn("identity lookup rejected",
				zap.Int("status", resp.StatusCode),
				zap.String("message", msg),
			)
		}
		return "", ErrInvalidCredential
	}

	if len(lr.Users) == 0 || lr.Users[0].LocalID == "" {
		return "", ErrInvalidCredential
	}
	return lr.Users[0].LocalID, nil
}
