package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"agrimarket/internal/domain"
	"agrimarket/internal/repository"
	"agrimarket/internal/service"
)

type mockResourceRepo struct {
	nextID int64
	byID   map[int64]domain.Resource
}

func newMockResourceRepo() *mockResourceRepo {
	return &mockResourceRepo{byID: map[int64]domain.Resource{}}
}

func (m *mockResourceRepo) seed(res domain.Resource) domain.Resource {
	m.nextID++
	res.ID = m.nextID
	m.byID[res.ID] = res
	return res
}

func (m *mockResourceRepo) Create(_ context.Context, res domain.Resource) (domain.Resource, error) {
	return m.seed(res), nil
}

func (m *mockResourceRepo) GetByID(_ context.Context, id int64) (domain.Resource, error) {
	res, ok := m.byID[id]
	if !ok {
		return domain.Resource{}, pgx.ErrNoRows
	}
	return res, nil
}

func (m *mockResourceRepo) ListAvailable(_ context.Context, _ repository.ResourceFilter) ([]domain.Listing, error) {
	var listings []domain.Listing
	for _, res := range m.byID {
		if res.IsAvailable {
			listings = append(listings, domain.Listing{Resource: res})
		}
	}
	return listings, nil
}

func (m *mockResourceRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Resource, error) {
	var resources []domain.Resource
	for _, res := range m.byID {
		if res.OwnerID == ownerID {
			resources = append(resources, res)
		}
	}
	return resources, nil
}

func (m *mockResourceRepo) Update(_ context.Context, res domain.Resource) error {
	if _, ok := m.byID[res.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.byID[res.ID] = res
	return nil
}

func (m *mockResourceRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func setupResourceRouter(t *testing.T, repo *mockResourceRepo, userID int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploads := service.NewUploadService(zap.NewNop(), nil, nil, "/static/images/placeholder.svg", 16*1024*1024)
	resourceSvc := service.NewResourceService(zap.NewNop(), repo, uploads)
	h := NewResourceHandler(zap.NewNop(), resourceSvc, uploads)

	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		c.Set(userIDKey, userID)
	}
	r.GET("/api/resources", h.List)
	r.POST("/api/resources", fakeAuth, h.Create)
	r.PUT("/api/resources/:id", fakeAuth, h.Update)
	r.DELETE("/api/resources/:id", fakeAuth, h.Delete)
	return r
}

func multipartForm(t *testing.T, fields map[string]string, fileField, filename, contentType string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestResourceHandlerCreate_NoImageUsesPlaceholder(t *testing.T) {
	repo := newMockResourceRepo()
	r := setupResourceRouter(t, repo, 1)

	body, contentType := multipartForm(t, map[string]string{
		"name":         "Tractor",
		"category":     "tools",
		"price":        "150",
		"listing_type": "rent",
	}, "", "", "", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/resources", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	created := repo.byID[1]
	if created.ImageURL != "/static/images/placeholder.svg" {
		t.Errorf("expected placeholder image, got %q", created.ImageURL)
	}
}

func TestResourceHandlerCreate_RejectsNonImageUpload(t *testing.T) {
	r := setupResourceRouter(t, newMockResourceRepo(), 1)

	body, contentType := multipartForm(t, map[string]string{
		"name":         "Tractor",
		"category":     "tools",
		"price":        "150",
		"listing_type": "rent",
	}, "image", "notes.txt", "text/plain", []byte("not an image"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/resources", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d: %s", w.Code, w.Body.String())
	}
}

func TestResourceHandlerCreate_InvalidPrice(t *testing.T) {
	r := setupResourceRouter(t, newMockResourceRepo(), 1)

	body, contentType := multipartForm(t, map[string]string{
		"name":  "Tractor",
		"price": "not-a-number",
	}, "", "", "", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/resources", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestResourceHandlerUpdate_NonOwnerForbidden(t *testing.T) {
	repo := newMockResourceRepo()
	res := repo.seed(domain.Resource{OwnerID: 99, Name: "Tractor", IsAvailable: true})
	r := setupResourceRouter(t, repo, 1)

	payload, _ := json.Marshal(gin.H{"price": 10})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/resources/1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if repo.byID[res.ID].Price != 0 {
		t.Error("forbidden update must not change the resource")
	}
}

func TestResourceHandlerDelete_NotFound(t *testing.T) {
	r := setupResourceRouter(t, newMockResourceRepo(), 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/resources/42", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
