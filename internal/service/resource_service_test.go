package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"agrimarket/internal/domain"
	"agrimarket/internal/repository"
)

type mockResourceRepo struct {
	byID       map[int64]domain.Resource
	nextID     int64
	lastFilter repository.ResourceFilter
	updates    int
	deletes    int
}

func newMockResourceRepo() *mockResourceRepo {
	return &mockResourceRepo{byID: make(map[int64]domain.Resource)}
}

func (m *mockResourceRepo) seed(res domain.Resource) domain.Resource {
	m.nextID++
	res.ID = m.nextID
	res.CreatedAt = time.Now().UTC()
	m.byID[res.ID] = res
	return res
}

func (m *mockResourceRepo) Create(_ context.Context, res domain.Resource) (domain.Resource, error) {
	res.IsAvailable = true
	return m.seed(res), nil
}

func (m *mockResourceRepo) GetByID(_ context.Context, id int64) (domain.Resource, error) {
	res, ok := m.byID[id]
	if !ok {
		return domain.Resource{}, pgx.ErrNoRows
	}
	return res, nil
}

func (m *mockResourceRepo) ListAvailable(_ context.Context, filter repository.ResourceFilter) ([]domain.Listing, error) {
	m.lastFilter = filter
	var listings []domain.Listing
	for _, res := range m.byID {
		if res.IsAvailable {
			listings = append(listings, domain.Listing{Resource: res})
		}
	}
	return listings, nil
}

func (m *mockResourceRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Resource, error) {
	var out []domain.Resource
	for _, res := range m.byID {
		if res.OwnerID == ownerID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (m *mockResourceRepo) Update(_ context.Context, res domain.Resource) error {
	m.updates++
	existing, ok := m.byID[res.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.IsAvailable = res.IsAvailable
	existing.Price = res.Price
	existing.Description = res.Description
	m.byID[res.ID] = existing
	return nil
}

func (m *mockResourceRepo) Delete(_ context.Context, id int64) error {
	m.deletes++
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func newResourceService(repo repository.ResourceRepository) *ResourceService {
	uploads := NewUploadService(zap.NewNop(), nil, nil, "/static/images/placeholder.svg", 16*1024*1024)
	return NewResourceService(zap.NewNop(), repo, uploads)
}

func TestResourceServiceCreate_Defaults(t *testing.T) {
	repo := newMockResourceRepo()
	svc := newResourceService(repo)

	res, err := svc.Create(context.Background(), 1, CreateResourceInput{
		Name:        "Tractor",
		Category:    "tools",
		Price:       150,
		ListingType: "rent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Condition != "good" {
		t.Errorf("expected default condition good, got %q", res.Condition)
	}
	if res.Quality != 5 {
		t.Errorf("expected default quality 5, got %d", res.Quality)
	}
	if res.ImageURL != "/static/images/placeholder.svg" {
		t.Errorf("expected placeholder image, got %q", res.ImageURL)
	}
}

func TestResourceServiceCreate_MissingFields(t *testing.T) {
	svc := newResourceService(newMockResourceRepo())

	_, err := svc.Create(context.Background(), 1, CreateResourceInput{Name: "Tractor"})
	if !errors.Is(err, ErrInvalidResource) {
		t.Fatalf("expected ErrInvalidResource, got %v", err)
	}
}

func TestResourceServiceUpdate_ForbiddenForNonOwner(t *testing.T) {
	repo := newMockResourceRepo()
	res := repo.seed(domain.Resource{OwnerID: 1, Name: "Tractor", IsAvailable: true})
	svc := newResourceService(repo)

	price := 99.0
	err := svc.Update(context.Background(), 2, res.ID, ResourceUpdate{Price: &price})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.updates != 0 {
		t.Error("non-owner update must not reach the repository")
	}
}

func TestResourceServiceUpdate_PartialFields(t *testing.T) {
	repo := newMockResourceRepo()
	res := repo.seed(domain.Resource{OwnerID: 1, Name: "Tractor", Price: 150, Description: "old", IsAvailable: true})
	svc := newResourceService(repo)

	available := false
	if err := svc.Update(context.Background(), 1, res.ID, ResourceUpdate{IsAvailable: &available}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, _ := repo.GetByID(context.Background(), res.ID)
	if updated.IsAvailable {
		t.Error("expected resource unavailable")
	}
	if updated.Price != 150 || updated.Description != "old" {
		t.Error("untouched fields must keep their values")
	}
}

func TestResourceServiceDelete_NotFound(t *testing.T) {
	svc := newResourceService(newMockResourceRepo())

	err := svc.Delete(context.Background(), 1, 99)
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestResourceServiceList_ForwardsFilter(t *testing.T) {
	repo := newMockResourceRepo()
	svc := newResourceService(repo)

	filter := repository.ResourceFilter{Category: "tools", Search: "trac", Sort: "price_low"}
	if _, err := svc.List(context.Background(), filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter != filter {
		t.Errorf("expected filter %+v forwarded, got %+v", filter, repo.lastFilter)
	}
}
