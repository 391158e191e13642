package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"agrimarket/internal/domain"
	"agrimarket/internal/repository"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	// ErrForbidden: la publicación existe pero pertenece a otro usuario.
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidResource = errors.New("invalid resource")
)

// ResourceService coordina las publicaciones del marketplace.
type ResourceService struct {
	logger    *zap.Logger
	resources repository.ResourceRepository
	uploads   *UploadService
}

func NewResourceService(logger *zap.Logger, resources repository.ResourceRepository, uploads *UploadService) *ResourceService {
	return &ResourceService{
		logger:    logger,
		resources: resources,
		uploads:   uploads,
	}
}

// List devuelve las publicaciones disponibles; las URLs de imagen locales
// se revalidan antes de salir.
func (s *ResourceService) List(ctx context.Context, filter repository.ResourceFilter) ([]domain.Listing, error) {
	listings, err := s.resources.ListAvailable(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		listings[i].ImageURL = s.uploads.DisplayURL(listings[i].ImageURL)
	}
	return listings, nil
}

// ListMine devuelve todas las publicaciones del dueño, disponibles o no.
func (s *ResourceService) ListMine(ctx context.Context, ownerID int64) ([]domain.Resource, error) {
	resources, err := s.resources.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range resources {
		resources[i].ImageURL = s.uploads.DisplayURL(resources[i].ImageURL)
	}
	return resources, nil
}

// CreateResourceInput son los campos del formulario de alta.
type CreateResourceInput struct {
	Name        string
	Category    string
	Description string
	Price       float64
	ListingType string
	Condition   string
	AgeYears    int
	Quality     int
	ImageURL    string
	Location    string
}

func (s *ResourceService) Create(ctx context.Context, ownerID int64, input CreateResourceInput) (domain.Resource, error) {
	if input.Name == "" || input.Category == "" || input.ListingType == "" {
		return domain.Resource{}, ErrInvalidResource
	}
	if input.Condition == "" {
		input.Condition = "good"
	}
	if input.Quality == 0 {
		input.Quality = 5
	}
	if input.ImageURL == "" {
		input.ImageURL = s.uploads.PlaceholderURL()
	}

	return s.resources.Create(ctx, domain.Resource{
		OwnerID:     ownerID,
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Price:       input.Price,
		ListingType: input.ListingType,
		Condition:   input.Condition,
		AgeYears:    input.AgeYears,
		Quality:     input.Quality,
		ImageURL:    input.ImageURL,
		Location:    input.Location,
	})
}

// ResourceUpdate actualiza solo los campos presentes.
type ResourceUpdate struct {
	IsAvailable *bool
	Price       *float64
	Description *string
}

func (s *ResourceService) Update(ctx context.Context, ownerID, id int64, upd ResourceUpdate) error {
	res, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if upd.IsAvailable != nil {
		res.IsAvailable = *upd.IsAvailable
	}
	if upd.Price != nil {
		res.Price = *upd.Price
	}
	if upd.Description != nil {
		res.Description = *upd.Description
	}

	return s.resources.Update(ctx, res)
}

func (s *ResourceService) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.resources.Delete(ctx, id)
}

func (s *ResourceService) owned(ctx context.Context, ownerID, id int64) (domain.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Resource{}, ErrResourceNotFound
		}
		return domain.Resource{}, err
	}
	if res.OwnerID != ownerID {
		return domain.Resource{}, ErrForbidden
	}
	return res, nil
}
