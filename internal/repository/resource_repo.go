package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agrimarket/internal/domain"
)

// ResourceFilter acota el listado público del marketplace.
type ResourceFilter struct {
	Category string
	Search   string
	Sort     string // newest, price_low, price_high, rating
}

// ResourceRepository define el contrato de persistencia para publicaciones.
type ResourceRepository interface {
	Create(ctx context.Context, res domain.Resource) (domain.Resource, error)
	GetByID(ctx context.Context, id int64) (domain.Resource, error)
	ListAvailable(ctx context.Context, filter ResourceFilter) ([]domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Resource, error)
	Update(ctx context.Context, res domain.Resource) error
	Delete(ctx context.Context, id int64) error
}

// PgResourceRepository implementa ResourceRepository usando pgxpool.
type PgResourceRepository struct {
	pool *pgxpool.Pool
}

func NewPgResourceRepository(pool *pgxpool.Pool) *PgResourceRepository {
	return &PgResourceRepository{pool: pool}
}

const resourceColumns = `
	r.id, r.owner_id, r.name, r.category, r.description, r.price,
	r.listing_type, r.condition, r.age_years, r.quality, r.image_url,
	r.location, r.is_available, r.rating, r.created_at, r.updated_at`

func scanResource(row pgx.Row) (domain.Resource, error) {
	var res domain.Resource
	err := row.Scan(
		&res.ID,
		&res.OwnerID,
		&res.Name,
		&res.Category,
		&res.Description,
		&res.Price,
		&res.ListingType,
		&res.Condition,
		&res.AgeYears,
		&res.Quality,
		&res.ImageURL,
		&res.Location,
		&res.IsAvailable,
		&res.Rating,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	return res, err
}

func (r *PgResourceRepository) Create(ctx context.Context, res domain.Resource) (domain.Resource, error) {
	const query = `
		INSERT INTO resources (owner_id, name, category, description, price,
			listing_type, condition, age_years, quality, image_url, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, is_available, rating, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		res.OwnerID,
		res.Name,
		res.Category,
		res.Description,
		res.Price,
		res.ListingType,
		res.Condition,
		res.AgeYears,
		res.Quality,
		res.ImageURL,
		res.Location,
	).Scan(&res.ID, &res.IsAvailable, &res.Rating, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return domain.Resource{}, err
	}
	return res, nil
}

func (r *PgResourceRepository) GetByID(ctx context.Context, id int64) (domain.Resource, error) {
	const query = `SELECT` + resourceColumns + ` FROM resources r WHERE r.id = $1`
	return scanResource(r.pool.QueryRow(ctx, query, id))
}

func (r *PgResourceRepository) ListAvailable(ctx context.Context, filter ResourceFilter) ([]domain.Listing, error) {
	query := `
		SELECT` + resourceColumns + `, u.name, u.phone, u.location
		FROM resources r
		JOIN users u ON u.id = r.owner_id
		WHERE r.is_available = TRUE`

	var args []any
	if filter.Category != "" && filter.Category != "all" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND r.category = $%d", len(args))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		query += fmt.Sprintf(" AND r.name ILIKE $%d", len(args))
	}

	switch filter.Sort {
	case "price_low":
		query += " ORDER BY r.price ASC"
	case "price_high":
		query += " ORDER BY r.price DESC"
	case "rating":
		query += " ORDER BY r.rating DESC"
	default:
		query += " ORDER BY r.created_at DESC"
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		err := rows.Scan(
			&l.ID,
			&l.OwnerID,
			&l.Name,
			&l.Category,
			&l.Description,
			&l.Price,
			&l.ListingType,
			&l.Condition,
			&l.AgeYears,
			&l.Quality,
			&l.ImageURL,
			&l.Location,
			&l.IsAvailable,
			&l.Rating,
			&l.CreatedAt,
			&l.UpdatedAt,
			&l.Owner.Name,
			&l.Owner.Phone,
			&l.Owner.Location,
		)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *PgResourceRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Resource, error) {
	const query = `SELECT` + resourceColumns + `
		FROM resources r WHERE r.owner_id = $1 ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *PgResourceRepository) Update(ctx context.Context, res domain.Resource) error {
	const query = `
		UPDATE resources
		SET is_available = $2, price = $3, description = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, res.ID, res.IsAvailable, res.Price, res.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgResourceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
