package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"agrimarket/internal/domain"
)

// ErrDuplicate señala una violación de unicidad (email o subject ya usados).
var ErrDuplicate = errors.New("duplicate record")

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (domain.User, error)
	// GetBySubjectOrEmail busca primero por subject y luego por email,
	// en ese orden, para que la reconciliación sea determinista.
	GetBySubjectOrEmail(ctx context.Context, subject, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	UpdateSubject(ctx context.Context, id int64, subject string) error
	UpdateProfile(ctx context.Context, user domain.User) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, COALESCE(firebase_subject, ''), email, name, phone, location,
	language_preference, created_at, updated_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Subject,
		&u.Email,
		&u.Name,
		&u.Phone,
		&u.Location,
		&u.Language,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const query = `SELECT` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetBySubjectOrEmail(ctx context.Context, subject, email string) (domain.User, error) {
	if subject != "" {
		const query = `SELECT` + userColumns + ` FROM users WHERE firebase_subject = $1`
		u, err := scanUser(r.pool.QueryRow(ctx, query, subject))
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, err
		}
	}
	if email == "" {
		return domain.User{}, pgx.ErrNoRows
	}
	const query = `SELECT` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.User{}, err
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO users (firebase_subject, email, name, phone, location, language_preference)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		user.Subject,
		user.Email,
		user.Name,
		user.Phone,
		user.Location,
		user.Language,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrDuplicate
		}
		return domain.User{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgUserRepository) UpdateSubject(ctx context.Context, id int64, subject string) error {
	const query = `
		UPDATE users SET firebase_subject = NULLIF($2, ''), updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, subject)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, user domain.User) error {
	const query = `
		UPDATE users
		SET name = $2, phone = $3, location = $4, language_preference = $5, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Phone,
		user.Location,
		user.Language,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
