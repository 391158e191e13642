package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"agrimarket/internal/domain"
	"agrimarket/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrConflict: la escritura perdió una carrera contra otro registro con
	// el mismo email o subject; no queda registro parcial.
	ErrConflict     = errors.New("conflict or persistence error")
	ErrInvalidEmail = errors.New("invalid email")
)

const defaultLanguage = "en"

// UserService coordina alta, login y reconciliación de usuarios contra el
// directorio local.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

// RegisterInput son los datos del alta. Subject puede faltar: cuentas
// creadas antes de enlazar el proveedor externo reciben uno sintético.
type RegisterInput struct {
	Email    string
	Subject  string
	Name     string
	Phone    string
	Location string
	Language string
}

// Register da de alta al usuario, o lo reconcilia si ya existe: registrar
// una identidad conocida se trata como un login idempotente, no como error.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}

	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		subject = uuid.NewString()
	}

	existing, err := s.users.GetBySubjectOrEmail(ctx, subject, emailAddr)
	if err == nil {
		return s.reconcile(ctx, existing, input.Subject)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	language := strings.TrimSpace(input.Language)
	if language == "" {
		language = defaultLanguage
	}

	user, err := s.users.Create(ctx, domain.User{
		Subject:  subject,
		Email:    emailAddr,
		Name:     strings.TrimSpace(input.Name),
		Phone:    strings.TrimSpace(input.Phone),
		Location: strings.TrimSpace(input.Location),
		Language: language,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	return user, nil
}

// Login establece identidad sin registrar: falla con ErrUserNotFound cuando
// no hay cuenta, y reconcilia el subject cuando difiere del almacenado.
func (s *UserService) Login(ctx context.Context, email, subject string) (domain.User, error) {
	emailAddr := normalizeEmail(email)
	subject = strings.TrimSpace(subject)
	if emailAddr == "" && subject == "" {
		return domain.User{}, ErrUserNotFound
	}

	user, err := s.users.GetBySubjectOrEmail(ctx, subject, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	return s.reconcile(ctx, user, subject)
}

// reconcile actualiza el subject almacenado cuando el presentado difiere:
// rotación de UID del proveedor o primer enlace de una cuenta solo-email.
func (s *UserService) reconcile(ctx context.Context, user domain.User, presented string) (domain.User, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" || presented == user.Subject {
		return user, nil
	}

	if err := s.users.UpdateSubject(ctx, user.ID, presented); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	if s.logger != nil {
		s.logger.Info("reconciled external subject", zap.Int64("user_id", user.ID))
	}
	user.Subject = presented
	return user, nil
}

// Profile devuelve el registro del usuario autenticado.
func (s *UserService) Profile(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ProfileUpdate actualiza solo los campos presentes.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	Location *string
	Language *string
}

func (s *UserService) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (domain.User, error) {
	user, err := s.Profile(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		user.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Location != nil {
		user.Location = strings.TrimSpace(*upd.Location)
	}
	if upd.Language != nil {
		user.Language = strings.TrimSpace(*upd.Language)
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func normalizeEmail(emailAddr string) string {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if !strings.Contains(emailAddr, "@") {
		return ""
	}
	return emailAddr
}
