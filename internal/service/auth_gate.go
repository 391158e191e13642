package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"agrimarket/internal/identity"
	"agrimarket/internal/repository"
)

var (
	// ErrUnauthenticated: sin sesión y sin credencial bearer utilizable.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredential: credencial presentada pero rechazada por el
	// verificador externo.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrUnknownUser: credencial válida sin registro local; el alta es una
	// operación explícita, nunca implícita en authenticate.
	ErrUnknownUser = errors.New("unknown user")
)

// AuthResult es el resultado de una autenticación exitosa. FromCredential
// indica que el caller debe establecer la sesión (paso lento); el fast path
// de sesión no requiere escritura alguna.
type AuthResult struct {
	UserID         int64
	FromCredential bool
}

// AuthGate decide, por request, si el caller está autenticado y por cuál
// de los dos caminos: sesión previa o credencial bearer.
type AuthGate struct {
	logger   *zap.Logger
	verifier identity.Verifier
	users    repository.UserRepository
}

func NewAuthGate(logger *zap.Logger, verifier identity.Verifier, users repository.UserRepository) *AuthGate {
	return &AuthGate{
		logger:   logger,
		verifier: verifier,
		users:    users,
	}
}

// Authenticate aplica la cadena de decisión en orden: primero la sesión,
// después el header Authorization. sessionUserID == 0 significa sesión
// ausente. Ningún camino de rechazo tiene efectos secundarios.
func (g *AuthGate) Authenticate(ctx context.Context, sessionUserID int64, authorization string) (AuthResult, error) {
	if sessionUserID != 0 {
		return AuthResult{UserID: sessionUserID}, nil
	}

	token, ok := bearerToken(authorization)
	if !ok {
		return AuthResult{}, ErrUnauthenticated
	}

	subject, err := g.verifier.Verify(ctx, token)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("credential rejected", zap.Error(err))
		}
		return AuthResult{}, ErrInvalidCredential
	}

	user, err := g.users.GetBySubjectOrEmail(ctx, subject, "")
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, ErrUnknownUser
		}
		return AuthResult{}, err
	}

	return AuthResult{UserID: user.ID, FromCredential: true}, nil
}

func bearerToken(authorization string) (string, bool) {
	header := strings.TrimSpace(authorization)
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return token, token != ""
}
