// Package identity resuelve credenciales bearer contra el proveedor de
// identidad externo. El core nunca valida la estructura del token por su
// cuenta; eso queda en manos del proveedor.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidCredential señala un token rechazado por el verificador.
var ErrInvalidCredential = errors.New("invalid credential")

// Verifier convierte un token bearer en el subject-id externo del usuario.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
