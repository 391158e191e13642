package domain

import "time"

// User es el registro local de identidad. Subject es el identificador
// estable emitido por el proveedor externo; puede faltar en cuentas
// anteriores a la migración y reconciliarse después.
type User struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"-"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	Language  string    `json:"language_preference"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
