package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CookieName es el nombre del cookie de sesión que ve el cliente.
const CookieName = "session"

// Manager firma y resuelve cookies de sesión contra el Store. El valor del
// cookie es "sid.firma"; un valor manipulado nunca llega al Store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL devuelve la vigencia configurada de la sesión.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// UserID resuelve el user id detrás de un valor de cookie. Devuelve false
// ante cookies ausentes, manipulados o sesiones expiradas.
func (m *Manager) UserID(ctx context.Context, cookie string) (int64, bool) {
	sid, ok := m.decode(cookie)
	if !ok {
		return 0, false
	}
	userID, err := m.store.Get(ctx, sid)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// Establish crea una sesión nueva para el usuario y devuelve el valor de
// cookie firmado a enviar al cliente.
func (m *Manager) Establish(ctx context.Context, userID int64) (string, error) {
	sid := uuid.NewString()
	if err := m.store.Set(ctx, sid, userID, m.ttl); err != nil {
		return "", err
	}
	return m.encode(sid), nil
}

// Clear invalida la sesión referida por el cookie, si existe.
func (m *Manager) Clear(ctx context.Context, cookie string) error {
	sid, ok := m.decode(cookie)
	if !ok {
		return nil
	}
	return m.store.Delete(ctx, sid)
}

func (m *Manager) sign(sid string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(sid))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (m *Manager) encode(sid string) string {
	return sid + "." + m.sign(sid)
}

func (m *Manager) decode(cookie string) (string, bool) {
	sid, sig, ok := strings.Cut(cookie, ".")
	if !ok || sid == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(sid))) {
		return "", false
	}
	return sid, true
}
