package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore persiste archivos bajo un directorio servido como estático.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore crea el directorio de uploads si no existe. Devuelve error
// cuando el destino no es escribible (p. ej. filesystems de solo lectura).
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (l *LocalStore) Write(name string, data []byte) error {
	// filepath.Base corta cualquier intento de path traversal en el nombre.
	path := filepath.Join(l.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}

func (l *LocalStore) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(l.dir, filepath.Base(name)))
	return err == nil
}

// URL devuelve la ruta pública bajo la que se sirve el archivo.
func (l *LocalStore) URL(name string) string {
	return l.baseURL + "/" + filepath.Base(name)
}

// Name deshace URL: devuelve el nombre de archivo si la URL apunta a este
// store.
func (l *LocalStore) Name(url string) (string, bool) {
	rest, ok := strings.CutPrefix(url, l.baseURL+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
