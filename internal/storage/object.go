// Package storage cubre los dos destinos durables de imágenes: object
// storage S3 y disco local servido como estático.
package storage

import "context"

// ObjectStore abstrae el bucket de object storage que consume el resolver
// de uploads.
type ObjectStore interface {
	// HeadBucket verifica que el bucket configurado sea alcanzable.
	HeadBucket(ctx context.Context) error
	// PutObject sube el objeto y devuelve su URL pública.
	PutObject(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
