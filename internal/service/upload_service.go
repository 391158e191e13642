package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agrimarket/internal/storage"
)

var (
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrStorageMisconfigured: object storage fue configurado explícitamente
	// pero el bucket no responde. No se degrada a disco local en silencio.
	ErrStorageMisconfigured = errors.New("object storage misconfigured")
	ErrUploadFailed         = errors.New("upload failed")
	ErrNoStorageAvailable   = errors.New("no storage available")
)

const (
	uploadAttempts  = 3
	uploadRetryWait = time.Second
)

// UploadService resuelve la ubicación durable de una imagen subida y
// produce su URL pública.
type UploadService struct {
	logger         *zap.Logger
	objects        storage.ObjectStore // nil cuando no hay object storage
	local          *storage.LocalStore // nil cuando no hay disco escribible
	placeholderURL string
	maxBytes       int64
	retryWait      time.Duration
}

func NewUploadService(logger *zap.Logger, objects storage.ObjectStore, local *storage.LocalStore, placeholderURL string, maxBytes int64) *UploadService {
	return &UploadService{
		logger:         logger,
		objects:        objects,
		local:          local,
		placeholderURL: placeholderURL,
		maxBytes:       maxBytes,
		retryWait:      uploadRetryWait,
	}
}

// PlaceholderURL es la imagen fija que sustituye a las ausentes.
func (s *UploadService) PlaceholderURL() string {
	return s.placeholderURL
}

// Resolve aplica la cadena de persistencia: validaciones locales, object
// storage con reintentos acotados, disco local solo cuando el object
// storage no fue configurado.
func (s *UploadService) Resolve(ctx context.Context, data []byte, contentType string, size int64, filename string) (string, error) {
	// La ausencia de imagen no es un error.
	if len(data) == 0 && filename == "" {
		return s.placeholderURL, nil
	}

	if size > s.maxBytes || int64(len(data)) > s.maxBytes {
		return "", ErrPayloadTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrUnsupportedMediaType
	}

	name := uploadName(filename)

	if s.objects != nil {
		if err := s.objects.HeadBucket(ctx); err != nil {
			return "", fmt.Errorf("%w: %w", ErrStorageMisconfigured, err)
		}
		return s.putWithRetry(ctx, name, data, contentType)
	}

	if s.local != nil {
		if err := s.local.Write(name, data); err != nil {
			return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
		}
		return s.local.URL(name), nil
	}

	return "", ErrNoStorageAvailable
}

func (s *UploadService) putWithRetry(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		url, err := s.objects.PutObject(ctx, key, data, contentType)
		if err == nil {
			return url, nil
		}
		lastErr = err
		if s.logger != nil {
			s.logger.Warn("object upload attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		if attempt == uploadAttempts {
			break
		}
		select {
		case <-time.After(s.retryWait):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", ErrUploadFailed, ctx.Err())
		}
	}
	return "", fmt.Errorf("%w: %w", ErrUploadFailed, lastErr)
}

// DisplayURL revalida URLs locales al momento de mostrarlas: un archivo
// borrado fuera de banda se reemplaza por el placeholder, nunca por un
// error.
func (s *UploadService) DisplayURL(imageURL string) string {
	if imageURL == "" {
		return s.placeholderURL
	}
	if s.local == nil {
		return imageURL
	}
	name, ok := s.local.Name(imageURL)
	if !ok {
		return imageURL
	}
	if !s.local.Exists(name) {
		return s.placeholderURL
	}
	return imageURL
}

// uploadName genera un nombre resistente a colisiones y traversal: token
// aleatorio más la versión saneada del nombre original.
func uploadName(filename string) string {
	return uuid.NewString() + "_" + sanitizeFilename(filename)
}

func sanitizeFilename(filename string) string {
	if idx := strings.LastIndexAny(filename, `/\`); idx >= 0 {
		filename = filename[idx+1:]
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, filename)
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return "upload"
	}
	return cleaned
}
