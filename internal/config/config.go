package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio. Se construye una sola vez
// en el arranque y se inyecta por referencia en los constructores.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	SecretKey   string `env:"SECRET_KEY,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	IdentityBaseURL string `env:"IDENTITY_BASE_URL" envDefault:"https://identitytoolkit.googleapis.com"`
	IdentityAPIKey  string `env:"IDENTITY_API_KEY"`
	// InsecureVerifier habilita el verificador sin firma para entornos de
	// prueba. Nunca debe activarse en producción.
	InsecureVerifier bool `env:"AUTH_INSECURE_VERIFIER" envDefault:"false"`

	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3Bucket           string `env:"S3_BUCKET"`
	S3BaseEndpoint     string `env:"S3_BASE_ENDPOINT"`

	StaticDir      string `env:"STATIC_DIR" envDefault:"web/static"`
	TemplateGlob   string `env:"TEMPLATE_GLOB" envDefault:"web/templates/*.html"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"web/static/uploads"`
	UploadBaseURL  string `env:"UPLOAD_BASE_URL" envDefault:"/static/uploads"`
	PlaceholderURL string `env:"PLACEHOLDER_URL" envDefault:"/static/images/placeholder.svg"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"16777216"`

	WeatherAPIKey  string `env:"WEATHER_API_KEY"`
	WeatherBaseURL string `env:"WEATHER_BASE_URL" envDefault:"https://api.openweathermap.org/data/2.5"`
	WeatherCountry string `env:"WEATHER_COUNTRY" envDefault:"IN"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
