package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"agrimarket/internal/config"
	"agrimarket/internal/db"
	apihttp "agrimarket/internal/http"
	"agrimarket/internal/identity"
	"agrimarket/internal/repository"
	"agrimarket/internal/service"
	"agrimarket/internal/session"
	"agrimarket/internal/storage"
	"agrimarket/internal/weather"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, cfg); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	resourceRepo := repository.NewPgResourceRepository(pool)

	sessionStore := session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory sessions", zap.Error(err))
		} else {
			sessionStore = session.NewRedisStore(redisClient)
		}
		cancel()
	}
	sessions := session.NewManager(sessionStore, cfg.SecretKey, cfg.SessionTTL)

	var verifier identity.Verifier
	if cfg.InsecureVerifier {
		logger.Warn("insecure credential verifier enabled; test environments only")
		verifier = identity.NewInsecureVerifier()
	} else {
		verifier = identity.NewLookupVerifier(cfg.IdentityBaseURL, cfg.IdentityAPIKey, logger)
	}

	var objects storage.ObjectStore
	if cfg.AWSAccessKeyID != "" && cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Region:          cfg.AWSRegion,
			Bucket:          cfg.S3Bucket,
			BaseEndpoint:    cfg.S3BaseEndpoint,
		})
		if err != nil {
			logger.Fatal("s3 init", zap.Error(err))
		}
		objects = s3Store
	}

	var local *storage.LocalStore
	if cfg.UploadDir != "" {
		local, err = storage.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			logger.Warn("local upload storage unavailable", zap.Error(err))
			local = nil
		}
	}

	uploadSvc := service.NewUploadService(logger, objects, local, cfg.PlaceholderURL, cfg.MaxUploadBytes)
	userSvc := service.NewUserService(logger, userRepo)
	resourceSvc := service.NewResourceService(logger, resourceRepo, uploadSvc)
	gate := service.NewAuthGate(logger, verifier, userRepo)
	weatherClient := weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, cfg.WeatherCountry, logger)

	authMW := apihttp.AuthMiddleware(logger, gate, sessions)
	authHandler := apihttp.NewAuthHandler(logger, userSvc, sessions)
	userHandler := apihttp.NewUserHandler(logger, userSvc)
	resourceHandler := apihttp.NewResourceHandler(logger, resourceSvc, uploadSvc)
	weatherHandler := apihttp.NewWeatherHandler(logger, weatherClient)
	pageHandler := apihttp.NewPageHandler(logger, userSvc, sessions)

	router := apihttp.NewRouter(logger, cfg, authMW, authHandler, userHandler, resourceHandler, weatherHandler, pageHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
