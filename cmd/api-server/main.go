package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipehub/database"
	"recipehub/internal/config"
	"recipehub/internal/media"
	"recipehub/internal/metrics"
	"recipehub/internal/microservices/http-api/handler"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/microservices/http-api/server"
	"recipehub/internal/microservices/http-api/service"
	"recipehub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	logger.Init(cfg.GoEnv, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.OpenGorm(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("could not migrate database")
	}

	// 2. Redis for sessions
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("could not connect to redis")
	}

	// 3. Image storage
	deps := server.Deps{
		Cookie: handler.CookieOptions{
			Name:   cfg.SessionCookieName,
			Secure: cfg.SessionCookieSecure,
		},
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		MaxImageBytes:  int64(cfg.MediaMaxBytes),
		Limiter:        middleware.NewIPRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitBurst),
		Checks: map[string]server.Checker{
			"postgres": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		},
	}

	var store media.Store
	switch cfg.MediaBackend {
	case "minio":
		store, err = media.NewMinioStore(ctx, media.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MediaPublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("could not initialise minio media store")
		}
	default:
		local, err := media.NewLocalStore(cfg.MediaLocalDir, cfg.MediaPublicURL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not initialise local media store")
		}
		store = local
		deps.MediaDir = local.Dir()
		deps.MediaURL = cfg.MediaPublicURL
	}

	// 4. Repositories and services
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(rdb)
	recipeRepo := repository.NewRecipeRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	tokens := service.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)
	deps.AuthService = service.NewAuthService(userRepo, sessionRepo, tokens)
	deps.RecipeService = service.NewRecipeService(recipeRepo, store, deps.MaxImageBytes)
	deps.RatingService = service.NewRatingService(ratingRepo, recipeRepo)

	if cfg.MetricsEnabled {
		deps.Metrics = metrics.New()
	}

	go deps.Limiter.Run(ctx, time.Minute, 10*time.Minute)

	// 5. HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", map[string]interface{}{
			"addr":  srv.Addr,
			"media": cfg.MediaBackend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Debug("received shutdown signal")
	case err := <-errChan:
		logger.Error("server error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", err)
		return
	}
	logger.Info("server stopped gracefully", nil)
}
