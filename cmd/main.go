package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/config"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/credential"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/handlers"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/logger"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/middleware"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository"
	ent_repo "github.com/SimpnicServerTeam/scs-blog-server/internal/repository/ent"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository/memory"
	redis_repo "github.com/SimpnicServerTeam/scs-blog-server/internal/repository/redis"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/router"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/server"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()

	drv, err := ent_repo.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed opening database connection")
	}
	defer drv.Close()
	if err := ent_repo.Migrate(ctx, drv); err != nil {
		log.Fatal().Err(err).Msg("Failed creating schema resources")
	}

	sessionRepo, closeSessions, err := newSessionRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("Failed to set up session store")
	}
	defer closeSessions.Close()

	userRepo := ent_repo.NewEntUserRepository(drv)
	postRepo := ent_repo.NewEntPostRepository(drv)

	tokenService := service.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenDuration)
	authService := service.NewAuthService(userRepo, sessionRepo, tokenService, credential.New())
	blogService := service.NewBlogService(postRepo, cfg.Blog)

	app, err := server.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	auth := []echo.MiddlewareFunc{middleware.JWT(tokenService), middleware.Session(authService)}
	router.SetupUserRoutes(app, handlers.NewUserHandler(authService), auth...)
	router.SetupBlogRoutes(app, handlers.NewBlogHandler(blogService), auth...)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		log.Info().Str("port", cfg.Port).Str("sessionStore", cfg.Session.Store).Msg("Server starting")
		if err := app.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server stopped gracefully.")
}

// newSessionRepository picks the session store named by SESSION_STORE.
func newSessionRepository(ctx context.Context, cfg *config.Config) (repository.SessionRepository, io.Closer, error) {
	if cfg.Session.Store == "memory" {
		repo := memory.NewMemorySessionRepository(cfg.Session.CleanupInterval)
		return repo, repo, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return redis_repo.NewRedisSessionRepository(client), client, nil
}
