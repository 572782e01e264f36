package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sitesafety/internal/adapters/backend"
	"sitesafety/internal/adapters/db/memory"
	pgvault "sitesafety/internal/adapters/db/postgres"
	redisvault "sitesafety/internal/adapters/db/redis"
	"sitesafety/internal/adapters/web"
	"sitesafety/internal/adapters/web/flash"
	"sitesafety/internal/adapters/web/middleware"
	"sitesafety/internal/application/session"
	"sitesafety/internal/config"
	"sitesafety/internal/domain/auth"
	"sitesafety/internal/infrastructure/validation"
)

const (
	sweepInterval   = 5 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	configureLogging(cfg.Log)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("backend", cfg.Backend.BaseURL).
		Str("storage", cfg.Storage).
		Msg("Starting site safety console")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vault, closeVault := openVault(ctx, cfg)

	codec := session.NewCodec(time.Now)
	registry := session.NewRegistry(codec, vault, func() *backend.Client {
		return backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log.Logger.With().Str("component", "backend").Logger())
	}, log.Logger.With().Str("component", "session").Logger())
	go registry.Run(ctx, sweepInterval, cfg.Session.IdleTTL)

	templates, err := web.LoadTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("parse templates")
	}
	handler := web.NewHandler(auth.DefaultPolicy(), validation.NewForms(), validation.NewSanitizer())

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log.Logger, "/health"), flash.Cookies(cfg.Session.CookieSecure))
	r.SetHTMLTemplate(templates)

	apiCORS := cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	})
	handler.RegisterRoutes(r, middleware.Visitor(registry, &cfg.Session), apiCORS)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		closeVault()
		log.Fatal().Err(err).Msg("Failed to start server")
	}
	log.Info().Msgf("Listening on port %s", cfg.HTTPPort)
	if err := serve(ctx, srv, ln, shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
	closeVault()
}

// serve runs srv on ln until ctx is done, then lets in-flight requests
// finish within timeout
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func configureLogging(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !strings.EqualFold(cfg.Format, "json") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// openVault connects the configured token storage
func openVault(ctx context.Context, cfg *config.Config) (auth.TokenVault, func()) {
	switch cfg.Storage {
	case config.StoragePostgres:
		migrateDatabase(ctx, cfg.Database)
		pool, err := pgxpool.New(ctx, cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres pool")
		}
		return pgvault.NewTokenVault(pool), pool.Close
	case config.StorageRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Fatal().Err(err).Msg("ping redis")
		}
		return redisvault.NewTokenVault(client, cfg.Redis.Prefix, 0), func() { _ = client.Close() }
	default:
		log.Warn().Msg("Using in-memory token storage - sessions are lost on restart")
		return memory.NewTokenVault(), func() {}
	}
}

func migrateDatabase(ctx context.Context, cfg config.DBConfig) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open postgres")
	}
	defer db.Close()
	// one connection so the advisory lock and unlock share a session
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping postgres")
	}
	if err := pgvault.RunMigrations(ctx, db, os.DirFS(cfg.Migrations)); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}
	log.Info().Str("path", cfg.Migrations).Msg("migrations applied")
}
