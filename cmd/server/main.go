package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"blog_backend/internal/app/di"
	"blog_backend/internal/app/router"
	authadapters "blog_backend/internal/feature/auth/adapters"
	"blog_backend/internal/platform/config"
	"blog_backend/internal/platform/db"
	"blog_backend/internal/platform/http/handler"
	"blog_backend/internal/platform/logger"
	infraredis "blog_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	envErr := godotenv.Load(".env")

	cfg, err := config.NewConfig()
	if err != nil {
		logger.New(0, "text").Fatal("failed to load config", "error", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	// パッケージレベルのslog呼び出しも同じ出力先に揃える
	slog.SetDefault(log.Logger)
	if envErr != nil {
		slog.Info(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	loc, err := cfg.Popular.Location()
	if err != nil {
		log.Fatal("invalid popular timezone", "error", err)
	}

	// db
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect database", "error", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", "error", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	if err := authadapters.EnsureDefaultRoles(ctx, gdb); err != nil {
		log.Fatal("failed to seed roles", "error", err)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	store, err := di.NewStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
	}

	sender, err := di.NewOTPSender(cfg.Mail, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize mailer", "error", err)
	}

	auth := di.NewAuth(gdb, cfg, sender, clock)
	content := di.NewContent(gdb, rdb, cfg.Popular, clock, loc)

	checks := map[string]handler.Pinger{"database": handler.PingerFunc(sqlDB.PingContext)}
	if rdb != nil {
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	r := router.NewRouter(router.Handlers{
		Auth:     auth.Handler,
		Articles: content.Articles,
		Comments: content.Comments,
		Uploads:  di.NewUpload(store, cfg.Storage),
		Health:   handler.NewHealthHandler(checks),
	}, auth.Authorizer, di.NewRateLimiter(rdb, cfg.RateLimit, clock), log.Logger)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv("JWT_SECRET") == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server failed", "error", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.HTTP.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
