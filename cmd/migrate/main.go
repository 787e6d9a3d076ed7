// Command migrate applies the embedded SQL migrations.
//
//	migrate [up|down|status]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"blog_backend/internal/platform/config"
	"blog_backend/internal/platform/db"
	"blog_backend/internal/platform/logger"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.NewConfig()
	if err != nil {
		logger.New(0, "text").Fatal("failed to load config", "error", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	// 起動時の自動適用と二重にならないようにする
	cfg.Database.RunMigrations = false
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect database", "error", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", "error", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatal("database unreachable", "error", err)
	}

	if err := run(command, sqlDB); err != nil {
		log.Fatal("migration failed", "command", command, "error", err)
	}
	log.Info("migrate ok", "command", command)
}

func run(command string, sqlDB *sql.DB) error {
	switch command {
	case "up":
		return db.Migrate(sqlDB)
	case "down":
		return db.MigrateDown(sqlDB)
	case "status":
		return db.MigrationStatus(sqlDB)
	default:
		return fmt.Errorf("unknown command %q (want up, down or status)", command)
	}
}
