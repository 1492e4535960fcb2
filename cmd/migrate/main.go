package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"affiliate-engine/internal/config"
	"affiliate-engine/internal/database"
	"affiliate-engine/internal/logging"
)

func main() {
	defaultDir := os.Getenv("MIGRATIONS_DIR")
	if defaultDir == "" {
		defaultDir = "migrations"
	}
	dir := flag.String("dir", defaultDir, "directory containing *.sql migrations")
	flag.Parse()

	logger, err := logging.New(os.Getenv("APP_ENV") == "production")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	dbCfg := config.LoadDatabase()

	// Connect to database
	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	logger.Info("connected to database", zap.String("host", dbCfg.Host), zap.String("db", dbCfg.DBName))

	applied, err := database.RunMigrations(ctx, db, *dir, logger)
	if err != nil {
		logger.Fatal("migration failed", zap.Strings("applied", applied), zap.Error(err))
	}

	if len(applied) == 0 {
		logger.Info("database is up to date")
		return
	}
	logger.Info("migrations applied", zap.Strings("versions", applied))
}
