package main

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"identity-service/app/config"
	"identity-service/app/utils/logger"
	"identity-service/app/utils/migration"
)

//go:embed migrations
var migrationsDir embed.FS

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	migrationsFS, err := fs.Sub(migrationsDir, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	migrator := migration.NewMigrator(db, log, migrationsFS)

	switch command {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "status":
		return migrator.Status()
	default:
		return fmt.Errorf("unknown command %q (expected up, down or status)", command)
	}
}
