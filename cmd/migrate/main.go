// Command migrate applies or rolls back the database schema.
//
// Usage:
//
//	migrate up       apply all pending migrations
//	migrate down     roll back one migration
//	migrate version  print the current schema version
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/nkemjika/shortly/internal/config"
	"github.com/nkemjika/shortly/internal/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down|version>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	migrator, err := migrations.New(cfg.Database.URL(), logger)
	if err != nil {
		log.Fatalf("failed to create migrator: %v", err)
	}
	defer migrator.Close()

	switch os.Args[1] {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			log.Fatalf("failed to read version: %v", err)
		}
		fmt.Printf("version=%d dirty=%v\n", version, dirty)
	default:
		log.Fatalf("unknown command %q (want up, down, or version)", os.Args[1])
	}
}
