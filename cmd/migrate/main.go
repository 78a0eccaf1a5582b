package main

import (
	"context"
	"flag"
	"log"

	"github.com/damoang/caption-queue/internal/config"
	"github.com/damoang/caption-queue/internal/database"
	"github.com/damoang/caption-queue/internal/migration"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	seed := flag.Bool("seed", true, "create the ADMIN_USERNAME user when the users table is empty")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	loaded := config.LoadDotEnv()
	if len(loaded) == 0 {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Database.Debug = *verbose

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema up to date (%s)", cfg.Database.Driver)

	if !*seed {
		return
	}
	created, err := migration.SeedAdmin(context.Background(), db, cfg.Admin)
	if err != nil {
		log.Fatalf("Admin seed failed: %v", err)
	}
	if created {
		log.Printf("Created admin user %q", cfg.Admin.Username)
	} else {
		log.Println("Admin seed skipped (users exist or ADMIN_USERNAME/ADMIN_PASSWORD unset)")
	}
}
