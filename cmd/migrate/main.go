package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"jamco/internal/config"
	"jamco/internal/database/migration"
	dbpostgres "jamco/internal/database/postgres"
	"jamco/internal/database/seeder"
)

func main() {
	seed := flag.Bool("seed", false, "load demo users after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	r := migration.Runner{Dir: cfg.Migrations.Dir, Logger: logger}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if *seed {
		s := seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}
		if err := s.Run(ctx, db); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}
}
