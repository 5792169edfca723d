package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"jamco/internal/config"
	"jamco/internal/database"
	dbpostgres "jamco/internal/database/postgres"
	"jamco/internal/database/seeder"
	"jamco/internal/infrastructure/cache"
	"jamco/internal/pkg/identity"
	"jamco/internal/pkg/token"
	"jamco/internal/repository"
	"jamco/internal/repository/memory"
	"jamco/internal/scraper"
	"jamco/internal/ws"
)

// Container owns the process-wide resources. Close releases them in reverse
// order of creation.
type Container struct {
	Config config.Config
	Logger *log.Logger

	// DB is nil when the memory driver is configured.
	DB       database.DB
	Store    repository.Store
	Pinger   Pinger
	Cache    *cache.Redis
	Hub      *ws.Hub
	Verifier identity.Verifier
	Tokens   token.Service
	Importer *scraper.PostingScraper

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		db     database.DB
		store  repository.Store
		pinger Pinger
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		mem := memory.NewStore()
		if err := seeder.SeedDemoUsers(ctx, mem); err != nil {
			return nil, err
		}
		logger.Printf("Store | using in-memory store, data is lost on exit")
		store, pinger = mem, mem
	default:
		pg, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		db, store, pinger = pg, repository.NewPostgresStore(pg), pg
	}

	key, err := token.DeriveKey(cfg.Auth.Secret)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	var verifier identity.Verifier = identity.StubVerifier{}
	if cfg.Auth.UseStubVerifier {
		logger.Printf("Auth | using stub identity verifier")
	} else {
		google, err := identity.NewGoogleVerifier(context.Background(), &http.Client{Timeout: 5 * time.Second})
		if err != nil {
			closeDB(db)
			return nil, err
		}
		verifier = google
	}

	// Board ids restart with the memory store, so a shared Redis could serve
	// boards from an earlier run.
	var boardCache *cache.Redis
	if db != nil {
		boardCache = cache.NewRedis(cfg.Redis, logger)
	}

	hub := ws.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Store:    store,
		Pinger:   pinger,
		Cache:    boardCache,
		Hub:      hub,
		Verifier: verifier,
		Tokens:   token.NewHMACService(key, cfg.Auth.TokenTTL),
		Importer: scraper.NewPostingScraper(15 * time.Second),
		stopHub:  stopHub,
	}, nil
}

type Pinger interface {
	Ping(ctx context.Context) error
}

func closeDB(db database.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
