package app

import (
	"fmt"
	"log"
	"strings"

	"jamco/internal/config"
	"jamco/internal/delivery/http/handler"
	"jamco/internal/delivery/http/middleware"
	"jamco/internal/delivery/http/routes"
	v1 "jamco/internal/delivery/http/routes/v1"
	"jamco/internal/domain/event"
	"jamco/internal/pkg/identity"
	"jamco/internal/pkg/token"
	"jamco/internal/repository"
	"jamco/internal/usecase/access"
	ucauth "jamco/internal/usecase/auth"
	columnuc "jamco/internal/usecase/column"
	frienduc "jamco/internal/usecase/friend"
	jobuc "jamco/internal/usecase/job"
	reviewuc "jamco/internal/usecase/review"
	useruc "jamco/internal/usecase/user"
	"jamco/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

// Deps is everything New wires together. Only Store, Verifier and Tokens are
// required.
type Deps struct {
	Auth     config.AuthConfig
	Logger   *log.Logger
	Store    repository.Store
	Cache    columnuc.Cache
	Hub      *ws.Hub
	Verifier identity.Verifier
	Tokens   token.Service
	Importer jobuc.Importer

	DBPinger    handler.Pinger
	CachePinger handler.Pinger
}

func New(d Deps) *App {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	var notifier event.Notifier = event.Discard{}
	if d.Hub != nil {
		notifier = d.Hub
	}

	accounts := useruc.NewService(d.Store, d.Logger)
	authUC := ucauth.NewService(d.Verifier, accounts, d.Store.Users(), d.Tokens, d.Logger)
	columnUC := columnuc.NewService(d.Store, d.Cache, d.Logger)
	friendUC := frienduc.NewService(d.Store, notifier, d.Logger)
	jobUC := jobuc.NewService(d.Store, d.Importer, d.Logger)
	reviewUC := reviewuc.NewService(d.Store, notifier, d.Logger)

	handlers := v1.Handlers{
		Auth:           handler.NewAuthHandler(authUC, d.Auth),
		User:           handler.NewUserHandler(accounts),
		Column:         handler.NewColumnHandler(columnUC),
		Friend:         handler.NewFriendHandler(friendUC),
		Job:            handler.NewJobHandler(jobUC),
		Review:         handler.NewReviewHandler(reviewUC),
		AuthMiddleware: middleware.NewAuthMiddleware(authUC),
		AccessGate:     middleware.NewAccessGate(access.NewGate(d.Store)),
	}
	if d.Hub != nil {
		handlers.WS = ws.NewHandler(d.Hub, d.Logger, middleware.UserID)
	}

	f := fiber.New(fiber.Config{})
	registerGlobalMiddleware(f, d.Logger)
	routes.NewRegistry(handler.NewHealthHandler(d.DBPinger, d.CachePinger), handlers).Register(f)

	return &App{Fiber: f}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	app := New(Deps{
		Auth:        cfg.Auth,
		Logger:      c.Logger,
		Store:       c.Store,
		Cache:       c.Cache,
		Hub:         c.Hub,
		Verifier:    c.Verifier,
		Tokens:      c.Tokens,
		Importer:    c.Importer,
		DBPinger:    c.Pinger,
		CachePinger: c.Cache,
	})
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
