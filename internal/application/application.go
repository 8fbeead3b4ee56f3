package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/nulladdict/fiit-projects-OwnChGK/internal/config"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/database"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/handler"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/repository"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/router"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/service"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/token"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API is the HTTP + WebSocket API application.
type API struct {
	cfg      *config.Config
	srv      *http.Server
	db       *gorm.DB
	registry *service.Registry
	svc      *service.GameService
}

// NewAPI creates the API application: validates config, runs migrations, opens DB, builds router.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	logger, _ := zap.NewProduction()
	if cfg.AppEnv == "development" {
		logger, _ = zap.NewDevelopment()
	}

	games := repository.NewBigGameRepository(db)
	users := repository.NewUserRepository(db)
	teams := repository.NewTeamRepository(db)
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	hub := service.NewGameHub(cfg.WSReadBufferSize, cfg.WSWriteBufferSize, cfg.WSMaxMessageSize, logger)
	registry := service.NewRegistry(cfg.GameSessionTTL, logger)
	svc := service.NewGameService(games, registry, hub, cfg.QuestionTimeSec, logger)
	// Session eviction (finish, TTL or shutdown) must also drop the timer and
	// tell connected peers the game is over.
	registry.OnRemove(svc.ReleaseSession)

	gameHandler := handler.NewGameHandler(games, svc)
	userHandler := handler.NewUserHandler(users, teams, tokens)
	teamHandler := handler.NewTeamHandler(teams)
	gameWS := handler.NewGameWSHandler(hub, svc, tokens, logger)
	health := handler.NewHealthHandler()

	r := router.New(gameHandler, userHandler, teamHandler, gameWS, health, tokens)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, srv: srv, db: db, registry: registry, svc: svc}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled; then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	addr := a.srv.Addr
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", addr)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Users:         %s/users", base)
	log.Printf("  Teams:         %s/teams", base)
	log.Printf("  Games:         %s/games", base)
	log.Printf("  WebSocket:     ws://%s:%s/ws/game/:game_id", host, a.cfg.HTTPPort)

	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	a.svc.Shutdown()
	a.registry.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
