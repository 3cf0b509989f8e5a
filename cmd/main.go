package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caterer/internal/agents"
	"caterer/internal/api"
	"caterer/internal/config"
	"caterer/internal/database"
	"caterer/internal/feed"
	"caterer/internal/ledger"
	"caterer/internal/logging"
	"caterer/internal/menus"
	"caterer/internal/models/providers"
	"caterer/internal/monitoring"
	"caterer/internal/reporting"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const devJWTSecret = "development-only-secret"

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	issueToken = flag.String("issue-token", "", "Print a bearer token for the given owner id and exit")
	tokenTTL   = flag.Duration("token-ttl", 24*time.Hour, "Lifetime of tokens printed by -issue-token")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)
	defer logger.Sync()

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		logger.Warn("no jwt secret configured, using the development secret")
		secret = devJWTSecret
	}

	if *issueToken != "" {
		token, err := api.IssueToken([]byte(secret), *issueToken, *tokenTTL)
		if err != nil {
			logger.Fatal("failed to issue token", zap.Error(err))
		}
		fmt.Println(token)
		return
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, secret, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, secret string, logger *zap.Logger) error {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database ready", zap.String("driver", cfg.Database.Driver))

	provider, err := providers.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize llm provider: %w", err)
	}

	metrics := monitoring.New()
	hub := feed.NewHub(logger)
	defer hub.Close()

	store := menus.NewStore(db, logger)
	catering := api.NewCateringAPI(api.Services{
		Planner: agents.NewMenuPlanner(provider, logger, agents.WithRecorder(metrics)),
		Menus:   store,
		Ledger:  ledger.New(db, logger, ledger.WithRecorder(metrics), ledger.WithPublisher(hub)),
		Reports: reporting.NewService(store),
		Feed:    hub,
	}, secret, logger, metrics.GinMiddleware())

	servers := []*http.Server{{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: catering.Router,
	}}
	if cfg.Metrics.Enabled {
		servers = append(servers, &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: metrics.Router(cfg.Metrics.Path),
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info("starting server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		logger.Info("shutting down servers", zap.String("signal", sig.String()))
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}
	return runErr
}
