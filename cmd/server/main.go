package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	httpadapter "vantage/internal/adapters/http"
	"vantage/internal/adapters/openai"
	pg "vantage/internal/adapters/postgres"
	"vantage/internal/config"
	"vantage/internal/ports"
	"vantage/internal/services/profile"
	"vantage/internal/services/refresh"
	"vantage/internal/services/signals"
	refreshworker "vantage/internal/workers/refreshrunner"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Warnf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for Postgres adapters")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	// Wire repositories to services (ports)
	var _ ports.CompanyRepository = db
	var _ ports.SnapshotRepository = db
	var _ ports.SignalRepository = db
	var _ ports.JobRepository = db

	ai := openai.NewClient(openai.Config{
		APIKey:      cfg.OpenAIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		SearchModel: cfg.OpenAISearchModel,
		Timeout:     cfg.OpenAITimeout,
	}, log)
	if !ai.Configured() {
		log.Warn("OPENAI_API_KEY not set, running with deterministic profiles only")
	}

	builder := profile.New(db, ai, cfg.SnapshotReuseTTL, log)
	generator := signals.NewGenerator(db, ai, log)
	feed := signals.NewFeed(db)
	refresher := refresh.New(db, db, builder, generator, feed, log)

	srv := httpadapter.New(refresher, feed, db, log)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	// Optional background refresh workers
	if cfg.RefreshWorkers > 0 {
		go refreshworker.Run(ctx, db, refresher, cfg.RefreshWorkers, 500*time.Millisecond, log)
		log.Infof("refresh workers started: %d", cfg.RefreshWorkers)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	log.Infof("listening on %s", cfg.ListenAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Infof("shutting down on %s", sig)
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		log.Fatal(fmt.Errorf("server error: %w", err))
	}
}
