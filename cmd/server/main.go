package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Clark-Hu/movie-catalog/internal/catalog"
	"github.com/Clark-Hu/movie-catalog/internal/config"
	httpserver "github.com/Clark-Hu/movie-catalog/internal/http"
	"github.com/Clark-Hu/movie-catalog/internal/logging"
	"github.com/Clark-Hu/movie-catalog/internal/metrics"
	"github.com/Clark-Hu/movie-catalog/internal/omdb"
	"github.com/Clark-Hu/movie-catalog/internal/repository"
	"github.com/Clark-Hu/movie-catalog/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.MoviesDBPath, cfg.RatingsDBPath, store.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxIdleTime: time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		ConnTimeout:     time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		Logger:          logging.Component(logger, "store"),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("open stores")
	}
	defer st.Close()

	if err := metrics.RegisterDBStats(prometheus.DefaultRegisterer, map[string]*sql.DB{
		"movies":  st.Movies(),
		"ratings": st.Ratings(),
	}); err != nil {
		logger.Fatal().Err(err).Msg("register pool metrics")
	}

	session := st.NewSession()
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn().Err(err).Msg("close store session")
		}
	}()

	omdbClient, err := omdb.NewHTTPClient(
		cfg.OMDbBaseURL,
		cfg.OMDbAPIKey,
		time.Duration(cfg.OMDbTimeoutSecs)*time.Second,
		logging.Component(logger, "omdb"),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("init omdb client")
	}

	repo := repository.New(st)
	svc := catalog.New(repo, session, omdbClient, logging.Component(logger, "catalog"))
	server := httpserver.New(cfg, st, svc, logging.Component(logger, "http"))

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("server error")
	}
	logger.Info().Msg("server stopped")
}
