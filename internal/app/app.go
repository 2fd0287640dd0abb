package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/RSC-NA/rsc-core/external/ballchasing"
	"github.com/RSC-NA/rsc-core/external/rscapi"
	"github.com/RSC-NA/rsc-core/internal/config"
	"github.com/RSC-NA/rsc-core/internal/domain/checkin"
	"github.com/RSC-NA/rsc-core/internal/domain/trade"
	"github.com/RSC-NA/rsc-core/internal/infrastructure/replayfile"
	"github.com/RSC-NA/rsc-core/internal/infrastructure/repository/memory"
	"github.com/RSC-NA/rsc-core/internal/infrastructure/repository/postgres"
	"github.com/RSC-NA/rsc-core/internal/interfaces/httpapi"
	"github.com/RSC-NA/rsc-core/internal/platform/cache"
	"github.com/RSC-NA/rsc-core/internal/platform/logging"
	"github.com/RSC-NA/rsc-core/internal/platform/resilience"
	"github.com/RSC-NA/rsc-core/internal/usecase"
)

// App bundles the HTTP server with the daily check-in sweeper and the
// resources both share.
type App struct {
	Server  *http.Server
	Sweeper *usecase.Sweeper

	db *sqlx.DB
}

// New wires the whole service. With an empty DB_URL the durable check-in
// and substitute records fall back to in-memory repositories, which is
// only suitable for local development.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	appLogger := logging.Default()

	var db *sqlx.DB
	checkins, substitutes, err := buildCheckinRepositories(cfg, &db)
	if err != nil {
		return nil, err
	}

	cacheTTL := cfg.CacheTTL
	if !cfg.CacheEnabled {
		cacheTTL = -1
	}
	store := cache.NewStore(cacheTTL)

	leagueClient := rscapi.NewClient(rscapi.ClientConfig{
		BaseURL:    cfg.LeagueAPIBaseURL,
		APIKey:     cfg.LeagueAPIKey,
		LeagueID:   cfg.LeagueID,
		Timeout:    cfg.LeagueAPITimeout,
		MaxRetries: cfg.LeagueAPIMaxRetries,
		Logger:     appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.LeagueCircuitEnabled,
			FailureThreshold: cfg.LeagueCircuitFailureCount,
			OpenTimeout:      cfg.LeagueCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.LeagueCircuitHalfOpenMaxReq,
		},
	})
	roster := rscapi.NewLeagueRoster(leagueClient, store)

	replayHost := ballchasing.NewClient(ballchasing.ClientConfig{
		BaseURL:    cfg.BallchasingBaseURL,
		Token:      cfg.BallchasingToken,
		Timeout:    cfg.BallchasingTimeout,
		MaxRetries: cfg.BallchasingMaxRetries,
		Logger:     appLogger,
	})
	groupResolver := ballchasing.NewGroupResolver(replayHost, cfg.BallchasingTopGroupID)

	transactionSvc := usecase.NewTransactionService(trade.NewParser(roster), leagueClient)
	checkinSvc := usecase.NewCheckinService(checkins, substitutes)
	franchiseSvc := usecase.NewFranchiseService(leagueClient, store)
	trackerSvc := usecase.NewTrackerService(leagueClient)
	replaySvc := usecase.NewReplayService(replayfile.NewParser(), replayHost, groupResolver, appLogger)
	replaySvc.SetParseWorkers(cfg.ReplayParseWorkers)

	sweeper, err := usecase.NewSweeper(checkinSvc, cfg.CheckinSweepTime, appLogger)
	if err != nil {
		closeDB(db, logger)
		return nil, fmt.Errorf("build sweeper: %w", err)
	}

	handler := httpapi.NewHandler(
		transactionSvc,
		checkinSvc,
		replaySvc,
		franchiseSvc,
		trackerSvc,
		leagueClient,
		appLogger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		closeDB(db, logger)
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:  server,
		Sweeper: sweeper,
		db:      db,
	}, nil
}

// Close releases resources held by the app, currently only the DB handle.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func buildCheckinRepositories(cfg config.Config, db **sqlx.DB) (checkin.Repository, checkin.SubstituteRepository, error) {
	if cfg.DBURL == "" {
		return memory.NewCheckInRepository(), memory.NewSubstituteRepository(), nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	opened, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	*db = opened
	return postgres.NewCheckinRepository(opened), postgres.NewSubstituteRepository(opened), nil
}

func closeDB(db *sqlx.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("close database", "error", err)
	}
}
