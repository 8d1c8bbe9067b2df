package main

import (
	"log/slog"

	"github.com/AdamBeresnev/racquet-draw/internal/archive"
	"github.com/AdamBeresnev/racquet-draw/internal/config"
	"github.com/AdamBeresnev/racquet-draw/internal/events"
	"github.com/AdamBeresnev/racquet-draw/internal/lock"
	"github.com/AdamBeresnev/racquet-draw/internal/metrics"
	"github.com/AdamBeresnev/racquet-draw/internal/service"
	"github.com/AdamBeresnev/racquet-draw/internal/store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

// application holds the wired services shared by every handler.
type application struct {
	cfg      config.Config
	logger   *slog.Logger
	sessions *scs.SessionManager
	metrics  *metrics.Recorder
	hub      *events.Hub

	tournaments *service.TournamentService
	draws       *service.DrawService
	matches     *service.MatchService
	rankings    *service.RankingService
}

// newApplication wires stores and services. A nil uploader disables archive export.
func newApplication(cfg config.Config, database *sqlx.DB, sessions *scs.SessionManager, logger *slog.Logger, locker lock.Locker, uploader archive.Uploader) *application {
	recorder := metrics.NewRecorder()
	hub := events.NewHub(logger, cfg.CORSOrigins)
	obs := service.Observers{Logger: logger, Metrics: recorder, Events: hub}

	tournamentStore := store.NewTournamentStore()
	matchStore := store.NewMatchStore()
	rankingStore := store.NewRankingStore()

	rankings := service.NewRankingService(database, tournamentStore, matchStore, rankingStore, obs)
	handlers := []service.CompletionHandler{rankings}
	if uploader != nil {
		handlers = append(handlers, service.NewArchiveService(database, tournamentStore, matchStore, rankingStore, uploader, obs))
	}

	return &application{
		cfg:         cfg,
		logger:      logger,
		sessions:    sessions,
		metrics:     recorder,
		hub:         hub,
		tournaments: service.NewTournamentService(database, tournamentStore, obs),
		draws:       service.NewDrawService(database, tournamentStore, matchStore, locker, cfg.MatchDuration, obs),
		matches:     service.NewMatchService(database, tournamentStore, matchStore, obs, handlers...),
		rankings:    rankings,
	}
}
