package main

import (
	"net/http"

	"github.com/AdamBeresnev/racquet-draw/internal/httputil"
	"github.com/AdamBeresnev/racquet-draw/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics(app.metrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", app.metrics.Handler())

	// The event stream hijacks the connection, so it stays outside the session wrapper.
	r.Get("/ws/tournaments/{id}", app.tournamentEvents)

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   app.cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Use(app.sessions.LoadAndSave)

		r.Get("/tournaments/{id}", app.tournamentPage)
		r.Get("/rankings", app.rankingsPage)

		r.Route("/api", func(r chi.Router) {
			r.Post("/session", app.login)
			r.Delete("/session", app.logout)

			r.Get("/tournaments", app.listTournaments)
			r.Get("/tournaments/{id}", app.getTournament)
			r.Get("/tournaments/{id}/bracket", app.getBracket)
			r.Get("/tournaments/{id}/categories", app.listCategories)
			r.Get("/tournaments/{id}/timeslots", app.listTimeSlots)
			r.Get("/matches/{id}", app.getMatch)
			r.Get("/rankings", app.listRankings)
			r.Get("/players/{id}/points", app.pointsHistory)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireOrganizer(app.sessions))

				r.Post("/tournaments", app.createTournament)
				r.Post("/tournaments/{id}/publish", app.publishTournament)
				r.Post("/tournaments/{id}/categories", app.addCategory)
				r.Post("/tournaments/{id}/courts", app.addCourt)
				r.Post("/tournaments/{id}/timeslots", app.addTimeSlot)
				r.Post("/tournaments/{id}/draw", app.generateDraw)
				r.Post("/tournaments/{id}/schedule", app.schedule)
				r.Post("/tournaments/{id}/ranking", app.recomputeRanking)
				r.Post("/categories/{id}/pairs", app.registerPairs)
				r.Delete("/pairs/{id}", app.withdrawPair)
				r.Post("/matches/{id}/start", app.startMatch)
				r.Post("/matches/{id}/result", app.submitResult)
			})
		})
	})

	return r
}

// idParam parses the {id} URL parameter, answering 400 when it is not a UUID.
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "Invalid id", err)
		return uuid.Nil, false
	}
	return id, true
}
