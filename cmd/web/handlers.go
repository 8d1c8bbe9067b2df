package main

import (
	"io"
	"mime"
	"net/http"

	"github.com/AdamBeresnev/racquet-draw/internal/httputil"
	"github.com/AdamBeresnev/racquet-draw/internal/middleware"
	"github.com/AdamBeresnev/racquet-draw/internal/service"
	"github.com/AdamBeresnev/racquet-draw/views"
)

type loginRequest struct {
	Token string `json:"token"`
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, "Invalid request body", err)
		return
	}
	if !middleware.GrantOrganizer(r.Context(), app.sessions, app.cfg.OrganizerToken, req.Token) {
		httputil.Unauthorized(w, "invalid organizer token")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"role": middleware.RoleOrganizer})
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to end session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (app *application) createTournament(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, "Invalid request body", err)
		return
	}
	tournament, err := app.tournaments.CreateTournament(r.Context(), req.Name)
	if err != nil {
		httputil.ServiceError(w, "Failed to create tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tournament)
}

func (app *application) listTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := app.tournaments.ListTournaments(r.Context())
	if err != nil {
		httputil.ServiceError(w, "Failed to list tournaments", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournaments)
}

func (app *application) getTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	tournament, err := app.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to get tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (app *application) publishTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	tournament, err := app.tournaments.Publish(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to publish tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (app *application) addCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, "Invalid request body", err)
		return
	}
	category, err := app.tournaments.AddCategory(r.Context(), id, req.Name)
	if err != nil {
		httputil.ServiceError(w, "Failed to add category", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, category)
}

func (app *application) listCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	categories, err := app.tournaments.ListCategories(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to list categories", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, categories)
}

type pairsRequest struct {
	Pairs []service.PairInput `json:"pairs"`
}

// registerPairs accepts a JSON body or plain text with one "playerA,playerB" line per pair.
func (app *application) registerPairs(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var inputs []service.PairInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		if inputs, err = service.ParsePairs(string(body)); err != nil {
			httputil.ServiceError(w, "Failed to parse pairs", err)
			return
		}
	} else {
		var req pairsRequest
		if err := httputil.DecodeJSON(w, r, &req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		inputs = req.Pairs
	}

	pairs, err := app.tournaments.RegisterPairs(r.Context(), id, inputs)
	if err != nil {
		httputil.ServiceError(w, "Failed to register pairs", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, pairs)
}

func (app *application) withdrawPair(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := app.tournaments.WithdrawPair(r.Context(), id); err != nil {
		httputil.ServiceError(w, "Failed to withdraw pair", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) addCourt(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, "Invalid request body", err)
		return
	}
	court, err := app.tournaments.AddCourt(r.Context(), id, req.Name)
	if err != nil {
		httputil.ServiceError(w, "Failed to add court", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, court)
}

type timeSlotRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (app *application) addTimeSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req timeSlotRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, "Invalid request body", err)
		return
	}
	slot, err := app.tournaments.AddTimeSlot(r.Context(), id, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		httputil.ServiceError(w, "Failed to add time slot", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, slot)
}

func (app *application) listTimeSlots(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	slots, err := app.tournaments.ListTimeSlots(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to list time slots", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, slots)
}

func (app *application) generateDraw(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	brackets, err := app.draws.GenerateDraw(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to generate draw", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, brackets)
}

func (app *application) schedule(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	scheduled, err := app.draws.Schedule(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to schedule matches", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"scheduled": scheduled})
}

func (app *application) getBracket(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	view, err := app.draws.GetBracket(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to load bracket", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (app *application) getMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	match, err := app.matches.GetMatch(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to get match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, match)
}

func (app *application) startMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	match, err := app.matches.StartMatch(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to start match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, match)
}

func (app *application) submitResult(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var payload service.ResultPayload
	if err := httputil.DecodeJSON(w, r, &payload); err != nil {
		httputil.BadRequest(w, "Invalid request body", err)
		return
	}
	match, err := app.matches.SubmitResult(r.Context(), id, payload)
	if err != nil {
		httputil.ServiceError(w, "Failed to submit result", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, match)
}

func (app *application) recomputeRanking(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := app.rankings.RecomputeTournament(r.Context(), id); err != nil {
		httputil.ServiceError(w, "Failed to recompute ranking", err)
		return
	}
	app.listRankings(w, r)
}

func (app *application) listRankings(w http.ResponseWriter, r *http.Request) {
	entries, err := app.rankings.Rankings(r.Context())
	if err != nil {
		httputil.ServiceError(w, "Failed to list rankings", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (app *application) pointsHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	records, err := app.rankings.PointsHistory(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to get points history", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, records)
}

func (app *application) tournamentPage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	view, err := app.draws.GetBracket(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to load bracket", err)
		return
	}
	if err := views.Render(w, r, views.TournamentView(*view)); err != nil {
		app.logger.Error("failed to render tournament page", "error", err)
	}
}

func (app *application) rankingsPage(w http.ResponseWriter, r *http.Request) {
	entries, err := app.rankings.Rankings(r.Context())
	if err != nil {
		httputil.ServiceError(w, "Failed to list rankings", err)
		return
	}
	if err := views.Render(w, r, views.RankingsView(entries)); err != nil {
		app.logger.Error("failed to render rankings page", "error", err)
	}
}

func (app *application) tournamentEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, err := app.tournaments.GetTournament(r.Context(), id); err != nil {
		httputil.ServiceError(w, "Failed to get tournament", err)
		return
	}
	app.hub.ServeWS(w, r, id)
}
