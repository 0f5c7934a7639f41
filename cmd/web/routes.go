package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/club-brackets/internal/bracket"
	"github.com/AdamBeresnev/club-brackets/internal/config"
	"github.com/AdamBeresnev/club-brackets/internal/httputil"
	"github.com/AdamBeresnev/club-brackets/internal/middleware"
	"github.com/AdamBeresnev/club-brackets/internal/progression"
	"github.com/AdamBeresnev/club-brackets/internal/service"
	"github.com/AdamBeresnev/club-brackets/internal/store"
	"github.com/AdamBeresnev/club-brackets/views"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	maxEntryNameLength  = 50
	maxRequestBodyBytes = 64 << 10
)

type createTournamentRequest struct {
	Name   string         `json:"name"`
	Format bracket.Format `json:"format"`
	// Either a list of names or one name per line
	Entries     []string `json:"entries"`
	EntriesText string   `json:"entriesText"`
}

type reportResultRequest struct {
	WinnerID uuid.UUID `json:"winnerId"`
}

// writeServiceError maps domain errors to status codes.
func writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.NotFound(w, msg+": not found", err)
	case errors.Is(err, service.ErrInvalidTournament),
		errors.Is(err, service.ErrWrongFormat),
		errors.Is(err, progression.ErrWinnerNotInMatch):
		httputil.BadRequest(w, err.Error(), err)
	case errors.Is(err, progression.ErrMatchNotReady),
		errors.Is(err, progression.ErrMatchAlreadyDecided):
		httputil.Conflict(w, err.Error(), err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("Invalid %s", name), err)
		return 0, false
	}
	return v, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("Invalid %s", name), err)
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.RequestTooLarge(w, fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit), err)
			return false
		}
		httputil.BadRequest(w, "Invalid request body", err)
		return false
	}
	return true
}

func decodeResult(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var req reportResultRequest
	if !decodeJSON(w, r, &req) {
		return uuid.Nil, false
	}
	if req.WinnerID == uuid.Nil {
		httputil.BadRequest(w, "winnerId is required", nil)
		return uuid.Nil, false
	}
	return req.WinnerID, true
}

func newRouter(cfg *config.Config, database *sqlx.DB, limiter *middleware.IPRateLimiter) http.Handler {
	tournamentStore := store.NewTournamentStore(database)
	tournamentService := service.NewTournamentService(database, tournamentStore)
	matchService := service.NewMatchService(database, tournamentStore)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if limiter != nil {
		r.Use(middleware.RateLimit(limiter))
	}
	r.Use(middleware.LimitBody(maxRequestBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			httputil.InternalServerError(w, "Database unreachable", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/preview", func(r chi.Router) {
		r.Get("/seed-order/{size}", func(w http.ResponseWriter, r *http.Request) {
			size, ok := intParam(w, r, "size")
			if !ok {
				return
			}
			preview, err := service.PreviewSeedOrder(size)
			if err != nil {
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, preview)
		})

		r.Get("/round-robin/{n}", func(w http.ResponseWriter, r *http.Request) {
			n, ok := intParam(w, r, "n")
			if !ok {
				return
			}
			preview, err := service.PreviewRoundRobin(n)
			if err != nil {
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, preview)
		})

		r.Get("/double-elimination/{n}", func(w http.ResponseWriter, r *http.Request) {
			n, ok := intParam(w, r, "n")
			if !ok {
				return
			}
			preview, err := service.PreviewDoubleElimination(n)
			if err != nil {
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, preview)
		})

		r.Get("/double-elimination/{n}/byes", func(w http.ResponseWriter, r *http.Request) {
			n, ok := intParam(w, r, "n")
			if !ok {
				return
			}
			sim, err := service.PreviewByes(n)
			if err != nil {
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, sim)
		})
	})

	r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var req createTournamentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		entries := service.ParseEntryNames(req.EntriesText)
		for _, name := range req.Entries {
			entries = append(entries, service.EntryInput{Name: name})
		}
		for _, e := range entries {
			if len(e.Name) > maxEntryNameLength {
				httputil.BadRequest(w, fmt.Sprintf("Entry name '%s' exceeds %d characters", e.Name, maxEntryNameLength), nil)
				return
			}
		}

		id, err := tournamentService.CreateTournament(r.Context(), req.Name, req.Format, entries)
		if err != nil {
			writeServiceError(w, "Failed to create tournament", err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/tournaments/%s", id))
		httputil.WriteJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
	})

	r.Get("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := tournamentService.GetTournamentsByStatus(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			writeServiceError(w, "Failed to get tournaments", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, tournaments)
	})

	r.Get("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}

		data, err := tournamentService.GetTournamentData(r.Context(), id.String())
		if err != nil {
			writeServiceError(w, "Failed to get tournament", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, data)
	})

	r.Get("/tournaments/{id}/bracket", func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}

		data, err := tournamentService.GetTournamentData(r.Context(), id.String())
		if err != nil {
			writeServiceError(w, "Failed to get tournament", err)
			return
		}
		if data.Tournament.Format != bracket.DoubleElimination {
			writeServiceError(w, "Failed to get bracket", service.ErrWrongFormat)
			return
		}

		bracketData, err := views.PrepareBracketData(data.Tournament.BracketSize, data.Entries, data.Matches)
		if err != nil {
			httputil.InternalServerError(w, "Failed to prepare bracket", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, bracketData)
	})

	r.Post("/matches/{id}/result", func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}
		winnerID, ok := decodeResult(w, r)
		if !ok {
			return
		}

		result, err := matchService.ReportResult(r.Context(), matchID, winnerID)
		if err != nil {
			writeServiceError(w, "Failed to report result", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	})

	r.Post("/pairings/{id}/result", func(w http.ResponseWriter, r *http.Request) {
		pairingID, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}
		winnerID, ok := decodeResult(w, r)
		if !ok {
			return
		}

		pairing, err := matchService.ReportPairingResult(r.Context(), pairingID, winnerID)
		if err != nil {
			writeServiceError(w, "Failed to report result", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, pairing)
	})

	return r
}
