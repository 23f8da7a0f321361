package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"matchplanner/internal/middleware/auth"
	"matchplanner/internal/service/planner"
	"matchplanner/internal/storage"
)

type EventCreateProvider interface {
	CreateEvent(ctx context.Context, e *storage.Event) error
	CreateEventPost(ctx context.Context, p *storage.EventPost) error
}

type Materializer interface {
	Materialize(ctx context.Context, templateID string, shell planner.EventShell) (*storage.Event, error)
}

// SaveEvent creates a bare event with no posts. Events spawned from a
// template go through SaveEventFromTemplate instead.
func SaveEvent(log *slog.Logger, events EventCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.SaveEvent"

		var req struct {
			TeamID      string       `json:"team_id"`
			Name        string       `json:"name"`
			Description *string      `json:"description"`
			EventDate   storage.Date `json:"event_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.TeamID == "" || req.Name == "" || req.EventDate.IsZero() {
			http.Error(w, "team_id, name and event_date are required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		event := &storage.Event{
			TeamID:      req.TeamID,
			Name:        req.Name,
			Description: req.Description,
			EventDate:   req.EventDate,
		}
		if id := auth.FromContext(r.Context()); id != nil {
			event.CreatedBy = &id.UserID
		}

		if err := events.CreateEvent(ctx, event); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to create event")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, event)
	}
}

// SaveEventFromTemplate materializes the template at {id} into a new event:
// posts, tasks and their due/alert dates are derived in one shot.
func SaveEventFromTemplate(log *slog.Logger, service Materializer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.SaveEventFromTemplate"

		templateID := chi.URLParam(r, "id")

		var req struct {
			TeamID      string       `json:"team_id"`
			Name        string       `json:"name"`
			Description *string      `json:"description"`
			EventDate   storage.Date `json:"event_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" || req.EventDate.IsZero() {
			http.Error(w, "name and event_date are required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		shell := planner.EventShell{
			TeamID:      req.TeamID,
			Name:        req.Name,
			Description: req.Description,
			EventDate:   req.EventDate,
		}
		if id := auth.FromContext(r.Context()); id != nil {
			shell.CreatedBy = &id.UserID
		}

		event, err := service.Materialize(ctx, templateID, shell)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Template not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("template_id", templateID), slog.String("error", err.Error())).Error("Failed to materialize event")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Event materialized from template",
			slog.String("template_id", templateID),
			slog.String("event_id", event.ID),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, event)
	}
}

// SaveEventPost adds a post to the event at {id}. Manually added posts carry
// no template back-reference, so synchronization leaves them alone.
func SaveEventPost(log *slog.Logger, events EventCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.SaveEventPost"

		eventID := chi.URLParam(r, "id")

		var req struct {
			Name                   string  `json:"name"`
			DefaultUserID          *string `json:"default_user_id"`
			DefaultResponsibleName *string `json:"default_responsible_name"`
			Position               int     `json:"position"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		post := &storage.EventPost{
			EventID:                eventID,
			Name:                   req.Name,
			DefaultUserID:          req.DefaultUserID,
			DefaultResponsibleName: req.DefaultResponsibleName,
			Position:               req.Position,
		}
		if err := events.CreateEventPost(ctx, post); err != nil {
			log.With(slog.String("op", op), slog.String("event_id", eventID), slog.String("error", err.Error())).Error("Failed to create event post")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, post)
	}
}
