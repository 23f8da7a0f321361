package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"matchplanner/internal/storage"
)

type EventUpdateProvider interface {
	GetEvent(ctx context.Context, id string) (*storage.Event, error)
	UpdateEvent(ctx context.Context, e *storage.Event) error
	GetEventPost(ctx context.Context, id string) (*storage.EventPost, error)
	UpdateEventPost(ctx context.Context, p *storage.EventPost) error
}

// UpdateEvent changes the event's own fields. Moving the event date does
// not reshuffle task dates; that is what template synchronization is for.
func UpdateEvent(log *slog.Logger, events EventUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.UpdateEvent"

		id := chi.URLParam(r, "id")

		var req struct {
			TeamID      *string       `json:"team_id"`
			Name        *string       `json:"name"`
			Description *string       `json:"description"`
			EventDate   *storage.Date `json:"event_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		event, err := events.GetEvent(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Event not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch event")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if req.TeamID != nil {
			event.TeamID = *req.TeamID
		}
		if req.Name != nil {
			event.Name = *req.Name
		}
		if req.Description != nil {
			event.Description = req.Description
		}
		if req.EventDate != nil {
			event.EventDate = *req.EventDate
		}

		if err := events.UpdateEvent(ctx, event); err != nil {
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to update event")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, event)
	}
}

func UpdateEventPost(log *slog.Logger, events EventUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.UpdateEventPost"

		id := chi.URLParam(r, "id")

		var req struct {
			Name                   *string `json:"name"`
			DefaultUserID          *string `json:"default_user_id"`
			DefaultResponsibleName *string `json:"default_responsible_name"`
			Position               *int    `json:"position"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		post, err := events.GetEventPost(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Event post not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch event post")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if req.Name != nil {
			post.Name = *req.Name
		}
		if req.DefaultUserID != nil {
			post.DefaultUserID = req.DefaultUserID
		}
		if req.DefaultResponsibleName != nil {
			post.DefaultResponsibleName = req.DefaultResponsibleName
		}
		if req.Position != nil {
			post.Position = *req.Position
		}

		if err := events.UpdateEventPost(ctx, post); err != nil {
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to update event post")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, post)
	}
}
