package delete

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type EventDeleteProvider interface {
	DeleteEvent(ctx context.Context, id string) error
	DeleteEventPost(ctx context.Context, id string) error
}

// DeleteEvent removes the event; posts, tasks, comments and attachment rows
// cascade in the schema. Files already on Drive stay there.
func DeleteEvent(log *slog.Logger, events EventDeleteProvider) http.HandlerFunc {
	return deleteByID(log, "handlers.event.DeleteEvent", events.DeleteEvent)
}

func DeleteEventPost(log *slog.Logger, events EventDeleteProvider) http.HandlerFunc {
	return deleteByID(log, "handlers.event.DeleteEventPost", events.DeleteEventPost)
}

func deleteByID(log *slog.Logger, op string, del func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := del(ctx, id); err != nil {
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to delete")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}
