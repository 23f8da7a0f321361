package sync

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"matchplanner/internal/service/planner"
	"matchplanner/internal/storage"
)

type Synchronizer interface {
	Synchronize(ctx context.Context, templateID string, today time.Time) (*planner.SyncReport, error)
}

// SyncTemplate reconciles the template's future events with its current
// state. Explicit, opt-in; never triggered by a template edit itself.
func SyncTemplate(log *slog.Logger, service Synchronizer, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.SyncTemplate"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		report, err := service.Synchronize(ctx, id, now())
		if err != nil {
			if errors.Is(err, storage.ErrLinkingUnsupported) {
				log.With(slog.String("op", op), slog.String("id", id)).Warn("Synchronization refused: schema lacks link columns")
				http.Error(w, storage.ErrLinkingUnsupported.Error(), http.StatusConflict)
				return
			}
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Template not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Synchronization failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Template synchronized",
			slog.String("template_id", id),
			slog.Int("events", report.EventsScanned),
		)

		render.JSON(w, r, report)
	}
}
