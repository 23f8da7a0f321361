package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"matchplanner/internal/storage"
)

type TemplateProvider interface {
	GetTemplates(ctx context.Context, teamID string) ([]*storage.EventTemplate, error)
	GetTemplateDetails(ctx context.Context, id string) (*storage.TemplateDetails, error)
}

func GetTemplates(log *slog.Logger, templates TemplateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetTemplates"

		teamID := r.URL.Query().Get("team_id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := templates.GetTemplates(ctx, teamID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch templates")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if result == nil {
			result = []*storage.EventTemplate{}
		}

		render.JSON(w, r, result)
	}
}

func GetTemplateDetails(log *slog.Logger, templates TemplateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetTemplateDetails"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		details, err := templates.GetTemplateDetails(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Template not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch template")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if details.Posts == nil {
			details.Posts = []*storage.TemplatePostDetails{}
		}

		render.JSON(w, r, details)
	}
}
