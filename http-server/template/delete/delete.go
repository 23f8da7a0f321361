package delete

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type TemplateDeleteProvider interface {
	DeleteTemplate(ctx context.Context, id string) error
	DeleteTemplatePost(ctx context.Context, id string) error
	DeleteTemplateTask(ctx context.Context, id string) error
}

func DeleteTemplate(log *slog.Logger, templates TemplateDeleteProvider) http.HandlerFunc {
	return deleteByID(log, "handlers.template.DeleteTemplate", templates.DeleteTemplate)
}

// DeleteTemplatePost cascades to the post's tasks in the store.
func DeleteTemplatePost(log *slog.Logger, templates TemplateDeleteProvider) http.HandlerFunc {
	return deleteByID(log, "handlers.template.DeleteTemplatePost", templates.DeleteTemplatePost)
}

func DeleteTemplateTask(log *slog.Logger, templates TemplateDeleteProvider) http.HandlerFunc {
	return deleteByID(log, "handlers.template.DeleteTemplateTask", templates.DeleteTemplateTask)
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
