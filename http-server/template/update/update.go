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

	"matchplanner/internal/service/schedule"
	"matchplanner/internal/storage"
)

type TemplateUpdateProvider interface {
	GetTemplate(ctx context.Context, id string) (*storage.EventTemplate, error)
	UpdateTemplate(ctx context.Context, t *storage.EventTemplate) error
	UpdateTemplatePost(ctx context.Context, p *storage.TemplatePost) error
	GetTemplateTask(ctx context.Context, id string) (*storage.TemplateTask, error)
	UpdateTemplateTask(ctx context.Context, t *storage.TemplateTask) error
}

func UpdateTemplate(log *slog.Logger, templates TemplateUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.UpdateTemplate"

		id := chi.URLParam(r, "id")

		var req struct {
			TeamID      *string `json:"team_id"`
			Name        *string `json:"name"`
			Description *string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		template, err := templates.GetTemplate(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Template not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch template")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if req.TeamID != nil {
			template.TeamID = req.TeamID
		}
		if req.Name != nil {
			template.Name = *req.Name
		}
		if req.Description != nil {
			template.Description = req.Description
		}

		if err := templates.UpdateTemplate(ctx, template); err != nil {
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to update template")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, template)
	}
}

func UpdateTemplatePost(log *slog.Logger, templates TemplateUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.UpdateTemplatePost"

		id := chi.URLParam(r, "id")

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

		post := &storage.TemplatePost{
			ID:                     id,
			Name:                   req.Name,
			DefaultUserID:          req.DefaultUserID,
			DefaultResponsibleName: req.DefaultResponsibleName,
			Position:               req.Position,
		}
		if err := templates.UpdateTemplatePost(ctx, post); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Template post not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to update template post")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, post)
	}
}

// UpdateTemplateTask validates the offset pair on every write, not just
// creation.
func UpdateTemplateTask(log *slog.Logger, templates TemplateUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.UpdateTemplateTask"

		id := chi.URLParam(r, "id")

		var req struct {
			Name                   *string `json:"name"`
			CriticalOffsetDays     *int    `json:"default_due_offset_days"`
			AlertOffsetDays        *int    `json:"default_alert_offset_days"`
			ClearAlertOffset       bool    `json:"clear_alert_offset"`
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

		task, err := templates.GetTemplateTask(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Template task not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch template task")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if req.Name != nil {
			task.Name = *req.Name
		}
		if req.CriticalOffsetDays != nil {
			task.CriticalOffsetDays = *req.CriticalOffsetDays
		}
		if req.ClearAlertOffset {
			task.AlertOffsetDays = nil
		} else if req.AlertOffsetDays != nil {
			task.AlertOffsetDays = req.AlertOffsetDays
		}
		if req.DefaultUserID != nil {
			task.DefaultUserID = req.DefaultUserID
		}
		if req.DefaultResponsibleName != nil {
			task.DefaultResponsibleName = req.DefaultResponsibleName
		}
		if req.Position != nil {
			task.Position = *req.Position
		}

		if err := schedule.ValidateOffsets(task.CriticalOffsetDays, task.AlertOffsetDays); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := templates.UpdateTemplateTask(ctx, task); err != nil {
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to update template task")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, task)
	}
}
