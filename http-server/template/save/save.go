package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"matchplanner/internal/middleware/auth"
	"matchplanner/internal/service/schedule"
	"matchplanner/internal/storage"
)

type TemplateCreateProvider interface {
	CreateTemplate(ctx context.Context, t *storage.EventTemplate) error
	CreateTemplatePost(ctx context.Context, p *storage.TemplatePost) error
	CreateTemplateTask(ctx context.Context, t *storage.TemplateTask) error
}

func SaveTemplate(log *slog.Logger, templates TemplateCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.SaveTemplate"

		var req struct {
			TeamID      *string `json:"team_id"`
			Name        string  `json:"name"`
			Description *string `json:"description"`
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

		template := &storage.EventTemplate{
			TeamID:      req.TeamID,
			Name:        req.Name,
			Description: req.Description,
		}
		if id := auth.FromContext(r.Context()); id != nil {
			template.CreatedBy = &id.UserID
		}

		if err := templates.CreateTemplate(ctx, template); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to create template")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, template)
	}
}

func SaveTemplatePost(log *slog.Logger, templates TemplateCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.SaveTemplatePost"

		templateID := chi.URLParam(r, "id")

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
			TemplateID:             templateID,
			Name:                   req.Name,
			DefaultUserID:          req.DefaultUserID,
			DefaultResponsibleName: req.DefaultResponsibleName,
			Position:               req.Position,
		}
		if err := templates.CreateTemplatePost(ctx, post); err != nil {
			log.With(slog.String("op", op), slog.String("template_id", templateID), slog.String("error", err.Error())).Error("Failed to create template post")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, post)
	}
}

func SaveTemplateTask(log *slog.Logger, templates TemplateCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.SaveTemplateTask"

		postID := chi.URLParam(r, "id")

		var req struct {
			Name                   string  `json:"name"`
			CriticalOffsetDays     *int    `json:"default_due_offset_days"`
			AlertOffsetDays        *int    `json:"default_alert_offset_days"`
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
		if req.CriticalOffsetDays == nil {
			http.Error(w, "default_due_offset_days is required", http.StatusBadRequest)
			return
		}
		if err := schedule.ValidateOffsets(*req.CriticalOffsetDays, req.AlertOffsetDays); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		task := &storage.TemplateTask{
			TemplatePostID:         postID,
			Name:                   req.Name,
			CriticalOffsetDays:     *req.CriticalOffsetDays,
			AlertOffsetDays:        req.AlertOffsetDays,
			DefaultUserID:          req.DefaultUserID,
			DefaultResponsibleName: req.DefaultResponsibleName,
			Position:               req.Position,
		}
		if err := templates.CreateTemplateTask(ctx, task); err != nil {
			log.With(slog.String("op", op), slog.String("post_id", postID), slog.String("error", err.Error())).Error("Failed to create template task")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, task)
	}
}
