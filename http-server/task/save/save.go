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

	"matchplanner/internal/storage"
)

type TaskCreateProvider interface {
	GetEventPost(ctx context.Context, id string) (*storage.EventPost, error)
	CreateEventTask(ctx context.Context, t *storage.EventTask) error
}

// SaveTask adds a task to the event post at {id}. Due and alert dates are
// given directly; tasks created by hand carry no template back-reference.
func SaveTask(log *slog.Logger, tasks TaskCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.task.SaveTask"

		postID := chi.URLParam(r, "id")

		var req struct {
			Name            string        `json:"name"`
			AssigneeUserID  *string       `json:"assignee_user_id"`
			DueDate         *storage.Date `json:"due_date"`
			AlertDate       *storage.Date `json:"alert_date"`
			ReferenceDate   *storage.Date `json:"reference_date"`
			ResponsibleName *string       `json:"responsible_name"`
			Position        int           `json:"position"`
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

		if _, err := tasks.GetEventPost(ctx, postID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Event post not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("post_id", postID), slog.String("error", err.Error())).Error("Failed to fetch event post")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		task := &storage.EventTask{
			EventPostID:     postID,
			Name:            req.Name,
			AssigneeUserID:  req.AssigneeUserID,
			DueDate:         req.DueDate,
			AlertDate:       req.AlertDate,
			ReferenceDate:   req.ReferenceDate,
			Status:          storage.TaskStatusTodo,
			ResponsibleName: req.ResponsibleName,
			Position:        req.Position,
		}
		if err := tasks.CreateEventTask(ctx, task); err != nil {
			log.With(slog.String("op", op), slog.String("post_id", postID), slog.String("error", err.Error())).Error("Failed to create task")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, task)
	}
}
