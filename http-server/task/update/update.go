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

type TaskUpdateProvider interface {
	GetEventTask(ctx context.Context, id string) (*storage.EventTask, error)
	GetEventPost(ctx context.Context, id string) (*storage.EventPost, error)
	GetEvent(ctx context.Context, id string) (*storage.Event, error)
	UpdateEventTask(ctx context.Context, t *storage.EventTask) error
}

// UpdateTask edits the task at {id}. Dates can be set directly, or as
// day-offsets; offsets resolve against the task's reference date when it has
// one, otherwise against the event date. Setting a reference date is how a
// task is delayed without touching the rest of the event.
func UpdateTask(log *slog.Logger, tasks TaskUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.task.UpdateTask"

		id := chi.URLParam(r, "id")

		var req struct {
			Name               *string       `json:"name"`
			AssigneeUserID     *string       `json:"assignee_user_id"`
			ClearAssignee      bool          `json:"clear_assignee"`
			DueDate            *storage.Date `json:"due_date"`
			AlertDate          *storage.Date `json:"alert_date"`
			ClearAlertDate     bool          `json:"clear_alert_date"`
			DueOffsetDays      *int          `json:"due_offset_days"`
			AlertOffsetDays    *int          `json:"alert_offset_days"`
			ReferenceDate      *storage.Date `json:"reference_date"`
			ClearReferenceDate bool          `json:"clear_reference_date"`
			ResponsibleName    *string       `json:"responsible_name"`
			Position           *int          `json:"position"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.DueOffsetDays != nil && *req.DueOffsetDays < 0 {
			http.Error(w, "due_offset_days must be zero or positive", http.StatusBadRequest)
			return
		}
		if req.AlertOffsetDays != nil && *req.AlertOffsetDays < 0 {
			http.Error(w, "alert_offset_days must be zero or positive", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		task, err := tasks.GetEventTask(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Task not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch task")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if req.Name != nil {
			task.Name = *req.Name
		}
		if req.ClearAssignee {
			task.AssigneeUserID = nil
		} else if req.AssigneeUserID != nil {
			task.AssigneeUserID = req.AssigneeUserID
		}
		if req.ClearReferenceDate {
			task.ReferenceDate = nil
		} else if req.ReferenceDate != nil {
			task.ReferenceDate = req.ReferenceDate
		}
		if req.DueDate != nil {
			task.DueDate = req.DueDate
		}
		if req.ClearAlertDate {
			task.AlertDate = nil
		} else if req.AlertDate != nil {
			task.AlertDate = req.AlertDate
		}
		if req.ResponsibleName != nil {
			task.ResponsibleName = req.ResponsibleName
		}
		if req.Position != nil {
			task.Position = *req.Position
		}

		if req.DueOffsetDays != nil || req.AlertOffsetDays != nil {
			ref, err := resolveReference(ctx, tasks, task)
			if err != nil {
				log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to resolve reference date")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if req.DueOffsetDays != nil {
				d := storage.NewDate(schedule.DateFromOffset(ref.Time, *req.DueOffsetDays))
				task.DueDate = &d
			}
			if req.AlertOffsetDays != nil {
				d := storage.NewDate(schedule.DateFromOffset(ref.Time, *req.AlertOffsetDays))
				task.AlertDate = &d
			}
		}

		if err := tasks.UpdateEventTask(ctx, task); err != nil {
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to update task")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, task)
	}
}

// resolveReference yields the date offsets count back from: the task's own
// reference date when set, else the owning event's date.
func resolveReference(ctx context.Context, tasks TaskUpdateProvider, task *storage.EventTask) (storage.Date, error) {
	if task.ReferenceDate != nil {
		return *task.ReferenceDate, nil
	}

	post, err := tasks.GetEventPost(ctx, task.EventPostID)
	if err != nil {
		return storage.Date{}, err
	}
	event, err := tasks.GetEvent(ctx, post.EventID)
	if err != nil {
		return storage.Date{}, err
	}
	return event.EventDate, nil
}
