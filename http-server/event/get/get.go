package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"matchplanner/internal/service/schedule"
	"matchplanner/internal/storage"
)

type EventProvider interface {
	GetEvents(ctx context.Context, teamID string, includePast bool, today storage.Date) ([]*storage.Event, error)
	GetEventDetails(ctx context.Context, id string) (*storage.EventDetails, error)
}

type eventListItem struct {
	*storage.Event
	StatusColor schedule.Color `json:"status_color,omitempty"`
}

type taskView struct {
	*storage.EventTaskDetails
	StatusColor schedule.Color `json:"status_color"`
	Responsible string         `json:"responsible"`
}

type postView struct {
	*storage.EventPostDetails
	Tasks []taskView `json:"tasks"`
}

type eventView struct {
	*storage.EventDetails
	Posts       []postView     `json:"posts"`
	StatusColor schedule.Color `json:"status_color"`
}

// GetEvents lists events, newest date last. Past events are hidden unless
// ?include_past=1; ?with_status=1 additionally computes the traffic-light
// color per event, which costs one detail load each.
func GetEvents(log *slog.Logger, events EventProvider, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.GetEvents"

		teamID := r.URL.Query().Get("team_id")
		includePast := r.URL.Query().Get("include_past") == "1"
		withStatus := r.URL.Query().Get("with_status") == "1"

		today := storage.NewDate(schedule.Midnight(now()))

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		result, err := events.GetEvents(ctx, teamID, includePast, today)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch events")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		items := make([]eventListItem, len(result))
		for i, e := range result {
			items[i] = eventListItem{Event: e}
		}

		if withStatus {
			g, gCtx := errgroup.WithContext(ctx)
			for i := range items {
				g.Go(func() error {
					details, err := events.GetEventDetails(gCtx, items[i].ID)
					if err != nil {
						return err
					}
					items[i].StatusColor = schedule.EventColor(details, now())
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to compute event colors")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
		}

		render.JSON(w, r, items)
	}
}

func GetEventDetails(log *slog.Logger, events EventProvider, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.GetEventDetails"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		details, err := events.GetEventDetails(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Event not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch event")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, buildEventView(details, now()))
	}
}

func buildEventView(details *storage.EventDetails, today time.Time) eventView {
	view := eventView{
		EventDetails: details,
		Posts:        make([]postView, len(details.Posts)),
		StatusColor:  schedule.EventColor(details, today),
	}
	for i, post := range details.Posts {
		pv := postView{
			EventPostDetails: post,
			Tasks:            make([]taskView, len(post.Tasks)),
		}
		for j, task := range post.Tasks {
			pv.Tasks[j] = taskView{
				EventTaskDetails: task,
				StatusColor:      schedule.TaskColor(&task.EventTask, today),
				Responsible:      schedule.ResolveResponsible(task, post),
			}
		}
		view.Posts[i] = pv
	}
	return view
}
