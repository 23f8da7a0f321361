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

type TeamProvider interface {
	GetTeams(ctx context.Context) ([]*storage.Team, error)
	GetTeam(ctx context.Context, id string) (*storage.Team, error)
}

func GetTeams(log *slog.Logger, teams TeamProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.team.GetTeams"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := teams.GetTeams(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch teams")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if result == nil {
			result = []*storage.Team{}
		}

		render.JSON(w, r, result)
	}
}

func GetTeam(log *slog.Logger, teams TeamProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.team.GetTeam"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		team, err := teams.GetTeam(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Team not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch team")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, team)
	}
}
