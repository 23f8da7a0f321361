package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"matchplanner/internal/storage"
)

type TeamCreateProvider interface {
	CreateTeam(ctx context.Context, team *storage.Team) error
}

func SaveTeam(log *slog.Logger, teams TeamCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.team.SaveTeam"

		var req struct {
			Name string `json:"name"`
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

		team := &storage.Team{Name: req.Name}
		if err := teams.CreateTeam(ctx, team); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to create team")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, team)
	}
}
