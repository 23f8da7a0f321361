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

type ProfileCreateProvider interface {
	CreateUserProfile(ctx context.Context, p *storage.UserProfile) error
}

func SaveUser(log *slog.Logger, users ProfileCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.SaveUser"

		var req struct {
			UserID      string  `json:"user_id"`
			Email       string  `json:"email"`
			DisplayName *string `json:"display_name"`
			FirstName   *string `json:"first_name"`
			LastName    *string `json:"last_name"`
			Role        string  `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.UserID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}
		if req.Role == "" {
			req.Role = storage.RoleAgent
		}
		if req.Role != storage.RoleAdmin && req.Role != storage.RoleAgent {
			http.Error(w, "role must be admin or agent", http.StatusBadRequest)
			return
		}

		// Names omitted by the caller are guessed from the email local part.
		if req.DisplayName == nil && req.FirstName == nil && req.LastName == nil && req.Email != "" {
			req.DisplayName, req.FirstName, req.LastName = storage.DeriveNamesFromEmail(req.Email)
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		profile := &storage.UserProfile{
			UserID:      req.UserID,
			DisplayName: req.DisplayName,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Role:        req.Role,
		}
		if err := users.CreateUserProfile(ctx, profile); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to create user profile")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, profile)
	}
}
