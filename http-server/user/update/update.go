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

	"matchplanner/internal/storage"
)

type ProfileUpdateProvider interface {
	GetUserProfile(ctx context.Context, userID string) (*storage.UserProfile, error)
	UpdateUserProfile(ctx context.Context, p *storage.UserProfile) error
}

func UpdateUser(log *slog.Logger, users ProfileUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.UpdateUser"

		userID := chi.URLParam(r, "id")

		var req struct {
			DisplayName *string `json:"display_name"`
			FirstName   *string `json:"first_name"`
			LastName    *string `json:"last_name"`
			Role        *string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Role != nil && *req.Role != storage.RoleAdmin && *req.Role != storage.RoleAgent {
			http.Error(w, "role must be admin or agent", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		profile, err := users.GetUserProfile(ctx, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("user_id", userID), slog.String("error", err.Error())).Error("Failed to fetch user profile")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if req.DisplayName != nil {
			profile.DisplayName = req.DisplayName
		}
		if req.FirstName != nil {
			profile.FirstName = req.FirstName
		}
		if req.LastName != nil {
			profile.LastName = req.LastName
		}
		if req.Role != nil {
			profile.Role = *req.Role
		}

		if err := users.UpdateUserProfile(ctx, profile); err != nil {
			log.With(slog.String("op", op), slog.String("user_id", userID), slog.String("error", err.Error())).Error("Failed to update user profile")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, profile)
	}
}
