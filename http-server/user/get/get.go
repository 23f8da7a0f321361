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

type ProfileProvider interface {
	GetUserProfiles(ctx context.Context) ([]*storage.UserProfile, error)
	GetUserProfile(ctx context.Context, userID string) (*storage.UserProfile, error)
}

func GetUsers(log *slog.Logger, users ProfileProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.GetUsers"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		profiles, err := users.GetUserProfiles(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch user profiles")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if profiles == nil {
			profiles = []*storage.UserProfile{}
		}

		render.JSON(w, r, profiles)
	}
}

func GetUser(log *slog.Logger, users ProfileProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.GetUser"

		userID := chi.URLParam(r, "id")

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

		render.JSON(w, r, profile)
	}
}
