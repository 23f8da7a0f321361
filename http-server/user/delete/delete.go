package delete

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ProfileDeleteProvider interface {
	DeleteUserProfile(ctx context.Context, userID string) error
}

func DeleteUser(log *slog.Logger, users ProfileDeleteProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.DeleteUser"

		userID := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := users.DeleteUserProfile(ctx, userID); err != nil {
			log.With(slog.String("op", op), slog.String("user_id", userID), slog.String("error", err.Error())).Error("Failed to delete user profile")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}
