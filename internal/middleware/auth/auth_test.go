package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"matchplanner/internal/identity"
	"matchplanner/internal/storage"
)

type verifierFunc func(ctx context.Context, token string) (*identity.Identity, error)

func (f verifierFunc) VerifyToken(ctx context.Context, token string) (*identity.Identity, error) {
	return f(ctx, token)
}

func TestBearer_StoresIdentity(t *testing.T) {
	verifier := verifierFunc(func(ctx context.Context, token string) (*identity.Identity, error) {
		assert.Equal(t, "token-123", token)
		return &identity.Identity{UserID: "user-1"}, nil
	})

	var seen *identity.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	req.Header.Set("Authorization", "Bearer token-123")
	rr := httptest.NewRecorder()

	Bearer(verifier)(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
}

func TestBearer_MissingHeader(t *testing.T) {
	verifier := verifierFunc(func(ctx context.Context, token string) (*identity.Identity, error) {
		t.Fatal("verifier must not be called")
		return nil, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	rr := httptest.NewRecorder()

	Bearer(verifier)(http.NotFoundHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestBearer_InvalidToken(t *testing.T) {
	verifier := verifierFunc(func(ctx context.Context, token string) (*identity.Identity, error) {
		return nil, errors.New("provider rejected token with status 401")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rr := httptest.NewRecorder()

	Bearer(verifier)(http.NotFoundHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	admin := &identity.Identity{
		UserID:  "user-1",
		Profile: &storage.UserProfile{UserID: "user-1", Role: storage.RoleAdmin},
	}
	agent := &identity.Identity{
		UserID:  "user-2",
		Profile: &storage.UserProfile{UserID: "user-2", Role: storage.RoleAgent},
	}

	cases := []struct {
		name string
		id   *identity.Identity
		want int
	}{
		{"admin passes", admin, http.StatusOK},
		{"agent forbidden", agent, http.StatusForbidden},
		{"anonymous forbidden", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/teams/team-1", nil)
			if tc.id != nil {
				req = req.WithContext(WithIdentity(req.Context(), tc.id))
			}
			rr := httptest.NewRecorder()

			RequireAdmin(next).ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}
