package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"matchplanner/internal/config"
	"matchplanner/internal/storage"
)

type ProfilesMock struct {
	mock.Mock
}

func (m *ProfilesMock) GetUserProfile(ctx context.Context, userID string) (*storage.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UserProfile), args.Error(1)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, profiles ProfileStorage) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(config.Auth{VerifyURL: server.URL, Timeout: 2 * time.Second}, profiles)
}

func TestVerifyToken_Success(t *testing.T) {
	profiles := new(ProfilesMock)
	profiles.On("GetUserProfile", mock.Anything, "user-1").
		Return(&storage.UserProfile{UserID: "user-1", Role: storage.RoleAdmin}, nil)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"user-1","email":"anna@example.com"}`))
	}, profiles)

	id, err := client.VerifyToken(context.Background(), "token-123")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "anna@example.com", id.Email)
	assert.True(t, id.IsAdmin())
}

func TestVerifyToken_RejectedByProvider(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, new(ProfilesMock))

	id, err := client.VerifyToken(context.Background(), "bad-token")
	assert.Nil(t, id)
	assert.Error(t, err)
}

func TestVerifyToken_UnprovisionedProfile(t *testing.T) {
	profiles := new(ProfilesMock)
	profiles.On("GetUserProfile", mock.Anything, "user-2").Return(nil, storage.ErrNotFound)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"user-2","email":"new@example.com"}`))
	}, profiles)

	// Known upstream but no local profile yet: authenticated, not admin.
	id, err := client.VerifyToken(context.Background(), "token-456")
	assert.NoError(t, err)
	assert.Nil(t, id.Profile)
	assert.False(t, id.IsAdmin())
}

func TestVerifyToken_EmptyUserID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"anon@example.com"}`))
	}, new(ProfilesMock))

	id, err := client.VerifyToken(context.Background(), "token-789")
	assert.Nil(t, id)
	assert.Error(t, err)
}
