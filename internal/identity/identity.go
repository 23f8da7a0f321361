package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"matchplanner/internal/config"
	"matchplanner/internal/storage"
)

// Identity is the verified caller: who the external provider says they are
// plus the locally stored profile carrying the admin/agent role.
type Identity struct {
	UserID  string
	Email   string
	Profile *storage.UserProfile
}

func (id *Identity) IsAdmin() bool {
	return id != nil && id.Profile.IsAdmin()
}

type ProfileStorage interface {
	GetUserProfile(ctx context.Context, userID string) (*storage.UserProfile, error)
}

// Client verifies bearer tokens against the external identity provider and
// attaches the local profile. The provider itself is a black box; we only
// need the user id and email back.
type Client struct {
	verifyURL string
	http      *http.Client
	profiles  ProfileStorage
}

func New(cfg config.Auth, profiles ProfileStorage) *Client {
	return &Client{
		verifyURL: cfg.VerifyURL,
		http:      &http.Client{Timeout: cfg.Timeout},
		profiles:  profiles,
	}
}

func (c *Client) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	const op = "identity.VerifyToken"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.verifyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: provider rejected token with status %d", op, resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if payload.ID == "" {
		return nil, fmt.Errorf("%s: provider returned no user id", op)
	}

	id := &Identity{UserID: payload.ID, Email: payload.Email}

	// A missing profile is not an auth failure: the user exists upstream but
	// has not been provisioned locally yet.
	profile, err := c.profiles.GetUserProfile(ctx, payload.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: load profile: %w", op, err)
	}
	id.Profile = profile

	return id, nil
}
