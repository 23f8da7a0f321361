package storage

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

type UserProfile struct {
	UserID      string    `json:"user_id"`
	DisplayName *string   `json:"display_name"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *UserProfile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// FullName builds a display name from first/last name, falling back to the
// stored display name. Empty string when nothing is set.
func (p *UserProfile) FullName() string {
	if p == nil {
		return ""
	}
	var parts []string
	if p.FirstName != nil && *p.FirstName != "" {
		parts = append(parts, *p.FirstName)
	}
	if p.LastName != nil && *p.LastName != "" {
		parts = append(parts, *p.LastName)
	}
	if len(parts) > 0 {
		return strings.TrimSpace(strings.Join(parts, " "))
	}
	if p.DisplayName != nil {
		return *p.DisplayName
	}
	return ""
}

// DeriveNamesFromEmail guesses display/first/last names from the local part
// of an email, used when a profile is created for a fresh identity.
func DeriveNamesFromEmail(email string) (displayName, firstName, lastName *string) {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return nil, nil, nil
	}

	tokens := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, tok := range tokens {
		tokens[i] = strings.ToUpper(tok[:1]) + tok[1:]
	}

	switch len(tokens) {
	case 0:
		display := local
		return &display, nil, nil
	case 1:
		return &tokens[0], &tokens[0], nil
	default:
		display := strings.Join(tokens, " ")
		first := tokens[0]
		last := strings.Join(tokens[1:], " ")
		return &display, &first, &last
	}
}
