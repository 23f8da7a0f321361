package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"matchplanner/internal/storage"
)

func (s *Storage) GetUserProfiles(ctx context.Context) ([]*storage.UserProfile, error) {
	const op = "storage.mysql.GetUserProfiles"

	stmt := "SELECT user_id, display_name, first_name, last_name, role, created_at FROM users_profiles ORDER BY display_name"

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var profiles []*storage.UserProfile
	for rows.Next() {
		p := &storage.UserProfile{}
		if err := rows.Scan(&p.UserID, &p.DisplayName, &p.FirstName, &p.LastName, &p.Role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return profiles, nil
}

func (s *Storage) GetUserProfile(ctx context.Context, userID string) (*storage.UserProfile, error) {
	const op = "storage.mysql.GetUserProfile"

	query := "SELECT user_id, display_name, first_name, last_name, role, created_at FROM users_profiles WHERE user_id = ?"

	p := &storage.UserProfile{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &p.DisplayName, &p.FirstName, &p.LastName, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: user %s: %w", op, userID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Storage) CreateUserProfile(ctx context.Context, p *storage.UserProfile) error {
	const op = "storage.mysql.CreateUserProfile"

	stmt := "INSERT INTO users_profiles (user_id, display_name, first_name, last_name, role) VALUES (?, ?, ?, ?, ?)"

	_, err := s.db.ExecContext(ctx, stmt, p.UserID, p.DisplayName, p.FirstName, p.LastName, p.Role)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return fmt.Errorf("%s: profile for user %s already exists: %w", op, p.UserID, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) UpdateUserProfile(ctx context.Context, p *storage.UserProfile) error {
	const op = "storage.mysql.UpdateUserProfile"

	stmt := "UPDATE users_profiles SET display_name = ?, first_name = ?, last_name = ?, role = ? WHERE user_id = ?"

	res, err := s.db.ExecContext(ctx, stmt, p.DisplayName, p.FirstName, p.LastName, p.Role, p.UserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: user %s: %w", op, p.UserID, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) DeleteUserProfile(ctx context.Context, userID string) error {
	const op = "storage.mysql.DeleteUserProfile"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM users_profiles WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
