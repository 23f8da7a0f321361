package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"matchplanner/internal/storage"
)

func (s *Storage) GetTeams(ctx context.Context) ([]*storage.Team, error) {
	const op = "storage.mysql.GetTeams"

	stmt := "SELECT id, name, created_at FROM teams ORDER BY name"

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var teams []*storage.Team
	for rows.Next() {
		team := &storage.Team{}
		if err := rows.Scan(&team.ID, &team.Name, &team.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return teams, nil
}

func (s *Storage) GetTeam(ctx context.Context, id string) (*storage.Team, error) {
	const op = "storage.mysql.GetTeam"

	query := "SELECT id, name, created_at FROM teams WHERE id = ?"

	team := &storage.Team{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.Name, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: team %s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return team, nil
}

func (s *Storage) CreateTeam(ctx context.Context, team *storage.Team) error {
	const op = "storage.mysql.CreateTeam"

	if team.ID == "" {
		team.ID = uuid.NewString()
	}

	stmt := "INSERT INTO teams (id, name) VALUES (?, ?)"

	if _, err := s.db.ExecContext(ctx, stmt, team.ID, team.Name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) UpdateTeam(ctx context.Context, id, name string) error {
	const op = "storage.mysql.UpdateTeam"

	stmt := "UPDATE teams SET name = ? WHERE id = ?"

	res, err := s.db.ExecContext(ctx, stmt, name, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: team %s: %w", op, id, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) DeleteTeam(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteTeam"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM teams WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
