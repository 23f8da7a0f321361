package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"matchplanner/internal/config"
	"matchplanner/internal/storage"
)

type Storage struct {
	db   *sql.DB
	caps storage.LinkCapability
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	// clientFoundRows makes RowsAffected count matched rows rather than
	// changed rows, so a no-op update on an existing row is not mistaken
	// for a missing one.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
	)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: ping failed: %w", op, err)
	}

	s := &Storage{db: db}
	if err := s.probeLinkCapability(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

// LinkCapability reports whether the schema carries the template
// back-reference columns. Probed once at startup, passed down explicitly.
func (s *Storage) LinkCapability() storage.LinkCapability {
	return s.caps
}

func (s *Storage) probeLinkCapability(ctx context.Context) error {
	postLinks, err := s.columnExists(ctx, "event_posts", "template_post_id")
	if err != nil {
		return err
	}
	taskLinks, err := s.columnExists(ctx, "event_tasks", "template_task_id")
	if err != nil {
		return err
	}

	s.caps = storage.LinkCapability{PostLinks: postLinks, TaskLinks: taskLinks}
	return nil
}

func (s *Storage) columnExists(ctx context.Context, table, column string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, table, column).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
