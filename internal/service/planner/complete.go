package planner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// CompleteTask marks a task completed, setting completed_at and completed_by
// as a pair.
func (s *Service) CompleteTask(ctx context.Context, taskID, userID string, now time.Time) error {
	const op = "service.planner.CompleteTask"

	if err := s.storage.CompleteEventTask(ctx, taskID, userID, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReopenTask clears completed_at and completed_by together.
func (s *Service) ReopenTask(ctx context.Context, taskID string) error {
	const op = "service.planner.ReopenTask"

	if err := s.storage.ReopenEventTask(ctx, taskID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CompleteTasks completes several tasks with parallel store writes. The
// tasks are independent rows, no ordering is required between them.
func (s *Service) CompleteTasks(ctx context.Context, taskIDs []string, userID string, now time.Time) error {
	const op = "service.planner.CompleteTasks"

	g, gCtx := errgroup.WithContext(ctx)
	for _, id := range taskIDs {
		g.Go(func() error {
			if err := s.storage.CompleteEventTask(gCtx, id, userID, now); err != nil {
				return fmt.Errorf("task %s: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
