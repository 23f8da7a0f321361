package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"matchplanner/internal/service/schedule"
	"matchplanner/internal/storage"
)

// SyncReport counts the writes a synchronization run issued. A second run
// against an unchanged template reports all zeroes.
type SyncReport struct {
	EventsScanned int `json:"events_scanned"`
	PostsCreated  int `json:"posts_created"`
	PostsUpdated  int `json:"posts_updated"`
	PostsDeleted  int `json:"posts_deleted"`
	TasksCreated  int `json:"tasks_created"`
	TasksUpdated  int `json:"tasks_updated"`
	TasksDeleted  int `json:"tasks_deleted"`
}

// Synchronize reconciles every future event of the template against its
// current state. Past events are never touched. Requires the schema to carry
// template back-references; without them matching would be heuristic-only,
// which is unsafe for deletions, so sync refuses outright.
func (s *Service) Synchronize(ctx context.Context, templateID string, today time.Time) (*SyncReport, error) {
	const op = "service.planner.Synchronize"

	if !s.caps.Supported() {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrLinkingUnsupported)
	}

	template, err := s.storage.GetTemplateDetails(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch template: %w", op, err)
	}

	from := storage.NewDate(schedule.Midnight(today))
	events, err := s.storage.GetEventsByTemplate(ctx, templateID, from)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch future events: %w", op, err)
	}

	report := &SyncReport{}
	for _, event := range events {
		report.EventsScanned++
		if err := s.syncEvent(ctx, template, event, report); err != nil {
			return nil, fmt.Errorf("%s: event %s: %w", op, event.ID, err)
		}
	}
	return report, nil
}

func (s *Service) syncEvent(ctx context.Context, template *storage.TemplateDetails, event *storage.Event, report *SyncReport) error {
	posts, err := s.storage.GetEventPosts(ctx, event.ID)
	if err != nil {
		return err
	}

	// Two-stage lookup: by back-reference first, by exact name for rows that
	// predate the link columns. Never merged into one ambiguous key.
	byRef := make(map[string]*storage.EventPost)
	byName := make(map[string]*storage.EventPost)
	for _, p := range posts {
		if p.TemplatePostID != nil {
			byRef[*p.TemplatePostID] = p
		} else {
			byName[p.Name] = p
		}
	}

	liveRefs := make(map[string]bool)
	for _, tp := range sortedPosts(template.Posts) {
		liveRefs[tp.ID] = true

		match := byRef[tp.ID]
		if match == nil {
			if match = byName[tp.Name]; match != nil {
				// Claimed; a same-named template post must not adopt
				// the same row twice.
				delete(byName, tp.Name)
			}
		}
		if match == nil {
			if err := s.createPostWithTasks(ctx, tp, event, report); err != nil {
				return err
			}
			continue
		}

		changed := false
		if match.TemplatePostID == nil {
			ref := tp.ID
			match.TemplatePostID = &ref
			changed = true
		}
		if match.Name != tp.Name {
			match.Name = tp.Name
			changed = true
		}
		if match.Position != tp.Position {
			match.Position = tp.Position
			changed = true
		}
		if changed {
			if err := s.storage.UpdateEventPost(ctx, match); err != nil {
				return err
			}
			report.PostsUpdated++
		}

		if err := s.syncTasks(ctx, tp, match, event.EventDate, report); err != nil {
			return err
		}
	}

	// Posts whose back-reference no longer exists in the template are
	// deleted; task deletion cascades in the store.
	for _, p := range posts {
		if p.TemplatePostID != nil && !liveRefs[*p.TemplatePostID] {
			if err := s.storage.DeleteEventPost(ctx, p.ID); err != nil {
				return err
			}
			report.PostsDeleted++
		}
	}
	return nil
}

func (s *Service) createPostWithTasks(ctx context.Context, tp *storage.TemplatePostDetails, event *storage.Event, report *SyncReport) error {
	ref := tp.ID
	post := &storage.EventPost{
		ID:                     uuid.NewString(),
		EventID:                event.ID,
		Name:                   tp.Name,
		DefaultUserID:          tp.DefaultUserID,
		DefaultResponsibleName: tp.DefaultResponsibleName,
		Position:               tp.Position,
		TemplatePostID:         &ref,
	}
	if err := s.storage.CreateEventPost(ctx, post); err != nil {
		return err
	}
	report.PostsCreated++

	for _, tt := range sortedTasks(tp.Tasks) {
		task := s.buildTask(post.ID, tt, &tp.TemplatePost, event.EventDate)
		if err := s.storage.CreateEventTask(ctx, task); err != nil {
			return err
		}
		report.TasksCreated++
	}
	return nil
}

func (s *Service) syncTasks(ctx context.Context, tp *storage.TemplatePostDetails, post *storage.EventPost, eventDate storage.Date, report *SyncReport) error {
	tasks, err := s.storage.GetEventTasks(ctx, post.ID)
	if err != nil {
		return err
	}

	byRef := make(map[string]*storage.EventTask)
	var unlinked []*storage.EventTask
	for _, t := range tasks {
		if t.TemplateTaskID != nil {
			byRef[*t.TemplateTaskID] = t
		} else {
			unlinked = append(unlinked, t)
		}
	}

	liveRefs := make(map[string]bool)
	for _, tt := range sortedTasks(tp.Tasks) {
		liveRefs[tt.ID] = true

		want := s.buildTask(post.ID, tt, &tp.TemplatePost, eventDate)

		match := byRef[tt.ID]
		if match == nil {
			// Heuristic fallback matches on (name, due, alert) to keep
			// false positives down on pre-link rows. A claimed row leaves
			// the candidate pool so identical tuples adopt distinct rows.
			if i := indexByTuple(unlinked, want); i >= 0 {
				match = unlinked[i]
				unlinked = append(unlinked[:i], unlinked[i+1:]...)
			}
		}
		if match == nil {
			if err := s.storage.CreateEventTask(ctx, want); err != nil {
				return err
			}
			report.TasksCreated++
			continue
		}

		changed := false
		if match.TemplateTaskID == nil {
			ref := tt.ID
			match.TemplateTaskID = &ref
			changed = true
		}
		if match.Name != tt.Name {
			match.Name = tt.Name
			changed = true
		}
		if match.Position != tt.Position {
			match.Position = tt.Position
			changed = true
		}
		if !sameDate(match.DueDate, want.DueDate) {
			match.DueDate = want.DueDate
			changed = true
		}
		if !sameDate(match.AlertDate, want.AlertDate) {
			match.AlertDate = want.AlertDate
			changed = true
		}
		if changed {
			if err := s.storage.UpdateEventTask(ctx, match); err != nil {
				return err
			}
			report.TasksUpdated++
		}
	}

	for _, t := range tasks {
		if t.TemplateTaskID != nil && !liveRefs[*t.TemplateTaskID] {
			if err := s.storage.DeleteEventTask(ctx, t.ID); err != nil {
				return err
			}
			report.TasksDeleted++
		}
	}
	return nil
}

func indexByTuple(candidates []*storage.EventTask, want *storage.EventTask) int {
	for i, t := range candidates {
		if t.Name == want.Name && sameDate(t.DueDate, want.DueDate) && sameDate(t.AlertDate, want.AlertDate) {
			return i
		}
	}
	return -1
}

func sameDate(a, b *storage.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Time.Equal(b.Time)
}
