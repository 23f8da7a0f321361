package planner

import (
	"context"
	"sort"
	"time"

	"matchplanner/internal/storage"
)

type PlannerStorage interface {
	GetTemplateDetails(ctx context.Context, id string) (*storage.TemplateDetails, error)

	CreateEvent(ctx context.Context, event *storage.Event) error
	GetEventsByTemplate(ctx context.Context, templateID string, from storage.Date) ([]*storage.Event, error)

	CreateEventPost(ctx context.Context, post *storage.EventPost) error
	GetEventPosts(ctx context.Context, eventID string) ([]*storage.EventPost, error)
	UpdateEventPost(ctx context.Context, post *storage.EventPost) error
	DeleteEventPost(ctx context.Context, id string) error

	CreateEventTask(ctx context.Context, task *storage.EventTask) error
	GetEventTasks(ctx context.Context, eventPostID string) ([]*storage.EventTask, error)
	UpdateEventTask(ctx context.Context, task *storage.EventTask) error
	DeleteEventTask(ctx context.Context, id string) error

	CompleteEventTask(ctx context.Context, taskID, userID string, at time.Time) error
	ReopenEventTask(ctx context.Context, taskID string) error
}

// Service materializes templates into events and reconciles existing events
// against their template. The link capability is resolved once at startup
// and threaded through here.
type Service struct {
	storage PlannerStorage
	caps    storage.LinkCapability
}

func New(st PlannerStorage, caps storage.LinkCapability) *Service {
	return &Service{storage: st, caps: caps}
}

func (s *Service) LinkingSupported() bool {
	return s.caps.Supported()
}

func sortedPosts(posts []*storage.TemplatePostDetails) []*storage.TemplatePostDetails {
	out := make([]*storage.TemplatePostDetails, len(posts))
	copy(out, posts)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func sortedTasks(tasks []*storage.TemplateTask) []*storage.TemplateTask {
	out := make([]*storage.TemplateTask, len(tasks))
	copy(out, tasks)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
