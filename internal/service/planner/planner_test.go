package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"matchplanner/internal/storage"
)

type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) GetTemplateDetails(ctx context.Context, id string) (*storage.TemplateDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.TemplateDetails), args.Error(1)
}

func (m *StorageMock) CreateEvent(ctx context.Context, event *storage.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *StorageMock) GetEventsByTemplate(ctx context.Context, templateID string, from storage.Date) ([]*storage.Event, error) {
	args := m.Called(ctx, templateID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Event), args.Error(1)
}

func (m *StorageMock) CreateEventPost(ctx context.Context, post *storage.EventPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *StorageMock) GetEventPosts(ctx context.Context, eventID string) ([]*storage.EventPost, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.EventPost), args.Error(1)
}

func (m *StorageMock) UpdateEventPost(ctx context.Context, post *storage.EventPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *StorageMock) DeleteEventPost(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *StorageMock) CreateEventTask(ctx context.Context, task *storage.EventTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *StorageMock) GetEventTasks(ctx context.Context, eventPostID string) ([]*storage.EventTask, error) {
	args := m.Called(ctx, eventPostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.EventTask), args.Error(1)
}

func (m *StorageMock) UpdateEventTask(ctx context.Context, task *storage.EventTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *StorageMock) DeleteEventTask(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *StorageMock) CompleteEventTask(ctx context.Context, taskID, userID string, at time.Time) error {
	return m.Called(ctx, taskID, userID, at).Error(0)
}

func (m *StorageMock) ReopenEventTask(ctx context.Context, taskID string) error {
	return m.Called(ctx, taskID).Error(0)
}

func mustDate(s string) storage.Date {
	d, err := storage.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// One post, two tasks: the first with distinct alert and critical offsets,
// the second with no alert offset at all.
func fixtureTemplate() *storage.TemplateDetails {
	return &storage.TemplateDetails{
		EventTemplate: storage.EventTemplate{ID: "tpl-1", Name: "Home game"},
		Posts: []*storage.TemplatePostDetails{
			{
				TemplatePost: storage.TemplatePost{
					ID:                     "tp-1",
					TemplateID:             "tpl-1",
					Name:                   "Logistics",
					DefaultResponsibleName: strPtr("Crew chief"),
					Position:               0,
				},
				Tasks: []*storage.TemplateTask{
					{
						ID:                 "tt-1",
						TemplatePostID:     "tp-1",
						Name:               "Book referees",
						CriticalOffsetDays: 3,
						AlertOffsetDays:    intPtr(7),
						Position:           0,
					},
					{
						ID:                 "tt-2",
						TemplatePostID:     "tp-1",
						Name:               "Print lineup",
						CriticalOffsetDays: 2,
						Position:           1,
					},
				},
			},
		},
	}
}

func TestMaterialize(t *testing.T) {
	st := new(StorageMock)
	st.On("GetTemplateDetails", mock.Anything, "tpl-1").Return(fixtureTemplate(), nil)
	st.On("CreateEvent", mock.Anything, mock.Anything).Return(nil)

	var posts []*storage.EventPost
	st.On("CreateEventPost", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		posts = append(posts, args.Get(1).(*storage.EventPost))
	}).Return(nil)

	var tasks []*storage.EventTask
	st.On("CreateEventTask", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		tasks = append(tasks, args.Get(1).(*storage.EventTask))
	}).Return(nil)

	service := New(st, storage.LinkCapability{PostLinks: true, TaskLinks: true})

	event, err := service.Materialize(context.Background(), "tpl-1", EventShell{
		TeamID:    "team-1",
		Name:      "vs. Rivals",
		EventDate: mustDate("2024-06-10"),
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "tpl-1", *event.TemplateID)

	assert.Len(t, posts, 1)
	assert.Equal(t, "Logistics", posts[0].Name)
	assert.Equal(t, "tp-1", *posts[0].TemplatePostID)

	assert.Len(t, tasks, 2)

	referees := tasks[0]
	assert.Equal(t, "Book referees", referees.Name)
	assert.Equal(t, "2024-06-07", referees.DueDate.String())
	assert.Equal(t, "2024-06-03", referees.AlertDate.String())
	assert.Equal(t, "tt-1", *referees.TemplateTaskID)
	assert.Equal(t, storage.TaskStatusTodo, referees.Status)
	// Responsible falls back from the task to the post.
	assert.Equal(t, "Crew chief", *referees.ResponsibleName)

	lineup := tasks[1]
	// No alert offset: the alert fires on the due day itself.
	assert.Equal(t, "2024-06-08", lineup.DueDate.String())
	assert.Equal(t, "2024-06-08", lineup.AlertDate.String())

	st.AssertExpectations(t)
}

func TestMaterialize_NoLinkColumns(t *testing.T) {
	st := new(StorageMock)
	st.On("GetTemplateDetails", mock.Anything, "tpl-1").Return(fixtureTemplate(), nil)
	st.On("CreateEvent", mock.Anything, mock.Anything).Return(nil)

	var post *storage.EventPost
	st.On("CreateEventPost", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		post = args.Get(1).(*storage.EventPost)
	}).Return(nil)

	var tasks []*storage.EventTask
	st.On("CreateEventTask", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		tasks = append(tasks, args.Get(1).(*storage.EventTask))
	}).Return(nil)

	service := New(st, storage.LinkCapability{})

	_, err := service.Materialize(context.Background(), "tpl-1", EventShell{
		Name:      "vs. Rivals",
		EventDate: mustDate("2024-06-10"),
	})
	assert.NoError(t, err)

	assert.Nil(t, post.TemplatePostID)
	for _, task := range tasks {
		assert.Nil(t, task.TemplateTaskID)
	}
}

func TestCompleteTasks(t *testing.T) {
	now := time.Date(2024, 6, 5, 14, 0, 0, 0, time.UTC)

	st := new(StorageMock)
	st.On("CompleteEventTask", mock.Anything, "t-1", "user-1", now).Return(nil)
	st.On("CompleteEventTask", mock.Anything, "t-2", "user-1", now).Return(nil)

	service := New(st, storage.LinkCapability{})

	err := service.CompleteTasks(context.Background(), []string{"t-1", "t-2"}, "user-1", now)
	assert.NoError(t, err)
	st.AssertExpectations(t)
}

func TestCompleteTasks_PropagatesFailure(t *testing.T) {
	now := time.Date(2024, 6, 5, 14, 0, 0, 0, time.UTC)

	st := new(StorageMock)
	st.On("CompleteEventTask", mock.Anything, "t-1", "user-1", now).Return(nil).Maybe()
	st.On("CompleteEventTask", mock.Anything, "missing", "user-1", now).Return(storage.ErrNotFound)

	service := New(st, storage.LinkCapability{})

	err := service.CompleteTasks(context.Background(), []string{"t-1", "missing"}, "user-1", now)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
