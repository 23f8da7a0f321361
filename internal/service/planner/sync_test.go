package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"matchplanner/internal/storage"
)

func syncedEvent() *storage.Event {
	return &storage.Event{
		ID:         "ev-1",
		TeamID:     "team-1",
		TemplateID: strPtr("tpl-1"),
		Name:       "vs. Rivals",
		EventDate:  mustDate("2024-06-10"),
	}
}

// Event state exactly as Materialize would have produced it from
// fixtureTemplate against 2024-06-10.
func syncedPosts() []*storage.EventPost {
	return []*storage.EventPost{
		{
			ID:             "ep-1",
			EventID:        "ev-1",
			Name:           "Logistics",
			Position:       0,
			TemplatePostID: strPtr("tp-1"),
		},
	}
}

func syncedTasks() []*storage.EventTask {
	due1 := mustDate("2024-06-07")
	alert1 := mustDate("2024-06-03")
	due2 := mustDate("2024-06-08")
	return []*storage.EventTask{
		{
			ID:             "et-1",
			EventPostID:    "ep-1",
			Name:           "Book referees",
			DueDate:        &due1,
			AlertDate:      &alert1,
			Status:         storage.TaskStatusTodo,
			Position:       0,
			TemplateTaskID: strPtr("tt-1"),
		},
		{
			ID:             "et-2",
			EventPostID:    "ep-1",
			Name:           "Print lineup",
			DueDate:        &due2,
			AlertDate:      &due2,
			Status:         storage.TaskStatusTodo,
			Position:       1,
			TemplateTaskID: strPtr("tt-2"),
		},
	}
}

func TestSynchronize_RefusesWithoutLinkColumns(t *testing.T) {
	service := New(new(StorageMock), storage.LinkCapability{})

	report, err := service.Synchronize(context.Background(), "tpl-1", mustDate("2024-06-01").Time)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, storage.ErrLinkingUnsupported)
}

func TestSynchronize_UnchangedTemplateWritesNothing(t *testing.T) {
	st := new(StorageMock)
	st.On("GetTemplateDetails", mock.Anything, "tpl-1").Return(fixtureTemplate(), nil)
	st.On("GetEventsByTemplate", mock.Anything, "tpl-1", mustDate("2024-06-01")).
		Return([]*storage.Event{syncedEvent()}, nil)
	st.On("GetEventPosts", mock.Anything, "ev-1").Return(syncedPosts(), nil)
	st.On("GetEventTasks", mock.Anything, "ep-1").Return(syncedTasks(), nil)

	service := New(st, storage.LinkCapability{PostLinks: true, TaskLinks: true})

	report, err := service.Synchronize(context.Background(), "tpl-1", mustDate("2024-06-01").Time)
	assert.NoError(t, err)

	assert.Equal(t, 1, report.EventsScanned)
	assert.Zero(t, report.PostsCreated)
	assert.Zero(t, report.PostsUpdated)
	assert.Zero(t, report.PostsDeleted)
	assert.Zero(t, report.TasksCreated)
	assert.Zero(t, report.TasksUpdated)
	assert.Zero(t, report.TasksDeleted)

	// No Create/Update/Delete expectations were registered; any write would
	// have failed the mock.
	st.AssertExpectations(t)
}

func TestSynchronize_CreatesMissingPost(t *testing.T) {
	st := new(StorageMock)
	st.On("GetTemplateDetails", mock.Anything, "tpl-1").Return(fixtureTemplate(), nil)
	st.On("GetEventsByTemplate", mock.Anything, "tpl-1", mock.Anything).
		Return([]*storage.Event{syncedEvent()}, nil)
	st.On("GetEventPosts", mock.Anything, "ev-1").Return([]*storage.EventPost{}, nil)

	var createdPost *storage.EventPost
	st.On("CreateEventPost", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		createdPost = args.Get(1).(*storage.EventPost)
	}).Return(nil)
	st.On("CreateEventTask", mock.Anything, mock.Anything).Return(nil)

	service := New(st, storage.LinkCapability{PostLinks: true, TaskLinks: true})

	report, err := service.Synchronize(context.Background(), "tpl-1", mustDate("2024-06-01").Time)
	assert.NoError(t, err)

	assert.Equal(t, 1, report.PostsCreated)
	assert.Equal(t, 2, report.TasksCreated)
	assert.Equal(t, "tp-1", *createdPost.TemplatePostID)
}

func TestSynchronize_UpdatesDriftedTask(t *testing.T) {
	template := fixtureTemplate()
	// The template task moved closer to the event since materialization.
	template.Posts[0].Tasks[0].CriticalOffsetDays = 1
	template.Posts[0].Tasks[0].AlertOffsetDays = intPtr(4)

	st := new(StorageMock)
	st.On("GetTemplateDetails", mock.Anything, "tpl-1").Return(template, nil)
	st.On("GetEventsByTemplate", mock.Anything, "tpl-1", mock.Anything).
		Return([]*storage.Event{syncedEvent()}, nil)
	st.On("GetEventPosts", mock.Anything, "ev-1").Return(syncedPosts(), nil)
	st.On("GetEventTasks", mock.Anything, "ep-1").Return(syncedTasks(), nil)

	var updated *storage.EventTask
	st.On("UpdateEventTask", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = args.Get(1).(*storage.EventTask)
	}).Return(nil)

	service := New(st, storage.LinkCapability{PostLinks: true, TaskLinks: true})

	report, err := service.Synchronize(context.Background(), "tpl-1", mustDate("2024-06-01").Time)
	assert.NoError(t, err)

	assert.Equal(t, 1, report.TasksUpdated)
	assert.Equal(t, "et-1", updated.ID)
	assert.Equal(t, "2024-06-09", updated.DueDate.String())
	assert.Equal(t, "2024-06-06", updated.AlertDate.String())
}

func TestSynchronize_DeletesOrphanedPost(t *testing.T) {
	st := new(StorageMock)
	st.On("GetTemplateDetails", mock.Anything, "tpl-1").Return(fixtureTemplate(), nil)
	st.On("GetEventsByTemplate", mock.Anything, "tpl-1", mock.Anything).
		Return([]*storage.Event{syncedEvent()}, nil)

	posts := append(syncedPosts(), &storage.EventPost{
		ID:             "ep-gone",
		EventID:        "ev-1",
		Name:           "Catering",
		Position:       5,
		TemplatePostID: strPtr("tp-gone"),
	})
	st.On("GetEventPosts", mock.Anything, "ev-1").Return(posts, nil)
	st.On("GetEventTasks", mock.Anything, "ep-1").Return(syncedTasks(), nil)
	st.On("DeleteEventPost", mock.Anything, "ep-gone").Return(nil)

	service := New(st, storage.LinkCapability{PostLinks: true, TaskLinks: true})

	report, err := service.Synchronize(context.Background(), "tpl-1", mustDate("2024-06-01").Time)
	assert.NoError(t, err)

	assert.Equal(t, 1, report.PostsDeleted)
	st.AssertExpectations(t)
}

func TestSynchronize_AdoptsUnlinkedTaskByTuple(t *testing.T) {
	st := new(StorageMock)
	st.On("GetTemplateDetails", mock.Anything, "tpl-1").Return(fixtureTemplate(), nil)
	st.On("GetEventsByTemplate", mock.Anything, "tpl-1", mock.Anything).
		Return([]*storage.Event{syncedEvent()}, nil)
	st.On("GetEventPosts", mock.Anything, "ev-1").Return(syncedPosts(), nil)

	// Rows created before the link columns existed: same names and dates,
	// but no back-references.
	tasks := syncedTasks()
	for _, task := range tasks {
		task.TemplateTaskID = nil
	}
	st.On("GetEventTasks", mock.Anything, "ep-1").Return(tasks, nil)

	var updated []*storage.EventTask
	st.On("UpdateEventTask", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = append(updated, args.Get(1).(*storage.EventTask))
	}).Return(nil)

	service := New(st, storage.LinkCapability{PostLinks: true, TaskLinks: true})

	report, err := service.Synchronize(context.Background(), "tpl-1", mustDate("2024-06-01").Time)
	assert.NoError(t, err)

	// Both tasks are adopted in place, nothing is created or deleted.
	assert.Equal(t, 2, report.TasksUpdated)
	assert.Zero(t, report.TasksCreated)
	assert.Zero(t, report.TasksDeleted)

	assert.Len(t, updated, 2)
	assert.Equal(t, "tt-1", *updated[0].TemplateTaskID)
	assert.Equal(t, "tt-2", *updated[1].TemplateTaskID)
}

// Two template tasks with identical names and offsets must each claim their
// own pre-link row, not pile onto the first match.
func TestSynchronize_IdenticalTuplesAdoptDistinctTasks(t *testing.T) {
	template := fixtureTemplate()
	template.Posts[0].Tasks = []*storage.TemplateTask{
		{ID: "tt-a", TemplatePostID: "tp-1", Name: "Call coach", CriticalOffsetDays: 3, Position: 0},
		{ID: "tt-b", TemplatePostID: "tp-1", Name: "Call coach", CriticalOffsetDays: 3, Position: 1},
	}

	st := new(StorageMock)
	st.On("GetTemplateDetails", mock.Anything, "tpl-1").Return(template, nil)
	st.On("GetEventsByTemplate", mock.Anything, "tpl-1", mock.Anything).
		Return([]*storage.Event{syncedEvent()}, nil)
	st.On("GetEventPosts", mock.Anything, "ev-1").Return(syncedPosts(), nil)

	due := mustDate("2024-06-07")
	st.On("GetEventTasks", mock.Anything, "ep-1").Return([]*storage.EventTask{
		{ID: "et-a", EventPostID: "ep-1", Name: "Call coach", DueDate: &due, AlertDate: &due, Status: storage.TaskStatusTodo, Position: 0},
		{ID: "et-b", EventPostID: "ep-1", Name: "Call coach", DueDate: &due, AlertDate: &due, Status: storage.TaskStatusTodo, Position: 1},
	}, nil)

	var updated []*storage.EventTask
	st.On("UpdateEventTask", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = append(updated, args.Get(1).(*storage.EventTask))
	}).Return(nil)

	service := New(st, storage.LinkCapability{PostLinks: true, TaskLinks: true})

	report, err := service.Synchronize(context.Background(), "tpl-1", mustDate("2024-06-01").Time)
	assert.NoError(t, err)

	assert.Equal(t, 2, report.TasksUpdated)
	assert.Zero(t, report.TasksCreated)

	assert.Len(t, updated, 2)
	assert.NotEqual(t, updated[0].ID, updated[1].ID)
	assert.Equal(t, "tt-a", *updated[0].TemplateTaskID)
	assert.Equal(t, "tt-b", *updated[1].TemplateTaskID)
}

// Same property at the post level: one pre-link row, two same-named template
// posts. The first adopts the row, the second gets a fresh post.
func TestSynchronize_DuplicatePostNamesAdoptOnce(t *testing.T) {
	template := fixtureTemplate()
	template.Posts = []*storage.TemplatePostDetails{
		{TemplatePost: storage.TemplatePost{ID: "tp-x", TemplateID: "tpl-1", Name: "Warmup", Position: 0}},
		{TemplatePost: storage.TemplatePost{ID: "tp-y", TemplateID: "tpl-1", Name: "Warmup", Position: 1}},
	}

	st := new(StorageMock)
	st.On("GetTemplateDetails", mock.Anything, "tpl-1").Return(template, nil)
	st.On("GetEventsByTemplate", mock.Anything, "tpl-1", mock.Anything).
		Return([]*storage.Event{syncedEvent()}, nil)
	st.On("GetEventPosts", mock.Anything, "ev-1").Return([]*storage.EventPost{
		{ID: "ep-u", EventID: "ev-1", Name: "Warmup", Position: 0},
	}, nil)
	st.On("GetEventTasks", mock.Anything, "ep-u").Return([]*storage.EventTask{}, nil)

	var adopted *storage.EventPost
	st.On("UpdateEventPost", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		adopted = args.Get(1).(*storage.EventPost)
	}).Return(nil)

	var created *storage.EventPost
	st.On("CreateEventPost", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*storage.EventPost)
	}).Return(nil)

	service := New(st, storage.LinkCapability{PostLinks: true, TaskLinks: true})

	report, err := service.Synchronize(context.Background(), "tpl-1", mustDate("2024-06-01").Time)
	assert.NoError(t, err)

	assert.Equal(t, 1, report.PostsUpdated)
	assert.Equal(t, 1, report.PostsCreated)
	assert.Equal(t, "ep-u", adopted.ID)
	assert.Equal(t, "tp-x", *adopted.TemplatePostID)
	assert.Equal(t, "tp-y", *created.TemplatePostID)
}
