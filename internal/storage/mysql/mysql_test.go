package mysql

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"matchplanner/internal/storage"
)

// Integration tests run against a real schema. Point TEST_DATABASE_DSN at a
// scratch database (e.g. root:@tcp(localhost:3306)/matchplanner_test) before
// running; without it the tests skip.
func testStorage(t *testing.T) *Storage {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := sql.Open("mysql", dsn+"?parseTime=true&clientFoundRows=true")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := &Storage{db: db}
	if err := s.probeLinkCapability(context.Background()); err != nil {
		t.Fatalf("probe link capability: %v", err)
	}
	return s
}

func TestLinkCapabilityProbe(t *testing.T) {
	s := testStorage(t)

	// The shipped schema carries both link columns.
	caps := s.LinkCapability()
	assert.True(t, caps.Supported())
}

func TestTeamRoundTrip(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	team := &storage.Team{Name: "VC Test Harriers"}
	assert.NoError(t, s.CreateTeam(ctx, team))
	assert.NotEmpty(t, team.ID)
	t.Cleanup(func() { _ = s.DeleteTeam(ctx, team.ID) })

	got, err := s.GetTeam(ctx, team.ID)
	assert.NoError(t, err)
	assert.Equal(t, team.Name, got.Name)

	assert.NoError(t, s.UpdateTeam(ctx, team.ID, "VC Test Harriers 2"))

	updated, err := s.GetTeam(ctx, team.ID)
	assert.NoError(t, err)
	assert.Equal(t, "VC Test Harriers 2", updated.Name)
}

// A no-op write against an existing row must not surface as not-found; the
// DSN's clientFoundRows option makes RowsAffected count matched rows.
func TestNoOpUpdateIsNotANotFound(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	team := &storage.Team{Name: "VC No-op"}
	assert.NoError(t, s.CreateTeam(ctx, team))
	t.Cleanup(func() { _ = s.DeleteTeam(ctx, team.ID) })

	event := &storage.Event{TeamID: team.ID, Name: "vs. Rivals", EventDate: storage.NewDate(time.Now())}
	assert.NoError(t, s.CreateEvent(ctx, event))
	t.Cleanup(func() { _ = s.DeleteEvent(ctx, event.ID) })

	post := &storage.EventPost{EventID: event.ID, Name: "Logistics"}
	assert.NoError(t, s.CreateEventPost(ctx, post))

	task := &storage.EventTask{EventPostID: post.ID, Name: "Book referees"}
	assert.NoError(t, s.CreateEventTask(ctx, task))

	// The task is already open; reopening it changes nothing and must
	// still succeed.
	assert.NoError(t, s.ReopenEventTask(ctx, task.ID))
	assert.NoError(t, s.ReopenEventTask(ctx, task.ID))

	// Re-submitting the current name is equally a no-op.
	assert.NoError(t, s.UpdateTeam(ctx, team.ID, "VC No-op"))

	// Genuinely missing rows still 404.
	assert.ErrorIs(t, s.ReopenEventTask(ctx, "no-such-id"), storage.ErrNotFound)
}

func TestGetTeam_NotFound(t *testing.T) {
	s := testStorage(t)

	_, err := s.GetTeam(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
