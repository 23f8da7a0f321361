package get

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"matchplanner/internal/storage"
)

type EventStoreMock struct {
	mock.Mock
}

func (m *EventStoreMock) GetEvents(ctx context.Context, teamID string, includePast bool, today storage.Date) ([]*storage.Event, error) {
	args := m.Called(ctx, teamID, includePast, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Event), args.Error(1)
}

func (m *EventStoreMock) GetEventDetails(ctx context.Context, id string) (*storage.EventDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.EventDetails), args.Error(1)
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 11, 9, 30, 0, 0, time.UTC)
}

func mustDate(s string) storage.Date {
	d, err := storage.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func getWithID(handler http.HandlerFunc, target, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func fixtureDetails() *storage.EventDetails {
	due := mustDate("2024-06-10")
	alert := mustDate("2024-06-05")
	name := "Anna K."

	return &storage.EventDetails{
		Event: storage.Event{
			ID:        "ev-1",
			TeamID:    "team-1",
			Name:      "vs. Rivals",
			EventDate: mustDate("2024-06-15"),
		},
		Posts: []*storage.EventPostDetails{
			{
				EventPost: storage.EventPost{ID: "ep-1", Name: "Logistics"},
				Tasks: []*storage.EventTaskDetails{
					{
						EventTask: storage.EventTask{
							ID:              "et-1",
							Name:            "Book referees",
							DueDate:         &due,
							AlertDate:       &alert,
							Status:          storage.TaskStatusTodo,
							ResponsibleName: &name,
						},
					},
				},
			},
		},
	}
}

func TestGetEventDetails_ColorsAndResponsible(t *testing.T) {
	store := new(EventStoreMock)
	store.On("GetEventDetails", mock.Anything, "ev-1").Return(fixtureDetails(), nil)

	handler := GetEventDetails(slog.Default(), store, fixedNow)

	rr := getWithID(handler, "/api/events/ev-1", "ev-1")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		ID          string `json:"id"`
		StatusColor string `json:"status_color"`
		Posts       []struct {
			Tasks []struct {
				ID          string `json:"id"`
				StatusColor string `json:"status_color"`
				Responsible string `json:"responsible"`
			} `json:"tasks"`
		} `json:"posts"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	// The task is one day past due on 2024-06-11.
	assert.Equal(t, "ev-1", resp.ID)
	assert.Equal(t, "red", resp.StatusColor)
	assert.Len(t, resp.Posts, 1)
	assert.Equal(t, "red", resp.Posts[0].Tasks[0].StatusColor)
	assert.Equal(t, "Anna K.", resp.Posts[0].Tasks[0].Responsible)
}

func TestGetEventDetails_NotFound(t *testing.T) {
	store := new(EventStoreMock)
	store.On("GetEventDetails", mock.Anything, "missing").Return(nil, storage.ErrNotFound)

	handler := GetEventDetails(slog.Default(), store, fixedNow)

	rr := getWithID(handler, "/api/events/missing", "missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetEvents_FiltersForwarded(t *testing.T) {
	store := new(EventStoreMock)
	store.On("GetEvents", mock.Anything, "team-1", true, mustDate("2024-06-11")).
		Return([]*storage.Event{{ID: "ev-1", TeamID: "team-1"}}, nil)

	handler := GetEvents(slog.Default(), store, fixedNow)

	req := httptest.NewRequest(http.MethodGet, "/api/events?team_id=team-1&include_past=1", nil)
	rr := httptest.NewRecorder()
	handler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	store.AssertExpectations(t)
}

func TestGetEvents_WithStatusComputesColors(t *testing.T) {
	store := new(EventStoreMock)
	store.On("GetEvents", mock.Anything, "", false, mustDate("2024-06-11")).
		Return([]*storage.Event{{ID: "ev-1"}}, nil)
	store.On("GetEventDetails", mock.Anything, "ev-1").Return(fixtureDetails(), nil)

	handler := GetEvents(slog.Default(), store, fixedNow)

	req := httptest.NewRequest(http.MethodGet, "/api/events?with_status=1", nil)
	rr := httptest.NewRecorder()
	handler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []struct {
		ID          string `json:"id"`
		StatusColor string `json:"status_color"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, "red", resp[0].StatusColor)
}
