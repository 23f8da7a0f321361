package storage

import "time"

const (
	TaskStatusTodo = "todo"
	TaskStatusDone = "done"
)

type Event struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	TemplateID  *string   `json:"template_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	EventDate   Date      `json:"event_date"`
	CreatedBy   *string   `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventPost is the materialized copy of a TemplatePost for one event.
// TemplatePostID is nil on schemas without link columns and on rows that
// predate them; matching then falls back to the post name.
type EventPost struct {
	ID                     string  `json:"id"`
	EventID                string  `json:"event_id"`
	Name                   string  `json:"name"`
	DefaultUserID          *string `json:"default_user_id"`
	DefaultResponsibleName *string `json:"default_responsible_name"`
	Position               int     `json:"position"`
	TemplatePostID         *string `json:"template_post_id"`
}

type EventTask struct {
	ID              string     `json:"id"`
	EventPostID     string     `json:"event_post_id"`
	Name            string     `json:"name"`
	AssigneeUserID  *string    `json:"assignee_user_id"`
	DueDate         *Date      `json:"due_date"`
	AlertDate       *Date      `json:"alert_date"`
	ReferenceDate   *Date      `json:"reference_date"`
	Status          string     `json:"status"`
	CompletedAt     *time.Time `json:"completed_at"`
	CompletedBy     *string    `json:"completed_by"`
	Position        int        `json:"position"`
	CreatedAt       time.Time  `json:"created_at"`
	ResponsibleName *string    `json:"responsible_name"`
	TemplateTaskID  *string    `json:"template_task_id"`
}

func (t *EventTask) Completed() bool {
	return t.CompletedAt != nil
}

type EventTaskDetails struct {
	EventTask
	Assignee        *UserProfile         `json:"assignee"`
	CompletedByUser *UserProfile         `json:"completed_by_user"`
	Comments        []*CommentWithAuthor `json:"comments"`
	Attachments     []*Attachment        `json:"attachments,omitempty"`
}

type EventPostDetails struct {
	EventPost
	DefaultUser *UserProfile        `json:"default_user"`
	Tasks       []*EventTaskDetails `json:"tasks"`
}

type EventDetails struct {
	Event
	Team     *Team               `json:"team"`
	Template *EventTemplate      `json:"template"`
	Posts    []*EventPostDetails `json:"posts"`
}
