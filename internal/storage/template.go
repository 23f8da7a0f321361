package storage

import "time"

type EventTemplate struct {
	ID          string    `json:"id"`
	TeamID      *string   `json:"team_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedBy   *string   `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type TemplatePost struct {
	ID                     string  `json:"id"`
	TemplateID             string  `json:"template_id"`
	Name                   string  `json:"name"`
	DefaultUserID          *string `json:"default_user_id"`
	DefaultResponsibleName *string `json:"default_responsible_name"`
	Position               int     `json:"position"`
}

// TemplateTask carries day-offsets counted backward from the future event's
// date. CriticalOffsetDays is mandatory; AlertOffsetDays is optional and,
// when set, must be >= CriticalOffsetDays (the alert date lands earlier or
// on the same day as the due date).
type TemplateTask struct {
	ID                     string  `json:"id"`
	TemplatePostID         string  `json:"template_post_id"`
	Name                   string  `json:"name"`
	CriticalOffsetDays     int     `json:"default_due_offset_days"`
	AlertOffsetDays        *int    `json:"default_alert_offset_days"`
	DefaultUserID          *string `json:"default_user_id"`
	DefaultResponsibleName *string `json:"default_responsible_name"`
	Position               int     `json:"position"`
}

type TemplatePostDetails struct {
	TemplatePost
	DefaultUser *UserProfile    `json:"default_user"`
	Tasks       []*TemplateTask `json:"tasks"`
}

type TemplateDetails struct {
	EventTemplate
	Team  *Team                  `json:"team"`
	Posts []*TemplatePostDetails `json:"posts"`
}
