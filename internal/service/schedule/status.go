package schedule

import (
	"time"

	"matchplanner/internal/storage"
)

// Color is the traffic-light urgency of a task or event.
type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorGreen  Color = "green"
)

func (c Color) rank() int {
	switch c {
	case ColorRed:
		return 2
	case ColorOrange:
		return 1
	default:
		return 0
	}
}

// Worse returns the more urgent of two colors, red > orange > green.
func Worse(a, b Color) Color {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// TaskColor classifies one task against the given day. Completion is
// terminal and overrides all date logic. Red is reserved for strictly past
// the due date; the day of either deadline is orange, leaving the
// responsible the full day to act.
func TaskColor(task *storage.EventTask, today time.Time) Color {
	if task.Completed() {
		return ColorGreen
	}

	day := Midnight(today)

	var due, alert *time.Time
	if task.DueDate != nil {
		d := Midnight(task.DueDate.Time)
		due = &d
	}
	if task.AlertDate != nil {
		a := Midnight(task.AlertDate.Time)
		alert = &a
	}

	if due != nil && day.After(*due) {
		return ColorRed
	}
	if alert != nil && day.After(*alert) {
		return ColorOrange
	}
	if alert != nil && day.Equal(*alert) {
		return ColorOrange
	}
	if due != nil && day.Equal(*due) {
		return ColorOrange
	}

	return ColorGreen
}

// EventColor folds the worst color over every incomplete task of the event,
// short-circuiting on the first red. All tasks completed (or none at all)
// means green.
func EventColor(event *storage.EventDetails, today time.Time) Color {
	worst := ColorGreen
	for _, post := range event.Posts {
		for _, task := range post.Tasks {
			if task.Completed() {
				continue
			}
			color := TaskColor(&task.EventTask, today)
			if color == ColorRed {
				return ColorRed
			}
			worst = Worse(worst, color)
		}
	}
	return worst
}
