package storage

import "errors"

var (
	// ErrNotFound is returned by read paths when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrLinkingUnsupported is returned when the schema lacks the template
	// back-reference columns required by synchronization. Fatal for sync,
	// elsewhere the name-based fallback matching applies.
	ErrLinkingUnsupported = errors.New("template linking is not supported by the current schema: " +
		"add event_posts.template_post_id and event_tasks.template_task_id columns to enable synchronization")
)

// LinkCapability says whether the schema carries back-references from
// materialized posts/tasks to their template counterparts. Probed once at
// startup and passed down explicitly, never cached lazily.
type LinkCapability struct {
	PostLinks bool
	TaskLinks bool
}

func (c LinkCapability) Supported() bool {
	return c.PostLinks && c.TaskLinks
}
