package schedule

import "matchplanner/internal/storage"

// Unassigned is the sentinel shown when no responsible can be resolved.
const Unassigned = "unassigned"

// ResolveResponsible walks the fixed precedence chain: explicit task
// responsible name, assigned user, post default name, post default user,
// then the unassigned sentinel.
func ResolveResponsible(task *storage.EventTaskDetails, post *storage.EventPostDetails) string {
	if task.ResponsibleName != nil && *task.ResponsibleName != "" {
		return *task.ResponsibleName
	}
	if name := task.Assignee.FullName(); name != "" {
		return name
	}
	if post != nil {
		if post.DefaultResponsibleName != nil && *post.DefaultResponsibleName != "" {
			return *post.DefaultResponsibleName
		}
		if name := post.DefaultUser.FullName(); name != "" {
			return name
		}
	}
	return Unassigned
}
