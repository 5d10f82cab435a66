// Package access decides who may view or change projects and tasks.
// Every function here is a pure predicate; callers check before mutating.
package access

import (
	"sort"

	"github.com/apelahishokr/tracker/types"
)

// UpdateMode selects which task update path an actor is routed to.
type UpdateMode int

const (
	// ModeDenied means the actor may not update the task at all.
	ModeDenied UpdateMode = iota
	// ModeRestricted allows status and comment changes only.
	ModeRestricted
	// ModeFull allows every field to change.
	ModeFull
)

func (m UpdateMode) String() string {
	switch m {
	case ModeRestricted:
		return "restricted"
	case ModeFull:
		return "full"
	default:
		return "denied"
	}
}

// CanAccessProject is true for the leader, any member, and any admin.
func CanAccessProject(project *types.Project, username string, role types.Role) bool {
	if project == nil {
		return false
	}
	return username == project.Leader || project.IsMember(username) || role == types.RoleAdmin
}

// CanManageProject is true for the leader and any admin. It gates membership
// edits, task creation and removal, and project removal.
func CanManageProject(project *types.Project, username string, role types.Role) bool {
	if project == nil {
		return false
	}
	return username == project.Leader || role == types.RoleAdmin
}

// CanAccessTask is true for the project leader, any user assigned to the
// task, and any admin.
func CanAccessTask(task *types.Task, leader, username string, role types.Role) bool {
	if task == nil {
		return false
	}
	return username == leader || task.IsAssigned(username) || role == types.RoleAdmin
}

// TaskUpdateMode maps an actor to an update path: the leader and admins get
// the full path, other assigned users the restricted one, everyone else none.
func TaskUpdateMode(task *types.Task, leader, username string, role types.Role) UpdateMode {
	if !CanAccessTask(task, leader, username, role) {
		return ModeDenied
	}
	if username != leader && role != types.RoleAdmin {
		return ModeRestricted
	}
	return ModeFull
}

// VisibleProjects returns the projects the actor can access, ordered by
// title then id so menu indices stay stable.
func VisibleProjects(projects map[string]*types.Project, username string, role types.Role) []*types.Project {
	visible := make([]*types.Project, 0, len(projects))
	for _, p := range projects {
		if CanAccessProject(p, username, role) {
			visible = append(visible, p)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		if visible[i].Title != visible[j].Title {
			return visible[i].Title < visible[j].Title
		}
		return visible[i].ID < visible[j].ID
	})
	return visible
}
