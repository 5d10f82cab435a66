package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/apelahishokr/tracker/internal/access"
	"github.com/apelahishokr/tracker/internal/services"
	"github.com/apelahishokr/tracker/internal/store"
	"github.com/apelahishokr/tracker/types"
)

const (
	projectViewTasks = iota + 1
	projectAddTask
	projectUpdateTask
	projectRemoveTask
	projectAddMember
	projectRemoveMember
	projectRemove
	projectBack
)

var projectOptions = []string{
	"View tasks",
	"Add task",
	"Update task",
	"Remove task",
	"Add member",
	"Remove member",
	"Remove project",
	"Back",
}

// projectMenu manages one project until the user goes back or removes it.
func (s *Shell) projectMenu(ctx context.Context, sess session, project *types.Project) error {
	if !access.CanAccessProject(project, sess.username, sess.role) {
		s.ui.fail("You do not have access to this project.")
		return nil
	}

	for {
		s.ui.projectHeader(project)
		s.ui.menu("Project Menu", projectOptions...)
		raw, err := s.prompt("Choose an option: ")
		if err != nil {
			return err
		}
		choice, convErr := strconv.Atoi(raw)
		if convErr != nil || choice < projectViewTasks || choice > projectBack {
			s.ui.fail("Invalid choice.")
			continue
		}
		if choice == projectBack {
			return nil
		}

		if choice != projectViewTasks && choice != projectUpdateTask &&
			!access.CanManageProject(project, sess.username, sess.role) {
			s.ui.fail("Only the project leader or an admin can do that.")
			continue
		}

		switch choice {
		case projectViewTasks:
			err = s.viewTasks(ctx, sess, project)
		case projectAddTask:
			err = s.addTask(ctx, project)
		case projectUpdateTask:
			err = s.updateTask(ctx, sess, project)
		case projectRemoveTask:
			err = s.removeTask(ctx, project)
		case projectAddMember:
			err = s.addMember(ctx, project)
		case projectRemoveMember:
			err = s.removeMember(ctx, project)
		case projectRemove:
			removed, removeErr := s.removeProject(ctx, project)
			if removeErr != nil || removed {
				return removeErr
			}
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) addMember(ctx context.Context, project *types.Project) error {
	username, err := s.prompt("Enter username to add: ")
	if err != nil {
		return err
	}
	exists, err := s.accounts.Exists(ctx, username)
	if err != nil {
		return err
	}
	if !exists {
		s.ui.fail(fmt.Sprintf("User %q not found.", username))
		return nil
	}

	added, err := s.projects.AddMember(ctx, project.ID, username)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			s.ui.fail("Username is required.")
			return nil
		}
		return err
	}
	if !added {
		s.ui.warn("User already has access to this project.")
		return nil
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.ui.success("User added successfully!")
	return nil
}

func (s *Shell) removeMember(ctx context.Context, project *types.Project) error {
	username, err := s.prompt("Enter username to remove: ")
	if err != nil {
		return err
	}
	removed, err := s.projects.RemoveMember(ctx, project.ID, username)
	if err != nil {
		if errors.Is(err, services.ErrLeaderRemoval) {
			s.ui.fail("The project leader cannot be removed.")
			return nil
		}
		return err
	}
	if !removed {
		s.ui.warn("User not found in this project.")
		return nil
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.ui.success("User removed successfully!")
	return nil
}

func (s *Shell) removeProject(ctx context.Context, project *types.Project) (bool, error) {
	confirm, err := s.prompt(fmt.Sprintf("Remove project %q? Type YES to confirm: ", project.Title))
	if err != nil {
		return false, err
	}
	if confirm != "YES" {
		s.ui.info("Project kept.")
		return false, nil
	}
	if err := s.projects.RemoveProject(ctx, project.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.ui.fail("Project ID not found.")
			return true, nil
		}
		return false, err
	}
	if err := s.persist(ctx); err != nil {
		return false, err
	}
	s.ui.success("Project removed successfully!")
	return true, nil
}

func (s *Shell) removeTask(ctx context.Context, project *types.Project) error {
	id, ok, err := s.promptTaskID("Enter the task ID to remove: ")
	if err != nil || !ok {
		return err
	}
	if err := s.projects.RemoveTask(ctx, project.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.ui.fail("Task ID not found.")
			return nil
		}
		return err
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.ui.success("Task removed successfully!")
	return nil
}
