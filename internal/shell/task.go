package shell

import (
	"context"
	"errors"

	"github.com/apelahishokr/tracker/internal/access"
	"github.com/apelahishokr/tracker/internal/services"
	"github.com/apelahishokr/tracker/internal/store"
	"github.com/apelahishokr/tracker/types"
)

// viewTasks lists the tasks the actor can access and optionally shows one
// task with its history.
func (s *Shell) viewTasks(ctx context.Context, sess session, project *types.Project) error {
	var ids []int
	for _, id := range project.TaskIDs() {
		if access.CanAccessTask(project.Tasks[id], project.Leader, sess.username, sess.role) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		s.ui.warn("No tasks to show.")
		return nil
	}
	s.ui.taskTable(project, ids)

	for {
		id, ok, err := s.promptTaskID("Enter a task ID for details (or press Enter to go back): ")
		if err != nil || !ok {
			return err
		}
		task, found := project.Tasks[id]
		if !found || !access.CanAccessTask(task, project.Leader, sess.username, sess.role) {
			s.ui.fail("Task ID not found.")
			continue
		}
		s.ui.taskDetail(id, task)
	}
}

func (s *Shell) addTask(ctx context.Context, project *types.Project) error {
	var in services.TaskInput
	var err error

	if in.Title, err = s.promptRequired("Enter task title: "); err != nil {
		return err
	}
	if in.Description, err = s.prompt("Enter task description: "); err != nil {
		return err
	}
	if in.StartDate, err = s.prompt("Enter start date (YYYY-MM-DD): "); err != nil {
		return err
	}
	if in.EndDate, err = s.prompt("Enter end date (YYYY-MM-DD): "); err != nil {
		return err
	}
	assigned, err := s.prompt("Enter comma-separated usernames assigned to this task: ")
	if err != nil {
		return err
	}
	in.AssignedTo = services.SplitUsernames(assigned)

	priority, err := s.promptPriority("Enter task priority (Critical/High/Medium/Low): ", false)
	if err != nil {
		return err
	}
	in.Priority = priority.String()

	status, err := s.promptStatus("Enter task status (Backlog/ToDo/Doing/Done/Archived): ", false)
	if err != nil {
		return err
	}
	in.Status = status.String()

	if in.Comment, err = s.prompt("Enter comments for the task: "); err != nil {
		return err
	}

	id, _, err := s.tasks.CreateTask(ctx, project, in)
	if err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.ui.success("Task added successfully! (ID " + itoa(id) + ")")
	return nil
}

func (s *Shell) updateTask(ctx context.Context, sess session, project *types.Project) error {
	id, ok, err := s.promptTaskID("Enter the task ID to update: ")
	if err != nil || !ok {
		return err
	}

	task, mode, err := s.tasks.Authorize(ctx, project, id, sess.username, sess.role)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.ui.fail("Task ID not found.")
		return nil
	case errors.Is(err, services.ErrForbidden):
		s.ui.fail("You do not have access to this task.")
		return nil
	case err != nil:
		return err
	}

	var records []types.HistoryRecord
	if mode == access.ModeFull {
		records, err = s.updateFull(ctx, sess, task)
	} else {
		records, err = s.updateRestricted(ctx, sess, task)
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		s.ui.info("No changes.")
		return nil
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.ui.success("Task updated successfully!")
	return nil
}

func (s *Shell) updateFull(ctx context.Context, sess session, task *types.Task) ([]types.HistoryRecord, error) {
	var upd services.TaskUpdate
	var err error

	s.ui.info("Leave a field blank to keep its current value.")
	if upd.Title, err = s.prompt("New title [" + task.Title + "]: "); err != nil {
		return nil, err
	}
	if upd.Description, err = s.prompt("New description: "); err != nil {
		return nil, err
	}
	if upd.StartDate, err = s.prompt("New start date [" + task.StartDate + "]: "); err != nil {
		return nil, err
	}
	if upd.EndDate, err = s.prompt("New end date [" + task.EndDate + "]: "); err != nil {
		return nil, err
	}
	assigned, err := s.prompt("Usernames to assign (comma-separated): ")
	if err != nil {
		return nil, err
	}
	upd.AssignedTo = services.SplitUsernames(assigned)

	priority, err := s.promptPriority("New priority ["+task.Priority.String()+"]: ", true)
	if err != nil {
		return nil, err
	}
	upd.Priority = priority.String()

	status, err := s.promptStatus("New status ["+task.Status.String()+"]: ", true)
	if err != nil {
		return nil, err
	}
	upd.Status = status.String()

	if upd.Comment, err = s.prompt("Add a comment: "); err != nil {
		return nil, err
	}
	return s.tasks.UpdateFull(ctx, task, upd, sess.username)
}

func (s *Shell) updateRestricted(ctx context.Context, sess session, task *types.Task) ([]types.HistoryRecord, error) {
	var upd services.RestrictedUpdate

	s.ui.info("You can change the status and add a comment.")
	status, err := s.promptStatus("New status ["+task.Status.String()+"]: ", true)
	if err != nil {
		return nil, err
	}
	upd.Status = status.String()

	if upd.Comment, err = s.prompt("Add a comment: "); err != nil {
		return nil, err
	}
	return s.tasks.UpdateRestricted(ctx, task, upd, sess.username)
}

func (s *Shell) promptRequired(label string) (string, error) {
	for {
		v, err := s.prompt(label)
		if err != nil || v != "" {
			return v, err
		}
		s.ui.fail("A value is required.")
	}
}

// promptPriority re-prompts until the input names a priority. With
// optional set, empty input returns the zero Priority.
func (s *Shell) promptPriority(label string, optional bool) (types.Priority, error) {
	for {
		raw, err := s.prompt(label)
		if err != nil {
			return 0, err
		}
		if raw == "" && optional {
			return 0, nil
		}
		p, err := types.ParsePriority(raw)
		if err == nil {
			return p, nil
		}
		s.ui.fail("Invalid input: " + err.Error())
	}
}

// promptStatus re-prompts until the input names a status. With optional
// set, empty input returns the zero Status.
func (s *Shell) promptStatus(label string, optional bool) (types.Status, error) {
	for {
		raw, err := s.prompt(label)
		if err != nil {
			return 0, err
		}
		if raw == "" && optional {
			return 0, nil
		}
		st, err := types.ParseStatus(raw)
		if err == nil {
			return st, nil
		}
		s.ui.fail("Invalid input: " + err.Error())
	}
}
