package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/apelahishokr/tracker/internal/access"
	"github.com/apelahishokr/tracker/internal/logging"
	"github.com/apelahishokr/tracker/internal/store"
	"github.com/apelahishokr/tracker/types"
	"go.uber.org/zap"
)

// History field names.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldAssignedTo  = "assigned_to"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldComments    = "comments"
)

// TaskInput carries the raw values for a new task. Priority and Status are
// parsed with types.ParsePriority and types.ParseStatus.
type TaskInput struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
	AssignedTo  []string
	Priority    string
	Status      string
	Comment     string
}

// TaskUpdate carries the fields to change on the full update path.
// Empty values leave the field alone.
type TaskUpdate struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
	AssignedTo  []string
	Priority    string
	Status      string
	Comment     string
}

// RestrictedUpdate is what an assigned non-leader may change.
type RestrictedUpdate struct {
	Status  string
	Comment string
}

// AssignedTask locates a task assigned to a user.
type AssignedTask struct {
	Project *types.Project
	TaskID  int
	Task    *types.Task
}

// TaskService implements task creation, mutation and change history.
type TaskService struct {
	logger *logging.Logger
	now    func() time.Time
}

func NewTaskService(logger *logging.Logger) *TaskService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TaskService{logger: logger, now: time.Now}
}

// WithClock replaces the timestamp source used for history records.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// CreateTask adds a task to the project under the project's next identifier.
// Invalid priority or status returns a *types.ParseError and adds nothing.
func (s *TaskService) CreateTask(ctx context.Context, project *types.Project, in TaskInput) (int, *types.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, nil, ErrMissingFields
	}
	priority, err := types.ParsePriority(in.Priority)
	if err != nil {
		return 0, nil, err
	}
	status, err := types.ParseStatus(in.Status)
	if err != nil {
		return 0, nil, err
	}

	task := &types.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		AssignedTo:  mergeUsernames(nil, in.AssignedTo),
		Priority:    priority,
		Status:      status,
		History:     []types.HistoryRecord{},
	}
	if comment := strings.TrimSpace(in.Comment); comment != "" {
		task.Comments = project.Leader + ": " + comment
	}

	if project.Tasks == nil {
		project.Tasks = make(map[int]*types.Task)
	}
	if project.NextTaskID < 1 {
		project.NextTaskID = 1
	}
	id := project.NextTaskID
	for project.Tasks[id] != nil {
		id++
	}
	project.Tasks[id] = task
	project.NextTaskID = id + 1

	s.logger.Info(ctx, "task created",
		zap.String("project_id", project.ID),
		zap.Int("task_id", id),
		zap.String("title", task.Title),
	)
	return id, task, nil
}

// Authorize looks up a task and decides which update path the actor gets.
func (s *TaskService) Authorize(ctx context.Context, project *types.Project, taskID int, username string, role types.Role) (*types.Task, access.UpdateMode, error) {
	task, ok := project.Tasks[taskID]
	if !ok {
		return nil, access.ModeDenied, fmt.Errorf("%w: task %d", store.ErrNotFound, taskID)
	}
	mode := access.TaskUpdateMode(task, project.Leader, username, role)
	if mode == access.ModeDenied {
		s.logger.Warn(ctx, "task update denied",
			zap.String("project_id", project.ID),
			zap.Int("task_id", taskID),
			zap.String("username", username),
		)
		return task, mode, ErrForbidden
	}
	return task, mode, nil
}

// UpdateFull applies every non-empty field of upd and appends one history
// record per changed field. Priority and status are validated first; if
// either is invalid nothing changes.
func (s *TaskService) UpdateFull(ctx context.Context, task *types.Task, upd TaskUpdate, editor string) ([]types.HistoryRecord, error) {
	var (
		priority types.Priority
		status   types.Status
		err      error
	)
	if upd.Priority != "" {
		if priority, err = types.ParsePriority(upd.Priority); err != nil {
			return nil, err
		}
	}
	if upd.Status != "" {
		if status, err = types.ParseStatus(upd.Status); err != nil {
			return nil, err
		}
	}

	var records []types.HistoryRecord
	set := func(field string, current *string, value string) {
		if value == "" || value == *current {
			return
		}
		records = append(records, s.RecordHistory(task, field, *current, value, editor))
		*current = value
	}

	set(FieldTitle, &task.Title, strings.TrimSpace(upd.Title))
	set(FieldDescription, &task.Description, upd.Description)
	set(FieldStartDate, &task.StartDate, upd.StartDate)
	set(FieldEndDate, &task.EndDate, upd.EndDate)

	if merged := mergeUsernames(task.AssignedTo, upd.AssignedTo); len(merged) != len(task.AssignedTo) {
		records = append(records, s.RecordHistory(task, FieldAssignedTo,
			strings.Join(task.AssignedTo, ","), strings.Join(merged, ","), editor))
		task.AssignedTo = merged
	}

	if priority != 0 && priority != task.Priority {
		records = append(records, s.RecordHistory(task, FieldPriority, task.Priority.String(), priority.String(), editor))
		task.Priority = priority
	}
	if status != 0 && status != task.Status {
		records = append(records, s.RecordHistory(task, FieldStatus, task.Status.String(), status.String(), editor))
		task.Status = status
	}
	if rec, ok := s.appendComment(task, upd.Comment, editor); ok {
		records = append(records, rec)
	}

	s.logUpdate(ctx, "task updated", editor, records)
	return records, nil
}

// UpdateRestricted changes only status and comments. Comments are appended
// as "editor: text" on a new line.
func (s *TaskService) UpdateRestricted(ctx context.Context, task *types.Task, upd RestrictedUpdate, editor string) ([]types.HistoryRecord, error) {
	var status types.Status
	if upd.Status != "" {
		parsed, err := types.ParseStatus(upd.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	var records []types.HistoryRecord
	if status != 0 && status != task.Status {
		records = append(records, s.RecordHistory(task, FieldStatus, task.Status.String(), status.String(), editor))
		task.Status = status
	}
	if rec, ok := s.appendComment(task, upd.Comment, editor); ok {
		records = append(records, rec)
	}

	s.logUpdate(ctx, "task updated (restricted)", editor, records)
	return records, nil
}

// RecordHistory appends a change record to the task. oldValue must be read
// before the field is overwritten.
func (s *TaskService) RecordHistory(task *types.Task, field, oldValue, newValue, editor string) types.HistoryRecord {
	rec := types.HistoryRecord{
		Field:     field,
		Old:       oldValue,
		New:       newValue,
		UpdatedBy: editor,
		Date:      s.now(),
	}
	task.History = append(task.History, rec)
	return rec
}

func (s *TaskService) appendComment(task *types.Task, text, editor string) (types.HistoryRecord, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.HistoryRecord{}, false
	}
	blob := editor + ": " + text
	if task.Comments != "" {
		blob = task.Comments + "\n" + blob
	}
	rec := s.RecordHistory(task, FieldComments, task.Comments, blob, editor)
	task.Comments = blob
	return rec, true
}

func (s *TaskService) logUpdate(ctx context.Context, msg, editor string, records []types.HistoryRecord) {
	fields := make([]string, 0, len(records))
	for _, rec := range records {
		fields = append(fields, rec.Field)
	}
	s.logger.Info(ctx, msg, zap.String("editor", editor), zap.Strings("fields", fields))
}

// AssignedTasks lists every task assigned to username, ordered by project
// title and task id.
func (s *TaskService) AssignedTasks(projects map[string]*types.Project, username string) []AssignedTask {
	var out []AssignedTask
	for _, project := range projects {
		for _, id := range project.TaskIDs() {
			if task := project.Tasks[id]; task.IsAssigned(username) {
				out = append(out, AssignedTask{Project: project, TaskID: id, Task: task})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Project.Title != out[j].Project.Title {
			return out[i].Project.Title < out[j].Project.Title
		}
		if out[i].Project.ID != out[j].Project.ID {
			return out[i].Project.ID < out[j].Project.ID
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

// SplitUsernames parses a comma-separated username list.
func SplitUsernames(s string) []string {
	return mergeUsernames(nil, strings.Split(s, ","))
}

// mergeUsernames appends trimmed, non-empty names from add that are not
// already present in base.
func mergeUsernames(base, add []string) []string {
	out := append([]string(nil), base...)
	seen := make(map[string]bool, len(base)+len(add))
	for _, u := range base {
		seen[u] = true
	}
	for _, u := range add {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
