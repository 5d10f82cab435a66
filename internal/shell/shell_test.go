package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/apelahishokr/tracker/internal/logging"
	"github.com/apelahishokr/tracker/internal/services"
	"github.com/apelahishokr/tracker/internal/storage"
	"github.com/apelahishokr/tracker/internal/store"
	"github.com/apelahishokr/tracker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	storage  *storage.Storage
	accounts *services.AccountService
	tasks    *services.TaskService
	out      *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := storage.NewStorage(storage.NewDiskClient(t.TempDir()))
	return &harness{
		storage:  s,
		accounts: services.NewAccountService(store.NewAccountRepository(s, "accounts.csv"), nil).WithHashCost(4),
		tasks:    services.NewTaskService(nil),
		out:      &bytes.Buffer{},
	}
}

func (h *harness) signUp(t *testing.T, username string) {
	t.Helper()
	_, err := h.accounts.SignUp(context.Background(), username, "pw-"+username, username+"@example.com")
	require.NoError(t, err)
}

func (h *harness) projects() *services.ProjectService {
	return services.NewProjectService(store.NewProjectRepository(h.storage, "projects.json", nil), nil)
}

// run plays the given input lines through a fresh shell and returns the
// project store as persisted on disk afterwards.
func (h *harness) run(t *testing.T, lines ...string) map[string]*types.Project {
	t.Helper()
	h.out.Reset()
	sh := New(Options{
		In:       strings.NewReader(strings.Join(lines, "\n") + "\n"),
		Out:      h.out,
		Logger:   logging.NewNop(),
		Accounts: h.accounts,
		Projects: h.projects(),
		Tasks:    h.tasks,
	})
	require.NoError(t, sh.Run(context.Background()))

	reloaded := h.projects()
	require.NoError(t, reloaded.Load(context.Background()))
	return reloaded.All()
}

func onlyProject(t *testing.T, projects map[string]*types.Project) *types.Project {
	t.Helper()
	require.Len(t, projects, 1)
	for _, p := range projects {
		return p
	}
	return nil
}

func TestShell_SignUpAndCreateProject(t *testing.T) {
	h := newHarness(t)

	projects := h.run(t,
		"1", "leader1", "pw-leader1", "leader1@example.com",
		"2", "leader1", "pw-leader1",
		"1", "New Project",
		"4",
		"3",
	)

	project := onlyProject(t, projects)
	assert.Equal(t, "New Project", project.Title)
	assert.Equal(t, "leader1", project.Leader)
	assert.Equal(t, []string{"leader1"}, project.Users)
	assert.Contains(t, h.out.String(), "Account created successfully!")
	assert.Contains(t, h.out.String(), "Project created with ID: "+project.ID)
}

func TestShell_LoginFailure(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")

	h.run(t, "2", "leader1", "nope", "3")
	assert.Contains(t, h.out.String(), "Invalid username or password.")
}

func TestShell_DuplicateSignUp(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")

	h.run(t, "1", "leader1", "x", "", "3")
	assert.Contains(t, h.out.String(), "Username already exists.")
}

func TestShell_AddTaskRepromptsOnInvalidEnums(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")

	projects := h.run(t,
		"2", "leader1", "pw-leader1",
		"1", "New Project",
		"2", "0",
		"2", "Task 1", "Description 1", "2024-05-28", "2024-06-28", "user1",
		"Urgent", "High",
		"High", "ToDo",
		"No comments",
		"8", "",
		"4", "3",
	)

	project := onlyProject(t, projects)
	require.Len(t, project.Tasks, 1)
	task := project.Tasks[1]
	require.NotNil(t, task)
	assert.Equal(t, "Task 1", task.Title)
	assert.Equal(t, "High", task.Priority.String())
	assert.Equal(t, "To Do", task.Status.String())
	assert.Equal(t, []string{"user1"}, task.AssignedTo)
	assert.Equal(t, "leader1: No comments", task.Comments)
	assert.Equal(t, 2, strings.Count(h.out.String(), "Invalid input"))
}

func TestShell_MembershipAndRestrictedUpdate(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")
	h.signUp(t, "user1")

	h.run(t,
		"2", "leader1", "pw-leader1",
		"1", "New Project",
		"2", "0",
		"5", "user1",
		"5", "user1",
		"5", "ghost",
		"2", "Task 1", "", "", "", "user1", "Low", "Backlog", "",
		"8", "",
		"4", "3",
	)
	assert.Contains(t, h.out.String(), "User added successfully!")
	assert.Contains(t, h.out.String(), "User already has access to this project.")
	assert.Contains(t, h.out.String(), `User "ghost" not found.`)

	projects := h.run(t,
		"2", "user1", "pw-user1",
		"2", "0",
		"4",
		"3", "1", "Done", "all finished",
		"8", "",
		"4", "3",
	)
	out := h.out.String()
	assert.Contains(t, out, "Only the project leader or an admin can do that.")
	assert.Contains(t, out, "You can change the status and add a comment.")
	assert.Contains(t, out, "Task updated successfully!")

	task := onlyProject(t, projects).Tasks[1]
	require.NotNil(t, task)
	assert.Equal(t, types.StatusDone, task.Status)
	assert.Equal(t, "user1: all finished", task.Comments)
	require.Len(t, task.History, 2)
	assert.Equal(t, "user1", task.History[0].UpdatedBy)
	assert.Equal(t, "Backlog", task.History[0].Old)
}

func TestShell_OutsiderCannotSeeProject(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")
	h.signUp(t, "user2")

	h.run(t,
		"2", "leader1", "pw-leader1",
		"1", "New Project",
		"2", "0",
		"2", "Task 1", "", "", "", "user1", "High", "ToDo", "",
		"8", "",
		"4", "3",
	)

	h.run(t,
		"2", "user2", "pw-user2",
		"2",
		"3",
		"4", "3",
	)
	assert.Contains(t, h.out.String(), "You have no projects.")
	assert.Contains(t, h.out.String(), "No tasks are assigned to you.")
}

func TestShell_MemberNotAssignedIsDeniedTaskUpdate(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")
	h.signUp(t, "user2")

	h.run(t,
		"2", "leader1", "pw-leader1",
		"1", "New Project",
		"2", "0",
		"5", "user2",
		"2", "Task 1", "", "", "", "user1", "High", "ToDo", "",
		"8", "",
		"4", "3",
	)

	projects := h.run(t,
		"2", "user2", "pw-user2",
		"2", "0",
		"3", "1",
		"8", "",
		"4", "3",
	)
	assert.Contains(t, h.out.String(), "You do not have access to this task.")
	assert.Empty(t, onlyProject(t, projects).Tasks[1].History)
}

func TestShell_FullUpdateAndRemoveTask(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")

	projects := h.run(t,
		"2", "leader1", "pw-leader1",
		"1", "New Project",
		"2", "0",
		"2", "Task 1", "", "", "", "", "High", "ToDo", "",
		"2", "Task 2", "", "", "", "", "Low", "Backlog", "",
		"3", "1", "Task 1 renamed", "", "", "", "user3", "bogus", "Critical", "", "ping",
		"4", "99",
		"4", "2",
		"1", "1", "",
		"8", "",
		"4", "3",
	)
	out := h.out.String()
	assert.Contains(t, out, "Task 1: Task 1 renamed")
	assert.Contains(t, out, "leader1: ping")
	assert.Contains(t, out, "When")
	assert.Contains(t, out, "Task ID not found.")
	assert.Contains(t, out, "Task removed successfully!")

	project := onlyProject(t, projects)
	require.Len(t, project.Tasks, 1)
	task := project.Tasks[1]
	assert.Equal(t, "Task 1 renamed", task.Title)
	assert.Equal(t, types.PriorityCritical, task.Priority)
	assert.Equal(t, types.StatusTodo, task.Status)
	assert.Equal(t, []string{"user3"}, task.AssignedTo)
	assert.Equal(t, "leader1: ping", task.Comments)
	assert.Len(t, task.History, 4)
	assert.Equal(t, 3, project.NextTaskID)
}

func TestShell_InvalidIndexReprompts(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")

	h.run(t,
		"2", "leader1", "pw-leader1",
		"1", "New Project",
		"2", "abc", "7", "-1", "",
		"4", "3",
	)
	assert.Equal(t, 3, strings.Count(h.out.String(), "Invalid index."))
}

func TestShell_RemoveProject(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")

	projects := h.run(t,
		"2", "leader1", "pw-leader1",
		"1", "New Project",
		"2", "0",
		"7", "no",
		"7", "YES",
		"4", "3",
	)
	assert.Empty(t, projects)
	assert.Contains(t, h.out.String(), "Project kept.")
	assert.Contains(t, h.out.String(), "Project removed successfully!")
}

func TestShell_AdminSeesAllProjects(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")
	_, err := h.accounts.CreateAdmin(context.Background(), "root", "rootpw")
	require.NoError(t, err)

	h.run(t, "2", "leader1", "pw-leader1", "1", "Secret Plan", "4", "3")
	h.run(t, "2", "root", "rootpw", "5", "4", "3")

	out := h.out.String()
	assert.Contains(t, out, "Admin Menu")
	assert.Contains(t, out, "Secret Plan")
}

func TestShell_EOFEndsSession(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "leader1")

	projects := h.run(t, "2", "leader1", "pw-leader1", "1", "Half Done")
	assert.Len(t, projects, 1)
}
