package services

import (
	"testing"

	"github.com/apelahishokr/tracker/internal/store"
	"github.com/apelahishokr/tracker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestProjectService_Create(t *testing.T) {
	f := newFixture(t)

	project, err := f.projects.Create(f.ctx, "New Project", "leader1")
	require.NoError(t, err)

	all := f.projects.All()
	require.Len(t, all, 1)
	assert.Equal(t, "New Project", all[project.ID].Title)
	assert.Equal(t, "leader1", all[project.ID].Leader)
	assert.True(t, all[project.ID].IsMember("leader1"))

	_, err = f.projects.Create(f.ctx, "   ", "leader1")
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestProjectService_AddMember(t *testing.T) {
	f := newFixture(t)
	project, err := f.projects.Create(f.ctx, "New Project", "leader1")
	require.NoError(t, err)

	added, err := f.projects.AddMember(f.ctx, project.ID, "user1")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Contains(t, project.Users, "user1")

	added, err = f.projects.AddMember(f.ctx, project.ID, "user1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"leader1", "user1"}, project.Users)
	f.logger.AssertLogged(t, zapcore.WarnLevel, "already has access")

	_, err = f.projects.AddMember(f.ctx, "missing", "user1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestProjectService_RemoveMember(t *testing.T) {
	f := newFixture(t)
	project, err := f.projects.Create(f.ctx, "New Project", "leader1")
	require.NoError(t, err)
	_, err = f.projects.AddMember(f.ctx, project.ID, "user1")
	require.NoError(t, err)

	removed, err := f.projects.RemoveMember(f.ctx, project.ID, "user1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NotContains(t, project.Users, "user1")

	removed, err = f.projects.RemoveMember(f.ctx, project.ID, "user1")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []string{"leader1"}, project.Users)

	removed, err = f.projects.RemoveMember(f.ctx, project.ID, "leader1")
	require.ErrorIs(t, err, ErrLeaderRemoval)
	assert.False(t, removed)
	assert.True(t, project.IsMember("leader1"))
}

func TestProjectService_RemoveProjectAndTask(t *testing.T) {
	f := newFixture(t)
	project, err := f.projects.Create(f.ctx, "New Project", "leader1")
	require.NoError(t, err)
	id, _, err := f.tasks.CreateTask(f.ctx, project, TaskInput{Title: "Task 1", Priority: "High", Status: "ToDo"})
	require.NoError(t, err)

	require.ErrorIs(t, f.projects.RemoveTask(f.ctx, project.ID, 99), store.ErrNotFound)
	assert.Len(t, project.Tasks, 1)
	require.NoError(t, f.projects.RemoveTask(f.ctx, project.ID, id))
	assert.Empty(t, project.Tasks)

	require.ErrorIs(t, f.projects.RemoveProject(f.ctx, "nonexistent_project_id"), store.ErrNotFound)
	assert.Len(t, f.projects.All(), 1)
	require.NoError(t, f.projects.RemoveProject(f.ctx, project.ID))
	assert.Empty(t, f.projects.All())
}

func TestProjectService_PersistAndVisible(t *testing.T) {
	f := newFixture(t)
	mine, err := f.projects.Create(f.ctx, "Mine", "leader1")
	require.NoError(t, err)
	_, err = f.projects.Create(f.ctx, "Theirs", "other")
	require.NoError(t, err)
	require.NoError(t, f.projects.Persist(f.ctx))

	reloaded := NewProjectService(store.NewProjectRepository(f.storage, "projects.json", nil), nil)
	require.NoError(t, reloaded.Load(f.ctx))

	visible := reloaded.Visible("leader1", types.RoleUser)
	require.Len(t, visible, 1)
	assert.Equal(t, mine.ID, visible[0].ID)
	assert.Len(t, reloaded.Visible("root", types.RoleAdmin), 2)
}
