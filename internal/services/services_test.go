package services

import (
	"context"
	"testing"
	"time"

	"github.com/apelahishokr/tracker/internal/logging"
	"github.com/apelahishokr/tracker/internal/storage"
	"github.com/apelahishokr/tracker/internal/store"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 28, 9, 30, 0, 0, time.UTC)

type fixture struct {
	ctx      context.Context
	storage  *storage.Storage
	logger   *logging.TestLogger
	accounts *AccountService
	projects *ProjectService
	tasks    *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := storage.NewStorage(storage.NewDiskClient(t.TempDir()))
	logger := logging.NewTestLogger()

	projects := NewProjectService(store.NewProjectRepository(s, "projects.json", logger.Logger), logger.Logger)
	require.NoError(t, projects.Load(context.Background()))

	return &fixture{
		ctx:      context.Background(),
		storage:  s,
		logger:   logger,
		accounts: NewAccountService(store.NewAccountRepository(s, "accounts.csv"), logger.Logger).WithHashCost(4),
		projects: projects,
		tasks:    NewTaskService(logger.Logger).WithClock(func() time.Time { return fixedNow }),
	}
}
