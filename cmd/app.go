package cmd

import (
	"context"
	"fmt"

	"github.com/apelahishokr/tracker/config"
	"github.com/apelahishokr/tracker/internal/logging"
	"github.com/apelahishokr/tracker/internal/services"
	"github.com/apelahishokr/tracker/internal/storage"
	"github.com/apelahishokr/tracker/internal/store"
	"go.uber.org/zap"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg      config.Config
	logger   *logging.Logger
	storage  *storage.Storage
	accounts *services.AccountService
	projects *services.ProjectService
	tasks    *services.TaskService
}

func newApp(path string) (*app, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(logging.Config{
		Path:   cfg.LogPath(),
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	s := storage.NewStorage(storage.NewDiskClient(""))
	accountRepo := store.NewAccountRepository(s, cfg.AccountsPath())
	projectRepo := store.NewProjectRepository(s, cfg.ProjectsPath(), logger.Named("store"))

	logger.Info(context.Background(), "tracker starting",
		zap.String("data_dir", cfg.DataDir),
		zap.String("accounts", cfg.AccountsPath()),
		zap.String("projects", cfg.ProjectsPath()),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		storage:  s,
		accounts: services.NewAccountService(accountRepo, logger.Named("accounts")),
		projects: services.NewProjectService(projectRepo, logger.Named("projects")),
		tasks:    services.NewTaskService(logger.Named("tasks")),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
