package services

import (
	"context"
	"errors"
	"strings"

	"github.com/apelahishokr/tracker/internal/access"
	"github.com/apelahishokr/tracker/internal/logging"
	"github.com/apelahishokr/tracker/internal/store"
	"github.com/apelahishokr/tracker/types"
	"go.uber.org/zap"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	Projects() map[string]*types.Project
	List(ctx context.Context) ([]*types.Project, error)
	Get(ctx context.Context, id string) (*types.Project, error)
	Create(ctx context.Context, title, leader string) (*types.Project, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, id, username string) error
	RemoveMember(ctx context.Context, id, username string) error
	RemoveTask(ctx context.Context, projectID string, taskID int) error
}

// ProjectService encapsulates project use-cases.
type ProjectService struct {
	repo   ProjectRepository
	logger *logging.Logger
}

func NewProjectService(repo ProjectRepository, logger *logging.Logger) *ProjectService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ProjectService{repo: repo, logger: logger}
}

// Load reads the project file into memory.
func (s *ProjectService) Load(ctx context.Context) error {
	return s.repo.Load(ctx)
}

// Persist writes every project back to the project file.
func (s *ProjectService) Persist(ctx context.Context) error {
	return s.repo.Save(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*types.Project, error) {
	return s.repo.Get(ctx, id)
}

func (s *ProjectService) List(ctx context.Context) ([]*types.Project, error) {
	return s.repo.List(ctx)
}

// Visible returns the projects the actor may open.
func (s *ProjectService) Visible(username string, role types.Role) []*types.Project {
	return access.VisibleProjects(s.repo.Projects(), username, role)
}

// All returns the backing project mapping.
func (s *ProjectService) All() map[string]*types.Project {
	return s.repo.Projects()
}

// Create stores a new project led by leader.
func (s *ProjectService) Create(ctx context.Context, title, leader string) (*types.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" || leader == "" {
		return nil, ErrMissingFields
	}
	project, err := s.repo.Create(ctx, title, leader)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "project created",
		zap.String("project_id", project.ID),
		zap.String("title", title),
		zap.String("leader", leader),
	)
	return project, nil
}

// AddMember grants username access. It returns false without error when the
// user is already a member.
func (s *ProjectService) AddMember(ctx context.Context, projectID, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, ErrMissingFields
	}
	s.logger.Info(ctx, "adding user to project", zap.String("username", username), zap.String("project_id", projectID))

	if err := s.repo.AddMember(ctx, projectID, username); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			s.logger.Warn(ctx, "user already has access to project", zap.String("username", username), zap.String("project_id", projectID))
			return false, nil
		}
		return false, err
	}
	s.logger.Info(ctx, "user added to project", zap.String("username", username), zap.String("project_id", projectID))
	return true, nil
}

// RemoveMember revokes username's access. It returns false without error
// when the user was not a member. The leader cannot be removed.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, username string) (bool, error) {
	username = strings.TrimSpace(username)
	project, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return false, err
	}
	if username == project.Leader {
		s.logger.Warn(ctx, "refusing to remove project leader", zap.String("project_id", projectID))
		return false, ErrLeaderRemoval
	}
	s.logger.Info(ctx, "removing user from project", zap.String("username", username), zap.String("project_id", projectID))

	if err := s.repo.RemoveMember(ctx, projectID, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn(ctx, "user not found in project", zap.String("username", username), zap.String("project_id", projectID))
			return false, nil
		}
		return false, err
	}
	s.logger.Info(ctx, "user removed from project", zap.String("username", username), zap.String("project_id", projectID))
	return true, nil
}

// RemoveProject deletes a project. Unknown ids return store.ErrNotFound.
func (s *ProjectService) RemoveProject(ctx context.Context, projectID string) error {
	if err := s.repo.Delete(ctx, projectID); err != nil {
		s.logger.Warn(ctx, "project not found", zap.String("project_id", projectID))
		return err
	}
	s.logger.Info(ctx, "project removed", zap.String("project_id", projectID))
	return nil
}

// RemoveTask deletes a task. Unknown ids return store.ErrNotFound.
func (s *ProjectService) RemoveTask(ctx context.Context, projectID string, taskID int) error {
	if err := s.repo.RemoveTask(ctx, projectID, taskID); err != nil {
		s.logger.Warn(ctx, "task not found", zap.String("project_id", projectID), zap.Int("task_id", taskID))
		return err
	}
	s.logger.Info(ctx, "task removed", zap.String("project_id", projectID), zap.Int("task_id", taskID))
	return nil
}
