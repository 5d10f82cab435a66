package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/apelahishokr/tracker/internal/logging"
	"github.com/apelahishokr/tracker/internal/storage"
	"github.com/apelahishokr/tracker/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectRepository holds every project in memory and flushes the whole
// mapping to a single JSON object on Save.
type ProjectRepository struct {
	storage  *storage.Storage
	key      string
	logger   *logging.Logger
	projects map[string]*types.Project
}

func NewProjectRepository(s *storage.Storage, key string, logger *logging.Logger) *ProjectRepository {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ProjectRepository{
		storage:  s,
		key:      key,
		logger:   logger,
		projects: make(map[string]*types.Project),
	}
}

// Load replaces the in-memory mapping with the file contents.
// A missing file yields an empty store.
func (r *ProjectRepository) Load(ctx context.Context) error {
	r.logger.Info(ctx, "loading projects", zap.String("file", r.key))

	data, err := r.storage.ReadAll(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn(ctx, "projects file not found, starting empty", zap.String("file", r.key))
			r.projects = make(map[string]*types.Project)
			return nil
		}
		return err
	}

	projects := make(map[string]*types.Project)
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &projects); err != nil {
			return fmt.Errorf("decode %s: %w", r.key, err)
		}
	}
	for id, project := range projects {
		if project == nil {
			delete(projects, id)
			continue
		}
		project.Normalize(id)
	}
	r.projects = projects
	return nil
}

// Save overwrites the file with the in-memory mapping.
func (r *ProjectRepository) Save(ctx context.Context) error {
	r.logger.Info(ctx, "saving projects", zap.String("file", r.key), zap.Int("count", len(r.projects)))

	data, err := json.MarshalIndent(r.projects, "", "    ")
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	return r.storage.Put(ctx, r.key, bytes.NewReader(data))
}

// Projects exposes the backing map. Callers mutate projects in place and
// call Save afterwards.
func (r *ProjectRepository) Projects() map[string]*types.Project {
	return r.projects
}

// List returns all projects ordered by title, then id.
func (r *ProjectRepository) List(ctx context.Context) ([]*types.Project, error) {
	projects := make([]*types.Project, 0, len(r.projects))
	for _, p := range r.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].Title != projects[j].Title {
			return projects[i].Title < projects[j].Title
		}
		return projects[i].ID < projects[j].ID
	})
	return projects, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*types.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return project, nil
}

// Create stores a new project with a fresh UUID and the leader as sole member.
func (r *ProjectRepository) Create(ctx context.Context, title, leader string) (*types.Project, error) {
	id := uuid.NewString()
	for r.projects[id] != nil {
		id = uuid.NewString()
	}

	project := &types.Project{
		ID:         id,
		Title:      title,
		Leader:     leader,
		Users:      []string{leader},
		NextTaskID: 1,
		Tasks:      make(map[int]*types.Task),
	}
	r.projects[id] = project
	return project, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	delete(r.projects, id)
	return nil
}

// AddMember grants username access to the project.
func (r *ProjectRepository) AddMember(ctx context.Context, id, username string) error {
	project, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	for _, u := range project.Users {
		if u == username {
			return fmt.Errorf("%w: %s is already a member", ErrAlreadyExists, username)
		}
	}
	project.Users = append(project.Users, username)
	return nil
}

// RemoveMember revokes username's access to the project.
func (r *ProjectRepository) RemoveMember(ctx context.Context, id, username string) error {
	project, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	for i, u := range project.Users {
		if u == username {
			project.Users = append(project.Users[:i], project.Users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not a member", ErrNotFound, username)
}

// RemoveTask deletes a task from a project.
func (r *ProjectRepository) RemoveTask(ctx context.Context, projectID string, taskID int) error {
	project, err := r.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if _, ok := project.Tasks[taskID]; !ok {
		return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	delete(project.Tasks, taskID)
	return nil
}
