// Package shell implements the interactive menu loop. It reads one line per
// prompt from an io.Reader, renders to an io.Writer, and persists the
// project store after every operation that changes it.
package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/apelahishokr/tracker/internal/logging"
	"github.com/apelahishokr/tracker/internal/services"
	"github.com/apelahishokr/tracker/internal/store"
	"github.com/apelahishokr/tracker/types"
	"go.uber.org/zap"
)

// Options wires a Shell to its collaborators.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Logger   *logging.Logger
	Accounts *services.AccountService
	Projects *services.ProjectService
	Tasks    *services.TaskService
}

// Shell is one interactive session.
type Shell struct {
	in       *bufio.Scanner
	out      io.Writer
	ui       *renderer
	logger   *logging.Logger
	accounts *services.AccountService
	projects *services.ProjectService
	tasks    *services.TaskService
}

// session identifies the signed-in account.
type session struct {
	username string
	role     types.Role
}

func New(opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Shell{
		in:       bufio.NewScanner(opts.In),
		out:      opts.Out,
		ui:       newRenderer(opts.Out),
		logger:   logger.Named("shell"),
		accounts: opts.Accounts,
		projects: opts.Projects,
		tasks:    opts.Tasks,
	}
}

// Run drives the main menu until the user exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.projects.Load(ctx); err != nil {
		return err
	}
	err := s.mainMenu(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) mainMenu(ctx context.Context) error {
	for {
		s.ui.menu("Main Menu", "Sign up", "Log in", "Exit")
		choice, err := s.prompt("Choose an option: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			if err := s.signUp(ctx); err != nil {
				return err
			}
		case "2":
			sess, err := s.logIn(ctx)
			if err != nil {
				return err
			}
			if sess == nil {
				continue
			}
			if err := s.userMenu(logging.WithActor(ctx, sess.username), *sess); err != nil {
				return err
			}
		case "3":
			s.ui.info("Goodbye!")
			return nil
		default:
			s.ui.fail("Invalid choice.")
		}
	}
}

func (s *Shell) signUp(ctx context.Context) error {
	username, err := s.prompt("Enter username: ")
	if err != nil {
		return err
	}
	password, err := s.prompt("Enter password: ")
	if err != nil {
		return err
	}
	email, err := s.prompt("Enter email: ")
	if err != nil {
		return err
	}

	_, err = s.accounts.SignUp(ctx, username, password, email)
	switch {
	case err == nil:
		s.ui.success("Account created successfully!")
	case errors.Is(err, store.ErrAlreadyExists):
		s.ui.warn("Username already exists.")
	case errors.Is(err, services.ErrMissingFields):
		s.ui.fail("Username and password are required.")
	default:
		return err
	}
	return nil
}

func (s *Shell) logIn(ctx context.Context) (*session, error) {
	username, err := s.prompt("Enter username: ")
	if err != nil {
		return nil, err
	}
	password, err := s.prompt("Enter password: ")
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			s.ui.fail("Invalid username or password.")
			return nil, nil
		}
		return nil, err
	}

	// Pick up changes written by other runs since startup.
	if err := s.projects.Load(ctx); err != nil {
		return nil, err
	}
	s.ui.success("Welcome, " + account.Username + "!")
	return &session{username: account.Username, role: account.Role}, nil
}

func (s *Shell) userMenu(ctx context.Context, sess session) error {
	options := []string{"Create project", "Manage projects", "View my assigned tasks", "Log out"}
	title := "User Menu"
	if sess.role == types.RoleAdmin {
		options = append(options, "View all projects")
		title = "Admin Menu"
	}

	for {
		s.ui.menu(title, options...)
		choice, err := s.prompt("Choose an option: ")
		if err != nil {
			return err
		}
		switch {
		case choice == "1":
			err = s.createProject(ctx, sess)
		case choice == "2":
			err = s.manageProjects(ctx, sess)
		case choice == "3":
			s.viewAssignedTasks(sess)
		case choice == "4":
			s.logger.Info(ctx, "logged out")
			return nil
		case choice == "5" && sess.role == types.RoleAdmin:
			s.viewAllProjects()
		default:
			s.ui.fail("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) createProject(ctx context.Context, sess session) error {
	title, err := s.prompt("Enter project title: ")
	if err != nil {
		return err
	}
	project, err := s.projects.Create(ctx, title, sess.username)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			s.ui.fail("Project title is required.")
			return nil
		}
		return err
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.ui.success("Project created with ID: " + project.ID)
	return nil
}

func (s *Shell) manageProjects(ctx context.Context, sess session) error {
	for {
		visible := s.projects.Visible(sess.username, sess.role)
		if len(visible) == 0 {
			s.ui.warn("You have no projects.")
			return nil
		}
		s.ui.projectTable("Your projects", visible)

		idx, ok, err := s.promptIndex("Enter the index of the project to manage (or press Enter to go back): ", len(visible))
		if err != nil || !ok {
			return err
		}
		if err := s.projectMenu(ctx, sess, visible[idx]); err != nil {
			return err
		}
	}
}

func (s *Shell) viewAllProjects() {
	all := s.projects.Visible("", types.RoleAdmin)
	if len(all) == 0 {
		s.ui.warn("There are no projects.")
		return
	}
	s.ui.projectTable("All projects", all)
}

func (s *Shell) viewAssignedTasks(sess session) {
	assigned := s.tasks.AssignedTasks(s.projects.All(), sess.username)
	if len(assigned) == 0 {
		s.ui.warn("No tasks are assigned to you.")
		return
	}
	s.ui.assignedTable(assigned)
}

// persist flushes the project store after a mutating operation.
func (s *Shell) persist(ctx context.Context) error {
	if err := s.projects.Persist(ctx); err != nil {
		s.logger.Error(ctx, "failed to save projects", zap.Error(err))
		s.ui.fail("Failed to save projects: " + err.Error())
		return err
	}
	return nil
}

// prompt prints label and returns the next input line, trimmed.
// It returns io.EOF once input is exhausted.
func (s *Shell) prompt(label string) (string, error) {
	s.ui.prompt(label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		s.ui.newline()
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// promptIndex asks for a 0-based index below n. Empty input returns ok=false;
// anything else invalid is reported and asked again.
func (s *Shell) promptIndex(label string, n int) (int, bool, error) {
	for {
		raw, err := s.prompt(label)
		if err != nil || raw == "" {
			return 0, false, err
		}
		idx, convErr := strconv.Atoi(raw)
		if convErr != nil || idx < 0 || idx >= n {
			s.ui.fail("Invalid index.")
			continue
		}
		return idx, true, nil
	}
}

// promptTaskID asks for a task identifier. Empty input returns ok=false.
func (s *Shell) promptTaskID(label string) (int, bool, error) {
	for {
		raw, err := s.prompt(label)
		if err != nil || raw == "" {
			return 0, false, err
		}
		id, convErr := strconv.Atoi(raw)
		if convErr != nil || id < 1 {
			s.ui.fail("Task ID must be a positive number.")
			continue
		}
		return id, true, nil
	}
}
