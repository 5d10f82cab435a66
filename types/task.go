package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidEnum is returned when a string does not name a known priority or status.
var ErrInvalidEnum = errors.New("invalid enumerated value")

// ParseError describes an enumerated value that could not be parsed.
type ParseError struct {
	// Kind is the enumeration being parsed, e.g. "priority" or "status".
	Kind string

	// Input is the rejected raw value.
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Input)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidEnum
}

// Task represents a unit of work inside a project.
type Task struct {
	// Title is the short name of the task.
	Title string `json:"title"`

	// Description is the free-form body of the task.
	Description string `json:"description"`

	// StartDate and EndDate are free text; they are displayed but never validated.
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// AssignedTo lists the usernames responsible for the task.
	AssignedTo []string `json:"assigned_to"`

	// Priority is the urgency of the task.
	Priority Priority `json:"priority"`

	// Status is the position of the task in the workflow.
	Status Status `json:"status"`

	// Comments is an append-only blob, one "user: text" entry per line.
	Comments string `json:"comments"`

	// History holds one record per field change, oldest first.
	History []HistoryRecord `json:"history"`
}

// IsAssigned reports whether username is in the task's assigned set.
func (t *Task) IsAssigned(username string) bool {
	for _, u := range t.AssignedTo {
		if u == username {
			return true
		}
	}
	return false
}

// HistoryRecord is an immutable log entry describing one field change on a task.
type HistoryRecord struct {
	Field     string    `json:"field"`
	Old       string    `json:"old"`
	New       string    `json:"new"`
	UpdatedBy string    `json:"updated_by"`
	Date      time.Time `json:"date"`
}

// Priority represents the urgency of a task.
type Priority int

// Supported priority values. The zero value means "unset".
const (
	PriorityCritical Priority = iota + 1
	PriorityHigh
	PriorityMedium
	PriorityLow
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// String returns the human-readable label stored in the project file.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "Critical"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return ""
	}
}

// ParsePriority maps a label or enum name, in any case, to a Priority.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if normalizeEnum(s) == normalizeEnum(p.String()) {
			return p, nil
		}
	}
	return 0, &ParseError{Kind: "priority", Input: s}
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*p = 0
		return nil
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Status represents the workflow position of a task.
// Any status may follow any other; there is no transition graph.
type Status int

// Supported status values. The zero value means "unset".
const (
	StatusBacklog Status = iota + 1
	StatusTodo
	StatusDoing
	StatusDone
	StatusArchived
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusBacklog, StatusTodo, StatusDoing, StatusDone, StatusArchived}

// String returns the human-readable label stored in the project file.
func (s Status) String() string {
	switch s {
	case StatusBacklog:
		return "Backlog"
	case StatusTodo:
		return "To Do"
	case StatusDoing:
		return "Doing"
	case StatusDone:
		return "Done"
	case StatusArchived:
		return "Archived"
	default:
		return ""
	}
}

// ParseStatus maps a label or enum name to a Status. Case, spaces, dashes
// and underscores are ignored, so "ToDo", "to do" and "TODO" are all accepted.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if normalizeEnum(s) == normalizeEnum(st.String()) {
			return st, nil
		}
	}
	return 0, &ParseError{Kind: "status", Input: s}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = 0
		return nil
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func normalizeEnum(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
