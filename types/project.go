package types

import "sort"

// Project represents a collaborative workspace owned by its leader.
// Members are stored by username; the leader is always one of them.
type Project struct {
	// ID is the unique identifier of the project (a UUID string).
	// It is also the key of the project in the project file.
	ID string `json:"id"`

	// Title is the human-readable name of the project.
	Title string `json:"title"`

	// Leader is the username of the account that created the project.
	Leader string `json:"leader"`

	// Users lists member usernames, leader included.
	Users []string `json:"users"`

	// NextTaskID is the identifier handed to the next created task.
	// It only ever increases, so identifiers are never reused after deletion.
	NextTaskID int `json:"next_task_id"`

	// Tasks maps task identifiers to tasks.
	Tasks map[int]*Task `json:"tasks"`
}

// IsMember reports whether username has been granted access to the project.
func (p *Project) IsMember(username string) bool {
	if username == p.Leader {
		return true
	}
	for _, u := range p.Users {
		if u == username {
			return true
		}
	}
	return false
}

// TaskIDs returns the project's task identifiers in ascending order.
func (p *Project) TaskIDs() []int {
	ids := make([]int, 0, len(p.Tasks))
	for id := range p.Tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Normalize repairs records read from older files: it fills the task map,
// restores the leader's membership and recomputes the task counter.
func (p *Project) Normalize(id string) {
	if p.ID == "" {
		p.ID = id
	}
	if p.Tasks == nil {
		p.Tasks = make(map[int]*Task)
	}
	if p.Leader != "" && !containsString(p.Users, p.Leader) {
		p.Users = append([]string{p.Leader}, p.Users...)
	}
	for taskID, task := range p.Tasks {
		if task == nil {
			delete(p.Tasks, taskID)
			continue
		}
		if taskID >= p.NextTaskID {
			p.NextTaskID = taskID + 1
		}
	}
	if p.NextTaskID < 1 {
		p.NextTaskID = 1
	}
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
