package tracker

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTrackerUnavailable = errors.New("tracker unavailable")
	ErrProjectNotFound    = errors.New("tracker project not found")
	ErrMemberNotFound     = errors.New("tracker member not found")
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

type TaskKind string

const (
	KindSummary TaskKind = "summary"
	KindTask    TaskKind = "task"
)

type Project struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Member struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// NewTask is a backend-neutral create request. ParentID is empty for the
// summary task and for backends without hierarchy.
type NewTask struct {
	Kind        TaskKind
	Title       string
	Description string
	ParentID    string
	AssigneeIDs []string
	DueDate     string // YYYY-MM-DD or empty
}

type CreatedTask struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Kind     TaskKind `json:"type"`
	Assignee string   `json:"assignee,omitempty"`
	ParentID string   `json:"parent_id,omitempty"`
	URL      string   `json:"url,omitempty"`
}

type FailedTask struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Error string `json:"error"`
}

type Stats struct {
	TotalTasks   int `json:"total_tasks"`
	CreatedTasks int `json:"created_tasks"`
	FailedTasks  int `json:"failed_tasks"`
	SummaryTask  int `json:"summary_task"`
	Participants int `json:"participants"`
	Decisions    int `json:"decisions"`
	Hypotheses   int `json:"hypotheses"`
}

// Result reports one publish. On StatusError, Created and Failed hold
// whatever was done before the failure.
type Result struct {
	Status    Status        `json:"status"`
	Tracker   string        `json:"tracker,omitempty"`
	Project   *Project      `json:"project,omitempty"`
	Created   []CreatedTask `json:"tasks"`
	Failed    []FailedTask  `json:"failed_tasks"`
	Stats     Stats         `json:"stats"`
	CreatedAt time.Time     `json:"created_at"`
	Message   string        `json:"message,omitempty"`
}

// Skipped builds the result reported when no tracker is used for a run.
func Skipped(reason string, at time.Time) *Result {
	return &Result{
		Status:    StatusSkipped,
		Created:   []CreatedTask{},
		Failed:    []FailedTask{},
		CreatedAt: at,
		Message:   reason,
	}
}

// Backend is one tracker REST API.
type Backend interface {
	Name() string
	// WhoAmI checks connectivity and credentials, returning the account name.
	WhoAmI(ctx context.Context) (string, error)
	Project(ctx context.Context) (Project, error)
	Members(ctx context.Context) ([]Member, error)
	CreateTask(ctx context.Context, task NewTask) (CreatedTask, error)
	SupportsHierarchy() bool
}

// MemberSearcher is implemented by backends that resolve people by a
// server-side search instead of a member list.
type MemberSearcher interface {
	FindMember(ctx context.Context, name string) (Member, error)
}
