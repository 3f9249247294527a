// Package weeek publishes meeting tasks to the Weeek task manager.
package weeek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
	"github.com/xpanvictor/meetsec/internal/domains/tracker/rest"
)

const DefaultBaseURL = "https://api.weeek.net/public/v1"

// ID is a Weeek identifier. The API mixes numeric task ids with string
// member ids; numeric ids are sent back as numbers.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(b)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type Backend struct {
	client    *rest.Client
	projectID string
	boardID   ID
}

func New(cfg config.WeeekConfig) *Backend {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Backend{
		client:    rest.NewClient(base, cfg.Token, 0),
		projectID: cfg.ProjectID,
		boardID:   ID(cfg.BoardID),
	}
}

func (b *Backend) Name() string { return "weeek" }

func (b *Backend) SupportsHierarchy() bool { return true }

func (b *Backend) WhoAmI(ctx context.Context) (string, error) {
	var resp struct {
		User struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Email     string `json:"email"`
		} `json:"user"`
	}
	if err := b.client.Get(ctx, "user/me", nil, &resp); err != nil {
		return "", err
	}
	if resp.User.FirstName == "" {
		return "Неизвестно", nil
	}
	return resp.User.FirstName, nil
}

func (b *Backend) Project(ctx context.Context) (tracker.Project, error) {
	var resp struct {
		Project *struct {
			ID    ID     `json:"id"`
			Title string `json:"title"`
		} `json:"project"`
	}
	if err := b.client.Get(ctx, "tm/projects/"+b.projectID, nil, &resp); err != nil {
		return tracker.Project{}, err
	}
	if resp.Project == nil {
		return tracker.Project{}, fmt.Errorf("project %s not found", b.projectID)
	}
	return tracker.Project{ID: b.projectID, Title: resp.Project.Title}, nil
}

func (b *Backend) Members(ctx context.Context) ([]tracker.Member, error) {
	var resp struct {
		Members []struct {
			ID        ID     `json:"id"`
			Email     string `json:"email"`
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"members"`
	}
	if err := b.client.Get(ctx, "ws/members", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]tracker.Member, 0, len(resp.Members))
	for _, m := range resp.Members {
		out = append(out, tracker.Member{ID: string(m.ID), Email: m.Email, FirstName: m.FirstName, LastName: m.LastName})
	}
	return out, nil
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	BoardID     ID     `json:"boardId"`
	ParentID    ID     `json:"parentId"`
	Assignees   []ID   `json:"assignees,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

func (b *Backend) CreateTask(ctx context.Context, task tracker.NewTask) (tracker.CreatedTask, error) {
	req := createTaskRequest{
		Title:       task.Title,
		Description: task.Description,
		BoardID:     b.boardID,
		ParentID:    ID(task.ParentID),
		DueDate:     task.DueDate,
	}
	for _, a := range task.AssigneeIDs {
		req.Assignees = append(req.Assignees, ID(a))
	}

	var resp struct {
		Task struct {
			ID    ID     `json:"id"`
			Title string `json:"title"`
		} `json:"task"`
	}
	if err := b.client.Post(ctx, "tm/tasks", req, &resp); err != nil {
		return tracker.CreatedTask{}, err
	}
	title := resp.Task.Title
	if title == "" {
		title = task.Title
	}
	return tracker.CreatedTask{ID: string(resp.Task.ID), Title: title}, nil
}
