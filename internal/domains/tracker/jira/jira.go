// Package jira publishes meeting tasks to Jira as a main issue with
// sub-tasks, using the REST API v2 with a personal access token.
package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
	"github.com/xpanvictor/meetsec/internal/domains/tracker/rest"
)

const (
	apiPath     = "/rest/api/2"
	searchLimit = 20
)

var (
	mainLabels    = []string{"техническое-совещание", "автоматический-анализ"}
	subtaskLabels = []string{"автоматическая-задача"}
)

type Backend struct {
	client     *rest.Client
	url        string
	projectKey string
}

func New(cfg config.JiraConfig) *Backend {
	base := strings.TrimRight(cfg.URL, "/")
	return &Backend{
		client:     rest.NewClient(base+apiPath, cfg.Token, 0),
		url:        base,
		projectKey: cfg.ProjectKey,
	}
}

func (b *Backend) Name() string { return "jira" }

func (b *Backend) SupportsHierarchy() bool { return true }

// IssueURL is the browser link of an issue.
func (b *Backend) IssueURL(key string) string {
	return b.url + "/browse/" + key
}

func (b *Backend) WhoAmI(ctx context.Context) (string, error) {
	var me struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	}
	if err := b.client.Get(ctx, "myself", nil, &me); err != nil {
		return "", err
	}
	if me.DisplayName != "" {
		return me.DisplayName, nil
	}
	return me.Name, nil
}

func (b *Backend) Project(ctx context.Context) (tracker.Project, error) {
	var p struct {
		ID   string `json:"id"`
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	if err := b.client.Get(ctx, "project/"+url.PathEscape(b.projectKey), nil, &p); err != nil {
		return tracker.Project{}, err
	}
	return tracker.Project{ID: p.Key, Title: p.Name}, nil
}

type user struct {
	Name         string `json:"name"`
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

func (u user) member() tracker.Member {
	first, last, _ := strings.Cut(u.DisplayName, " ")
	id := u.Name
	if id == "" {
		id = u.AccountID
	}
	return tracker.Member{ID: id, Email: u.EmailAddress, FirstName: first, LastName: last}
}

// Members lists the users assignable in the project.
func (b *Backend) Members(ctx context.Context) ([]tracker.Member, error) {
	var users []user
	q := url.Values{"project": {b.projectKey}, "maxResults": {"1000"}}
	if err := b.client.Get(ctx, "user/assignable/search", q, &users); err != nil {
		return nil, err
	}
	out := make([]tracker.Member, 0, len(users))
	for _, u := range users {
		out = append(out, u.member())
	}
	return out, nil
}

// FindMember searches users by name and keeps only a hit that matches name
// exactly by email, first name, last name or "first last".
func (b *Backend) FindMember(ctx context.Context, name string) (tracker.Member, error) {
	var users []user
	q := url.Values{"query": {name}, "username": {name}, "maxResults": {strconv.Itoa(searchLimit)}}
	if err := b.client.Get(ctx, "user/search", q, &users); err != nil {
		return tracker.Member{}, err
	}
	members := make([]tracker.Member, 0, len(users))
	for _, u := range users {
		members = append(members, u.member())
	}
	m, ok := tracker.ResolveMember(name, members)
	if !ok {
		return tracker.Member{}, fmt.Errorf("%w: %s", tracker.ErrMemberNotFound, name)
	}
	return m, nil
}

type ref struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

type issueFields struct {
	Project     ref      `json:"project"`
	Parent      *ref     `json:"parent,omitempty"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	IssueType   ref      `json:"issuetype"`
	Labels      []string `json:"labels"`
	Assignee    *ref     `json:"assignee,omitempty"`
	DueDate     string   `json:"duedate,omitempty"`
}

func (b *Backend) CreateTask(ctx context.Context, task tracker.NewTask) (tracker.CreatedTask, error) {
	fields := issueFields{
		Project:     ref{Key: b.projectKey},
		Summary:     task.Title,
		Description: task.Description,
		IssueType:   ref{Name: "Task"},
		Labels:      mainLabels,
	}
	if task.Kind == tracker.KindTask {
		fields.IssueType = ref{Name: "Sub-task"}
		fields.Labels = subtaskLabels
		if task.ParentID != "" {
			fields.Parent = &ref{Key: task.ParentID}
		}
		if len(task.AssigneeIDs) > 0 {
			fields.Assignee = &ref{Name: task.AssigneeIDs[0]}
		}
		fields.DueDate = task.DueDate
	}

	var resp struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	if err := b.client.Post(ctx, "issue", map[string]any{"fields": fields}, &resp); err != nil {
		return tracker.CreatedTask{}, err
	}
	return tracker.CreatedTask{ID: resp.Key, Title: task.Title, URL: b.IssueURL(resp.Key)}, nil
}

// Summary renders the main issue in Jira wiki markup.
func (b *Backend) Summary(rec meeting.Record, now time.Time) (string, string) {
	var s strings.Builder
	s.WriteString("h2. Резюме совещания\n")
	s.WriteString(rec.Summary + "\n\n")

	s.WriteString("h2. Участники\n")
	s.WriteString(joinOr(rec.Participants, ", ", "Не определены") + "\n\n")

	fmt.Fprintf(&s, "h2. Выявленные задачи (%d)\n", len(rec.Tasks))
	if len(rec.Tasks) == 0 {
		s.WriteString("Задачи не выявлены\n")
	}
	for i, t := range rec.Tasks {
		fmt.Fprintf(&s, "* %s - %s (Исполнитель: %s, Срок: %s)\n",
			tracker.TaskTitle(t, i+1), or(t.Essence, "Суть не указана"),
			or(t.Assignee, meeting.Unassigned), or(t.Due, meeting.Unspecified))
	}
	s.WriteString("\n")

	fmt.Fprintf(&s, "h2. Принятые решения (%d)\n", len(rec.Decisions))
	if len(rec.Decisions) == 0 {
		s.WriteString("Решения не выделены\n")
	}
	for _, d := range rec.Decisions {
		fmt.Fprintf(&s, "* %s\n", d)
	}
	s.WriteString("\n")

	fmt.Fprintf(&s, "h2. Гипотезы для проверки (%d)\n", len(rec.Hypotheses))
	if len(rec.Hypotheses) == 0 {
		s.WriteString("Гипотезы не выделены\n")
	}
	for _, h := range rec.Hypotheses {
		fmt.Fprintf(&s, "* %s - %s\n", h.Statement, or(string(h.Status), string(meeting.NeedsVerification)))
	}
	s.WriteString("\n")

	s.WriteString("h2. Метаданные\n")
	fmt.Fprintf(&s, "* Дата анализа: %s\n", now.Format("02.01.2006 15:04"))
	fmt.Fprintf(&s, "* Длина транскрипции: %d символов\n", len([]rune(rec.Transcript)))

	return "Техническое совещание - " + now.Format("02.01.2006 15:04"), s.String()
}

// Task renders a sub-task in Jira wiki markup.
func (b *Backend) Task(t meeting.Task, index int) (string, string) {
	body := fmt.Sprintf("h3. Суть задачи\n%s\n\nh3. Подробное описание\n%s\n\nh3. Ответственный\n%s\n\nh3. Срок выполнения\n%s\n\nh3. Источник\nАвтоматически извлечено из транскрипции технического совещания\n",
		or(t.Essence, "Суть не указана"),
		or(t.Description, "Описание не предоставлено"),
		or(t.Assignee, meeting.Unassigned),
		or(t.Due, meeting.Unspecified),
	)
	return tracker.TaskTitle(t, index), body
}

func or(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func joinOr(items []string, sep, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, sep)
}
