package tracker

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

type fakeBackend struct {
	whoErr      error
	projectErr  error
	membersErr  error
	hierarchy   bool
	failTitles  map[string]bool
	members     []Member
	memberCalls int
	requests    []NewTask
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) WhoAmI(context.Context) (string, error) { return "bot", f.whoErr }

func (f *fakeBackend) Project(context.Context) (Project, error) {
	return Project{ID: "p1", Title: "Платформа"}, f.projectErr
}

func (f *fakeBackend) Members(context.Context) ([]Member, error) {
	f.memberCalls++
	return f.members, f.membersErr
}

func (f *fakeBackend) CreateTask(_ context.Context, task NewTask) (CreatedTask, error) {
	f.requests = append(f.requests, task)
	if f.failTitles[task.Title] {
		return CreatedTask{}, errors.New("bad request")
	}
	return CreatedTask{ID: strconv.Itoa(len(f.requests)), Title: task.Title}, nil
}

func (f *fakeBackend) SupportsHierarchy() bool { return f.hierarchy }

var publishNow = time.Date(2025, time.March, 5, 9, 30, 0, 0, time.UTC)

func newPublisher(t *testing.T, b Backend) *Publisher {
	t.Helper()
	p, err := New(context.Background(), b, Logger.NewNop(), WithClock(func() time.Time { return publishNow }))
	require.NoError(t, err)
	return p
}

func publishRecord() meeting.Record {
	return meeting.Record{
		Summary: "Обсудили релиз.",
		Tasks: []meeting.Task{
			{Title: "API", Description: "Сделать API", Essence: "Новый API", Assignee: "Иван Иванов", Due: "завтра"},
			{Title: "", Description: "Без названия", Essence: "Что-то", Assignee: "Backend-отдел", Due: "когда-нибудь"},
			{Title: "Дизайн", Description: "Макеты", Essence: "Макеты", Assignee: meeting.Unassigned, Due: meeting.Unspecified},
		},
		Hypotheses:   []meeting.Hypothesis{{Statement: "Кэш поможет", Status: meeting.Accepted}},
		Decisions:    []string{"Релиз в пятницу"},
		Participants: []string{"Иван Иванов", "Мария Петрова"},
		President:    "Иван Иванов",
		Absent:       []string{},
	}
}

func TestNewFailsWhenTrackerUnreachable(t *testing.T) {
	_, err := New(context.Background(), &fakeBackend{whoErr: errors.New("401")}, Logger.NewNop())
	assert.ErrorIs(t, err, ErrTrackerUnavailable)
	assert.Contains(t, err.Error(), "401")
}

func TestPublishCreatesSummaryThenTasks(t *testing.T) {
	b := &fakeBackend{
		hierarchy: true,
		members:   []Member{{ID: "u1", FirstName: "Иван", LastName: "Иванов"}},
	}
	res := newPublisher(t, b).Publish(context.Background(), publishRecord())

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "fake", res.Tracker)
	require.NotNil(t, res.Project)
	assert.Equal(t, "Платформа", res.Project.Title)
	assert.Equal(t, publishNow, res.CreatedAt)
	assert.Equal(t, 1, b.memberCalls)

	require.Len(t, b.requests, 4)
	summary := b.requests[0]
	assert.Equal(t, KindSummary, summary.Kind)
	assert.Equal(t, "📋 Сводка совещания от 2025-03-05", summary.Title)
	assert.Contains(t, summary.Description, "👥 Председатель: Иван Иванов")
	assert.Contains(t, summary.Description, "👥 Секретарь: Не определен")
	assert.Contains(t, summary.Description, "• Релиз в пятницу")
	assert.Contains(t, summary.Description, "• Кэш поможет - принята")
	assert.Contains(t, summary.Description, "Иван Иванов, Мария Петрова")
	assert.Contains(t, summary.Description, "📅 Дата создания: 05.03.2025 в 09:30")

	first := b.requests[1]
	assert.Equal(t, "API", first.Title)
	assert.Equal(t, "1", first.ParentID)
	assert.Equal(t, []string{"u1"}, first.AssigneeIDs)
	assert.Equal(t, "2025-03-06", first.DueDate)
	assert.True(t, strings.HasPrefix(first.Description, "📋 Новый API"))
	assert.Contains(t, first.Description, "👤 Ответственный: Иван Иванов")

	untitled := b.requests[2]
	assert.Equal(t, "Задача 2", untitled.Title)
	assert.Empty(t, untitled.AssigneeIDs)
	assert.Empty(t, untitled.DueDate)

	assert.Empty(t, b.requests[3].AssigneeIDs)

	assert.Equal(t, Stats{TotalTasks: 3, CreatedTasks: 3, SummaryTask: 1, Participants: 2, Decisions: 1, Hypotheses: 1}, res.Stats)
	require.Len(t, res.Created, 4)
	assert.Equal(t, KindSummary, res.Created[0].Kind)
	assert.Equal(t, "Иван Иванов", res.Created[1].Assignee)
	assert.Equal(t, "1", res.Created[1].ParentID)
	assert.Empty(t, res.Created[3].Assignee)
	assert.Empty(t, res.Failed)
}

func TestPublishIsolatesTaskFailures(t *testing.T) {
	b := &fakeBackend{failTitles: map[string]bool{"Задача 2": true}}
	res := newPublisher(t, b).Publish(context.Background(), publishRecord())

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Len(t, b.requests, 4)
	assert.Equal(t, []FailedTask{{Index: 2, Title: "Задача 2", Error: "bad request"}}, res.Failed)
	assert.Equal(t, 2, res.Stats.CreatedTasks)
	assert.Equal(t, 1, res.Stats.FailedTasks)
	assert.Empty(t, b.requests[1].ParentID)
}

func TestPublishSummaryFailureIsError(t *testing.T) {
	b := &fakeBackend{failTitles: map[string]bool{"📋 Сводка совещания от 2025-03-05": true}}
	res := newPublisher(t, b).Publish(context.Background(), publishRecord())

	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Message, "summary task")
	assert.Len(t, b.requests, 1)
	assert.Empty(t, res.Created)
}

func TestPublishMissingProjectIsError(t *testing.T) {
	b := &fakeBackend{projectErr: errors.New("404")}
	res := newPublisher(t, b).Publish(context.Background(), publishRecord())

	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Message, ErrProjectNotFound.Error())
	assert.Empty(t, b.requests)
}

func TestPublishUnmatchedAssigneeStaysUnassigned(t *testing.T) {
	b := &fakeBackend{membersErr: errors.New("forbidden")}
	rec := publishRecord()
	rec.Tasks = rec.Tasks[:1]
	res := newPublisher(t, b).Publish(context.Background(), rec)

	assert.Equal(t, StatusSuccess, res.Status)
	require.Len(t, b.requests, 2)
	assert.Empty(t, b.requests[1].AssigneeIDs)
}

func TestPublishSkipsMemberListWithoutAssignees(t *testing.T) {
	b := &fakeBackend{}
	rec := publishRecord()
	rec.Tasks = rec.Tasks[2:]
	newPublisher(t, b).Publish(context.Background(), rec)
	assert.Equal(t, 0, b.memberCalls)
}

type searchingBackend struct {
	fakeBackend
	searched []string
}

func (s *searchingBackend) FindMember(_ context.Context, name string) (Member, error) {
	s.searched = append(s.searched, name)
	if name == "Иван Иванов" {
		return Member{ID: "ivanov"}, nil
	}
	return Member{}, ErrMemberNotFound
}

func TestPublishUsesMemberSearch(t *testing.T) {
	b := &searchingBackend{}
	newPublisher(t, b).Publish(context.Background(), publishRecord())

	assert.Equal(t, []string{"Иван Иванов", "Backend-отдел"}, b.searched)
	assert.Equal(t, 0, b.memberCalls)
	assert.Equal(t, []string{"ivanov"}, b.requests[1].AssigneeIDs)
}

func TestSkipped(t *testing.T) {
	res := Skipped("tracker disabled", publishNow)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.NotNil(t, res.Created)
	assert.NotNil(t, res.Failed)
}
