package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

// Publisher turns a meeting record into tracker tasks: one summary task,
// then one task per record task, children of the summary where the backend
// supports it.
type Publisher struct {
	backend   Backend
	formatter Formatter
	now       func() time.Time
	logger    *Logger.Logger
}

type Option func(*Publisher)

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

func WithFormatter(f Formatter) Option {
	return func(p *Publisher) { p.formatter = f }
}

// New checks connectivity with WhoAmI before returning. A failed check is
// reported as ErrTrackerUnavailable.
func New(ctx context.Context, backend Backend, logger *Logger.Logger, opts ...Option) (*Publisher, error) {
	p := &Publisher{
		backend:   backend,
		formatter: PlainFormatter{},
		now:       time.Now,
		logger:    logger,
	}
	if f, ok := backend.(Formatter); ok {
		p.formatter = f
	}
	for _, opt := range opts {
		opt(p)
	}

	who, err := backend.WhoAmI(ctx)
	if err != nil {
		logger.Errorf("%s connection check failed: %v", backend.Name(), err)
		return nil, fmt.Errorf("%w: %s: %v", ErrTrackerUnavailable, backend.Name(), err)
	}
	logger.Infof("connected to %s as %s", backend.Name(), who)
	return p, nil
}

func (p *Publisher) Name() string { return p.backend.Name() }

// Publish creates the tasks for rec. Individual task failures are collected
// in the result and never stop the loop; only a missing project or a failed
// summary task yields StatusError. Publish does not return an error.
func (p *Publisher) Publish(ctx context.Context, rec meeting.Record) *Result {
	now := p.now()
	res := &Result{
		Status:    StatusSuccess,
		Tracker:   p.backend.Name(),
		Created:   []CreatedTask{},
		Failed:    []FailedTask{},
		CreatedAt: now,
		Stats: Stats{
			TotalTasks:   len(rec.Tasks),
			Participants: len(rec.Participants),
			Decisions:    len(rec.Decisions),
			Hypotheses:   len(rec.Hypotheses),
		},
	}
	fail := func(err error) *Result {
		p.logger.Errorf("publishing to %s failed: %v", p.backend.Name(), err)
		res.Status = StatusError
		res.Message = err.Error()
		res.Stats.FailedTasks = len(res.Failed)
		return res
	}

	project, err := p.backend.Project(ctx)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrProjectNotFound, err))
	}
	res.Project = &project

	title, body := p.formatter.Summary(rec, now)
	summary, err := p.backend.CreateTask(ctx, NewTask{Kind: KindSummary, Title: title, Description: body})
	if err != nil {
		return fail(fmt.Errorf("failed to create summary task: %w", err))
	}
	summary.Kind = KindSummary
	res.Created = append(res.Created, summary)
	res.Stats.SummaryTask = 1

	parentID := ""
	if p.backend.SupportsHierarchy() {
		parentID = summary.ID
	}

	resolve := p.assigneeResolver(ctx, rec.Tasks)
	for i, t := range rec.Tasks {
		n := i + 1
		title, body := p.formatter.Task(t, n)
		req := NewTask{Kind: KindTask, Title: title, Description: body, ParentID: parentID}
		if id, ok := resolve(t.Assignee); ok {
			req.AssigneeIDs = []string{id}
		}
		if due, ok := NormalizeDue(t.Due, now); ok {
			req.DueDate = due
		} else if Assignable(t.Due) {
			p.logger.Warnf("task %d: unrecognised due date %q", n, t.Due)
		}

		created, err := p.backend.CreateTask(ctx, req)
		if err != nil {
			p.logger.Errorf("task %d (%s) not created: %v", n, title, err)
			res.Failed = append(res.Failed, FailedTask{Index: n, Title: title, Error: err.Error()})
			continue
		}
		created.Kind = KindTask
		created.ParentID = parentID
		if Assignable(t.Assignee) {
			created.Assignee = t.Assignee
		}
		res.Created = append(res.Created, created)
		res.Stats.CreatedTasks++
	}
	res.Stats.FailedTasks = len(res.Failed)

	p.logger.Infof("published to %s: %d/%d tasks in project %s",
		p.backend.Name(), res.Stats.CreatedTasks, res.Stats.TotalTasks, project.Title)
	return res
}

// assigneeResolver maps assignee names to member ids. The member list is
// fetched at most once and only when some task names a person.
func (p *Publisher) assigneeResolver(ctx context.Context, tasks []meeting.Task) func(string) (string, bool) {
	if s, ok := p.backend.(MemberSearcher); ok {
		return func(name string) (string, bool) {
			if !Assignable(name) {
				return "", false
			}
			m, err := s.FindMember(ctx, name)
			if err != nil {
				p.logger.Warnf("assignee %q not found: %v", name, err)
				return "", false
			}
			return m.ID, true
		}
	}

	needed := false
	for _, t := range tasks {
		if Assignable(t.Assignee) {
			needed = true
			break
		}
	}
	var members []Member
	if needed {
		var err error
		if members, err = p.backend.Members(ctx); err != nil {
			p.logger.Warnf("failed to list %s members: %v", p.backend.Name(), err)
		}
	}
	return func(name string) (string, bool) {
		if !Assignable(name) {
			return "", false
		}
		m, ok := ResolveMember(name, members)
		if !ok {
			p.logger.Warnf("assignee %q not found", name)
			return "", false
		}
		return m.ID, true
	}
}
