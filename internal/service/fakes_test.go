package service

import (
	"context"
	"sort"
	"sync"

	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/repository/contract"
	"morning-pulse-be/internal/repository/specification"
	"morning-pulse-be/internal/repository/unitofwork"
	"morning-pulse-be/pkg/events"

	"github.com/google/uuid"
)

// memStore backs the fake unit of work; specs are interpreted by type.
type memStore struct {
	mu       sync.Mutex
	stories  map[uuid.UUID]*entity.Story
	opinions map[uuid.UUID]*entity.Opinion
	editors  map[uuid.UUID]*entity.Editor
	askLogs  []*entity.AskLog
}

func newMemStore() *memStore {
	return &memStore{
		stories:  map[uuid.UUID]*entity.Story{},
		opinions: map[uuid.UUID]*entity.Opinion{},
		editors:  map[uuid.UUID]*entity.Editor{},
	}
}

func (m *memStore) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return &memUoW{m: m} }

type memUoW struct{ m *memStore }

func (u *memUoW) Begin(context.Context) error { return nil }
func (u *memUoW) Commit() error               { return nil }
func (u *memUoW) Rollback() error             { return nil }

func (u *memUoW) StoryRepository() contract.StoryRepository     { return &memStories{u.m} }
func (u *memUoW) OpinionRepository() contract.OpinionRepository { return &memOpinions{u.m} }
func (u *memUoW) EditorRepository() contract.EditorRepository   { return &memEditors{u.m} }
func (u *memUoW) AskLogRepository() contract.AskLogRepository   { return &memAskLogs{u.m} }

type memStories struct{ m *memStore }

func (r *memStories) Create(_ context.Context, s *entity.Story) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *s
	r.m.stories[s.Id] = &cp
	return nil
}

func (r *memStories) Update(ctx context.Context, s *entity.Story) error { return r.Create(ctx, s) }

func (r *memStories) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.stories, id)
	return nil
}

func (r *memStories) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Story, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *memStories) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Story, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Story
	for _, s := range r.m.stories {
		if matchStory(s, specs) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (r *memStories) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func matchStory(s *entity.Story, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.StoriesInCategory:
			if s.Category != v.Category {
				return false
			}
		case specification.PublishedSince:
			if s.PublishedAt.Before(v.Since) {
				return false
			}
		}
	}
	return true
}

type memOpinions struct{ m *memStore }

func (r *memOpinions) Create(_ context.Context, o *entity.Opinion) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *o
	r.m.opinions[o.Id] = &cp
	return nil
}

func (r *memOpinions) Update(ctx context.Context, o *entity.Opinion) error { return r.Create(ctx, o) }

func (r *memOpinions) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Opinion, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *memOpinions) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Opinion, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Opinion
	for _, o := range r.m.opinions {
		ok := true
		for _, spec := range specs {
			switch v := spec.(type) {
			case specification.ByID:
				ok = ok && o.Id == v.ID
			case specification.OpinionsWithStatus:
				ok = ok && string(o.Status) == v.Status
			}
		}
		if ok {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (r *memOpinions) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memEditors struct{ m *memStore }

func (r *memEditors) Create(_ context.Context, e *entity.Editor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *e
	r.m.editors[e.Id] = &cp
	return nil
}

func (r *memEditors) Update(ctx context.Context, e *entity.Editor) error { return r.Create(ctx, e) }

func (r *memEditors) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Editor, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *memEditors) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Editor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Editor
	for _, e := range r.m.editors {
		ok := true
		for _, spec := range specs {
			switch v := spec.(type) {
			case specification.ByEmail:
				ok = ok && e.Email == v.Email
			case specification.ActiveEditors:
				ok = ok && e.IsActive
			}
		}
		if ok {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memAskLogs struct{ m *memStore }

func (r *memAskLogs) Create(_ context.Context, l *entity.AskLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *l
	r.m.askLogs = append(r.m.askLogs, &cp)
	return nil
}

func (r *memAskLogs) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.AskLog, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.AskLog
	for _, l := range r.m.askLogs {
		ok := true
		for _, spec := range specs {
			if v, isSession := spec.(specification.AskLogsInSession); isSession {
				ok = ok && l.SessionId == v.SessionID
			}
		}
		if ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memAskLogs) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// recordingBus captures published events.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventType())
	}
	return out
}
