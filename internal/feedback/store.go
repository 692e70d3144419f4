package feedback

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound      = errors.New("feedback not found")
	ErrAlreadyExists = errors.New("feedback already exists")
)

type ListOpts struct {
	DocumentID  string
	EvaluatorID string
	Status      Status
	Limit       int
	Offset      int
}

// Store keeps feedback records. Implementations return copies; callers change
// a record only through Update.
type Store interface {
	Create(ctx context.Context, f Feedback) error
	Get(ctx context.Context, id string) (Feedback, error)
	// Update applies fn to the stored record and saves it unless fn fails.
	Update(ctx context.Context, id string, fn func(*Feedback) error) (Feedback, error)
	List(ctx context.Context, opts ListOpts) ([]Feedback, error)
}

type memoryStore struct {
	mu        sync.RWMutex
	feedbacks map[string]Feedback
}

func NewInMemoryStore() Store {
	return &memoryStore{feedbacks: map[string]Feedback{}}
}

func (m *memoryStore) Create(ctx context.Context, f Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.feedbacks[f.ID]; ok {
		return ErrAlreadyExists
	}
	m.feedbacks[f.ID] = f.Clone()
	return nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (Feedback, error) {
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.feedbacks[id]
	if !ok {
		return Feedback{}, ErrNotFound
	}
	return f.Clone(), nil
}

func (m *memoryStore) Update(ctx context.Context, id string, fn func(*Feedback) error) (Feedback, error) {
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.feedbacks[id]
	if !ok {
		return Feedback{}, ErrNotFound
	}
	next := cur.Clone()
	if err := fn(&next); err != nil {
		return Feedback{}, err
	}
	next.ID = id
	m.feedbacks[id] = next
	return next.Clone(), nil
}

func (m *memoryStore) List(ctx context.Context, opts ListOpts) ([]Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Feedback, 0, len(m.feedbacks))
	for _, f := range m.feedbacks {
		if opts.DocumentID != "" && f.DocumentID != opts.DocumentID {
			continue
		}
		if opts.EvaluatorID != "" && f.EvaluatorID != opts.EvaluatorID {
			continue
		}
		if opts.Status != "" && f.Status != opts.Status {
			continue
		}
		out = append(out, f.Clone())
	}
	m.mu.RUnlock()

	// newest first
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []Feedback{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}
