package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/memoire-review/internal/rubric"
)

// TemplateSource resolves evaluation grids by id.
type TemplateSource interface {
	Template(id string) (rubric.Template, error)
}

type OpenInput struct {
	TemplateID    string `json:"templateId" validate:"required"`
	DocumentID    string `json:"documentId" validate:"required"`
	DocumentName  string `json:"documentName" validate:"required"`
	EvaluatorID   string `json:"evaluatorId" validate:"required"`
	EvaluatorName string `json:"evaluatorName" validate:"required"`
}

type Option func(*Service)

func WithClock(now func() time.Time) Option    { return func(s *Service) { s.now = now } }
func WithIDGenerator(gen func() string) Option { return func(s *Service) { s.newID = gen } }
func WithLogger(l *slog.Logger) Option         { return func(s *Service) { s.logger = l } }

// Service runs the evaluator and student use cases against a Store.
type Service struct {
	store     Store
	templates TemplateSource
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
}

func NewService(store Store, templates TemplateSource, opts ...Option) *Service {
	s := &Service{
		store:     store,
		templates: templates,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.NewString() },
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open starts a draft evaluation of a document from a template.
func (s *Service) Open(ctx context.Context, in OpenInput) (Feedback, error) {
	tpl, err := s.templates.Template(in.TemplateID)
	if err != nil {
		return Feedback{}, err
	}
	f := New(s.newID(), tpl,
		Document{ID: in.DocumentID, Name: in.DocumentName},
		Evaluator{ID: in.EvaluatorID, Name: in.EvaluatorName},
		s.now())
	if err := s.store.Create(ctx, f); err != nil {
		return Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	s.logger.Info("feedback opened",
		"feedback_id", f.ID,
		"document_id", f.DocumentID,
		"evaluator_id", f.EvaluatorID,
		"template", f.TemplateID)
	return f, nil
}

func (s *Service) Get(ctx context.Context, id string) (Feedback, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, opts ListOpts) ([]Feedback, error) {
	return s.store.List(ctx, opts)
}

func (s *Service) update(ctx context.Context, id string, fn func(*Feedback) error) (Feedback, error) {
	return s.store.Update(ctx, id, func(f *Feedback) error {
		if err := fn(f); err != nil {
			return err
		}
		f.UpdatedAt = s.now()
		return nil
	})
}

func (s *Service) SetScore(ctx context.Context, id, criterionID string, score float64) (Feedback, error) {
	return s.update(ctx, id, func(f *Feedback) error {
		return f.SetScore(criterionID, score)
	})
}

func (s *Service) ClearScore(ctx context.Context, id, criterionID string) (Feedback, error) {
	return s.update(ctx, id, func(f *Feedback) error {
		return f.ClearScore(criterionID)
	})
}

func (s *Service) SetComment(ctx context.Context, id, comment string) (Feedback, error) {
	return s.update(ctx, id, func(f *Feedback) error {
		f.SetComment(comment)
		return nil
	})
}

func (s *Service) AddStrength(ctx context.Context, id, text string) (Feedback, error) {
	return s.update(ctx, id, func(f *Feedback) error {
		f.AddStrength(text)
		return nil
	})
}

func (s *Service) RemoveStrength(ctx context.Context, id string, index int) (Feedback, error) {
	return s.update(ctx, id, func(f *Feedback) error {
		return f.RemoveStrength(index)
	})
}

func (s *Service) AddImprovement(ctx context.Context, id, text string) (Feedback, error) {
	return s.update(ctx, id, func(f *Feedback) error {
		f.AddImprovement(text)
		return nil
	})
}

func (s *Service) RemoveImprovement(ctx context.Context, id string, index int) (Feedback, error) {
	return s.update(ctx, id, func(f *Feedback) error {
		return f.RemoveImprovement(index)
	})
}

func (s *Service) Submit(ctx context.Context, id string) (Feedback, error) {
	f, err := s.update(ctx, id, (*Feedback).Submit)
	if err != nil {
		return Feedback{}, err
	}
	s.logger.Info("feedback sent",
		"feedback_id", f.ID,
		"document_id", f.DocumentID,
		"global_score", f.GlobalScore)
	return f, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) (Feedback, error) {
	return s.update(ctx, id, (*Feedback).MarkRead)
}

// Revise opens a new draft linked to an existing evaluation.
func (s *Service) Revise(ctx context.Context, id string) (Feedback, error) {
	prev, err := s.store.Get(ctx, id)
	if err != nil {
		return Feedback{}, err
	}
	next := prev.Revise(s.newID(), s.now())
	if err := s.store.Create(ctx, next); err != nil {
		return Feedback{}, fmt.Errorf("create revision: %w", err)
	}
	s.logger.Info("feedback revised", "feedback_id", next.ID, "revision_of", prev.ID)
	return next, nil
}
