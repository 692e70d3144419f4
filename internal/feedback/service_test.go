package feedback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mind-engage/memoire-review/internal/rubric"
)

func newTestService() *Service {
	n := 0
	now := t0
	return NewService(NewInMemoryStore(), rubric.DefaultCatalog(),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("fb-%d", n) }),
		WithClock(func() time.Time { now = now.Add(time.Minute); return now }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func openInput() OpenInput {
	return OpenInput{
		TemplateID:    "template-plan",
		DocumentID:    "doc1",
		DocumentName:  "Plan détaillé.docx",
		EvaluatorID:   "a1",
		EvaluatorName: "Dr. Sophie Martin",
	}
}

func TestServiceFlow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	f, err := svc.Open(ctx, openInput())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.ID != "fb-1" || len(f.Criteria) != 5 || f.Status != StatusDraft {
		t.Fatalf("opened = %+v", f)
	}

	f, err = svc.SetScore(ctx, f.ID, "c1", 20)
	if err != nil {
		t.Fatal(err)
	}
	if f.GlobalScore != 100 {
		t.Fatalf("global score = %d", f.GlobalScore)
	}
	if !f.UpdatedAt.After(f.CreatedAt) {
		t.Fatal("UpdatedAt not bumped")
	}
	if _, err := svc.SetScore(ctx, f.ID, "c1", 25); !errors.Is(err, rubric.ErrScoreOutOfRange) {
		t.Fatalf("err = %v", err)
	}

	f, _ = svc.AddStrength(ctx, f.ID, "Problématique claire")
	f, _ = svc.AddStrength(ctx, f.ID, "Problématique claire")
	f, _ = svc.AddImprovement(ctx, f.ID, "Enrichir la bibliographie")
	f, _ = svc.SetComment(ctx, f.ID, "Bon travail dans l'ensemble")
	if len(f.Strengths) != 1 || len(f.Improvements) != 1 || f.GlobalComment == "" {
		t.Fatalf("feedback = %+v", f)
	}
	if _, err := svc.RemoveImprovement(ctx, f.ID, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v", err)
	}

	if f, err = svc.Submit(ctx, f.ID); err != nil || f.Status != StatusSent {
		t.Fatalf("Submit: %+v, %v", f, err)
	}
	if f, err = svc.MarkRead(ctx, f.ID); err != nil || f.Status != StatusRead {
		t.Fatalf("MarkRead: %+v, %v", f, err)
	}
	var te *TransitionError
	if _, err := svc.Submit(ctx, f.ID); !errors.As(err, &te) {
		t.Fatalf("err = %v", err)
	}

	r, err := svc.Revise(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "fb-2" || r.RevisionOf != f.ID || r.Status != StatusDraft {
		t.Fatalf("revision = %+v", r)
	}

	list, err := svc.List(ctx, ListOpts{DocumentID: "doc1"})
	if err != nil || len(list) != 2 {
		t.Fatalf("list = %v, err = %v", ids(list), err)
	}
}

func TestServiceErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	in := openInput()
	in.TemplateID = "template-unknown"
	if _, err := svc.Open(ctx, in); !errors.Is(err, rubric.ErrUnknownTemplate) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.MarkRead(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Revise(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
