// Package feedback manages the structured evaluations an evaluator writes on
// a submitted thesis document.
package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mind-engage/memoire-review/internal/rubric"
)

var (
	ErrUnknownCriterion = errors.New("unknown criterion")
	ErrIndexOutOfRange  = errors.New("index out of range")
)

type Document struct {
	ID   string
	Name string
}

type Evaluator struct {
	ID   string
	Name string
}

// Feedback is one evaluation of one document. It owns its criteria: they are
// copied from the template and never shared with it.
type Feedback struct {
	ID            string             `json:"id"`
	DocumentID    string             `json:"documentId"`
	DocumentName  string             `json:"documentName"`
	EvaluatorID   string             `json:"evaluatorId"`
	EvaluatorName string             `json:"evaluatorName"`
	TemplateID    string             `json:"templateUsed"`
	Criteria      []rubric.Criterion `json:"criteria"`
	GlobalComment string             `json:"globalComment"`
	Strengths     []string           `json:"strengths"`
	Improvements  []string           `json:"improvements"`
	GlobalScore   int                `json:"globalScore"`
	Status        Status             `json:"status"`
	RevisionOf    string             `json:"revisionOf,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// New opens a draft evaluation of doc based on tpl.
func New(id string, tpl rubric.Template, doc Document, ev Evaluator, now time.Time) Feedback {
	f := Feedback{
		ID:            id,
		DocumentID:    doc.ID,
		DocumentName:  doc.Name,
		EvaluatorID:   ev.ID,
		EvaluatorName: ev.Name,
		TemplateID:    tpl.ID,
		Criteria:      rubric.CloneCriteria(tpl.Criteria),
		Strengths:     []string{},
		Improvements:  []string{},
		Status:        StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.GlobalScore = rubric.CalculateGlobalScore(f.Criteria)
	return f
}

// Clone returns a deep copy of f.
func (f Feedback) Clone() Feedback {
	f.Criteria = rubric.CloneCriteria(f.Criteria)
	f.Strengths = append([]string{}, f.Strengths...)
	f.Improvements = append([]string{}, f.Improvements...)
	return f
}

// Mention is the grade label for the current global score.
func (f *Feedback) Mention() rubric.Mention {
	return rubric.GetMention(f.GlobalScore)
}

func (f *Feedback) criterion(id string) (*rubric.Criterion, error) {
	for i := range f.Criteria {
		if f.Criteria[i].ID == id {
			return &f.Criteria[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCriterion, id)
}

// SetScore grades one criterion and recomputes the global score.
func (f *Feedback) SetScore(criterionID string, score float64) error {
	c, err := f.criterion(criterionID)
	if err != nil {
		return err
	}
	if err := c.ValidateScore(score); err != nil {
		return err
	}
	c.Score = rubric.Score(score)
	f.GlobalScore = rubric.CalculateGlobalScore(f.Criteria)
	return nil
}

// ClearScore marks a criterion as not graded.
func (f *Feedback) ClearScore(criterionID string) error {
	c, err := f.criterion(criterionID)
	if err != nil {
		return err
	}
	c.Score = nil
	f.GlobalScore = rubric.CalculateGlobalScore(f.Criteria)
	return nil
}

func (f *Feedback) SetComment(comment string) {
	f.GlobalComment = comment
}

// AddStrength appends s unless it is blank or already listed. It reports
// whether the list changed.
func (f *Feedback) AddStrength(s string) bool {
	return addUnique(&f.Strengths, s)
}

func (f *Feedback) AddImprovement(s string) bool {
	return addUnique(&f.Improvements, s)
}

func (f *Feedback) RemoveStrength(i int) error {
	return removeAt(&f.Strengths, i)
}

func (f *Feedback) RemoveImprovement(i int) error {
	return removeAt(&f.Improvements, i)
}

// Submit sends a draft to the student.
func (f *Feedback) Submit() error {
	return f.fire(EventSubmit)
}

// MarkRead records that the student opened the feedback. Opening it again is
// a no-op.
func (f *Feedback) MarkRead() error {
	return f.fire(EventOpen)
}

func (f *Feedback) fire(event string) error {
	to, err := transition(f.ID, f.Status, event)
	if err != nil {
		return err
	}
	f.Status = to
	return nil
}

// Revise starts a new draft from f, carrying over grades, comments and lists.
func (f Feedback) Revise(id string, now time.Time) Feedback {
	r := f.Clone()
	r.ID = id
	r.Status = StatusDraft
	r.RevisionOf = f.ID
	r.CreatedAt = now
	r.UpdatedAt = now
	return r
}

func addUnique(list *[]string, s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, v := range *list {
		if v == s {
			return false
		}
	}
	*list = append(*list, s)
	return true
}

func removeAt(list *[]string, i int) error {
	if i < 0 || i >= len(*list) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(*list))
	}
	*list = append((*list)[:i:i], (*list)[i+1:]...)
	return nil
}
