// Package rubric holds the weighted evaluation grids used to grade thesis
// documents and the scoring rules applied to them.
package rubric

import (
	"errors"
	"fmt"
)

var (
	ErrScoreOutOfRange = errors.New("score out of range")
	ErrInvalidMaxScore = errors.New("max score must be positive")
	ErrNegativeWeight  = errors.New("weight must not be negative")
)

// Criterion is one line of an evaluation grid. Weight is a percentage; the
// weights of a grid are not required to add up to 100. A nil Score means the
// criterion has not been graded yet.
type Criterion struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Weight      float64  `json:"weight" yaml:"weight"`
	MaxScore    float64  `json:"maxScore" yaml:"max_score"`
	Score       *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

func (c Criterion) Graded() bool { return c.Score != nil }

// ValidateScore checks that s can be given to c.
func (c Criterion) ValidateScore(s float64) error {
	if c.MaxScore <= 0 {
		return fmt.Errorf("criterion %q: %w", c.ID, ErrInvalidMaxScore)
	}
	if s < 0 || s > c.MaxScore {
		return fmt.Errorf("criterion %q: %v not in [0,%v]: %w", c.ID, s, c.MaxScore, ErrScoreOutOfRange)
	}
	return nil
}

func (c Criterion) Validate() error {
	if c.MaxScore <= 0 {
		return fmt.Errorf("criterion %q: %w", c.ID, ErrInvalidMaxScore)
	}
	if c.Weight < 0 {
		return fmt.Errorf("criterion %q: %w", c.ID, ErrNegativeWeight)
	}
	if c.Score != nil {
		return c.ValidateScore(*c.Score)
	}
	return nil
}

// Clone returns a copy that shares no memory with c.
func (c Criterion) Clone() Criterion {
	if c.Score != nil {
		s := *c.Score
		c.Score = &s
	}
	return c
}

func CloneCriteria(in []Criterion) []Criterion {
	if in == nil {
		return nil
	}
	out := make([]Criterion, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// Score is a helper for building graded criteria.
func Score(v float64) *float64 { return &v }
