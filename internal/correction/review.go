package correction

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Review gathers everything produced for one submitted text.
type Review struct {
	Analysis   DocumentAnalysis `json:"analysis"`
	Plagiarism PlagiarismReport `json:"plagiarism"`
	Quality    QualityReport    `json:"quality"`
	Corrected  string           `json:"corrected"`
	Rejected   []Rejection      `json:"rejected"`
}

type Reviewer struct {
	analyzer   *Analyzer
	plagiarism PlagiarismChecker
	quality    QualityChecker
	logger     *slog.Logger
}

// NewReviewer wires the checks run on each text. Nil checkers fall back to
// the static ones.
func NewReviewer(a *Analyzer, p PlagiarismChecker, q QualityChecker, logger *slog.Logger) *Reviewer {
	if a == nil {
		a = NewAnalyzer()
	}
	if p == nil {
		p = StaticPlagiarism{}
	}
	if q == nil {
		q = StaticQuality{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reviewer{analyzer: a, plagiarism: p, quality: q, logger: logger}
}

// Review runs analysis, plagiarism and quality checks concurrently and then
// applies the accepted suggestions to text. Either every part succeeds or
// the review fails; results are dropped when ctx is cancelled.
func (r *Reviewer) Review(ctx context.Context, text string) (Review, error) {
	var out Review
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := r.analyzer.Analyze(gctx, text)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		out.Analysis = a
		return nil
	})
	g.Go(func() error {
		p, err := r.plagiarism.Check(gctx, text)
		if err != nil {
			return fmt.Errorf("plagiarism check: %w", err)
		}
		out.Plagiarism = p
		return nil
	})
	g.Go(func() error {
		q, err := r.quality.Assess(gctx, text)
		if err != nil {
			return fmt.Errorf("quality check: %w", err)
		}
		out.Quality = q
		return nil
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return Review{}, ctx.Err()
		}
		return Review{}, err
	}
	if err := ctx.Err(); err != nil {
		return Review{}, err
	}

	out.Corrected, out.Rejected = ApplyCorrections(text, out.Analysis.Issues)
	for _, rj := range out.Rejected {
		r.logger.Warn("correction rejected",
			"issue_id", rj.Issue.ID,
			"start", rj.Issue.Position.Start,
			"end", rj.Issue.Position.End,
			"reason", rj.Reason)
	}
	if out.Rejected == nil {
		out.Rejected = []Rejection{}
	}
	r.logger.Debug("review complete",
		"words", out.Analysis.WordCount,
		"issues", len(out.Analysis.Issues),
		"plagiarism_score", out.Plagiarism.Score)
	return out, nil
}
