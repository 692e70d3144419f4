package correction

import "context"

// PlagiarismMatch is one passage found in an external source. Similarity is
// a percentage.
type PlagiarismMatch struct {
	Text       string `json:"text"`
	Source     string `json:"source,omitempty"`
	Similarity int    `json:"similarity"`
}

// PlagiarismReport scores a text from 0 (original) to 100 (fully copied).
type PlagiarismReport struct {
	Score   int               `json:"score"`
	Matches []PlagiarismMatch `json:"matches"`
}

type PlagiarismChecker interface {
	Check(ctx context.Context, text string) (PlagiarismReport, error)
}

// StaticPlagiarism answers every check with the same report. The zero value
// reports no similarity.
type StaticPlagiarism struct {
	Report PlagiarismReport
}

func (s StaticPlagiarism) Check(ctx context.Context, _ string) (PlagiarismReport, error) {
	if err := ctx.Err(); err != nil {
		return PlagiarismReport{}, err
	}
	r := s.Report
	r.Matches = append([]PlagiarismMatch{}, r.Matches...)
	return r, nil
}

type QualityReport struct {
	Score        int      `json:"score"`
	Feedback     []string `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

type QualityChecker interface {
	Assess(ctx context.Context, text string) (QualityReport, error)
}

// StaticQuality answers every assessment with the same report.
type StaticQuality struct {
	Report QualityReport
}

func (s StaticQuality) Assess(ctx context.Context, _ string) (QualityReport, error) {
	if err := ctx.Err(); err != nil {
		return QualityReport{}, err
	}
	r := s.Report
	r.Feedback = append([]string{}, r.Feedback...)
	r.Strengths = append([]string{}, r.Strengths...)
	r.Improvements = append([]string{}, r.Improvements...)
	return r, nil
}
