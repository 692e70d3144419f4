package correction

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultSuggestions is the pool of generic writing advice returned with
// every analysis.
var DefaultSuggestions = []string{
	"Utilisez des transitions plus explicites entre les sections",
	"Évitez les répétitions en variant votre vocabulaire",
	"Renforcez vos arguments avec des citations académiques",
	"Vérifiez la cohérence des temps verbaux dans tout le document",
	"Précisez vos références bibliographiques selon les normes APA",
}

const maxSuggestions = 3

// DocumentAnalysis is the outcome of analysing one text.
type DocumentAnalysis struct {
	WordCount        int               `json:"wordCount"`
	CharacterCount   int               `json:"characterCount"`
	SentenceCount    int               `json:"sentenceCount"`
	ParagraphCount   int               `json:"paragraphCount"`
	ReadabilityScore int               `json:"readabilityScore"`
	AcademicLevel    Level             `json:"academicLevel"`
	Issues           []CorrectionIssue `json:"issues"`
	Suggestions      []string          `json:"suggestions"`
}

// Analyzer options

type Option func(*config)

type config struct {
	detector    IssueDetector
	suggestions []string
	logger      *slog.Logger
}

func WithDetector(d IssueDetector) Option  { return func(c *config) { c.detector = d } }
func WithSuggestionPool(p []string) Option { return func(c *config) { c.suggestions = p } }
func WithLogger(l *slog.Logger) Option     { return func(c *config) { c.logger = l } }

type Analyzer struct {
	detector    IssueDetector
	suggestions []string
	logger      *slog.Logger
}

// NewAnalyzer builds an analyzer. Without WithDetector it uses the built-in
// rule table.
func NewAnalyzer(opts ...Option) *Analyzer {
	cfg := &config{suggestions: DefaultSuggestions}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.detector == nil {
		d, err := NewRuleDetector(DefaultRules())
		if err != nil {
			panic(err)
		}
		cfg.detector = d
	}
	n := min(len(cfg.suggestions), maxSuggestions)
	return &Analyzer{
		detector:    cfg.detector,
		suggestions: append([]string(nil), cfg.suggestions[:n]...),
		logger:      cfg.logger,
	}
}

// Analyze computes statistics, readability and issues for text. The only
// error source is the issue detector.
func (a *Analyzer) Analyze(ctx context.Context, text string) (DocumentAnalysis, error) {
	st := CountStats(text)
	score := Readability(st.Words, st.Sentences)

	found, err := a.detector.Detect(ctx, text)
	if err != nil {
		return DocumentAnalysis{}, fmt.Errorf("detect issues: %w", err)
	}
	issues := make([]CorrectionIssue, 0, len(found))
	for _, is := range found {
		if !is.Position.Within(st.Characters) {
			a.logger.Warn("dropping issue with invalid span",
				"issue_id", is.ID,
				"start", is.Position.Start,
				"end", is.Position.End,
				"length", st.Characters)
			continue
		}
		issues = append(issues, is)
	}

	return DocumentAnalysis{
		WordCount:        st.Words,
		CharacterCount:   st.Characters,
		SentenceCount:    st.Sentences,
		ParagraphCount:   st.Paragraphs,
		ReadabilityScore: score,
		AcademicLevel:    LevelFor(score),
		Issues:           issues,
		Suggestions:      append([]string{}, a.suggestions...),
	}, nil
}
