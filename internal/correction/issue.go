package correction

import "sort"

type IssueType string

const (
	TypeSpelling   IssueType = "spelling"
	TypeGrammar    IssueType = "grammar"
	TypeStyle      IssueType = "style"
	TypeCoherence  IssueType = "coherence"
	TypePlagiarism IssueType = "plagiarism"
)

func (t IssueType) Valid() bool {
	switch t {
	case TypeSpelling, TypeGrammar, TypeStyle, TypeCoherence, TypePlagiarism:
		return true
	}
	return false
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities for display: error first, unknown values last.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

func (s Severity) Valid() bool { return s.Rank() < 3 }

// Span is a half-open [Start, End) range of rune offsets.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Within reports whether the span fits a text of the given rune length.
func (s Span) Within(length int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= length
}

func (s Span) Empty() bool { return s.Start == s.End }

// CorrectionIssue is one problem found in a text. Position and Original
// always refer to the text the issue was detected on.
type CorrectionIssue struct {
	ID         string    `json:"id"`
	Type       IssueType `json:"type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	Position   Span      `json:"position"`
	Original   string    `json:"original"`
}

// BySeverity returns a copy of issues ordered error > warning > info,
// keeping detection order inside a severity.
func BySeverity(issues []CorrectionIssue) []CorrectionIssue {
	out := append([]CorrectionIssue(nil), issues...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}
