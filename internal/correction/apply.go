package correction

import (
	"errors"
	"sort"
)

var (
	ErrInvalidSpan     = errors.New("span outside text")
	ErrOverlappingSpan = errors.New("span overlaps an applied correction")
)

// Rejection is an issue ApplyCorrections could not apply.
type Rejection struct {
	Issue  CorrectionIssue `json:"issue"`
	Reason string          `json:"reason"`
	Err    error           `json:"-"`
}

func reject(is CorrectionIssue, err error) Rejection {
	return Rejection{Issue: is, Reason: err.Error(), Err: err}
}

// ApplyCorrections replaces every issue span that carries a suggestion,
// working from the end of the text towards the start so that lower offsets
// stay valid. Offsets must come from an analysis of this exact text: feeding
// the output back in with the same issues corrupts it.
//
// Issues with an out-of-range span or a span reaching into an already
// replaced region are skipped and returned as rejections.
func ApplyCorrections(text string, issues []CorrectionIssue) (string, []Rejection) {
	pending := make([]CorrectionIssue, 0, len(issues))
	for _, is := range issues {
		if is.Suggestion != "" {
			pending = append(pending, is)
		}
	}
	// at equal starts the wider span goes first so an insertion lands in
	// front of the replacement
	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i].Position, pending[j].Position
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		return a.End > b.End
	})

	src := []rune(text)
	out := src
	limit := len(src)
	var rejected []Rejection
	for _, is := range pending {
		p := is.Position
		if !p.Within(len(src)) {
			rejected = append(rejected, reject(is, ErrInvalidSpan))
			continue
		}
		if p.End > limit {
			rejected = append(rejected, reject(is, ErrOverlappingSpan))
			continue
		}
		out = splice(out, p.Start, p.End, []rune(is.Suggestion))
		limit = p.Start
	}
	return string(out), rejected
}

func splice(s []rune, start, end int, repl []rune) []rune {
	out := make([]rune, 0, len(s)-(end-start)+len(repl))
	out = append(out, s[:start]...)
	out = append(out, repl...)
	return append(out, s[end:]...)
}
