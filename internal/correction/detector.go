package correction

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// IssueDetector finds correction issues in a text. Implementations may call
// out to external services and must honour ctx.
type IssueDetector interface {
	Detect(ctx context.Context, text string) ([]CorrectionIssue, error)
}

type DetectorFunc func(ctx context.Context, text string) ([]CorrectionIssue, error)

func (f DetectorFunc) Detect(ctx context.Context, text string) ([]CorrectionIssue, error) {
	return f(ctx, text)
}

// FixedDetector returns the same issues for every text.
type FixedDetector []CorrectionIssue

func (d FixedDetector) Detect(_ context.Context, _ string) ([]CorrectionIssue, error) {
	return append([]CorrectionIssue(nil), d...), nil
}

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rule is one pattern-based check of the rule table.
type Rule struct {
	ID         string    `yaml:"id"`
	Type       IssueType `yaml:"type"`
	Severity   Severity  `yaml:"severity"`
	Pattern    string    `yaml:"pattern"`
	Message    string    `yaml:"message"`
	Suggestion string    `yaml:"suggestion"`
}

type RuleSet struct {
	Rules       []Rule   `yaml:"rules"`
	Transitions []string `yaml:"transitions"`
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// RuleDetector is the built-in deterministic detector: table rules first, in
// table order, then the paragraph transition check.
type RuleDetector struct {
	rules       []compiledRule
	transitions []string
}

// ParseRules decodes a YAML rule table.
func ParseRules(data []byte) (RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("decode rules: %w", err)
	}
	return rs, nil
}

// DefaultRules returns the embedded rule table.
func DefaultRules() RuleSet {
	rs, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(err)
	}
	return rs
}

func NewRuleDetector(rs RuleSet) (*RuleDetector, error) {
	d := &RuleDetector{}
	for _, r := range rs.Rules {
		if !r.Type.Valid() {
			return nil, fmt.Errorf("rule %q: unknown type %q", r.ID, r.Type)
		}
		if !r.Severity.Valid() {
			return nil, fmt.Errorf("rule %q: unknown severity %q", r.ID, r.Severity)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.ID, err)
		}
		d.rules = append(d.rules, compiledRule{Rule: r, re: re})
	}
	for _, t := range rs.Transitions {
		if n := normalize(t); n != "" {
			d.transitions = append(d.transitions, n)
		}
	}
	return d, nil
}

func (d *RuleDetector) Detect(ctx context.Context, text string) ([]CorrectionIssue, error) {
	var out []CorrectionIssue
	for _, r := range d.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, m := range r.re.FindAllStringIndex(text, -1) {
			out = append(out, CorrectionIssue{
				Type:       r.Type,
				Severity:   r.Severity,
				Message:    r.Message,
				Suggestion: r.Suggestion,
				Position:   Span{Start: runeOffset(text, m[0]), End: runeOffset(text, m[1])},
				Original:   text[m[0]:m[1]],
			})
		}
	}
	if len(d.transitions) > 0 {
		out = append(out, d.missingTransitions(text)...)
	}
	for i := range out {
		out[i].ID = strconv.Itoa(i + 1)
	}
	return out, nil
}

func (d *RuleDetector) missingTransitions(text string) []CorrectionIssue {
	var out []CorrectionIssue
	for i, p := range paragraphs(text) {
		if i == 0 || d.opensWithTransition(p.text) {
			continue
		}
		at := runeOffset(text, p.offset)
		out = append(out, CorrectionIssue{
			Type:     TypeCoherence,
			Severity: SeverityInfo,
			Message:  "Transition manquante entre les paragraphes : ajoutez une phrase de transition pour améliorer la fluidité",
			Position: Span{Start: at, End: at},
		})
	}
	return out
}

func (d *RuleDetector) opensWithTransition(body string) bool {
	head := normalize(body)
	for _, t := range d.transitions {
		if head == t || strings.HasPrefix(head, t+" ") {
			return true
		}
	}
	return false
}

type paragraph struct {
	offset int // byte offset of the first non-space character
	text   string
}

// paragraphs splits text the same way CountStats does, keeping offsets.
func paragraphs(text string) []paragraph {
	var out []paragraph
	start := 0
	bounds := append(paragraphSep.FindAllStringIndex(text, -1), []int{len(text), len(text)})
	for _, b := range bounds {
		seg := text[start:b[0]]
		body := strings.TrimLeftFunc(seg, isSpace)
		if !isBlank(body) {
			out = append(out, paragraph{offset: start + len(seg) - len(body), text: body})
		}
		start = b[1]
	}
	return out
}
