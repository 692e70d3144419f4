package correction

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	sentenceSep  = regexp.MustCompile(`[.!?]+`)
	paragraphSep = regexp.MustCompile(`\n\n+`)
)

// Flesch reading-ease constants. Syllables per word is fixed at 1.5 instead
// of being counted. Kept as variables so every step is rounded to float64
// exactly like the reference front-end computes it.
var (
	fleschBase       = 206.835
	fleschSentence   = 1.015
	fleschSyllable   = 84.6
	syllablesPerWord = 1.5
)

// Stats holds the counters derived from a text. Characters is a rune count.
type Stats struct {
	Words      int
	Characters int
	Sentences  int
	Paragraphs int
}

// isSpace matches the ECMAScript \s class, which is what word splitting and
// trimming use in the platform front-end.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

func isBlank(s string) bool { return strings.TrimFunc(s, isSpace) == "" }

func countNonBlank(parts []string) int {
	n := 0
	for _, p := range parts {
		if !isBlank(p) {
			n++
		}
	}
	return n
}

// CountStats tokenizes text into words, sentences and paragraphs.
func CountStats(text string) Stats {
	return Stats{
		Words:      len(strings.FieldsFunc(text, isSpace)),
		Characters: utf8.RuneCountInString(text),
		Sentences:  countNonBlank(sentenceSep.Split(text, -1)),
		Paragraphs: countNonBlank(paragraphSep.Split(text, -1)),
	}
}

// Readability returns the simplified Flesch score clamped to [0,100].
func Readability(words, sentences int) int {
	avg := float64(words) / float64(max(sentences, 1))
	score := float64(fleschBase-float64(fleschSentence*avg)) - float64(fleschSyllable*syllablesPerWord)
	return int(roundHalfUp(math.Max(0, math.Min(100, score))))
}

// roundHalfUp rounds .5 toward +Inf.
func roundHalfUp(x float64) float64 {
	r := math.Round(x)
	if r-x == -0.5 {
		return r + 1
	}
	return r
}

type Level string

const (
	LevelWeak      Level = "weak"
	LevelAverage   Level = "average"
	LevelGood      Level = "good"
	LevelExcellent Level = "excellent"
)

func LevelFor(readability int) Level {
	switch {
	case readability >= 80:
		return LevelExcellent
	case readability >= 60:
		return LevelGood
	case readability >= 40:
		return LevelAverage
	default:
		return LevelWeak
	}
}
