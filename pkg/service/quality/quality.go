package quality

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/secmon-lab/pulse/pkg/domain/types"
)

// Reason tags explain which signals contributed to a quality label
type Reason string

const (
	ReasonLength             Reason = "length"
	ReasonKeyword            Reason = "keyword"
	ReasonStructure          Reason = "structure"
	ReasonInsufficientDetail Reason = "insufficient_detail"
)

// Result is a structured quality assessment of a check-in message
type Result struct {
	Label   types.Quality
	Reasons []Reason
}

// minDetailLength is the trimmed rune count a message must exceed to
// fire the length signal.
const minDetailLength = 50

// defaultKeywords are status words that indicate a substantive update
var defaultKeywords = []string{"completed", "blocked", "planning", "done", "help", "stuck"}

// defaultSections are labeled section headers that indicate a
// structured update.
var defaultSections = []string{"yesterday:", "today:", "blockers:", "completed:", "planning:"}

// bulletPattern matches a bullet or numbered line start
var bulletPattern = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+\.)\s`)

// Scorer assesses check-in message quality from three independent
// signals: length, keywords, and structure. The label is good iff at
// least two signals fire. Scoring is deterministic and has no failure
// modes.
type Scorer struct {
	keywords []string
	sections []string
}

// Option is a functional option for Scorer configuration
type Option func(*Scorer)

// WithKeywords overrides the keyword set
func WithKeywords(keywords []string) Option {
	return func(s *Scorer) {
		if len(keywords) > 0 {
			s.keywords = keywords
		}
	}
}

// WithSections overrides the labeled section header set
func WithSections(sections []string) Option {
	return func(s *Scorer) {
		if len(sections) > 0 {
			s.sections = sections
		}
	}
}

// NewScorer creates a Scorer with the default signal configuration
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		keywords: defaultKeywords,
		sections: defaultSections,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess scores a message and returns the label with reason tags.
// An empty or whitespace-only message scores bad with
// insufficient_detail.
func (s *Scorer) Assess(text string) Result {
	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)

	var reasons []Reason
	score := 0

	if utf8.RuneCountInString(trimmed) > minDetailLength {
		reasons = append(reasons, ReasonLength)
		score++
	}

	for _, kw := range s.keywords {
		if strings.Contains(lowered, kw) {
			reasons = append(reasons, ReasonKeyword)
			score++
			break
		}
	}

	if s.hasStructure(trimmed, lowered) {
		reasons = append(reasons, ReasonStructure)
		score++
	}

	label := types.QualityBad
	if score >= 2 {
		label = types.QualityGood
	}
	if len(reasons) == 0 {
		reasons = append(reasons, ReasonInsufficientDetail)
	}

	return Result{Label: label, Reasons: reasons}
}

func (s *Scorer) hasStructure(text, lowered string) bool {
	if bulletPattern.MatchString(text) {
		return true
	}
	for _, section := range s.sections {
		if strings.Contains(lowered, section) {
			return true
		}
	}
	return false
}

// Assess scores a message with the default Scorer
func Assess(text string) Result {
	return NewScorer().Assess(text)
}
