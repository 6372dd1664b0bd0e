package keywords

import (
	"regexp"
	"strings"
)

// Category is an immutable named set of keyword patterns. Matching is
// case-insensitive and whole-word: a pattern hits only when bounded by
// non-word characters or string edges on both sides. No stemming.
type Category struct {
	name     string
	patterns []*regexp.Regexp
}

// NewCategory compiles a category from its keyword list.
func NewCategory(name string, terms []string) *Category {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(term))+`\b`))
	}
	return &Category{name: name, patterns: patterns}
}

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// Matches reports whether any keyword in the category occurs in text as a
// whole word. Empty text never matches.
func (c *Category) Matches(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range c.patterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// Default keyword lists for the cognitive-peptide study. Overridable via the
// study config file.
var (
	DefaultSubjectTerms = []string{
		"peptide", "peptides", "noopept", "modafinil", "semaglutide", "tirzepatide",
		"bpc-157", "tb-500", "cjc-1295", "ipamorelin", "dsip", "epitalon",
		"ghrp", "melanotan", "sarms", "cortexin", "dihexa", "cerebrolysin", "selank",
		"bpc", "thymosin", "nmn", "nr", "creatine", "choline", "alpha-gpc",
		"agmatine", "pramiracetam", "aniracetam", "follistatin",
		"gaba", "dopamine", "serotonin", "acetylcholine", "mk-677", "ghk-cu",
	}

	DefaultDomainTerms = []string{
		"cognitive", "brain fog", "focus", "concentration", "memory", "mental clarity",
		"thinking", "mental energy", "alertness", "cognition", "neuroplasticity",
		"learning", "attention", "mental performance", "mind", "mentally",
		"sharpness", "clarity", "brain power", "mental slump", "slow thinking",
		"recall", "retention", "executive function", "neuro", "brain", "acuity",
		"mental alertness",
	}

	DefaultExperienceTerms = []string{
		"feel", "feeling", "felt", "experience", "experienced", "noticed", "my thoughts",
		"how do you feel", "did anyone else", "impacts me", "effects on me", "my symptoms",
		"i'm wondering", "i think", "i believe", "my take", "my experience", "personal account",
		"improved", "worsened", "helped", "hurt", "effect", "struggle", "benefit", "side effect",
		"drained", "exhausted", "tired", "fatigue", "burnt out", "my mood", "anxiety", "stress",
		"depression", "irritable", "sleepy", "awake", "energy", "energetic", "lethargic",
		"opinion", "feedback", "thoughts", "my state", "well-being", "mood swings",
		"exhaustion", "weariness", "listless", "sluggish", "depressed", "stressed", "anxious",
		"frustrated", "overwhelmed", "boosted", "uplifted", "calm", "relaxed",
	}
)
