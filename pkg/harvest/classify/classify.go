package classify

import "context"

// Outcome is the tagged result of classifying one item. Unavailable marks
// the degrade-not-crash path: the classifier could not be reached, the item
// keeps flowing through the pipeline with zero confidence instead of killing
// the run.
type Outcome struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

// Unavailable returns the outcome used when classification cannot be
// performed for an item.
func Unavailable() Outcome {
	return Outcome{Unavailable: true}
}

// Classifier scores a text against a closed set of candidate labels and
// returns the best label with its confidence in [0,1].
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (Outcome, error)
}

// DefaultLabels is the closed label set of the fatigue study.
var DefaultLabels = []string{
	"cognitive fatigue related to peptides",
	"physical fatigue related to peptides",
	"emotional fatigue related to peptides",
	"general peptide discussion, no fatigue mentioned",
	"fatigue mentioned, but not related to peptides",
	"irrelevant or other topic",
}
