// Package sentiment wraps the external text-classification collaborator used
// to label reviews. The collaborator is best-effort by design: review writes
// must never fail or stall because classification did.
package sentiment

import (
	"context"
	"strings"
)

// Label is a sentiment classification result. The set is fixed; anything else
// coming back from a collaborator is treated as a classification failure.
type Label string

const (
	// Positive indicates predominantly positive text.
	Positive Label = "positive"
	// Negative indicates predominantly negative text.
	Negative Label = "negative"
	// Neutral indicates text without a clear polarity.
	Neutral Label = "neutral"
	// Mixed indicates text with both positive and negative polarity.
	Mixed Label = "mixed"
)

// ParseLabel normalizes a string to a Label. The second return value is false
// for anything outside the fixed set.
func ParseLabel(s string) (Label, bool) {
	switch Label(strings.ToLower(s)) {
	case Positive:
		return Positive, true
	case Negative:
		return Negative, true
	case Neutral:
		return Neutral, true
	case Mixed:
		return Mixed, true
	default:
		return "", false
	}
}

// Classifier is the external text-classification collaborator: raw text in,
// one label of the fixed set out, or an error. Implementations must honor
// context cancellation so the enricher's timeout can abort a slow call.
type Classifier interface {
	Detect(ctx context.Context, text string) (Label, error)
}
