package sentiment

import (
	"context"
	"log"
	"time"
)

// Enricher wraps a Classifier with the failure semantics the review write
// path needs: a bounded timeout, and every failure swallowed. The write
// proceeds without a label; it never aborts and it never waits longer than
// the configured timeout on the collaborator.
type Enricher struct {
	classifier Classifier
	timeout    time.Duration
}

// NewEnricher creates an Enricher. A nil classifier yields an enricher that
// classifies nothing, which is how the application runs with classification
// disabled.
func NewEnricher(classifier Classifier, timeout time.Duration) *Enricher {
	return &Enricher{classifier: classifier, timeout: timeout}
}

// Classify returns the label for text, or nil when classification is
// disabled, fails, or exceeds the timeout. It never returns an error; the
// caller persists whatever comes back.
func (e *Enricher) Classify(ctx context.Context, text string) *Label {
	if e.classifier == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	label, err := e.classifier.Detect(ctx, text)
	if err != nil {
		log.Printf("sentiment classification failed, continuing without label: %v", err)
		return nil
	}
	return &label
}
