package sentiment

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClassifier returns a fixed label or error, recording the last text seen.
type fakeClassifier struct {
	label    Label
	err      error
	lastText string
}

func (f *fakeClassifier) Detect(_ context.Context, text string) (Label, error) {
	f.lastText = text
	return f.label, f.err
}

// blockingClassifier waits for the context to be cancelled.
type blockingClassifier struct{}

func (blockingClassifier) Detect(ctx context.Context, _ string) (Label, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestClassifySuccess(t *testing.T) {
	classifier := &fakeClassifier{label: Positive}
	enricher := NewEnricher(classifier, time.Second)

	label := enricher.Classify(context.Background(), "great product")
	if label == nil || *label != Positive {
		t.Fatalf("Classify = %v, want positive", label)
	}
	if classifier.lastText != "great product" {
		t.Errorf("classifier saw %q", classifier.lastText)
	}
}

func TestClassifyFailureYieldsNil(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("service unavailable")}
	enricher := NewEnricher(classifier, time.Second)

	if label := enricher.Classify(context.Background(), "anything"); label != nil {
		t.Fatalf("Classify with failing classifier = %v, want nil", label)
	}
}

func TestClassifyNilClassifier(t *testing.T) {
	enricher := NewEnricher(nil, time.Second)
	if label := enricher.Classify(context.Background(), "anything"); label != nil {
		t.Fatalf("Classify with nil classifier = %v, want nil", label)
	}
}

func TestClassifyTimeoutBoundsSlowClassifier(t *testing.T) {
	enricher := NewEnricher(blockingClassifier{}, 50*time.Millisecond)

	start := time.Now()
	label := enricher.Classify(context.Background(), "anything")
	elapsed := time.Since(start)

	if label != nil {
		t.Fatalf("Classify with slow classifier = %v, want nil", label)
	}
	if elapsed > time.Second {
		t.Fatalf("Classify took %v, timeout not enforced", elapsed)
	}
}

func TestParseLabel(t *testing.T) {
	cases := []struct {
		in   string
		want Label
		ok   bool
	}{
		{"positive", Positive, true},
		{"POSITIVE", Positive, true},
		{"Negative", Negative, true},
		{"neutral", Neutral, true},
		{"mixed", Mixed, true},
		{"", "", false},
		{"happy", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseLabel(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseLabel(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
