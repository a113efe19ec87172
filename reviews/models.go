// Package reviews implements product reviews: creation, reads, and the
// owner-only mutation rules. A review's author is fixed at creation and can
// never be transferred; its sentiment label is computed best-effort by the
// sentiment enricher.
package reviews

import (
	"time"

	"github.com/user/storefront-go/sentiment"
)

// Review is a user's review of a product. UserID is set once at creation and
// immutable afterwards. Sentiment is nil while the review is unclassified.
type Review struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"product_id"`
	UserID    int64            `json:"user_id"`
	Text      string           `json:"text"`
	Sentiment *sentiment.Label `json:"sentiment,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewReviewRequest is the payload for creating a review.
type NewReviewRequest struct {
	Text string `json:"text" validate:"required"`
}

// UpdateReviewRequest is the payload for updating a review. Text, when
// provided, replaces the review text and triggers reclassification.
// Sentiment, when provided without a text change, explicitly overrides the
// stored label.
type UpdateReviewRequest struct {
	Text      *string `json:"text,omitempty"`
	Sentiment *string `json:"sentiment,omitempty"`
}
