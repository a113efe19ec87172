package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/user/storefront-go/apperror"
	"github.com/user/storefront-go/sentiment"
)

// ProductChecker is the collaborator used to verify that the target product
// exists before a review is accepted.
type ProductChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// UserChecker is the collaborator used to verify that the acting principal
// still resolves to a stored account.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service implements review business logic: creation with best-effort
// sentiment enrichment and owner-only mutation.
type Service struct {
	repo     Repository
	products ProductChecker
	users    UserChecker
	enricher *sentiment.Enricher
}

// NewService creates a reviews Service.
func NewService(repo Repository, products ProductChecker, users UserChecker, enricher *sentiment.Enricher) *Service {
	return &Service{repo: repo, products: products, users: users, enricher: enricher}
}

// Create stores a new review authored by the given user. The product and the
// user must exist. Classification runs inline before the write but its
// failure never blocks it: the review persists without a label.
func (s *Service) Create(ctx context.Context, productID, userID int64, req NewReviewRequest) (*Review, error) {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID), nil)
	}

	known, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}

	review := &Review{
		ProductID: productID,
		UserID:    userID,
		Text:      req.Text,
		Sentiment: s.enricher.Classify(ctx, req.Text),
		CreatedAt: time.Now(),
	}

	created, err := s.repo.Create(ctx, review)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create review", err)
	}
	return created, nil
}

// GetByID fetches a review.
func (s *Service) GetByID(ctx context.Context, id int64) (*Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("review with id %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get review", err)
	}
	return review, nil
}

// GetAllByProduct lists a product's reviews. The product must exist.
func (s *Service) GetAllByProduct(ctx context.Context, productID int64) ([]Review, error) {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID), nil)
	}

	result, err := s.repo.FindAllByProduct(ctx, productID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list reviews", err)
	}
	return result, nil
}

// Update modifies a review on behalf of principalID. Existence is checked
// before ownership, so an authenticated caller learns that the review exists
// even when they may not touch it. A text change triggers reclassification;
// when that fails the previous label is retained rather than erased. An
// explicit sentiment value is honored only when the text is unchanged.
func (s *Service) Update(ctx context.Context, id, principalID int64, req UpdateReviewRequest) (*Review, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(existing.UserID, principalID, "edit"); err != nil {
		return nil, err
	}

	switch {
	case req.Text != nil:
		existing.Text = *req.Text
		if label := s.enricher.Classify(ctx, existing.Text); label != nil {
			existing.Sentiment = label
		}
	case req.Sentiment != nil:
		label, ok := sentiment.ParseLabel(*req.Sentiment)
		if !ok {
			return nil, apperror.NewValidationError(fmt.Sprintf("unknown sentiment label %q", *req.Sentiment), nil)
		}
		existing.Sentiment = &label
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update review", err)
	}
	return updated, nil
}

// Delete removes a review on behalf of principalID, subject to the same
// existence-then-ownership rule as Update.
func (s *Service) Delete(ctx context.Context, id, principalID int64) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := authorizeOwner(existing.UserID, principalID, "delete"); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete review", err)
	}
	if !deleted {
		return apperror.NewNotFoundError(fmt.Sprintf("review with id %d not found", id), nil)
	}
	return nil
}

// authorizeOwner is the ownership rule: allow iff the resource's recorded
// owner is the current principal. The deny carries a 403, distinct from both
// unauthenticated and not-found outcomes.
func authorizeOwner(ownerID, principalID int64, action string) error {
	if ownerID == principalID {
		return nil
	}
	return apperror.NewUnauthorizedError(fmt.Sprintf("you are not allowed to %s this review", action), nil)
}
