package reviews

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/user/storefront-go/apperror"
	"github.com/user/storefront-go/sentiment"
)

// stubRepo holds reviews in a map.
type stubRepo struct {
	reviews map[int64]*Review
	nextID  int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{reviews: make(map[int64]*Review), nextID: 1}
}

func (s *stubRepo) Create(_ context.Context, review *Review) (*Review, error) {
	stored := *review
	stored.ID = s.nextID
	s.nextID++
	s.reviews[stored.ID] = &stored
	return &stored, nil
}

func (s *stubRepo) FindByID(_ context.Context, id int64) (*Review, error) {
	if review, ok := s.reviews[id]; ok {
		copied := *review
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubRepo) FindAllByProduct(_ context.Context, productID int64) ([]Review, error) {
	var result []Review
	for _, review := range s.reviews {
		if review.ProductID == productID {
			result = append(result, *review)
		}
	}
	return result, nil
}

func (s *stubRepo) Update(_ context.Context, review *Review) (*Review, error) {
	if _, ok := s.reviews[review.ID]; !ok {
		return nil, pgx.ErrNoRows
	}
	stored := *review
	s.reviews[review.ID] = &stored
	return &stored, nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := s.reviews[id]; !ok {
		return false, nil
	}
	delete(s.reviews, id)
	return true, nil
}

// stubChecker reports fixed existence for a set of ids.
type stubChecker struct {
	known map[int64]bool
}

func (s *stubChecker) Exists(_ context.Context, id int64) (bool, error) {
	return s.known[id], nil
}

// fixedClassifier always returns one label; failingClassifier always errors.
type fixedClassifier struct{ label sentiment.Label }

func (f fixedClassifier) Detect(_ context.Context, _ string) (sentiment.Label, error) {
	return f.label, nil
}

type failingClassifier struct{}

func (failingClassifier) Detect(_ context.Context, _ string) (sentiment.Label, error) {
	return "", errors.New("classification backend down")
}

const (
	knownProductID = int64(10)
	ownerID        = int64(1)
	otherUserID    = int64(2)
)

func newTestService(repo Repository, classifier sentiment.Classifier) *Service {
	products := &stubChecker{known: map[int64]bool{knownProductID: true}}
	users := &stubChecker{known: map[int64]bool{ownerID: true, otherUserID: true}}
	return NewService(repo, products, users, sentiment.NewEnricher(classifier, time.Second))
}

func seedReview(t *testing.T, svc *Service) *Review {
	t.Helper()
	review, err := svc.Create(context.Background(), knownProductID, ownerID, NewReviewRequest{Text: "works great"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return review
}

func TestCreateClassifiesAndStores(t *testing.T) {
	svc := newTestService(newStubRepo(), fixedClassifier{label: sentiment.Positive})

	review := seedReview(t, svc)

	if review.ProductID != knownProductID || review.UserID != ownerID {
		t.Errorf("review = %+v, wrong product or user", review)
	}
	if review.Sentiment == nil || *review.Sentiment != sentiment.Positive {
		t.Errorf("Sentiment = %v, want positive", review.Sentiment)
	}
}

func TestCreateSurvivesClassifierFailure(t *testing.T) {
	svc := newTestService(newStubRepo(), failingClassifier{})

	review, err := svc.Create(context.Background(), knownProductID, ownerID, NewReviewRequest{Text: "meh"})
	if err != nil {
		t.Fatalf("Create with failing classifier returned error: %v", err)
	}
	if review.Sentiment != nil {
		t.Errorf("Sentiment = %v, want nil when classification fails", review.Sentiment)
	}
}

func TestCreateUnknownProduct(t *testing.T) {
	svc := newTestService(newStubRepo(), fixedClassifier{label: sentiment.Positive})

	_, err := svc.Create(context.Background(), 999, ownerID, NewReviewRequest{Text: "text"})
	if !apperror.IsNotFound(err) {
		t.Fatalf("Create for unknown product = %v, want not found", err)
	}
}

func TestCreateUnknownUser(t *testing.T) {
	svc := newTestService(newStubRepo(), fixedClassifier{label: sentiment.Positive})

	_, err := svc.Create(context.Background(), knownProductID, 999, NewReviewRequest{Text: "text"})
	if !apperror.IsNotFound(err) {
		t.Fatalf("Create for unknown user = %v, want not found", err)
	}
}

func TestUpdateTextTriggersReclassification(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, fixedClassifier{label: sentiment.Positive})
	review := seedReview(t, svc)

	// Swap in a classifier that now sees the text as negative.
	svc.enricher = sentiment.NewEnricher(fixedClassifier{label: sentiment.Negative}, time.Second)

	newText := "actually it broke after a week"
	updated, err := svc.Update(context.Background(), review.ID, ownerID, UpdateReviewRequest{Text: &newText})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Text != newText {
		t.Errorf("Text = %q, want %q", updated.Text, newText)
	}
	if updated.Sentiment == nil || *updated.Sentiment != sentiment.Negative {
		t.Errorf("Sentiment = %v, want negative after reclassification", updated.Sentiment)
	}
}

func TestUpdateRetainsStaleLabelWhenReclassificationFails(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, fixedClassifier{label: sentiment.Positive})
	review := seedReview(t, svc)

	svc.enricher = sentiment.NewEnricher(failingClassifier{}, time.Second)

	newText := "changed my mind entirely"
	updated, err := svc.Update(context.Background(), review.ID, ownerID, UpdateReviewRequest{Text: &newText})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Sentiment == nil || *updated.Sentiment != sentiment.Positive {
		t.Errorf("Sentiment = %v, want the previous label retained", updated.Sentiment)
	}
}

func TestUpdateSentimentOverride(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, fixedClassifier{label: sentiment.Positive})
	review := seedReview(t, svc)

	override := "mixed"
	updated, err := svc.Update(context.Background(), review.ID, ownerID, UpdateReviewRequest{Sentiment: &override})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Sentiment == nil || *updated.Sentiment != sentiment.Mixed {
		t.Errorf("Sentiment = %v, want mixed", updated.Sentiment)
	}
}

func TestUpdateRejectsUnknownSentiment(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, fixedClassifier{label: sentiment.Positive})
	review := seedReview(t, svc)

	override := "ecstatic"
	_, err := svc.Update(context.Background(), review.ID, ownerID, UpdateReviewRequest{Sentiment: &override})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperror.ValidationError {
		t.Fatalf("Update with unknown label = %v, want validation error", err)
	}
}

func TestUpdateByNonOwnerIsForbidden(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, fixedClassifier{label: sentiment.Positive})
	review := seedReview(t, svc)

	newText := "hostile takeover"
	_, err := svc.Update(context.Background(), review.ID, otherUserID, UpdateReviewRequest{Text: &newText})
	if !apperror.IsUnauthorizedError(err) {
		t.Fatalf("Update by non-owner = %v, want forbidden", err)
	}

	// The stored review is untouched.
	stored, getErr := svc.GetByID(context.Background(), review.ID)
	if getErr != nil {
		t.Fatalf("GetByID failed: %v", getErr)
	}
	if stored.Text != review.Text {
		t.Errorf("Text = %q, review was modified by a non-owner", stored.Text)
	}
}

func TestDeleteByNonOwnerIsForbidden(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, fixedClassifier{label: sentiment.Positive})
	review := seedReview(t, svc)

	if err := svc.Delete(context.Background(), review.ID, otherUserID); !apperror.IsUnauthorizedError(err) {
		t.Fatalf("Delete by non-owner = %v, want forbidden", err)
	}
	if _, err := svc.GetByID(context.Background(), review.ID); err != nil {
		t.Fatalf("review was deleted by a non-owner: %v", err)
	}
}

func TestDeleteByOwner(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, fixedClassifier{label: sentiment.Positive})
	review := seedReview(t, svc)

	if err := svc.Delete(context.Background(), review.ID, ownerID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), review.ID); !apperror.IsNotFound(err) {
		t.Fatalf("GetByID after delete = %v, want not found", err)
	}
}

func TestMutateMissingReviewIsNotFoundNotForbidden(t *testing.T) {
	svc := newTestService(newStubRepo(), fixedClassifier{label: sentiment.Positive})

	newText := "text"
	_, err := svc.Update(context.Background(), 404, otherUserID, UpdateReviewRequest{Text: &newText})
	if !apperror.IsNotFound(err) {
		t.Fatalf("Update of missing review = %v, want not found", err)
	}
	if err := svc.Delete(context.Background(), 404, otherUserID); !apperror.IsNotFound(err) {
		t.Fatalf("Delete of missing review = %v, want not found", err)
	}
}

func TestGetAllByProductUnknownProduct(t *testing.T) {
	svc := newTestService(newStubRepo(), fixedClassifier{label: sentiment.Positive})

	if _, err := svc.GetAllByProduct(context.Background(), 999); !apperror.IsNotFound(err) {
		t.Fatalf("GetAllByProduct for unknown product = %v, want not found", err)
	}
}
