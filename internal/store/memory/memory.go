package memory

import (
	"context"
	"sync"

	"github.com/firaghost/E-Learning-sub000/internal/domain"
	apperrors "github.com/firaghost/E-Learning-sub000/pkg/errors"
)

// ReviewStore is an in-memory review store backed by a mutex-guarded map.
// It is used in tests and for running the service without PostgreSQL.
type ReviewStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Review
	ordered []string // review IDs in insertion order
}

// NewReviewStore creates an empty in-memory review store.
func NewReviewStore() *ReviewStore {
	return &ReviewStore{
		byID: make(map[string]*domain.Review),
	}
}

// Insert adds a new review. The one-review-per-user-per-course check happens
// under the write lock, so concurrent inserts cannot both pass it.
func (s *ReviewStore) Insert(_ context.Context, review *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rv := range s.byID {
		if rv.CourseID == review.CourseID && rv.UserID == review.UserID {
			return apperrors.ErrDuplicateReview
		}
	}

	cp := *review
	s.byID[cp.ID] = &cp
	s.ordered = append(s.ordered, cp.ID)

	return nil
}

// GetByID retrieves a review by its unique identifier.
func (s *ReviewStore) GetByID(_ context.Context, id string) (*domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rv, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	cp := *rv
	return &cp, nil
}

// Update modifies an existing review's mutable fields.
func (s *ReviewStore) Update(_ context.Context, review *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[review.ID]
	if !ok {
		return apperrors.ErrNotFound
	}

	existing.Rating = review.Rating
	existing.Body = review.Body
	existing.UpdatedAt = review.UpdatedAt

	return nil
}

// Delete removes a review from the store by its identifier.
func (s *ReviewStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return apperrors.ErrNotFound
	}

	delete(s.byID, id)
	for i, rid := range s.ordered {
		if rid == id {
			s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)
			break
		}
	}

	return nil
}

// ListByCourse returns all reviews for a course in insertion order.
func (s *ReviewStore) ListByCourse(_ context.Context, courseID string) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := []domain.Review{}
	for _, id := range s.ordered {
		if rv := s.byID[id]; rv != nil && rv.CourseID == courseID {
			reviews = append(reviews, *rv)
		}
	}

	return reviews, nil
}

// FindByCourseAndUser retrieves the single review a user left on a course.
func (s *ReviewStore) FindByCourseAndUser(_ context.Context, courseID, userID string) (*domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.ordered {
		if rv := s.byID[id]; rv != nil && rv.CourseID == courseID && rv.UserID == userID {
			cp := *rv
			return &cp, nil
		}
	}

	return nil, apperrors.ErrNotFound
}

// CountByCourse returns the number of reviews for a course.
func (s *ReviewStore) CountByCourse(_ context.Context, courseID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, rv := range s.byID {
		if rv.CourseID == courseID {
			count++
		}
	}

	return count, nil
}
