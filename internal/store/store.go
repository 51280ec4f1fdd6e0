package store

import (
	"context"

	"github.com/firaghost/E-Learning-sub000/internal/domain"
)

// ReviewStore defines the interface for review persistence operations.
// Implementations return apperrors.ErrNotFound for missing reviews and
// apperrors.ErrDuplicateReview when an insert would give a user a second
// review on the same course.
type ReviewStore interface {
	// Insert adds a new review to the store.
	Insert(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// Update modifies an existing review's rating, body and updated_at.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review from the store by its identifier.
	Delete(ctx context.Context, id string) error

	// ListByCourse returns all reviews for a course in insertion order.
	ListByCourse(ctx context.Context, courseID string) ([]domain.Review, error)

	// FindByCourseAndUser retrieves the single review a user left on a course.
	FindByCourseAndUser(ctx context.Context, courseID, userID string) (*domain.Review, error)

	// CountByCourse returns the number of reviews for a course.
	CountByCourse(ctx context.Context, courseID string) (int, error)
}
