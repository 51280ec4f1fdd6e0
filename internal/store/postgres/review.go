package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/firaghost/E-Learning-sub000/internal/domain"
	"github.com/firaghost/E-Learning-sub000/pkg/database"
	apperrors "github.com/firaghost/E-Learning-sub000/pkg/errors"
)

// reviewColumns is the standard SELECT column list for course reviews.
const reviewColumns = `id, course_id, user_id, user_name, rating, body, created_at, updated_at`

// ReviewStore implements review persistence operations using PostgreSQL.
// The course_reviews table carries UNIQUE (course_id, user_id), so two
// concurrent inserts for the same pair cannot both succeed even if both
// passed an application-level duplicate check.
type ReviewStore struct {
	pool database.DBTX
}

// NewReviewStore creates a new PostgreSQL-backed review store.
func NewReviewStore(pool database.DBTX) *ReviewStore {
	return &ReviewStore{pool: pool}
}

// Insert adds a new review to the database.
func (s *ReviewStore) Insert(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO course_reviews (id, course_id, user_id, user_name, rating, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	ctx, end := database.TraceQuery(ctx, "InsertReview", query)
	_, err := s.pool.Exec(ctx, query,
		review.ID,
		review.CourseID,
		review.UserID,
		review.UserName,
		review.Rating,
		review.Body,
		review.CreatedAt,
		review.UpdatedAt,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its unique identifier.
func (s *ReviewStore) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_reviews WHERE id = $1`, reviewColumns)
	return s.scanReview(ctx, "GetReviewByID", query, id)
}

// Update modifies an existing review's rating, body and updated_at.
func (s *ReviewStore) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE course_reviews
		SET rating = $1, body = $2, updated_at = $3
		WHERE id = $4`

	ctx, end := database.TraceQuery(ctx, "UpdateReview", query)
	ct, err := s.pool.Exec(ctx, query,
		review.Rating,
		review.Body,
		review.UpdatedAt,
		review.ID,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a review from the database by its ID.
func (s *ReviewStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM course_reviews WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteReview", query)
	ct, err := s.pool.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ListByCourse returns all reviews for a course in insertion order.
// Sorting and filtering happen above the store so every backend lists the
// same way; created_at plus id keeps the order deterministic when several
// reviews share a timestamp.
func (s *ReviewStore) ListByCourse(ctx context.Context, courseID string) (_ []domain.Review, err error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM course_reviews
		WHERE course_id = $1
		ORDER BY created_at, id`, reviewColumns)

	ctx, end := database.TraceQuery(ctx, "ListReviewsByCourse", query)
	defer func() { end(err) }()

	rows, err := s.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}

	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.CourseID,
			&rv.UserID,
			&rv.UserName,
			&rv.Rating,
			&rv.Body,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

// FindByCourseAndUser retrieves the single review a user left on a course.
func (s *ReviewStore) FindByCourseAndUser(ctx context.Context, courseID, userID string) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_reviews WHERE course_id = $1 AND user_id = $2`, reviewColumns)
	return s.scanReview(ctx, "FindReviewByCourseAndUser", query, courseID, userID)
}

// CountByCourse returns the number of reviews for a course.
func (s *ReviewStore) CountByCourse(ctx context.Context, courseID string) (int, error) {
	query := `SELECT COUNT(*) FROM course_reviews WHERE course_id = $1`

	var count int

	ctx, end := database.TraceQuery(ctx, "CountReviewsByCourse", query)
	err := s.pool.QueryRow(ctx, query, courseID).Scan(&count)
	end(err)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}

	return count, nil
}

// scanReview executes a query expected to return a single review row.
func (s *ReviewStore) scanReview(ctx context.Context, operation, query string, args ...any) (*domain.Review, error) {
	var rv domain.Review

	ctx, end := database.TraceQuery(ctx, operation, query)
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&rv.ID,
		&rv.CourseID,
		&rv.UserID,
		&rv.UserName,
		&rv.Rating,
		&rv.Body,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &rv, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
