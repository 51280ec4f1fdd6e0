package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/firaghost/E-Learning-sub000/internal/domain"
	"github.com/firaghost/E-Learning-sub000/internal/event"
	"github.com/firaghost/E-Learning-sub000/internal/store"
	apperrors "github.com/firaghost/E-Learning-sub000/pkg/errors"
)

// SubmitReviewInput holds the parameters for submitting a new review.
type SubmitReviewInput struct {
	CourseID string
	UserID   string
	UserName string
	Rating   int
	Body     string
}

// UpdateReviewInput holds the parameters for updating an existing review.
// Nil fields are left unchanged.
type UpdateReviewInput struct {
	Rating *int
	Body   *string
}

// ListOptions controls filtering, ordering and pagination of a course's
// review listing.
type ListOptions struct {
	Sort    string
	Rating  int // 0 means no filter
	Page    int
	PerPage int
}

// ReviewListResult contains a page of reviews plus the course's aggregate
// rating statistics. The stats always describe the whole course, not just
// the filtered page.
type ReviewListResult struct {
	Reviews    []domain.Review     `json:"reviews"`
	Stats      *domain.RatingStats `json:"stats"`
	TotalCount int                 `json:"total_count"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int                 `json:"total_pages"`
}

// ReviewService implements the business logic for review lifecycle and
// rating aggregation.
type ReviewService struct {
	store    store.ReviewStore
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(store store.ReviewStore, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:    store,
		producer: producer,
		logger:   logger,
	}
}

// SubmitReview creates a new review for a course. A user may hold at most
// one review per course: a second submission is rejected with a conflict
// that points the caller at the update path. The store's unique constraint
// backs up the lookup here, so two concurrent submissions cannot both land.
func (s *ReviewService) SubmitReview(ctx context.Context, input *SubmitReviewInput) (*domain.Review, error) {
	if input.CourseID == "" {
		return nil, apperrors.InvalidInput("course_id is required")
	}
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	if strings.TrimSpace(input.UserName) == "" {
		return nil, apperrors.InvalidInput("user_name is required")
	}
	if !domain.IsValidRating(input.Rating) {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	if _, err := s.store.FindByCourseAndUser(ctx, input.CourseID, input.UserID); err == nil {
		return nil, apperrors.DuplicateReview(input.CourseID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check existing review: %w", err)
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		CourseID:  input.CourseID,
		UserID:    input.UserID,
		UserName:  input.UserName,
		Rating:    input.Rating,
		Body:      input.Body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, review); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateReview) {
			// Lost the race against a concurrent submission by the same user.
			return nil, apperrors.DuplicateReview(input.CourseID)
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("review_id", review.ID),
		slog.String("course_id", review.CourseID),
		slog.String("user_id", review.UserID),
		slog.Int("rating", review.Rating),
	)

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	return review, nil
}

// UpdateReview modifies a review's rating and/or text. Only the author may
// update their review. created_at never changes; updated_at is set on every
// successful update.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, callerUserID string, input *UpdateReviewInput) (*domain.Review, error) {
	if callerUserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	if input.Rating == nil && input.Body == nil {
		return nil, apperrors.InvalidInput("at least one of rating or review must be provided")
	}
	if input.Rating != nil && !domain.IsValidRating(*input.Rating) {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	review, err := s.store.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("review", reviewID)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	if review.UserID != callerUserID {
		return nil, apperrors.Forbidden("you can only update your own review")
	}

	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Body != nil {
		review.Body = *input.Body
	}
	now := time.Now().UTC()
	review.UpdatedAt = &now

	if err := s.store.Update(ctx, review); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("review", reviewID)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", review.ID),
		slog.String("course_id", review.CourseID),
		slog.Int("rating", review.Rating),
	)

	if err := s.producer.PublishReviewUpdated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.updated event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	return review, nil
}

// DeleteReview removes a review. Only the author may delete their review.
// Once deleted the review no longer contributes to the course's stats and
// the author is free to submit a fresh one.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, callerUserID string) error {
	if callerUserID == "" {
		return apperrors.InvalidInput("user_id is required")
	}

	review, err := s.store.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("review", reviewID)
		}
		return fmt.Errorf("get review: %w", err)
	}

	if review.UserID != callerUserID {
		return apperrors.Forbidden("you can only delete your own review")
	}

	if err := s.store.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("review", reviewID)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", reviewID),
		slog.String("course_id", review.CourseID),
		slog.String("user_id", callerUserID),
	)

	if err := s.producer.PublishReviewDeleted(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// ListCourseReviews returns a filtered, sorted, paginated page of a course's
// reviews plus the course-wide rating stats. An unknown course is not an
// error: it yields an empty page and zero stats.
func (s *ReviewService) ListCourseReviews(ctx context.Context, courseID string, opts ListOptions) (*ReviewListResult, error) {
	if courseID == "" {
		return nil, apperrors.InvalidInput("course_id is required")
	}
	if !domain.IsValidSortOrder(opts.Sort) {
		return nil, apperrors.InvalidInput("sort must be one of: " + strings.Join(domain.ValidSortOrders(), ", "))
	}
	if opts.Rating != 0 && !domain.IsValidRating(opts.Rating) {
		return nil, apperrors.InvalidInput("rating filter must be between 1 and 5")
	}

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	all, err := s.store.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	// Stats always cover the whole course, computed fresh from the full list.
	stats := domain.AggregateRatings(courseID, all)

	filtered := domain.FilterByRating(all, opts.Rating)
	domain.SortReviews(filtered, opts.Sort)

	total := len(filtered)
	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return &ReviewListResult{
		Reviews:    filtered[start:end],
		Stats:      &stats,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// CourseStats recomputes a course's rating statistics from its current
// reviews. Results are never cached: every call reflects the store as-is.
func (s *ReviewService) CourseStats(ctx context.Context, courseID string) (*domain.RatingStats, error) {
	if courseID == "" {
		return nil, apperrors.InvalidInput("course_id is required")
	}

	reviews, err := s.store.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for stats: %w", err)
	}

	stats := domain.AggregateRatings(courseID, reviews)
	return &stats, nil
}

// UserCourseReview returns the review a user left on a course, or NotFound
// if they have not reviewed it. The UI uses this to decide between "write a
// review" and "edit your review".
func (s *ReviewService) UserCourseReview(ctx context.Context, courseID, userID string) (*domain.Review, error) {
	if courseID == "" {
		return nil, apperrors.InvalidInput("course_id is required")
	}
	if userID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}

	review, err := s.store.FindByCourseAndUser(ctx, courseID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("review for course", courseID)
		}
		return nil, fmt.Errorf("find review: %w", err)
	}

	return review, nil
}
