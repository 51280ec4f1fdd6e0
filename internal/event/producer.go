package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/firaghost/E-Learning-sub000/internal/domain"
	pkgkafka "github.com/firaghost/E-Learning-sub000/pkg/kafka"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewCreated = "grownet.review.created"
	TopicReviewUpdated = "grownet.review.updated"
	TopicReviewDeleted = "grownet.review.deleted"
)

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from the reviews service.
const SourceReviewsService = "reviews-service"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewUpdatedData is the payload for a review.updated event.
type ReviewUpdatedData struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"course_id"`
	UserID    string     `json:"user_id"`
	Rating    int        `json:"rating"`
	Review    string     `json:"review,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ReviewDeletedData is the payload for a review.deleted event. CourseID is
// included so downstream projections know which course to refresh.
type ReviewDeletedData struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	UserID   string `json:"user_id"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the reviews service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:        review.ID,
		CourseID:  review.CourseID,
		UserID:    review.UserID,
		UserName:  review.UserName,
		Rating:    review.Rating,
		Review:    review.Body,
		CreatedAt: review.CreatedAt,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.ID, AggregateTypeReview, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.String("course_id", review.CourseID),
	)

	return nil
}

// PublishReviewUpdated publishes a review.updated event.
func (p *Producer) PublishReviewUpdated(ctx context.Context, review *domain.Review) error {
	data := ReviewUpdatedData{
		ID:        review.ID,
		CourseID:  review.CourseID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Review:    review.Body,
		UpdatedAt: review.UpdatedAt,
	}

	event, err := pkgkafka.NewEvent(TopicReviewUpdated, review.ID, AggregateTypeReview, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create review.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewUpdated, event); err != nil {
		return fmt.Errorf("publish review.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.updated event",
		slog.String("review_id", review.ID),
		slog.String("course_id", review.CourseID),
	)

	return nil
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, review *domain.Review) error {
	data := ReviewDeletedData{
		ID:       review.ID,
		CourseID: review.CourseID,
		UserID:   review.UserID,
	}

	event, err := pkgkafka.NewEvent(TopicReviewDeleted, review.ID, AggregateTypeReview, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create review.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewDeleted, event); err != nil {
		return fmt.Errorf("publish review.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.deleted event",
		slog.String("review_id", review.ID),
		slog.String("course_id", review.CourseID),
	)

	return nil
}
