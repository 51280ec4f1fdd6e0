package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/firaghost/E-Learning-sub000/internal/domain"
	"github.com/firaghost/E-Learning-sub000/internal/service"
	"github.com/firaghost/E-Learning-sub000/pkg/httputil"
	"github.com/firaghost/E-Learning-sub000/pkg/middleware"
	"github.com/firaghost/E-Learning-sub000/pkg/pagination"
	"github.com/firaghost/E-Learning-sub000/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SubmitReviewRequest is the JSON request body for submitting a review.
type SubmitReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"max=5000"`
}

// UpdateReviewRequest is the JSON request body for updating a review.
// Omitted fields are left unchanged.
type UpdateReviewRequest struct {
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Review *string `json:"review" validate:"omitempty,max=5000"`
}

// --- Handlers ---

// ListReviews handles GET /api/v1/courses/{courseId}/reviews
// @Summary List course reviews
// @Description Returns filtered, sorted, paginated reviews for a course with rating stats
// @Tags reviews
// @Produce json
// @Param courseId path string true "Course ID"
// @Param sort query string false "Sort order: newest, oldest, highest, lowest" default(newest)
// @Param rating query int false "Filter to an exact star value 1..5"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/courses/{courseId}/reviews [get]
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseId")
	if courseID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "course id is required"},
		})
		return
	}

	opts := service.ListOptions{
		Sort: r.URL.Query().Get("sort"),
	}

	if v := r.URL.Query().Get("rating"); v != "" {
		rating, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "rating filter must be an integer"},
			})
			return
		}
		opts.Rating = rating
	}
	page := pagination.FromRequest(r)
	opts.Page = page.Page
	opts.PerPage = page.PerPage

	result, err := h.service.ListCourseReviews(r.Context(), courseID, opts)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, struct {
		pagination.Result[domain.Review]
		Stats *domain.RatingStats `json:"stats"`
	}{
		Result: pagination.NewResult(result.Reviews, result.TotalCount,
			pagination.Params{Page: result.Page, PerPage: result.PerPage}),
		Stats: result.Stats,
	})
}

// GetRatingStats handles GET /api/v1/courses/{courseId}/rating-stats
// @Summary Get course rating statistics
// @Description Returns the average rating, total count and per-star distribution for a course
// @Tags reviews
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/courses/{courseId}/rating-stats [get]
func (h *ReviewHandler) GetRatingStats(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseId")
	if courseID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "course id is required"},
		})
		return
	}

	stats, err := h.service.CourseStats(r.Context(), courseID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// GetMyReview handles GET /api/v1/courses/{courseId}/my-review
// @Summary Get the caller's review of a course
// @Description Returns the review the authenticated user left on a course, 404 if none
// @Tags reviews
// @Produce json
// @Param courseId path string true "Course ID"
// @Param X-User-ID header string true "Authenticated user ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/courses/{courseId}/my-review [get]
func (h *ReviewHandler) GetMyReview(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseId")
	if courseID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "course id is required"},
		})
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-User-ID header is required"},
		})
		return
	}

	review, err := h.service.UserCourseReview(r.Context(), courseID, userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// SubmitReview handles POST /api/v1/courses/{courseId}/reviews
// @Summary Submit a course review
// @Description Submits a review for a course. One review per user per course.
// @Tags reviews
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param X-User-ID header string true "Authenticated user ID"
// @Param X-User-Name header string true "Authenticated user display name"
// @Param request body SubmitReviewRequest true "Review to submit"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/courses/{courseId}/reviews [post]
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseId")
	if courseID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "course id is required"},
		})
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-User-ID header is required"},
		})
		return
	}

	userName := middleware.UserNameFromContext(r.Context())
	if userName == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-User-Name header is required"},
		})
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.SubmitReviewInput{
		CourseID: courseID,
		UserID:   userID,
		UserName: userName,
		Rating:   req.Rating,
		Body:     req.Review,
	}

	review, err := h.service.SubmitReview(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// UpdateReview handles PUT /api/v1/reviews/{id}
// @Summary Update a review
// @Description Updates the caller's review. Only the author may update.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param X-User-ID header string true "Authenticated user ID"
// @Param request body UpdateReviewRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-User-ID header is required"},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.UpdateReviewInput{
		Rating: req.Rating,
		Body:   req.Review,
	}

	review, err := h.service.UpdateReview(r.Context(), reviewID, userID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// DeleteReview handles DELETE /api/v1/reviews/{id}
// @Summary Delete a review
// @Description Deletes the caller's review. Only the author may delete.
// @Tags reviews
// @Param id path string true "Review ID"
// @Param X-User-ID header string true "Authenticated user ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-User-ID header is required"},
		})
		return
	}

	if err := h.service.DeleteReview(r.Context(), reviewID, userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
