package domain

import (
	"time"
)

// Rating bounds for a review. Ratings are whole stars, inclusive.
const (
	RatingMin = 1
	RatingMax = 5
)

// Sort order constants for course review listings.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortHighest = "highest"
	SortLowest  = "lowest"
)

// Review represents a single user's star score and optional text for a course.
type Review struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	UserID   string `json:"user_id"`

	// UserName is the reviewer's display name captured at submission time.
	// It is deliberately not kept in sync with later profile changes.
	UserName string `json:"user_name"`

	Rating int    `json:"rating"`
	Body   string `json:"review,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ValidSortOrders returns the set of valid review sort orders.
func ValidSortOrders() []string {
	return []string{SortNewest, SortOldest, SortHighest, SortLowest}
}

// IsValidSortOrder checks whether the given sort order is valid.
// The empty string is valid and means the default order (newest first).
func IsValidSortOrder(order string) bool {
	if order == "" {
		return true
	}
	for _, o := range ValidSortOrders() {
		if o == order {
			return true
		}
	}
	return false
}

// IsValidRating checks whether the given rating is a whole star within bounds.
func IsValidRating(rating int) bool {
	return rating >= RatingMin && rating <= RatingMax
}
