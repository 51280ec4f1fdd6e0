package domain

import (
	"math"
	"sort"
)

// RatingStats contains aggregate rating statistics for one course.
// It is derived from the current review set on every request and is
// never persisted or cached.
type RatingStats struct {
	CourseID      string  `json:"course_id"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`

	// RatingDistribution maps each star value 1..5 to the number of
	// reviews with exactly that rating. All five keys are always present.
	RatingDistribution map[int]int `json:"rating_distribution"`
}

// AggregateRatings computes RatingStats from the given reviews of a course.
// An empty review set yields zero values with a fully populated distribution.
func AggregateRatings(courseID string, reviews []Review) RatingStats {
	stats := RatingStats{
		CourseID:           courseID,
		RatingDistribution: make(map[int]int, RatingMax),
	}
	for star := RatingMin; star <= RatingMax; star++ {
		stats.RatingDistribution[star] = 0
	}

	if len(reviews) == 0 {
		return stats
	}

	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
		stats.RatingDistribution[rv.Rating]++
	}

	stats.TotalRatings = len(reviews)
	avg := float64(sum) / float64(len(reviews))
	stats.AverageRating = math.Round(avg*10) / 10

	return stats
}

// FilterByRating returns the reviews with exactly the given star value.
// A rating of 0 means no filter and returns the input unchanged.
func FilterByRating(reviews []Review, rating int) []Review {
	if rating == 0 {
		return reviews
	}

	filtered := make([]Review, 0, len(reviews))
	for _, rv := range reviews {
		if rv.Rating == rating {
			filtered = append(filtered, rv)
		}
	}
	return filtered
}

// SortReviews orders reviews in place according to the given sort order.
// Ties keep the input order, so for a fixed input list the result is
// deterministic regardless of the chosen order.
func SortReviews(reviews []Review, order string) {
	switch order {
	case SortOldest:
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
		})
	case SortHighest:
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].Rating > reviews[j].Rating
		})
	case SortLowest:
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].Rating < reviews[j].Rating
		})
	default: // SortNewest
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		})
	}
}
