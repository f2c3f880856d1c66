package flow

import (
	"sort"
	"time"
)

// Comment is one entry of the merged feedback/complaint display list. The
// IsComplaint tag is a client-side annotation added while merging; it carries
// no identity of its own and is never sent back to the server.
type Comment struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	AverageRating float64   `json:"average_rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
	IsComplaint   bool      `json:"is_complaint"`
}

// MergeComments concatenates the two server collections into one display list
// sorted by creation time, newest first. Either input may be nil; each side
// degrades independently.
func MergeComments(feedbacks []Comment, complaints []Comment) []Comment {
	merged := make([]Comment, 0, len(feedbacks)+len(complaints))
	for _, feedback := range feedbacks {
		feedback.IsComplaint = false
		merged = append(merged, feedback)
	}
	for _, complaint := range complaints {
		complaint.IsComplaint = true
		merged = append(merged, complaint)
	}
	sort.SliceStable(merged, func(leftIndex, rightIndex int) bool {
		return merged[leftIndex].CreatedAt.After(merged[rightIndex].CreatedAt)
	})
	return merged
}

// Dashboard is the precomputed summary the dashboard screens render. All
// fields are optional on the wire; MergeDashboardDefaults fills the gaps.
type Dashboard struct {
	TotalFeedbacks     int64            `json:"total_feedbacks"`
	AverageRating      float64          `json:"average_rating"`
	LatestFeedbackDate *time.Time       `json:"latest_feedback_date"`
	RatingDistribution map[string]int64 `json:"rating_distribution"`
	SatisfactionData   map[string]int64 `json:"satisfaction_data"`
	RecentComments     []Comment        `json:"recent_comments"`
}

// MergeDashboardDefaults overlays a possibly partial payload onto zero-valued
// defaults so rendering never hits a nil map or slice.
func MergeDashboardDefaults(partial Dashboard) Dashboard {
	merged := partial
	if merged.RatingDistribution == nil {
		merged.RatingDistribution = map[string]int64{}
	}
	if merged.SatisfactionData == nil {
		merged.SatisfactionData = map[string]int64{}
	}
	if merged.RecentComments == nil {
		merged.RecentComments = []Comment{}
	}
	return merged
}
