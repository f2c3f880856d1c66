package httpapi

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/flow"
	"github.com/tablepulse/tablepulse/internal/model"
)

const (
	satisfactionKeySatisfied    = "Memnun (4-5)"
	satisfactionKeyNeutral      = "Orta (3)"
	satisfactionKeyDissatisfied = "Memnun Değil (1-2)"

	ratingDistributionKeyPattern = "%d Yıldız"

	recentCommentsLimit = 5
)

// buildDashboard computes the combined feedback+complaint summary for a
// restaurant: totals, weighted average, latest date, rounded-average
// distribution, satisfaction buckets and the five most recent comments.
func buildDashboard(database *gorm.DB, restaurantID uint) (flow.Dashboard, error) {
	var feedbacks []model.Feedback
	if queryErr := database.Where("restaurant_id = ?", restaurantID).Find(&feedbacks).Error; queryErr != nil {
		return flow.Dashboard{}, queryErr
	}
	var complaints []model.Complaint
	if queryErr := database.Where("restaurant_id = ?", restaurantID).Find(&complaints).Error; queryErr != nil {
		return flow.Dashboard{}, queryErr
	}

	dashboard := flow.MergeDashboardDefaults(flow.Dashboard{})
	for star := 1; star <= 5; star++ {
		dashboard.RatingDistribution[fmt.Sprintf(ratingDistributionKeyPattern, star)] = 0
	}
	dashboard.SatisfactionData[satisfactionKeySatisfied] = 0
	dashboard.SatisfactionData[satisfactionKeyNeutral] = 0
	dashboard.SatisfactionData[satisfactionKeyDissatisfied] = 0

	var ratingSum float64
	var latestDate *time.Time

	accumulate := func(averageRating float64, createdAt time.Time) {
		dashboard.TotalFeedbacks++
		ratingSum += averageRating

		roundedStar := int(math.Round(averageRating))
		if roundedStar >= 1 && roundedStar <= 5 {
			dashboard.RatingDistribution[fmt.Sprintf(ratingDistributionKeyPattern, roundedStar)]++
		}

		switch {
		case averageRating >= 4:
			dashboard.SatisfactionData[satisfactionKeySatisfied]++
		case averageRating >= 3:
			dashboard.SatisfactionData[satisfactionKeyNeutral]++
		default:
			dashboard.SatisfactionData[satisfactionKeyDissatisfied]++
		}

		if latestDate == nil || createdAt.After(*latestDate) {
			createdCopy := createdAt
			latestDate = &createdCopy
		}
	}

	feedbackComments := make([]flow.Comment, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		accumulate(feedback.AverageRating, feedback.CreatedAt)
		feedbackComments = append(feedbackComments, flow.Comment{
			ID:            feedback.ID,
			Name:          feedback.Name,
			Email:         feedback.Email,
			AverageRating: feedback.AverageRating,
			Comment:       feedback.Comment,
			CreatedAt:     feedback.CreatedAt,
		})
	}
	complaintComments := make([]flow.Comment, 0, len(complaints))
	for _, complaint := range complaints {
		accumulate(complaint.AverageRating, complaint.CreatedAt)
		complaintComments = append(complaintComments, flow.Comment{
			ID:            complaint.ID,
			Name:          complaint.Name,
			Email:         complaint.Email,
			AverageRating: complaint.AverageRating,
			Comment:       complaint.Comment,
			CreatedAt:     complaint.CreatedAt,
		})
	}

	if dashboard.TotalFeedbacks > 0 {
		dashboard.AverageRating = flow.RoundRating(ratingSum / float64(dashboard.TotalFeedbacks))
	}
	dashboard.LatestFeedbackDate = latestDate

	mergedComments := flow.MergeComments(feedbackComments, complaintComments)
	if len(mergedComments) > recentCommentsLimit {
		mergedComments = mergedComments[:recentCommentsLimit]
	}
	dashboard.RecentComments = mergedComments

	return dashboard, nil
}

// refreshStarClickStats recounts StarClick rows per star value, updates the
// counter table to match, and returns the aggregate. Percentages are rounded
// to one decimal and zero when there are no clicks.
func refreshStarClickStats(database *gorm.DB, restaurantID uint) (flow.StarClickStats, error) {
	stats := flow.StarClickStats{
		RestaurantID:     restaurantID,
		StarDistribution: make(map[int]int64, 5),
		Percentages:      make(map[int]float64, 5),
	}

	for star := 1; star <= 5; star++ {
		var clickCount int64
		if countErr := database.Model(&model.StarClick{}).
			Where("restaurant_id = ? AND star_value = ?", restaurantID, star).
			Count(&clickCount).Error; countErr != nil {
			return flow.StarClickStats{}, countErr
		}
		stats.StarDistribution[star] = clickCount
		stats.TotalClicks += clickCount

		if refreshErr := upsertStarClickStat(database, restaurantID, star, clickCount); refreshErr != nil {
			return flow.StarClickStats{}, refreshErr
		}
	}

	for star := 1; star <= 5; star++ {
		if stats.TotalClicks > 0 {
			rawPercentage := float64(stats.StarDistribution[star]) / float64(stats.TotalClicks) * 100
			stats.Percentages[star] = flow.RoundRating(rawPercentage)
		} else {
			stats.Percentages[star] = 0
		}
	}

	return stats, nil
}

func upsertStarClickStat(database *gorm.DB, restaurantID uint, starValue int, clickCount int64) error {
	var counter model.StarClickStat
	lookupErr := database.Where("restaurant_id = ? AND star_value = ?", restaurantID, starValue).First(&counter).Error
	if lookupErr == gorm.ErrRecordNotFound {
		counter = model.StarClickStat{RestaurantID: restaurantID, StarValue: starValue, Count: clickCount}
		return database.Create(&counter).Error
	}
	if lookupErr != nil {
		return lookupErr
	}
	counter.Count = clickCount
	return database.Save(&counter).Error
}
