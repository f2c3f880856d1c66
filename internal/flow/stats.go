package flow

import (
	"fmt"
	"math"
)

// Percentage computes a rounded integer percent, guarding divide-by-zero:
// Percentage(0, 0) == 0, Percentage(1, 3) == 33.
func Percentage(value int64, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(value) / float64(total) * 100))
}

// AverageRating is the mean of the three category ratings.
func AverageRating(foodRating int, serviceRating int, atmosphereRating int) float64 {
	return float64(foodRating+serviceRating+atmosphereRating) / 3
}

// RoundRating rounds a rating to one decimal, the stored precision.
func RoundRating(rating float64) float64 {
	return math.Round(rating*10) / 10
}

// FormatRating renders a rating with one decimal for display: 14.0/3 → "4.7".
func FormatRating(rating float64) string {
	return fmt.Sprintf("%.1f", rating)
}

// StarClickStats is the per-restaurant star-click aggregate as served by the
// backend and consumed by the dashboard.
type StarClickStats struct {
	RestaurantID     uint              `json:"restaurant_id"`
	TotalClicks      int64             `json:"total_clicks"`
	StarDistribution map[int]int64     `json:"star_distribution"`
	Percentages      map[int]float64   `json:"percentages"`
}

// ReconcileStarClickStats normalizes a star-click payload for display. Missing
// stars are zero-filled. When every per-star count is zero while percentages
// and the click total are not, counts are reconstructed as
// round(percentage/100*total) — a workaround for an observed backend
// inconsistency, not a normal path.
func ReconcileStarClickStats(stats StarClickStats) StarClickStats {
	reconciled := StarClickStats{
		RestaurantID:     stats.RestaurantID,
		TotalClicks:      stats.TotalClicks,
		StarDistribution: make(map[int]int64, maximumStarValue),
		Percentages:      make(map[int]float64, maximumStarValue),
	}
	for star := minimumStarValue; star <= maximumStarValue; star++ {
		reconciled.StarDistribution[star] = stats.StarDistribution[star]
		reconciled.Percentages[star] = stats.Percentages[star]
	}

	if reconciled.TotalClicks > 0 && allCountsZero(reconciled.StarDistribution) && anyPercentagePositive(reconciled.Percentages) {
		for star := minimumStarValue; star <= maximumStarValue; star++ {
			reconciled.StarDistribution[star] = int64(math.Round(reconciled.Percentages[star] / 100 * float64(reconciled.TotalClicks)))
		}
	}

	return reconciled
}

func allCountsZero(distribution map[int]int64) bool {
	for _, count := range distribution {
		if count != 0 {
			return false
		}
	}
	return true
}

func anyPercentagePositive(percentages map[int]float64) bool {
	for _, percentage := range percentages {
		if percentage > 0 {
			return true
		}
	}
	return false
}
