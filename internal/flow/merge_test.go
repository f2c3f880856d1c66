package flow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tablepulse/tablepulse/internal/flow"
)

func TestMergeCommentsSortsNewestFirstAcrossSources(testingT *testing.T) {
	baseTime := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	feedbacks := []flow.Comment{
		{ID: 1, Comment: "older feedback", CreatedAt: baseTime},
	}
	complaints := []flow.Comment{
		{ID: 2, Comment: "newer complaint", CreatedAt: baseTime.Add(time.Hour)},
	}

	merged := flow.MergeComments(feedbacks, complaints)
	require.Len(testingT, merged, 2)
	require.Equal(testingT, "newer complaint", merged[0].Comment)
	require.True(testingT, merged[0].IsComplaint)
	require.False(testingT, merged[1].IsComplaint)
}

func TestMergeCommentsToleratesNilSides(testingT *testing.T) {
	merged := flow.MergeComments(nil, []flow.Comment{{ID: 1, Comment: "only complaint"}})
	require.Len(testingT, merged, 1)
	require.True(testingT, merged[0].IsComplaint)

	require.Empty(testingT, flow.MergeComments(nil, nil))
}

func TestMergeCommentsOverridesIncomingTags(testingT *testing.T) {
	feedbacks := []flow.Comment{{ID: 1, IsComplaint: true}}
	merged := flow.MergeComments(feedbacks, nil)
	require.False(testingT, merged[0].IsComplaint)
}

func TestMergeDashboardDefaultsFillsNilCollections(testingT *testing.T) {
	merged := flow.MergeDashboardDefaults(flow.Dashboard{})
	require.NotNil(testingT, merged.RatingDistribution)
	require.NotNil(testingT, merged.SatisfactionData)
	require.NotNil(testingT, merged.RecentComments)
	require.Zero(testingT, merged.TotalFeedbacks)
	require.Nil(testingT, merged.LatestFeedbackDate)
}

func TestMergeDashboardDefaultsKeepsExistingValues(testingT *testing.T) {
	latest := time.Now()
	merged := flow.MergeDashboardDefaults(flow.Dashboard{
		TotalFeedbacks:     3,
		AverageRating:      4.2,
		LatestFeedbackDate: &latest,
		RatingDistribution: map[string]int64{"4 Yıldız": 3},
	})

	require.Equal(testingT, int64(3), merged.TotalFeedbacks)
	require.InDelta(testingT, 4.2, merged.AverageRating, 0.001)
	require.Equal(testingT, int64(3), merged.RatingDistribution["4 Yıldız"])
	require.NotNil(testingT, merged.SatisfactionData)
}
