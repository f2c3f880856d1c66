package flow_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tablepulse/tablepulse/internal/flow"
)

func TestRouteForRatingSendsLowRatingsToComplaintForm(testingT *testing.T) {
	for _, rating := range []int{1, 2, 3} {
		destination, routeErr := flow.RouteForRating(rating, 7, "Hasan Usta")
		require.NoError(testingT, routeErr)
		require.Equal(testingT, flow.ComplaintRoutePath, destination.Path)
	}
}

func TestRouteForRatingSendsHighRatingsToPlatforms(testingT *testing.T) {
	for _, rating := range []int{4, 5} {
		destination, routeErr := flow.RouteForRating(rating, 7, "Hasan Usta")
		require.NoError(testingT, routeErr)
		require.Equal(testingT, flow.PlatformRoutePath, destination.Path)
	}
}

func TestRouteForRatingRejectsOutOfRangeValues(testingT *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		_, routeErr := flow.RouteForRating(rating, 7, "Hasan Usta")
		require.ErrorIs(testingT, routeErr, flow.ErrRatingOutOfRange)
	}
}

func TestDestinationURLCarriesQueryContract(testingT *testing.T) {
	destination, routeErr := flow.RouteForRating(2, 7, "Hasan Usta Kebap")
	require.NoError(testingT, routeErr)

	parsedURL, parseErr := url.Parse(destination.URL())
	require.NoError(testingT, parseErr)
	require.Equal(testingT, flow.ComplaintRoutePath, parsedURL.Path)

	queryValues := parsedURL.Query()
	require.Equal(testingT, "7", queryValues.Get("restaurant"))
	require.Equal(testingT, "2", queryValues.Get("rating"))
	require.Equal(testingT, "hasan-usta-kebap", queryValues.Get("name"))
}

func TestSlugifyCollapsesWhitespaceRuns(testingT *testing.T) {
	require.Equal(testingT, "hasan-usta", flow.Slugify("  Hasan   Usta  "))
	require.Equal(testingT, "", flow.Slugify("   "))
}

func TestStarValueValid(testingT *testing.T) {
	require.False(testingT, flow.StarValueValid(0))
	require.True(testingT, flow.StarValueValid(1))
	require.True(testingT, flow.StarValueValid(5))
	require.False(testingT, flow.StarValueValid(6))
}
