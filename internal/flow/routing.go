// Package flow implements the rating-driven feedback workflow: star intake
// routing, restaurant resolution, complaint validation and the aggregate
// display helpers the dashboard screens rely on.
package flow

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// ComplaintRoutePath receives ratings at or below the complaint threshold.
	ComplaintRoutePath = "/complaint-form"
	// PlatformRoutePath receives ratings above the complaint threshold.
	PlatformRoutePath = "/review-platforms"
	// ThankYouRoutePath is the terminal screen after a successful submission.
	ThankYouRoutePath = "/thank-you"

	// ComplaintRatingThreshold is the hard routing boundary: ratings at or
	// below it go to the complaint form, ratings above it to the platform list.
	ComplaintRatingThreshold = 3

	queryParameterRestaurant = "restaurant"
	queryParameterRating     = "rating"
	queryParameterName       = "name"

	minimumStarValue = 1
	maximumStarValue = 5

	errorMessageRatingOutOfRange = "flow: rating out of range"
)

// ErrRatingOutOfRange indicates a star value outside [1,5].
var ErrRatingOutOfRange = errors.New(errorMessageRatingOutOfRange)

// Destination is a routed navigation target with its query-parameter contract.
type Destination struct {
	Path         string
	RestaurantID uint
	Rating       int
	NameSlug     string
}

// URL renders the destination as a relative URL carrying the cross-screen
// query contract (restaurant, rating, name).
func (destination Destination) URL() string {
	queryValues := url.Values{}
	queryValues.Set(queryParameterRestaurant, fmt.Sprintf("%d", destination.RestaurantID))
	queryValues.Set(queryParameterRating, fmt.Sprintf("%d", destination.Rating))
	queryValues.Set(queryParameterName, destination.NameSlug)
	return destination.Path + "?" + queryValues.Encode()
}

// RouteForRating maps a star selection to its destination screen. Tracking
// telemetry is not a precondition; callers navigate even when the star-click
// call failed.
func RouteForRating(rating int, restaurantID uint, restaurantName string) (Destination, error) {
	if rating < minimumStarValue || rating > maximumStarValue {
		return Destination{}, fmt.Errorf("%w: %d", ErrRatingOutOfRange, rating)
	}

	routedPath := PlatformRoutePath
	if rating <= ComplaintRatingThreshold {
		routedPath = ComplaintRoutePath
	}

	return Destination{
		Path:         routedPath,
		RestaurantID: restaurantID,
		Rating:       rating,
		NameSlug:     Slugify(restaurantName),
	}, nil
}

// Slugify lowercases a restaurant name and collapses whitespace runs into
// single dashes, matching the slug carried between screens.
func Slugify(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(lowered), "-")
}

// StarValueValid reports whether a star value sits in [1,5].
func StarValueValid(starValue int) bool {
	return starValue >= minimumStarValue && starValue <= maximumStarValue
}
