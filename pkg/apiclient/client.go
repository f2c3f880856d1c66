// Package apiclient is the typed REST client for the feedback service. It
// backs kiosk and dashboard frontends and mirrors their degradation rules:
// platform fetches fall back to a generic pair, dashboard fetches fall back
// to zero values, and star-click tracking never blocks the caller.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tablepulse/tablepulse/internal/flow"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	contentTypeJSON     = "application/json"
	bearerPrefix        = "Bearer "

	dashboardFetchTimeout = 10 * time.Second

	fallbackPlatformNameGoogle      = "Google"
	fallbackPlatformURLGoogle       = "https://www.google.com/maps/search/?api=1&query=restaurant"
	fallbackPlatformNameTripadvisor = "Tripadvisor"
	fallbackPlatformURLTripadvisor  = "https://www.tripadvisor.com/"

	errorMessageMissingBaseURL      = "apiclient: missing base url"
	errorMessageUnexpectedStatus    = "apiclient: unexpected status"
	errorMessageRestaurantNotFound  = "apiclient: restaurant not found"
	errorMessageComplaintNotSaved   = "apiclient: complaint not saved"
	errorMessageFeedbackNotSaved    = "apiclient: feedback not saved"
	errorMessageUnauthorized        = "apiclient: unauthorized"
)

var (
	// ErrMissingBaseURL indicates the client was constructed without a server address.
	ErrMissingBaseURL = errors.New(errorMessageMissingBaseURL)
	// ErrRestaurantNotFound indicates the server does not know the requested tenant.
	ErrRestaurantNotFound = errors.New(errorMessageRestaurantNotFound)
	// ErrUnauthorized indicates the bearer token was missing, expired or revoked.
	ErrUnauthorized = errors.New(errorMessageUnauthorized)
)

// TokenSource supplies the current bearer token; an empty return means the
// request goes out unauthenticated.
type TokenSource func() string

// Config assembles a Client.
type Config struct {
	// BaseURL is the server origin, e.g. "https://api.example.com".
	BaseURL string
	// HTTPClient overrides the transport; nil uses http.DefaultClient.
	HTTPClient *http.Client
	// Logger records degraded fetches; nil uses zap.NewNop().
	Logger *zap.Logger
	// TokenSource supplies bearer tokens for authenticated calls.
	TokenSource TokenSource
	// OnUnauthorized runs once per 401 response, before the error is
	// returned. Frontends use it to clear the stored session.
	OnUnauthorized func()
}

// Client calls the feedback service REST API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *zap.Logger
	tokenSource    TokenSource
	onUnauthorized func()
}

// NewClient creates a Client from configuration.
func NewClient(configuration Config) (*Client, error) {
	trimmedBaseURL := strings.TrimRight(strings.TrimSpace(configuration.BaseURL), "/")
	if trimmedBaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	httpClient := configuration.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        trimmedBaseURL,
		httpClient:     httpClient,
		logger:         logger,
		tokenSource:    configuration.TokenSource,
		onUnauthorized: configuration.OnUnauthorized,
	}, nil
}

// Platform is an external review destination as served by the API.
type Platform struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	RestaurantID uint   `json:"restaurant_id"`
}

// Restaurant is the tenant payload as served by the API.
type Restaurant struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
	LogoURL   string `json:"logo,omitempty"`
}

// Submission is the shared feedback/complaint request body.
type Submission struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	FoodRating       int    `json:"food_rating"`
	ServiceRating    int    `json:"service_rating"`
	AtmosphereRating int    `json:"atmosphere_rating"`
	Comment          string `json:"comment"`
	RestaurantID     uint   `json:"restaurant_id"`
}

// RestaurantByID fetches one restaurant by numeric id. Together with
// RestaurantBySubdomain this satisfies flow.RestaurantDirectory.
func (client *Client) RestaurantByID(restaurantID uint) (flow.RestaurantRef, error) {
	var restaurant Restaurant
	requestErr := client.getJSON(context.Background(), fmt.Sprintf("/api/restaurants/%d", restaurantID), &restaurant)
	if requestErr != nil {
		return flow.RestaurantRef{}, requestErr
	}
	return flow.RestaurantRef{ID: restaurant.ID, Name: restaurant.Name, Slug: restaurant.Subdomain}, nil
}

// RestaurantBySubdomain fetches one restaurant by its subdomain slug.
func (client *Client) RestaurantBySubdomain(slug string) (flow.RestaurantRef, error) {
	var restaurant Restaurant
	requestErr := client.getJSON(context.Background(), "/api/restaurants/by-subdomain/"+slug, &restaurant)
	if requestErr != nil {
		return flow.RestaurantRef{}, requestErr
	}
	return flow.RestaurantRef{ID: restaurant.ID, Name: restaurant.Name, Slug: restaurant.Subdomain}, nil
}

// FetchPlatforms returns the review platforms configured for a restaurant.
// Any failure, and an empty configuration, degrade to the generic fallback
// pair so the platform screen always has destinations to offer.
func (client *Client) FetchPlatforms(requestContext context.Context, restaurantID uint) []Platform {
	platforms := make([]Platform, 0)
	requestErr := client.getJSON(requestContext, fmt.Sprintf("/api/restaurants/%d/platforms", restaurantID), &platforms)
	if requestErr != nil {
		client.logger.Warn("fetch_platforms_failed", zap.Uint("restaurant_id", restaurantID), zap.Error(requestErr))
		return fallbackPlatforms()
	}
	if len(platforms) == 0 {
		return fallbackPlatforms()
	}
	return platforms
}

// FetchAllComments loads feedbacks and complaints concurrently and merges
// them newest first. Each side degrades independently: a failed half
// contributes nothing while the other half still renders.
func (client *Client) FetchAllComments(requestContext context.Context, restaurantID uint) []flow.Comment {
	var (
		waitGroup  sync.WaitGroup
		feedbacks  []flow.Comment
		complaints []flow.Comment
	)

	waitGroup.Add(2)
	go func() {
		defer waitGroup.Done()
		requestErr := client.getJSON(requestContext, fmt.Sprintf("/api/restaurants/%d/feedbacks", restaurantID), &feedbacks)
		if requestErr != nil {
			client.logger.Warn("fetch_feedbacks_failed", zap.Uint("restaurant_id", restaurantID), zap.Error(requestErr))
			feedbacks = nil
		}
	}()
	go func() {
		defer waitGroup.Done()
		requestErr := client.getJSON(requestContext, fmt.Sprintf("/api/restaurants/%d/complaints", restaurantID), &complaints)
		if requestErr != nil {
			client.logger.Warn("fetch_complaints_failed", zap.Uint("restaurant_id", restaurantID), zap.Error(requestErr))
			complaints = nil
		}
	}()
	waitGroup.Wait()

	return flow.MergeComments(feedbacks, complaints)
}

// FetchDashboard loads the precomputed dashboard summary. The call is capped
// at ten seconds; on timeout or any other failure it returns zero-valued
// defaults so the dashboard renders empty instead of erroring.
func (client *Client) FetchDashboard(requestContext context.Context, restaurantID uint) flow.Dashboard {
	timedContext, cancel := context.WithTimeout(requestContext, dashboardFetchTimeout)
	defer cancel()

	var dashboard flow.Dashboard
	requestErr := client.getJSON(timedContext, fmt.Sprintf("/api/restaurants/%d/analytics", restaurantID), &dashboard)
	if requestErr != nil {
		client.logger.Warn("fetch_dashboard_failed", zap.Uint("restaurant_id", restaurantID), zap.Error(requestErr))
		return flow.MergeDashboardDefaults(flow.Dashboard{})
	}
	return flow.MergeDashboardDefaults(dashboard)
}

// TrackStarClick records a star selection without blocking the caller. The
// request runs detached from the caller's context; a failure is logged and
// otherwise ignored.
func (client *Client) TrackStarClick(restaurantID uint, starValue int) {
	go func() {
		path := fmt.Sprintf("/api/restaurants/%d/star-click?star_value=%d", restaurantID, starValue)
		requestErr := client.doJSON(context.Background(), http.MethodPost, path, nil, nil)
		if requestErr != nil {
			client.logger.Warn("track_star_click_failed",
				zap.Uint("restaurant_id", restaurantID),
				zap.Int("star_value", starValue),
				zap.Error(requestErr))
		}
	}()
}

// SubmitComplaint sends a complaint submission. Single attempt, no retries:
// the form surfaces the failure and the visitor decides whether to resend.
func (client *Client) SubmitComplaint(requestContext context.Context, submission Submission) error {
	submitErr := client.doJSON(requestContext, http.MethodPost, "/api/complaints", submission, nil)
	if submitErr != nil {
		return fmt.Errorf("%s: %w", errorMessageComplaintNotSaved, submitErr)
	}
	return nil
}

// SubmitFeedback sends a feedback submission from the high-rating branch.
func (client *Client) SubmitFeedback(requestContext context.Context, submission Submission) error {
	submitErr := client.doJSON(requestContext, http.MethodPost, "/api/feedbacks", submission, nil)
	if submitErr != nil {
		return fmt.Errorf("%s: %w", errorMessageFeedbackNotSaved, submitErr)
	}
	return nil
}

func fallbackPlatforms() []Platform {
	return []Platform{
		{Name: fallbackPlatformNameGoogle, URL: fallbackPlatformURLGoogle},
		{Name: fallbackPlatformNameTripadvisor, URL: fallbackPlatformURLTripadvisor},
	}
}

func (client *Client) getJSON(requestContext context.Context, path string, target any) error {
	return client.doJSON(requestContext, http.MethodGet, path, nil, target)
}

func (client *Client) doJSON(requestContext context.Context, method string, path string, payload any, target any) error {
	var requestBody io.Reader
	if payload != nil {
		encoded, marshalErr := json.Marshal(payload)
		if marshalErr != nil {
			return marshalErr
		}
		requestBody = bytes.NewReader(encoded)
	}

	request, requestErr := http.NewRequestWithContext(requestContext, method, client.baseURL+path, requestBody)
	if requestErr != nil {
		return requestErr
	}
	if payload != nil {
		request.Header.Set(headerContentType, contentTypeJSON)
	}
	if client.tokenSource != nil {
		if token := client.tokenSource(); token != "" {
			request.Header.Set(headerAuthorization, bearerPrefix+token)
		}
	}

	response, doErr := client.httpClient.Do(request)
	if doErr != nil {
		return doErr
	}
	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	switch {
	case response.StatusCode == http.StatusUnauthorized:
		if client.onUnauthorized != nil {
			client.onUnauthorized()
		}
		return ErrUnauthorized
	case response.StatusCode == http.StatusNotFound:
		return ErrRestaurantNotFound
	case response.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%s: %d", errorMessageUnexpectedStatus, response.StatusCode)
	}

	if target == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(target)
}
