package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/flow"
	"github.com/tablepulse/tablepulse/internal/model"
)

const (
	jsonKeyError   = "error"
	jsonKeySuccess = "success"
	jsonKeyMessage = "message"

	errorValueInvalidJSON       = "invalid_json"
	errorValueMissingFields     = "missing_fields"
	errorValueInvalidRating     = "invalid_rating"
	errorValueInvalidStarValue  = "invalid_star_value"
	errorValueInvalidEmail      = "invalid_email"
	errorValueUnknownRestaurant = "restaurant_not_found"
	errorValueInvalidID         = "invalid_id"
	errorValueSaveFailed        = "save_failed"
	errorValueQueryFailed       = "query_failed"

	queryParameterStarValue = "star_value"

	starClickTrackedMessage = "star click tracked"
)

// CustomerHandlers serves the unauthenticated endpoints the intake screens
// and outbound client call.
type CustomerHandlers struct {
	database *gorm.DB
	logger   *zap.Logger
}

// NewCustomerHandlers creates CustomerHandlers.
func NewCustomerHandlers(database *gorm.DB, logger *zap.Logger) *CustomerHandlers {
	return &CustomerHandlers{database: database, logger: logger}
}

type createSubmissionRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	FoodRating       int    `json:"food_rating"`
	ServiceRating    int    `json:"service_rating"`
	AtmosphereRating int    `json:"atmosphere_rating"`
	Comment          string `json:"comment"`
	RestaurantID     uint   `json:"restaurant_id"`
}

func (request createSubmissionRequest) ratingsValid() bool {
	return flow.StarValueValid(request.FoodRating) &&
		flow.StarValueValid(request.ServiceRating) &&
		flow.StarValueValid(request.AtmosphereRating)
}

// RestaurantDetails returns one restaurant by id.
func (handlers *CustomerHandlers) RestaurantDetails(context *gin.Context) {
	restaurantID, parseErr := parsePathID(context, "id")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}

	restaurant, found := handlers.lookupRestaurant(context, restaurantID)
	if !found {
		return
	}
	context.JSON(http.StatusOK, restaurant)
}

// RestaurantBySubdomain returns one restaurant by its subdomain slug.
func (handlers *CustomerHandlers) RestaurantBySubdomain(context *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(context.Param("slug")))

	var restaurant model.Restaurant
	if lookupErr := handlers.database.First(&restaurant, "subdomain = ?", slug).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownRestaurant})
		return
	}
	context.JSON(http.StatusOK, restaurant)
}

// CreateFeedback persists a submission from the high-rating branch.
func (handlers *CustomerHandlers) CreateFeedback(context *gin.Context) {
	request, requestOk := handlers.bindSubmission(context, false)
	if !requestOk {
		return
	}

	feedback := model.Feedback{
		Name:             request.Name,
		Email:            request.Email,
		Phone:            request.Phone,
		FoodRating:       request.FoodRating,
		ServiceRating:    request.ServiceRating,
		AtmosphereRating: request.AtmosphereRating,
		AverageRating:    flow.RoundRating(flow.AverageRating(request.FoodRating, request.ServiceRating, request.AtmosphereRating)),
		Comment:          request.Comment,
		RestaurantID:     request.RestaurantID,
	}
	if saveErr := handlers.database.Create(&feedback).Error; saveErr != nil {
		handlers.logger.Warn("save_feedback", zap.Error(saveErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	context.JSON(http.StatusOK, feedback)
}

// CreateComplaint persists a submission from the low-rating branch. Identical
// to CreateFeedback except the comment is mandatory.
func (handlers *CustomerHandlers) CreateComplaint(context *gin.Context) {
	request, requestOk := handlers.bindSubmission(context, true)
	if !requestOk {
		return
	}

	complaint := model.Complaint{
		Name:             request.Name,
		Email:            request.Email,
		Phone:            request.Phone,
		FoodRating:       request.FoodRating,
		ServiceRating:    request.ServiceRating,
		AtmosphereRating: request.AtmosphereRating,
		AverageRating:    flow.RoundRating(flow.AverageRating(request.FoodRating, request.ServiceRating, request.AtmosphereRating)),
		Comment:          request.Comment,
		RestaurantID:     request.RestaurantID,
	}
	if saveErr := handlers.database.Create(&complaint).Error; saveErr != nil {
		handlers.logger.Warn("save_complaint", zap.Error(saveErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	context.JSON(http.StatusOK, complaint)
}

// ListPlatforms returns the review platform links configured for a restaurant.
func (handlers *CustomerHandlers) ListPlatforms(context *gin.Context) {
	restaurantID, parseErr := parsePathID(context, "id")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}
	if _, found := handlers.lookupRestaurant(context, restaurantID); !found {
		return
	}

	platforms := make([]model.Platform, 0)
	if queryErr := handlers.database.Where("restaurant_id = ?", restaurantID).Find(&platforms).Error; queryErr != nil {
		handlers.logger.Warn("list_platforms", zap.Error(queryErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, platforms)
}

// ListFeedbacks returns a restaurant's feedbacks, newest first.
func (handlers *CustomerHandlers) ListFeedbacks(context *gin.Context) {
	restaurantID, parseErr := parsePathID(context, "id")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}
	if _, found := handlers.lookupRestaurant(context, restaurantID); !found {
		return
	}

	feedbacks := make([]model.Feedback, 0)
	if queryErr := handlers.database.Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Scopes(paginated(context)).
		Find(&feedbacks).Error; queryErr != nil {
		handlers.logger.Warn("list_feedbacks", zap.Error(queryErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, feedbacks)
}

// ListComplaints returns a restaurant's complaints, newest first.
func (handlers *CustomerHandlers) ListComplaints(context *gin.Context) {
	restaurantID, parseErr := parsePathID(context, "id")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}
	if _, found := handlers.lookupRestaurant(context, restaurantID); !found {
		return
	}

	complaints := make([]model.Complaint, 0)
	if queryErr := handlers.database.Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Scopes(paginated(context)).
		Find(&complaints).Error; queryErr != nil {
		handlers.logger.Warn("list_complaints", zap.Error(queryErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, complaints)
}

// TrackStarClick appends a star-click event row. Best-effort telemetry for
// the intake screen; the screen navigates regardless of the outcome here.
func (handlers *CustomerHandlers) TrackStarClick(context *gin.Context) {
	restaurantID, parseErr := parsePathID(context, "id")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}
	if _, found := handlers.lookupRestaurant(context, restaurantID); !found {
		return
	}

	starValue, starErr := strconv.Atoi(strings.TrimSpace(context.Query(queryParameterStarValue)))
	if starErr != nil || !flow.StarValueValid(starValue) {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidStarValue})
		return
	}

	starClick := model.StarClick{RestaurantID: restaurantID, StarValue: starValue}
	if saveErr := handlers.database.Create(&starClick).Error; saveErr != nil {
		handlers.logger.Warn("save_star_click", zap.Error(saveErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	context.JSON(http.StatusOK, gin.H{jsonKeySuccess: true, jsonKeyMessage: starClickTrackedMessage})
}

// StarClickStats recounts star-click events per star, refreshes the counter
// table, and returns the aggregate with zero-safe percentages.
func (handlers *CustomerHandlers) StarClickStats(context *gin.Context) {
	restaurantID, parseErr := parsePathID(context, "id")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}
	if _, found := handlers.lookupRestaurant(context, restaurantID); !found {
		return
	}

	stats, statsErr := refreshStarClickStats(handlers.database, restaurantID)
	if statsErr != nil {
		handlers.logger.Warn("star_click_stats", zap.Error(statsErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, stats)
}

// Analytics returns the per-restaurant feedback aggregate for public display.
func (handlers *CustomerHandlers) Analytics(context *gin.Context) {
	restaurantID, parseErr := parsePathID(context, "id")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}
	if _, found := handlers.lookupRestaurant(context, restaurantID); !found {
		return
	}

	dashboard, dashboardErr := buildDashboard(handlers.database, restaurantID)
	if dashboardErr != nil {
		handlers.logger.Warn("customer_analytics", zap.Error(dashboardErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, dashboard)
}

func (handlers *CustomerHandlers) bindSubmission(context *gin.Context, commentRequired bool) (createSubmissionRequest, bool) {
	var request createSubmissionRequest
	if bindErr := context.BindJSON(&request); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return request, false
	}

	request.Name = strings.TrimSpace(request.Name)
	request.Email = strings.TrimSpace(request.Email)
	request.Phone = strings.TrimSpace(request.Phone)
	request.Comment = strings.TrimSpace(request.Comment)

	if request.Name == "" || request.Email == "" || request.Phone == "" || (commentRequired && request.Comment == "") {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return request, false
	}
	if !flow.EmailValid(request.Email) {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidEmail})
		return request, false
	}
	if !request.ratingsValid() {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidRating})
		return request, false
	}

	var restaurant model.Restaurant
	if lookupErr := handlers.database.First(&restaurant, request.RestaurantID).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownRestaurant})
		return request, false
	}

	return request, true
}

func (handlers *CustomerHandlers) lookupRestaurant(context *gin.Context, restaurantID uint) (model.Restaurant, bool) {
	var restaurant model.Restaurant
	if lookupErr := handlers.database.First(&restaurant, restaurantID).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownRestaurant})
		return model.Restaurant{}, false
	}
	return restaurant, true
}

func parsePathID(context *gin.Context, parameterName string) (uint, error) {
	parsedID, parseErr := strconv.ParseUint(strings.TrimSpace(context.Param(parameterName)), 10, 32)
	if parseErr != nil {
		return 0, parseErr
	}
	return uint(parsedID), nil
}

func paginated(context *gin.Context) func(*gorm.DB) *gorm.DB {
	skip, _ := strconv.Atoi(context.DefaultQuery("skip", "0"))
	limit, limitErr := strconv.Atoi(context.DefaultQuery("limit", "100"))
	if limitErr != nil || limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return func(database *gorm.DB) *gorm.DB {
		return database.Offset(skip).Limit(limit)
	}
}
