package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/auth"
	"github.com/tablepulse/tablepulse/internal/model"
)

const (
	jsonKeyAccessToken  = "access_token"
	jsonKeyTokenType    = "token_type"
	jsonKeyRole         = "role"
	jsonKeyRestaurantID = "restaurant_id"

	tokenTypeBearer = "bearer"

	errorValueInvalidCredentials = "invalid_credentials"
	errorValueNotAuthorized      = "not_authorized"
	errorValueEmailTaken         = "email_already_registered"
	errorValuePlatformNotFound   = "platform_not_found"
	errorValueFeedbackNotFound   = "feedback_not_found"
	errorValueComplaintNotFound  = "complaint_not_found"
	errorValueDeleteFailed       = "delete_failed"
	errorValueNoOwnedRestaurant  = "no_owned_restaurant"
)

// OwnerHandlers serves the authenticated restaurant-owner surface.
type OwnerHandlers struct {
	database    *gorm.DB
	logger      *zap.Logger
	tokenSecret string
	tokenTTL    time.Duration
}

// NewOwnerHandlers creates OwnerHandlers.
func NewOwnerHandlers(database *gorm.DB, logger *zap.Logger, tokenSecret string, tokenTTL time.Duration) *OwnerHandlers {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	return &OwnerHandlers{database: database, logger: logger, tokenSecret: tokenSecret, tokenTTL: tokenTTL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateSettingsRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
}

type createPlatformRequest struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	RestaurantID uint   `json:"restaurant_id"`
}

type updatePlatformRequest struct {
	Name *string `json:"name"`
	URL  *string `json:"url"`
}

// Login authenticates a restaurant owner and issues a bearer token.
func (handlers *OwnerHandlers) Login(context *gin.Context) {
	var request loginRequest
	if bindErr := context.BindJSON(&request); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	user, authErr := auth.AuthenticateUser(handlers.database, request.Email, request.Password)
	if authErr != nil || user.Role != model.RoleRestaurantOwner {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueInvalidCredentials})
		return
	}

	token, issueErr := auth.IssueToken(handlers.tokenSecret, auth.Claims{
		Email:        user.Email,
		Role:         user.Role,
		RestaurantID: user.RestaurantID,
	}, handlers.tokenTTL)
	if issueErr != nil {
		handlers.logger.Warn("issue_token", zap.Error(issueErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	context.JSON(http.StatusOK, gin.H{
		jsonKeyAccessToken:  token,
		jsonKeyTokenType:    tokenTypeBearer,
		jsonKeyRole:         user.Role,
		jsonKeyRestaurantID: user.RestaurantID,
	})
}

// CurrentUser returns the authenticated account.
func (handlers *OwnerHandlers) CurrentUser(context *gin.Context) {
	currentUser, ok := auth.CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueNotAuthorized})
		return
	}
	context.JSON(http.StatusOK, currentUser)
}

// Dashboard returns the combined feedback+complaint summary for the owner's
// restaurant.
func (handlers *OwnerHandlers) Dashboard(context *gin.Context) {
	restaurantID, ok := handlers.ownedRestaurantID(context)
	if !ok {
		return
	}

	dashboard, dashboardErr := buildDashboard(handlers.database, restaurantID)
	if dashboardErr != nil {
		handlers.logger.Warn("dashboard", zap.Error(dashboardErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, dashboard)
}

// UpdateSettings changes the owner's email, password or active flag. A blank
// password is ignored rather than applied.
func (handlers *OwnerHandlers) UpdateSettings(context *gin.Context) {
	currentUser, ok := auth.CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueNotAuthorized})
		return
	}

	var request updateSettingsRequest
	if bindErr := context.BindJSON(&request); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	if request.Email != nil {
		normalizedEmail := strings.ToLower(strings.TrimSpace(*request.Email))
		if normalizedEmail != "" {
			var duplicateCount int64
			if countErr := handlers.database.Model(&model.User{}).
				Where("email = ? AND id <> ?", normalizedEmail, currentUser.ID).
				Count(&duplicateCount).Error; countErr != nil {
				context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
				return
			}
			if duplicateCount > 0 {
				context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueEmailTaken})
				return
			}
			currentUser.Email = normalizedEmail
		}
	}

	if request.Password != nil && strings.TrimSpace(*request.Password) != "" {
		hashedPassword, hashErr := auth.HashPassword(*request.Password)
		if hashErr != nil {
			context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
			return
		}
		currentUser.HashedPassword = hashedPassword
	}

	if request.IsActive != nil {
		currentUser.IsActive = *request.IsActive
	}

	if saveErr := handlers.database.Save(currentUser).Error; saveErr != nil {
		handlers.logger.Warn("update_settings", zap.Error(saveErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	context.JSON(http.StatusOK, gin.H{jsonKeyMessage: "settings updated"})
}

// ListOwnPlatforms returns the platforms of the owner's restaurant.
func (handlers *OwnerHandlers) ListOwnPlatforms(context *gin.Context) {
	restaurantID, ok := handlers.ownedRestaurantID(context)
	if !ok {
		return
	}

	platforms := make([]model.Platform, 0)
	if queryErr := handlers.database.Where("restaurant_id = ?", restaurantID).Find(&platforms).Error; queryErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, platforms)
}

// CreatePlatform adds a review platform link. Owners may only create links
// for their own restaurant; admins may create for any.
func (handlers *OwnerHandlers) CreatePlatform(context *gin.Context) {
	currentUser, ok := auth.CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueNotAuthorized})
		return
	}

	var request createPlatformRequest
	if bindErr := context.BindJSON(&request); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	request.Name = strings.TrimSpace(request.Name)
	request.URL = strings.TrimSpace(request.URL)
	if request.Name == "" || request.URL == "" || request.RestaurantID == 0 {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}

	if currentUser.Role == model.RoleRestaurantOwner {
		if currentUser.RestaurantID == nil || *currentUser.RestaurantID != request.RestaurantID {
			context.JSON(http.StatusForbidden, gin.H{jsonKeyError: errorValueNotAuthorized})
			return
		}
	}

	platform := model.Platform{Name: request.Name, URL: request.URL, RestaurantID: request.RestaurantID}
	if saveErr := handlers.database.Create(&platform).Error; saveErr != nil {
		handlers.logger.Warn("create_platform", zap.Error(saveErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	context.JSON(http.StatusOK, platform)
}

// UpdatePlatform updates one of the owner's platform links.
func (handlers *OwnerHandlers) UpdatePlatform(context *gin.Context) {
	restaurantID, ok := handlers.ownedRestaurantID(context)
	if !ok {
		return
	}
	platformID, parseErr := parsePathID(context, "platformID")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}

	var platform model.Platform
	if lookupErr := handlers.database.
		Where("id = ? AND restaurant_id = ?", platformID, restaurantID).
		First(&platform).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValuePlatformNotFound})
		return
	}

	var request updatePlatformRequest
	if bindErr := context.BindJSON(&request); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	if request.Name != nil && strings.TrimSpace(*request.Name) != "" {
		platform.Name = strings.TrimSpace(*request.Name)
	}
	if request.URL != nil && strings.TrimSpace(*request.URL) != "" {
		platform.URL = strings.TrimSpace(*request.URL)
	}

	if saveErr := handlers.database.Save(&platform).Error; saveErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	context.JSON(http.StatusOK, platform)
}

// DeletePlatform removes one of the owner's platform links.
func (handlers *OwnerHandlers) DeletePlatform(context *gin.Context) {
	restaurantID, ok := handlers.ownedRestaurantID(context)
	if !ok {
		return
	}
	platformID, parseErr := parsePathID(context, "platformID")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}

	var platform model.Platform
	if lookupErr := handlers.database.
		Where("id = ? AND restaurant_id = ?", platformID, restaurantID).
		First(&platform).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValuePlatformNotFound})
		return
	}

	if deleteErr := handlers.database.Delete(&platform).Error; deleteErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueDeleteFailed})
		return
	}
	context.Status(http.StatusNoContent)
}

// ListFeedbacks returns the owner's feedbacks, newest first.
func (handlers *OwnerHandlers) ListFeedbacks(context *gin.Context) {
	restaurantID, ok := handlers.ownedRestaurantID(context)
	if !ok {
		return
	}

	feedbacks := make([]model.Feedback, 0)
	if queryErr := handlers.database.Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Scopes(paginated(context)).
		Find(&feedbacks).Error; queryErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, feedbacks)
}

// ListComplaints returns the owner's complaints, newest first.
func (handlers *OwnerHandlers) ListComplaints(context *gin.Context) {
	restaurantID, ok := handlers.ownedRestaurantID(context)
	if !ok {
		return
	}

	complaints := make([]model.Complaint, 0)
	if queryErr := handlers.database.Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Scopes(paginated(context)).
		Find(&complaints).Error; queryErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, complaints)
}

// DeleteFeedback removes one of the owner's feedbacks after the admin screen's
// confirmation step.
func (handlers *OwnerHandlers) DeleteFeedback(context *gin.Context) {
	restaurantID, ok := handlers.ownedRestaurantID(context)
	if !ok {
		return
	}
	feedbackID, parseErr := parsePathID(context, "feedbackID")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}

	var feedback model.Feedback
	if lookupErr := handlers.database.
		Where("id = ? AND restaurant_id = ?", feedbackID, restaurantID).
		First(&feedback).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueFeedbackNotFound})
		return
	}
	if deleteErr := handlers.database.Delete(&feedback).Error; deleteErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueDeleteFailed})
		return
	}
	context.Status(http.StatusNoContent)
}

// DeleteComplaint removes one of the owner's complaints.
func (handlers *OwnerHandlers) DeleteComplaint(context *gin.Context) {
	restaurantID, ok := handlers.ownedRestaurantID(context)
	if !ok {
		return
	}
	complaintID, parseErr := parsePathID(context, "complaintID")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}

	var complaint model.Complaint
	if lookupErr := handlers.database.
		Where("id = ? AND restaurant_id = ?", complaintID, restaurantID).
		First(&complaint).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueComplaintNotFound})
		return
	}
	if deleteErr := handlers.database.Delete(&complaint).Error; deleteErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueDeleteFailed})
		return
	}
	context.Status(http.StatusNoContent)
}

func (handlers *OwnerHandlers) ownedRestaurantID(context *gin.Context) (uint, bool) {
	currentUser, ok := auth.CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueNotAuthorized})
		return 0, false
	}
	if currentUser.RestaurantID == nil || *currentUser.RestaurantID == 0 {
		context.JSON(http.StatusForbidden, gin.H{jsonKeyError: errorValueNoOwnedRestaurant})
		return 0, false
	}
	return *currentUser.RestaurantID, true
}
