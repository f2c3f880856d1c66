package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/auth"
	"github.com/tablepulse/tablepulse/internal/flow"
	"github.com/tablepulse/tablepulse/internal/model"
)

const (
	errorValueSubdomainTaken      = "subdomain_already_registered"
	errorValueWeakPassword        = "password_too_short"
	errorValueInvalidOwnerEmail   = "invalid_owner_email"
	errorValueInvalidSubdomain    = "invalid_subdomain"

	minimumOwnerPasswordLength = 8

	defaultQRCodeSize = 180

	feedbackEntryURLPattern = "%s/user-feedback?restaurant=%d"
)

// AdminHandlers serves the platform-admin surface: restaurant CRUD with the
// paired owner account, QR payloads and the role-agnostic token fallback.
type AdminHandlers struct {
	database      *gorm.DB
	logger        *zap.Logger
	tokenSecret   string
	tokenTTL      time.Duration
	publicBaseURL string
}

// NewAdminHandlers creates AdminHandlers. publicBaseURL is the feedback
// frontend origin QR payload URLs are built from.
func NewAdminHandlers(database *gorm.DB, logger *zap.Logger, tokenSecret string, tokenTTL time.Duration, publicBaseURL string) *AdminHandlers {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	return &AdminHandlers{
		database:      database,
		logger:        logger,
		tokenSecret:   tokenSecret,
		tokenTTL:      tokenTTL,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

type createRestaurantRequest struct {
	Name          string `json:"name"`
	Subdomain     string `json:"subdomain"`
	OwnerEmail    string `json:"owner_email"`
	OwnerPassword string `json:"owner_password"`
	LogoURL       string `json:"logo"`
}

type updateRestaurantRequest struct {
	Name          *string `json:"name"`
	Subdomain     *string `json:"subdomain"`
	OwnerEmail    *string `json:"owner_email"`
	OwnerPassword *string `json:"owner_password"`
	LogoURL       *string `json:"logo"`
}

type restaurantWithOwnerResponse struct {
	model.Restaurant
	Owner *model.User `json:"owner"`
}

type qrCodeRequest struct {
	RestaurantID uint `json:"restaurant_id"`
	Size         int  `json:"size"`
}

type qrCodeResponse struct {
	RestaurantID uint   `json:"restaurant_id"`
	URL          string `json:"url"`
	Size         int    `json:"size"`
}

// Login authenticates a platform admin and issues a bearer token.
func (handlers *AdminHandlers) Login(context *gin.Context) {
	var request loginRequest
	if bindErr := context.BindJSON(&request); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	user, authErr := auth.AuthenticateUser(handlers.database, request.Email, request.Password)
	if authErr != nil || user.Role != model.RoleAdmin {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueInvalidCredentials})
		return
	}

	handlers.respondWithToken(context, user)
}

// TokenFallback is the role-agnostic login accepting form-encoded
// credentials, kept for clients that retry after a failed admin login.
func (handlers *AdminHandlers) TokenFallback(context *gin.Context) {
	email := strings.TrimSpace(context.PostForm("email"))
	password := context.PostForm("password")

	user, authErr := auth.AuthenticateUser(handlers.database, email, password)
	if authErr != nil {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueInvalidCredentials})
		return
	}

	handlers.respondWithToken(context, user)
}

// CurrentUser returns the authenticated admin account.
func (handlers *AdminHandlers) CurrentUser(context *gin.Context) {
	currentUser, ok := auth.CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueNotAuthorized})
		return
	}
	context.JSON(http.StatusOK, currentUser)
}

// CreateRestaurant creates a restaurant and its owner account in one step.
func (handlers *AdminHandlers) CreateRestaurant(context *gin.Context) {
	var request createRestaurantRequest
	if bindErr := context.BindJSON(&request); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	request.Name = strings.TrimSpace(request.Name)
	request.Subdomain = strings.ToLower(strings.TrimSpace(request.Subdomain))
	request.OwnerEmail = strings.ToLower(strings.TrimSpace(request.OwnerEmail))

	if request.Name == "" || request.Subdomain == "" || request.OwnerEmail == "" || request.OwnerPassword == "" {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if !flow.EmailValid(request.OwnerEmail) {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidOwnerEmail})
		return
	}
	if len(request.OwnerPassword) < minimumOwnerPasswordLength {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueWeakPassword})
		return
	}
	if strings.ContainsAny(request.Subdomain, " .") {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidSubdomain})
		return
	}

	var subdomainCount int64
	if countErr := handlers.database.Model(&model.Restaurant{}).
		Where("subdomain = ?", request.Subdomain).
		Count(&subdomainCount).Error; countErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	if subdomainCount > 0 {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueSubdomainTaken})
		return
	}

	var emailCount int64
	if countErr := handlers.database.Model(&model.User{}).
		Where("email = ?", request.OwnerEmail).
		Count(&emailCount).Error; countErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	if emailCount > 0 {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueEmailTaken})
		return
	}

	hashedPassword, hashErr := auth.HashPassword(request.OwnerPassword)
	if hashErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	restaurant := model.Restaurant{Name: request.Name, Subdomain: request.Subdomain, LogoURL: strings.TrimSpace(request.LogoURL)}
	transactionErr := handlers.database.Transaction(func(transaction *gorm.DB) error {
		if createErr := transaction.Create(&restaurant).Error; createErr != nil {
			return createErr
		}
		owner := model.User{
			Email:          request.OwnerEmail,
			HashedPassword: hashedPassword,
			Role:           model.RoleRestaurantOwner,
			IsActive:       true,
			RestaurantID:   &restaurant.ID,
		}
		return transaction.Create(&owner).Error
	})
	if transactionErr != nil {
		handlers.logger.Warn("create_restaurant", zap.Error(transactionErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	context.JSON(http.StatusOK, restaurant)
}

// ListRestaurants returns all restaurants with their owner accounts. A
// case-insensitive substring filter over name, subdomain and owner email is
// applied when the "q" query parameter is present.
func (handlers *AdminHandlers) ListRestaurants(context *gin.Context) {
	restaurants := make([]model.Restaurant, 0)
	if queryErr := handlers.database.Scopes(paginated(context)).Find(&restaurants).Error; queryErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	filter := strings.ToLower(strings.TrimSpace(context.Query("q")))

	response := make([]restaurantWithOwnerResponse, 0, len(restaurants))
	for _, restaurant := range restaurants {
		owner := handlers.restaurantOwner(restaurant.ID)
		if filter != "" && !restaurantMatchesFilter(restaurant, owner, filter) {
			continue
		}
		response = append(response, restaurantWithOwnerResponse{Restaurant: restaurant, Owner: owner})
	}
	context.JSON(http.StatusOK, response)
}

// GetRestaurant returns one restaurant with its owner account.
func (handlers *AdminHandlers) GetRestaurant(context *gin.Context) {
	restaurantID, parseErr := parsePathID(context, "id")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}

	var restaurant model.Restaurant
	if lookupErr := handlers.database.First(&restaurant, restaurantID).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownRestaurant})
		return
	}

	context.JSON(http.StatusOK, restaurantWithOwnerResponse{
		Restaurant: restaurant,
		Owner:      handlers.restaurantOwner(restaurant.ID),
	})
}

// UpdateRestaurant patches a restaurant and optionally its owner credentials.
// A blank owner password is ignored.
func (handlers *AdminHandlers) UpdateRestaurant(context *gin.Context) {
	restaurantID, parseErr := parsePathID(context, "id")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}

	var restaurant model.Restaurant
	if lookupErr := handlers.database.First(&restaurant, restaurantID).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownRestaurant})
		return
	}

	var request updateRestaurantRequest
	if bindErr := context.BindJSON(&request); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	if request.Name != nil && strings.TrimSpace(*request.Name) != "" {
		restaurant.Name = strings.TrimSpace(*request.Name)
	}
	if request.LogoURL != nil {
		restaurant.LogoURL = strings.TrimSpace(*request.LogoURL)
	}
	if request.Subdomain != nil && strings.TrimSpace(*request.Subdomain) != "" {
		normalizedSubdomain := strings.ToLower(strings.TrimSpace(*request.Subdomain))
		var duplicateCount int64
		if countErr := handlers.database.Model(&model.Restaurant{}).
			Where("subdomain = ? AND id <> ?", normalizedSubdomain, restaurantID).
			Count(&duplicateCount).Error; countErr != nil {
			context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
			return
		}
		if duplicateCount > 0 {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueSubdomainTaken})
			return
		}
		restaurant.Subdomain = normalizedSubdomain
	}

	if request.OwnerEmail != nil || (request.OwnerPassword != nil && strings.TrimSpace(*request.OwnerPassword) != "") {
		owner := handlers.restaurantOwner(restaurantID)
		if owner != nil {
			if request.OwnerEmail != nil && strings.TrimSpace(*request.OwnerEmail) != "" {
				normalizedEmail := strings.ToLower(strings.TrimSpace(*request.OwnerEmail))
				var duplicateCount int64
				if countErr := handlers.database.Model(&model.User{}).
					Where("email = ? AND id <> ?", normalizedEmail, owner.ID).
					Count(&duplicateCount).Error; countErr != nil {
					context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
					return
				}
				if duplicateCount > 0 {
					context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueEmailTaken})
					return
				}
				owner.Email = normalizedEmail
			}
			if request.OwnerPassword != nil && strings.TrimSpace(*request.OwnerPassword) != "" {
				hashedPassword, hashErr := auth.HashPassword(*request.OwnerPassword)
				if hashErr != nil {
					context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
					return
				}
				owner.HashedPassword = hashedPassword
			}
			if saveErr := handlers.database.Save(owner).Error; saveErr != nil {
				context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
				return
			}
		}
	}

	if saveErr := handlers.database.Save(&restaurant).Error; saveErr != nil {
		handlers.logger.Warn("update_restaurant", zap.Error(saveErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	context.JSON(http.StatusOK, restaurant)
}

// DeleteRestaurant removes a restaurant and its owner account.
func (handlers *AdminHandlers) DeleteRestaurant(context *gin.Context) {
	restaurantID, parseErr := parsePathID(context, "id")
	if parseErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidID})
		return
	}

	var restaurant model.Restaurant
	if lookupErr := handlers.database.First(&restaurant, restaurantID).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownRestaurant})
		return
	}

	transactionErr := handlers.database.Transaction(func(transaction *gorm.DB) error {
		if deleteErr := transaction.
			Where("restaurant_id = ? AND role = ?", restaurantID, model.RoleRestaurantOwner).
			Delete(&model.User{}).Error; deleteErr != nil {
			return deleteErr
		}
		return transaction.Delete(&restaurant).Error
	})
	if transactionErr != nil {
		handlers.logger.Warn("delete_restaurant", zap.Error(transactionErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueDeleteFailed})
		return
	}
	context.Status(http.StatusNoContent)
}

// CreateQRCode returns the feedback-entry URL payload for one restaurant.
// Image rendering stays client-side.
func (handlers *AdminHandlers) CreateQRCode(context *gin.Context) {
	var request qrCodeRequest
	if bindErr := context.BindJSON(&request); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	var restaurant model.Restaurant
	if lookupErr := handlers.database.First(&restaurant, request.RestaurantID).Error; lookupErr != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownRestaurant})
		return
	}

	size := request.Size
	if size <= 0 {
		size = defaultQRCodeSize
	}
	context.JSON(http.StatusOK, handlers.qrCodePayload(restaurant.ID, size))
}

// ListQRCodes returns feedback-entry URL payloads for every restaurant.
func (handlers *AdminHandlers) ListQRCodes(context *gin.Context) {
	restaurants := make([]model.Restaurant, 0)
	if queryErr := handlers.database.Find(&restaurants).Error; queryErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	payloads := make([]qrCodeResponse, 0, len(restaurants))
	for _, restaurant := range restaurants {
		payloads = append(payloads, handlers.qrCodePayload(restaurant.ID, defaultQRCodeSize))
	}
	context.JSON(http.StatusOK, payloads)
}

func (handlers *AdminHandlers) qrCodePayload(restaurantID uint, size int) qrCodeResponse {
	return qrCodeResponse{
		RestaurantID: restaurantID,
		URL:          fmt.Sprintf(feedbackEntryURLPattern, handlers.publicBaseURL, restaurantID),
		Size:         size,
	}
}

func (handlers *AdminHandlers) respondWithToken(context *gin.Context, user *model.User) {
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

func (handlers *AdminHandlers) restaurantOwner(restaurantID uint) *model.User {
	var owner model.User
	lookupErr := handlers.database.
		Where("restaurant_id = ? AND role = ?", restaurantID, model.RoleRestaurantOwner).
		First(&owner).Error
	if lookupErr != nil {
		return nil
	}
	return &owner
}

func restaurantMatchesFilter(restaurant model.Restaurant, owner *model.User, filter string) bool {
	if strings.Contains(strings.ToLower(restaurant.Name), filter) {
		return true
	}
	if strings.Contains(strings.ToLower(restaurant.Subdomain), filter) {
		return true
	}
	return owner != nil && strings.Contains(strings.ToLower(owner.Email), filter)
}
