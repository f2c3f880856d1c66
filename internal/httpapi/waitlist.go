package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/flow"
	"github.com/tablepulse/tablepulse/internal/model"
)

const errorValueDuplicateWaitlistEmail = "email_already_on_waitlist"

// WaitlistHandlers serves the public launch waitlist signup and the
// admin-only listing of collected entries.
type WaitlistHandlers struct {
	database *gorm.DB
	logger   *zap.Logger
}

// NewWaitlistHandlers creates WaitlistHandlers.
func NewWaitlistHandlers(database *gorm.DB, logger *zap.Logger) *WaitlistHandlers {
	return &WaitlistHandlers{database: database, logger: logger}
}

type waitlistSignupRequest struct {
	Email          string `json:"email"`
	RestaurantName string `json:"restaurant_name"`
	ContactName    string `json:"contact_name"`
	Phone          string `json:"phone"`
}

// Join records a waitlist signup. Duplicate emails are rejected so one
// address cannot hold more than one spot.
func (handlers *WaitlistHandlers) Join(context *gin.Context) {
	var request waitlistSignupRequest
	if bindErr := context.BindJSON(&request); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	request.Email = strings.ToLower(strings.TrimSpace(request.Email))
	if request.Email == "" {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if !flow.EmailValid(request.Email) {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidEmail})
		return
	}

	var duplicateCount int64
	if countErr := handlers.database.Model(&model.WaitlistEntry{}).
		Where("email = ?", request.Email).
		Count(&duplicateCount).Error; countErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	if duplicateCount > 0 {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueDuplicateWaitlistEmail})
		return
	}

	entry := model.WaitlistEntry{
		Email:          request.Email,
		RestaurantName: strings.TrimSpace(request.RestaurantName),
		ContactName:    strings.TrimSpace(request.ContactName),
		Phone:          strings.TrimSpace(request.Phone),
	}
	if createErr := handlers.database.Create(&entry).Error; createErr != nil {
		handlers.logger.Warn("waitlist_signup", zap.Error(createErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	context.JSON(http.StatusOK, entry)
}

// List returns waitlist entries newest first.
func (handlers *WaitlistHandlers) List(context *gin.Context) {
	entries := make([]model.WaitlistEntry, 0)
	if queryErr := handlers.database.
		Order("created_at DESC").
		Scopes(paginated(context)).
		Find(&entries).Error; queryErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, entries)
}
