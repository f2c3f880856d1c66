package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/model"
)

const (
	bearerSchemePrefix = "Bearer "

	jsonKeyError = "error"

	errorValueMissingBearer   = "missing_bearer"
	errorValueInvalidToken    = "invalid_token"
	errorValueInactiveAccount = "inactive_account"
	errorValueForbiddenRole   = "forbidden"

	contextKeyCurrentUser = "tablepulse_current_user"
)

// ErrMissingCurrentUser reports that no authenticated user is attached to the request context.
var ErrMissingCurrentUser = errors.New("auth: missing current user")

// CurrentUserFromContext returns the authenticated user stored by RequireRole.
func CurrentUserFromContext(context *gin.Context) (*model.User, bool) {
	storedValue, exists := context.Get(contextKeyCurrentUser)
	if !exists {
		return nil, false
	}
	currentUser, isUser := storedValue.(*model.User)
	if !isUser {
		return nil, false
	}
	return currentUser, true
}

// RequireRole authenticates the bearer token, loads the account and gates the
// request on role. With no roles listed any active account passes. Token
// problems are 401; a valid token with the wrong role is 403.
func RequireRole(database *gorm.DB, tokenSecret string, allowedRoles ...string) gin.HandlerFunc {
	return func(context *gin.Context) {
		authorizationHeader := strings.TrimSpace(context.GetHeader("Authorization"))
		if !strings.HasPrefix(authorizationHeader, bearerSchemePrefix) {
			context.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueMissingBearer})
			return
		}

		tokenString := strings.TrimPrefix(authorizationHeader, bearerSchemePrefix)
		claims, parseErr := ParseToken(tokenSecret, tokenString)
		if parseErr != nil {
			context.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueInvalidToken})
			return
		}

		var currentUser model.User
		if lookupErr := database.First(&currentUser, "email = ?", claims.Email).Error; lookupErr != nil {
			context.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueInvalidToken})
			return
		}
		if !currentUser.IsActive {
			context.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{jsonKeyError: errorValueInactiveAccount})
			return
		}

		if len(allowedRoles) > 0 && !roleAllowed(currentUser.Role, allowedRoles) {
			context.AbortWithStatusJSON(http.StatusForbidden, gin.H{jsonKeyError: errorValueForbiddenRole})
			return
		}

		context.Set(contextKeyCurrentUser, &currentUser)
		context.Next()
	}
}

func roleAllowed(role string, allowedRoles []string) bool {
	for _, allowedRole := range allowedRoles {
		if role == allowedRole {
			return true
		}
	}
	return false
}
