package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/auth"
	"github.com/tablepulse/tablepulse/internal/model"
	"github.com/tablepulse/tablepulse/internal/storage"
	"github.com/tablepulse/tablepulse/internal/testutil"
)

const (
	testTokenSecret   = "test-token-secret"
	testOwnerEmail    = "owner@example.com"
	testOwnerPassword = "owner-password"
)

func openTestDatabase(testingT *testing.T) *gorm.DB {
	testingT.Helper()

	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	require.NoError(testingT, storage.AutoMigrate(database))
	return testutil.ConfigureDatabaseLogger(testingT, database)
}

func insertOwner(testingT *testing.T, database *gorm.DB, isActive bool) model.User {
	testingT.Helper()

	hashedPassword, hashErr := auth.HashPassword(testOwnerPassword)
	require.NoError(testingT, hashErr)

	restaurantID := uint(7)
	owner := model.User{
		Email:          testOwnerEmail,
		HashedPassword: hashedPassword,
		Role:           model.RoleRestaurantOwner,
		IsActive:       isActive,
		RestaurantID:   &restaurantID,
	}
	require.NoError(testingT, database.Create(&owner).Error)
	return owner
}

func TestHashAndCheckPassword(testingT *testing.T) {
	hashedPassword, hashErr := auth.HashPassword("secret-phrase")
	require.NoError(testingT, hashErr)
	require.NotEqual(testingT, "secret-phrase", hashedPassword)

	require.True(testingT, auth.CheckPassword(hashedPassword, "secret-phrase"))
	require.False(testingT, auth.CheckPassword(hashedPassword, "wrong-phrase"))
}

func TestAuthenticateUserAcceptsValidCredentials(testingT *testing.T) {
	database := openTestDatabase(testingT)
	insertOwner(testingT, database, true)

	user, authErr := auth.AuthenticateUser(database, "  OWNER@example.com ", testOwnerPassword)
	require.NoError(testingT, authErr)
	require.Equal(testingT, testOwnerEmail, user.Email)
}

func TestAuthenticateUserRejectsUniformly(testingT *testing.T) {
	database := openTestDatabase(testingT)
	insertOwner(testingT, database, false)

	_, unknownErr := auth.AuthenticateUser(database, "nobody@example.com", testOwnerPassword)
	require.ErrorIs(testingT, unknownErr, auth.ErrInvalidCredentials)

	_, wrongPasswordErr := auth.AuthenticateUser(database, testOwnerEmail, "wrong-password")
	require.ErrorIs(testingT, wrongPasswordErr, auth.ErrInvalidCredentials)

	_, inactiveErr := auth.AuthenticateUser(database, testOwnerEmail, testOwnerPassword)
	require.ErrorIs(testingT, inactiveErr, auth.ErrInvalidCredentials)
}

func TestIssueAndParseTokenRoundTrip(testingT *testing.T) {
	restaurantID := uint(7)
	token, issueErr := auth.IssueToken(testTokenSecret, auth.Claims{
		Email:        testOwnerEmail,
		Role:         model.RoleRestaurantOwner,
		RestaurantID: &restaurantID,
	}, time.Minute)
	require.NoError(testingT, issueErr)

	claims, parseErr := auth.ParseToken(testTokenSecret, token)
	require.NoError(testingT, parseErr)
	require.Equal(testingT, testOwnerEmail, claims.Email)
	require.Equal(testingT, model.RoleRestaurantOwner, claims.Role)
	require.NotNil(testingT, claims.RestaurantID)
	require.Equal(testingT, restaurantID, *claims.RestaurantID)
}

func TestParseTokenRejectsWrongSecret(testingT *testing.T) {
	token, issueErr := auth.IssueToken(testTokenSecret, auth.Claims{Email: testOwnerEmail}, time.Minute)
	require.NoError(testingT, issueErr)

	_, parseErr := auth.ParseToken("another-secret", token)
	require.ErrorIs(testingT, parseErr, auth.ErrInvalidToken)
}

func TestParseTokenRejectsExpiredToken(testingT *testing.T) {
	token, issueErr := auth.IssueToken(testTokenSecret, auth.Claims{Email: testOwnerEmail}, -time.Minute)
	require.NoError(testingT, issueErr)

	_, parseErr := auth.ParseToken(testTokenSecret, token)
	require.ErrorIs(testingT, parseErr, auth.ErrInvalidToken)
}

func TestIssueTokenRequiresSecret(testingT *testing.T) {
	_, issueErr := auth.IssueToken("", auth.Claims{Email: testOwnerEmail}, time.Minute)
	require.ErrorIs(testingT, issueErr, auth.ErrMissingTokenSecret)
}

func buildGuardedRouter(database *gorm.DB, allowedRoles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded", auth.RequireRole(database, testTokenSecret, allowedRoles...), func(context *gin.Context) {
		currentUser, _ := auth.CurrentUserFromContext(context)
		context.JSON(http.StatusOK, gin.H{"email": currentUser.Email})
	})
	return router
}

func performGuardedRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestRequireRoleRejectsMissingBearer(testingT *testing.T) {
	database := openTestDatabase(testingT)
	router := buildGuardedRouter(database)

	recorder := performGuardedRequest(router, "")
	require.Equal(testingT, http.StatusUnauthorized, recorder.Code)
}

func TestRequireRoleRejectsGarbageToken(testingT *testing.T) {
	database := openTestDatabase(testingT)
	router := buildGuardedRouter(database)

	recorder := performGuardedRequest(router, "not-a-token")
	require.Equal(testingT, http.StatusUnauthorized, recorder.Code)
}

func TestRequireRoleRejectsInactiveAccount(testingT *testing.T) {
	database := openTestDatabase(testingT)
	insertOwner(testingT, database, false)
	router := buildGuardedRouter(database)

	token, issueErr := auth.IssueToken(testTokenSecret, auth.Claims{Email: testOwnerEmail, Role: model.RoleRestaurantOwner}, time.Minute)
	require.NoError(testingT, issueErr)

	recorder := performGuardedRequest(router, token)
	require.Equal(testingT, http.StatusUnauthorized, recorder.Code)
}

func TestRequireRoleForbidsWrongRole(testingT *testing.T) {
	database := openTestDatabase(testingT)
	insertOwner(testingT, database, true)
	router := buildGuardedRouter(database, model.RoleAdmin)

	token, issueErr := auth.IssueToken(testTokenSecret, auth.Claims{Email: testOwnerEmail, Role: model.RoleRestaurantOwner}, time.Minute)
	require.NoError(testingT, issueErr)

	recorder := performGuardedRequest(router, token)
	require.Equal(testingT, http.StatusForbidden, recorder.Code)
}

func TestRequireRoleAdmitsAllowedRole(testingT *testing.T) {
	database := openTestDatabase(testingT)
	insertOwner(testingT, database, true)
	router := buildGuardedRouter(database, model.RoleRestaurantOwner, model.RoleAdmin)

	token, issueErr := auth.IssueToken(testTokenSecret, auth.Claims{Email: testOwnerEmail, Role: model.RoleRestaurantOwner}, time.Minute)
	require.NoError(testingT, issueErr)

	recorder := performGuardedRequest(router, token)
	require.Equal(testingT, http.StatusOK, recorder.Code)
}
