package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/auth"
	"github.com/tablepulse/tablepulse/internal/httpapi"
	"github.com/tablepulse/tablepulse/internal/model"
	"github.com/tablepulse/tablepulse/internal/storage"
	"github.com/tablepulse/tablepulse/internal/testutil"
)

const (
	testTokenSecret    = "test-token-secret"
	testPublicBaseURL  = "https://feedback.example.com"
	testOwnerEmail     = "owner@example.com"
	testOwnerPassword  = "owner-password"
	testAdminEmail     = "admin@example.com"
	testAdminPassword  = "admin-password"
)

type apiTestHarness struct {
	router   *gin.Engine
	database *gorm.DB
}

func buildAPIHarness(testingT *testing.T) apiTestHarness {
	testingT.Helper()

	gin.SetMode(gin.TestMode)
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	require.NoError(testingT, storage.AutoMigrate(database))
	database = testutil.ConfigureDatabaseLogger(testingT, database)

	logger := zap.NewNop()
	customerHandlers := httpapi.NewCustomerHandlers(database, logger)
	ownerHandlers := httpapi.NewOwnerHandlers(database, logger, testTokenSecret, time.Minute)
	adminHandlers := httpapi.NewAdminHandlers(database, logger, testTokenSecret, time.Minute, testPublicBaseURL)
	waitlistHandlers := httpapi.NewWaitlistHandlers(database, logger)

	router := gin.New()

	router.GET("/api/restaurants/:id", customerHandlers.RestaurantDetails)
	router.GET("/api/restaurants/by-subdomain/:slug", customerHandlers.RestaurantBySubdomain)
	router.GET("/api/restaurants/:id/platforms", customerHandlers.ListPlatforms)
	router.GET("/api/restaurants/:id/feedbacks", customerHandlers.ListFeedbacks)
	router.GET("/api/restaurants/:id/complaints", customerHandlers.ListComplaints)
	router.GET("/api/restaurants/:id/analytics", customerHandlers.Analytics)
	router.GET("/api/restaurants/:id/star-click-stats", customerHandlers.StarClickStats)
	router.POST("/api/restaurants/:id/star-click", customerHandlers.TrackStarClick)
	router.POST("/api/feedbacks", customerHandlers.CreateFeedback)
	router.POST("/api/complaints", customerHandlers.CreateComplaint)
	router.POST("/api/waitlist", waitlistHandlers.Join)
	router.POST("/api/restaurant/login", ownerHandlers.Login)
	router.POST("/api/admin/login", adminHandlers.Login)
	router.POST("/api/token", adminHandlers.TokenFallback)

	ownerGroup := router.Group("/api/restaurant")
	ownerGroup.Use(auth.RequireRole(database, testTokenSecret, model.RoleRestaurantOwner, model.RoleAdmin))
	ownerGroup.GET("/me", ownerHandlers.CurrentUser)
	ownerGroup.GET("/dashboard", ownerHandlers.Dashboard)
	ownerGroup.PATCH("/settings", ownerHandlers.UpdateSettings)
	ownerGroup.GET("/platforms", ownerHandlers.ListOwnPlatforms)
	ownerGroup.POST("/platforms", ownerHandlers.CreatePlatform)
	ownerGroup.PATCH("/platforms/:platformID", ownerHandlers.UpdatePlatform)
	ownerGroup.DELETE("/platforms/:platformID", ownerHandlers.DeletePlatform)
	ownerGroup.GET("/feedbacks", ownerHandlers.ListFeedbacks)
	ownerGroup.DELETE("/feedbacks/:feedbackID", ownerHandlers.DeleteFeedback)
	ownerGroup.GET("/complaints", ownerHandlers.ListComplaints)
	ownerGroup.DELETE("/complaints/:complaintID", ownerHandlers.DeleteComplaint)

	adminGroup := router.Group("/api/admin")
	adminGroup.Use(auth.RequireRole(database, testTokenSecret, model.RoleAdmin))
	adminGroup.GET("/me", adminHandlers.CurrentUser)
	adminGroup.GET("/restaurants", adminHandlers.ListRestaurants)
	adminGroup.POST("/restaurants", adminHandlers.CreateRestaurant)
	adminGroup.GET("/restaurants/:id", adminHandlers.GetRestaurant)
	adminGroup.PATCH("/restaurants/:id", adminHandlers.UpdateRestaurant)
	adminGroup.DELETE("/restaurants/:id", adminHandlers.DeleteRestaurant)
	adminGroup.POST("/qrcode", adminHandlers.CreateQRCode)
	adminGroup.GET("/qrcode", adminHandlers.ListQRCodes)
	adminGroup.GET("/waitlist", waitlistHandlers.List)

	return apiTestHarness{router: router, database: database}
}

func performJSONRequest(testingT *testing.T, router *gin.Engine, method string, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	testingT.Helper()

	var requestBody io.Reader
	if body != nil {
		encoded, encodeErr := json.Marshal(body)
		require.NoError(testingT, encodeErr)
		requestBody = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, requestBody)
	for name, value := range headers {
		request.Header.Set(name, value)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func bearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeJSONBody(testingT *testing.T, recorder *httptest.ResponseRecorder, target any) {
	testingT.Helper()
	require.NoError(testingT, json.Unmarshal(recorder.Body.Bytes(), target))
}

func insertRestaurant(testingT *testing.T, database *gorm.DB, name string, subdomain string) model.Restaurant {
	testingT.Helper()

	restaurant := model.Restaurant{Name: name, Subdomain: subdomain}
	require.NoError(testingT, database.Create(&restaurant).Error)
	return restaurant
}

func insertOwner(testingT *testing.T, database *gorm.DB, email string, restaurantID uint) model.User {
	testingT.Helper()

	hashedPassword, hashErr := auth.HashPassword(testOwnerPassword)
	require.NoError(testingT, hashErr)

	owner := model.User{
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           model.RoleRestaurantOwner,
		IsActive:       true,
		RestaurantID:   &restaurantID,
	}
	require.NoError(testingT, database.Create(&owner).Error)
	return owner
}

func insertAdmin(testingT *testing.T, database *gorm.DB) model.User {
	testingT.Helper()

	hashedPassword, hashErr := auth.HashPassword(testAdminPassword)
	require.NoError(testingT, hashErr)

	admin := model.User{
		Email:          testAdminEmail,
		HashedPassword: hashedPassword,
		Role:           model.RoleAdmin,
		IsActive:       true,
	}
	require.NoError(testingT, database.Create(&admin).Error)
	return admin
}

func loginForToken(testingT *testing.T, harness apiTestHarness, loginPath string, email string, password string) string {
	testingT.Helper()

	recorder := performJSONRequest(testingT, harness.router, http.MethodPost, loginPath, map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(testingT, http.StatusOK, recorder.Code)

	var responseBody struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeJSONBody(testingT, recorder, &responseBody)
	require.Equal(testingT, "bearer", responseBody.TokenType)
	require.NotEmpty(testingT, responseBody.AccessToken)
	return responseBody.AccessToken
}

func validSubmission(restaurantID uint, food int, service int, atmosphere int, comment string) map[string]any {
	return map[string]any{
		"name":              "Ayşe Yılmaz",
		"email":             "ayse@example.com",
		"phone":             "+905551234567",
		"food_rating":       food,
		"service_rating":    service,
		"atmosphere_rating": atmosphere,
		"comment":           comment,
		"restaurant_id":     restaurantID,
	}
}
