package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/auth"
	"github.com/tablepulse/tablepulse/internal/httpapi"
	"github.com/tablepulse/tablepulse/internal/model"
)

const (
	corsHeaderAuthorization = "Authorization"
	corsHeaderContentType   = "Content-Type"

	httpMethodGet     = "GET"
	httpMethodPost    = "POST"
	httpMethodPatch   = "PATCH"
	httpMethodDelete  = "DELETE"
	httpMethodOptions = "OPTIONS"
)

var (
	corsAllowedMethods = []string{httpMethodGet, httpMethodPost, httpMethodPatch, httpMethodDelete, httpMethodOptions}
	corsAllowedHeaders = []string{corsHeaderAuthorization, corsHeaderContentType}
	corsExposedHeaders = []string{corsHeaderContentType}
)

type routerConfig struct {
	TokenSecret   string
	TokenTTL      time.Duration
	PublicBaseURL string
	CORSOrigins   []string
}

func buildRouter(database *gorm.DB, logger *zap.Logger, configuration routerConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestID())
	router.Use(httpapi.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     configuration.CORSOrigins,
		AllowMethods:     corsAllowedMethods,
		AllowHeaders:     corsAllowedHeaders,
		ExposeHeaders:    corsExposedHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	customerHandlers := httpapi.NewCustomerHandlers(database, logger)
	ownerHandlers := httpapi.NewOwnerHandlers(database, logger, configuration.TokenSecret, configuration.TokenTTL)
	adminHandlers := httpapi.NewAdminHandlers(database, logger, configuration.TokenSecret, configuration.TokenTTL, configuration.PublicBaseURL)
	waitlistHandlers := httpapi.NewWaitlistHandlers(database, logger)

	registerPublicRoutes(router, customerHandlers, ownerHandlers, adminHandlers, waitlistHandlers)
	registerOwnerRoutes(router, database, ownerHandlers, configuration.TokenSecret)
	registerAdminRoutes(router, database, adminHandlers, waitlistHandlers, configuration.TokenSecret)

	return router
}

func registerPublicRoutes(
	router *gin.Engine,
	customerHandlers *httpapi.CustomerHandlers,
	ownerHandlers *httpapi.OwnerHandlers,
	adminHandlers *httpapi.AdminHandlers,
	waitlistHandlers *httpapi.WaitlistHandlers,
) {
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
}

func registerOwnerRoutes(router *gin.Engine, database *gorm.DB, ownerHandlers *httpapi.OwnerHandlers, tokenSecret string) {
	ownerGroup := router.Group("/api/restaurant")
	ownerGroup.Use(auth.RequireRole(database, tokenSecret, model.RoleRestaurantOwner, model.RoleAdmin))
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
}

func registerAdminRoutes(
	router *gin.Engine,
	database *gorm.DB,
	adminHandlers *httpapi.AdminHandlers,
	waitlistHandlers *httpapi.WaitlistHandlers,
	tokenSecret string,
) {
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(auth.RequireRole(database, tokenSecret, model.RoleAdmin))
	adminGroup.GET("/me", adminHandlers.CurrentUser)
	adminGroup.GET("/restaurants", adminHandlers.ListRestaurants)
	adminGroup.POST("/restaurants", adminHandlers.CreateRestaurant)
	adminGroup.GET("/restaurants/:id", adminHandlers.GetRestaurant)
	adminGroup.PATCH("/restaurants/:id", adminHandlers.UpdateRestaurant)
	adminGroup.DELETE("/restaurants/:id", adminHandlers.DeleteRestaurant)
	adminGroup.POST("/qrcode", adminHandlers.CreateQRCode)
	adminGroup.GET("/qrcode", adminHandlers.ListQRCodes)
	adminGroup.GET("/waitlist", waitlistHandlers.List)
}
