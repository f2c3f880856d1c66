package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tablepulse/tablepulse/internal/auth"
	"github.com/tablepulse/tablepulse/internal/storage"
	"github.com/tablepulse/tablepulse/internal/testutil"
)

func TestCommandBuildsWithDefaults(testingT *testing.T) {
	application := NewServerApplication()
	command, commandErr := application.Command()
	require.NoError(testingT, commandErr)

	addressFlag := command.Flags().Lookup(flagNameApplicationAddress)
	require.NotNil(testingT, addressFlag)
	require.Equal(testingT, defaultApplicationAddress, addressFlag.DefValue)

	driverFlag := command.Flags().Lookup(flagNameDatabaseDriverName)
	require.NotNil(testingT, driverFlag)
	require.Equal(testingT, storage.DriverNameSQLite, driverFlag.DefValue)
}

func TestEnvironmentOverridesFlagDefaults(testingT *testing.T) {
	testingT.Setenv(environmentKeyApplicationAddress, ":9999")
	testingT.Setenv(environmentKeyDatabaseDriver, storage.DriverNamePostgres)

	application := NewServerApplication()
	command, commandErr := application.Command()
	require.NoError(testingT, commandErr)

	addressFlag := command.Flags().Lookup(flagNameApplicationAddress)
	require.Equal(testingT, ":9999", addressFlag.Value.String())

	driverFlag := command.Flags().Lookup(flagNameDatabaseDriverName)
	require.Equal(testingT, storage.DriverNamePostgres, driverFlag.Value.String())
}

func TestEnsureRequiredConfigurationListsMissingFlags(testingT *testing.T) {
	application := NewServerApplication()

	validationErr := application.ensureRequiredConfiguration(ServerConfig{})
	require.Error(testingT, validationErr)
	require.True(testingT, strings.Contains(validationErr.Error(), flagNameDatabaseDataSourceName))
	require.True(testingT, strings.Contains(validationErr.Error(), flagNameTokenSecret))

	require.NoError(testingT, application.ensureRequiredConfiguration(ServerConfig{
		DatabaseDataSourceName: "file:test?mode=memory",
		TokenSecret:            "secret",
	}))
}

func TestSplitCORSOrigins(testingT *testing.T) {
	require.Equal(testingT, []string{"*"}, splitCORSOrigins("*"))
	require.Equal(testingT, []string{"https://a.example", "https://b.example"}, splitCORSOrigins(" https://a.example, https://b.example "))
	require.Equal(testingT, []string{"*"}, splitCORSOrigins(""))
}

func TestBuildRouterServesPublicAndGuardedRoutes(testingT *testing.T) {
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	require.NoError(testingT, storage.AutoMigrate(database))

	router := buildRouter(database, zap.NewNop(), routerConfig{
		TokenSecret:   "test-secret",
		TokenTTL:      auth.DefaultTokenTTL,
		PublicBaseURL: "https://feedback.example.com",
		CORSOrigins:   []string{"*"},
	})

	publicRecorder := httptest.NewRecorder()
	router.ServeHTTP(publicRecorder, httptest.NewRequest(http.MethodGet, "/api/restaurants/999", nil))
	require.Equal(testingT, http.StatusNotFound, publicRecorder.Code)
	require.Contains(testingT, publicRecorder.Body.String(), "restaurant_not_found")

	guardedRecorder := httptest.NewRecorder()
	router.ServeHTTP(guardedRecorder, httptest.NewRequest(http.MethodGet, "/api/admin/restaurants", nil))
	require.Equal(testingT, http.StatusUnauthorized, guardedRecorder.Code)
}

func TestBuildRouterEmitsRequestIDHeader(testingT *testing.T) {
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	require.NoError(testingT, storage.AutoMigrate(database))

	router := buildRouter(database, zap.NewNop(), routerConfig{
		TokenSecret: "test-secret",
		TokenTTL:    time.Minute,
		CORSOrigins: []string{"*"},
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/restaurants/999", nil))
	require.NotEmpty(testingT, recorder.Header().Get("X-Request-Id"))
}
