package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/auth"
	"github.com/tablepulse/tablepulse/internal/storage"
)

const (
	commandUseName              = "server"
	commandShortDescription     = "Run the restaurant feedback server"
	commandLongDescription      = "Launch the multi-tenant restaurant feedback HTTP server"
	missingConfigurationMessage = "missing required configuration"
	loggerCreationErrorMessage  = "logger"
	logEventListening           = "listening"
	logFieldAddress             = "addr"

	flagNameApplicationAddress     = "app-addr"
	flagNameDatabaseDriverName     = "db-driver"
	flagNameDatabaseDataSourceName = "db-dsn"
	flagNameTokenSecret            = "jwt-secret"
	flagNamePublicBaseURL          = "public-base-url"
	flagNameCORSOrigins            = "cors-origins"
	flagNameSeedAdminEmail         = "seed-admin-email"
	flagNameSeedAdminPassword      = "seed-admin-password"

	flagUsageApplicationAddress     = "address for the HTTP server to listen on"
	flagUsageDatabaseDriverName     = "database driver: sqlite or postgres"
	flagUsageDatabaseDataSourceName = "database connection string"
	flagUsageTokenSecret            = "secret for signing bearer tokens"
	flagUsagePublicBaseURL          = "public origin feedback-entry URLs are built from"
	flagUsageCORSOrigins            = "comma-separated list of allowed CORS origins, * for any"
	flagUsageSeedAdminEmail         = "email for the seeded platform admin account"
	flagUsageSeedAdminPassword      = "password for the seeded platform admin account"

	environmentKeyApplicationAddress = "APP_ADDR"
	environmentKeyDatabaseDriver     = "DB_DRIVER"
	environmentKeyDatabaseDataSource = "DB_DSN"
	environmentKeyTokenSecret        = "JWT_SECRET"
	environmentKeyPublicBaseURL      = "PUBLIC_BASE_URL"
	environmentKeyCORSOrigins        = "CORS_ORIGINS"
	environmentKeySeedAdminEmail     = "SEED_ADMIN_EMAIL"
	environmentKeySeedAdminPassword  = "SEED_ADMIN_PASSWORD"

	defaultApplicationAddress = ":8080"
	defaultDatabaseDriverName = storage.DriverNameSQLite
	defaultPublicBaseURL      = "http://localhost:3000"
	defaultCORSOrigins        = "*"

	loggerContextOpenDatabase = "open_db"
	loggerContextAutoMigrate  = "migrate"
	loggerContextSeedAdmin    = "seed_admin"
	loggerContextServer       = "server"

	readHeaderTimeoutSeconds      = 5
	unexpectedArgumentsMessage    = "unexpected command arguments"
	commandInitializationFailure  = "failed to configure command"
	flagNotDefinedMessage         = "flag %s not defined"
	environmentConfigurationError = "failed to apply environment configuration"
)

// ServerConfig captures configuration needed to run the server.
type ServerConfig struct {
	ApplicationAddress     string
	DatabaseDriverName     string
	DatabaseDataSourceName string
	TokenSecret            string
	PublicBaseURL          string
	CORSOrigins            []string
	SeedAdminEmail         string
	SeedAdminPassword      string
}

// DatabaseOpener opens a database connection using the provided configuration.
type DatabaseOpener func(storage.Config) (*gorm.DB, error)

// ServerApplication constructs and executes the server command.
type ServerApplication struct {
	configurationLoader *viper.Viper
	databaseOpener      DatabaseOpener
}

// NewServerApplication creates a ServerApplication with default dependencies.
func NewServerApplication() *ServerApplication {
	return &ServerApplication{
		configurationLoader: viper.New(),
		databaseOpener:      storage.OpenDatabase,
	}
}

// WithDatabaseOpener overrides the database opener dependency.
func (application *ServerApplication) WithDatabaseOpener(databaseOpener DatabaseOpener) *ServerApplication {
	application.databaseOpener = databaseOpener
	return application
}

// Command builds the Cobra command for the server.
func (application *ServerApplication) Command() (*cobra.Command, error) {
	rootCommand := &cobra.Command{
		Use:   commandUseName,
		Short: commandShortDescription,
		Long:  commandLongDescription,
		RunE:  application.runCommand,
	}

	if configurationErr := application.configureCommand(rootCommand); configurationErr != nil {
		return nil, configurationErr
	}

	return rootCommand, nil
}

type flagBinding struct {
	environmentKey string
	flagName       string
	defaultValue   string
	usage          string
}

func (application *ServerApplication) flagBindings() []flagBinding {
	return []flagBinding{
		{environmentKeyApplicationAddress, flagNameApplicationAddress, defaultApplicationAddress, flagUsageApplicationAddress},
		{environmentKeyDatabaseDriver, flagNameDatabaseDriverName, defaultDatabaseDriverName, flagUsageDatabaseDriverName},
		{environmentKeyDatabaseDataSource, flagNameDatabaseDataSourceName, "", flagUsageDatabaseDataSourceName},
		{environmentKeyTokenSecret, flagNameTokenSecret, "", flagUsageTokenSecret},
		{environmentKeyPublicBaseURL, flagNamePublicBaseURL, defaultPublicBaseURL, flagUsagePublicBaseURL},
		{environmentKeyCORSOrigins, flagNameCORSOrigins, defaultCORSOrigins, flagUsageCORSOrigins},
		{environmentKeySeedAdminEmail, flagNameSeedAdminEmail, "", flagUsageSeedAdminEmail},
		{environmentKeySeedAdminPassword, flagNameSeedAdminPassword, "", flagUsageSeedAdminPassword},
	}
}

func (application *ServerApplication) configureCommand(command *cobra.Command) error {
	application.configurationLoader.AutomaticEnv()

	commandFlags := command.Flags()
	for _, binding := range application.flagBindings() {
		application.configurationLoader.SetDefault(binding.environmentKey, binding.defaultValue)
		commandFlags.String(binding.flagName, binding.defaultValue, binding.usage)

		if bindErr := application.bindFlag(commandFlags, binding.environmentKey, binding.flagName); bindErr != nil {
			return bindErr
		}
		if environmentErr := application.applyEnvironmentConfiguration(commandFlags, binding.environmentKey, binding.flagName); environmentErr != nil {
			return environmentErr
		}
	}

	if markErr := command.MarkFlagRequired(flagNameDatabaseDataSourceName); markErr != nil {
		return markErr
	}
	if markErr := command.MarkFlagRequired(flagNameTokenSecret); markErr != nil {
		return markErr
	}

	return nil
}

func (application *ServerApplication) bindFlag(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}

	if bindErr := application.configurationLoader.BindPFlag(environmentKey, flag); bindErr != nil {
		return bindErr
	}

	return nil
}

func (application *ServerApplication) applyEnvironmentConfiguration(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	environmentValue, environmentFound := os.LookupEnv(environmentKey)
	if !environmentFound {
		return nil
	}

	if setErr := flagSet.Set(flagName, environmentValue); setErr != nil {
		return fmt.Errorf("%s: %w", environmentConfigurationError, setErr)
	}

	return nil
}

func (application *ServerApplication) loadServerConfig() ServerConfig {
	return ServerConfig{
		ApplicationAddress:     application.configurationLoader.GetString(environmentKeyApplicationAddress),
		DatabaseDriverName:     strings.TrimSpace(application.configurationLoader.GetString(environmentKeyDatabaseDriver)),
		DatabaseDataSourceName: strings.TrimSpace(application.configurationLoader.GetString(environmentKeyDatabaseDataSource)),
		TokenSecret:            strings.TrimSpace(application.configurationLoader.GetString(environmentKeyTokenSecret)),
		PublicBaseURL:          strings.TrimSpace(application.configurationLoader.GetString(environmentKeyPublicBaseURL)),
		CORSOrigins:            splitCORSOrigins(application.configurationLoader.GetString(environmentKeyCORSOrigins)),
		SeedAdminEmail:         strings.TrimSpace(application.configurationLoader.GetString(environmentKeySeedAdminEmail)),
		SeedAdminPassword:      strings.TrimSpace(application.configurationLoader.GetString(environmentKeySeedAdminPassword)),
	}
}

func splitCORSOrigins(rawOrigins string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(rawOrigins, ",") {
		trimmedOrigin := strings.TrimSpace(origin)
		if trimmedOrigin != "" {
			origins = append(origins, trimmedOrigin)
		}
	}
	if len(origins) == 0 {
		origins = append(origins, defaultCORSOrigins)
	}
	return origins
}

func (application *ServerApplication) runCommand(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf("%s: %s", unexpectedArgumentsMessage, strings.Join(arguments, " "))
	}

	serverConfig := application.loadServerConfig()

	if validationErr := application.ensureRequiredConfiguration(serverConfig); validationErr != nil {
		return validationErr
	}

	logger, loggerErr := zap.NewProduction()
	if loggerErr != nil {
		return fmt.Errorf("%s: %w", loggerCreationErrorMessage, loggerErr)
	}
	defer func() {
		_ = logger.Sync()
	}()

	database, databaseErr := application.databaseOpener(storage.Config{
		DriverName:     serverConfig.DatabaseDriverName,
		DataSourceName: serverConfig.DatabaseDataSourceName,
	})
	if databaseErr != nil {
		logger.Fatal(loggerContextOpenDatabase, zap.Error(databaseErr))
	}

	if migrateErr := storage.AutoMigrate(database); migrateErr != nil {
		logger.Fatal(loggerContextAutoMigrate, zap.Error(migrateErr))
	}

	if serverConfig.SeedAdminEmail != "" || serverConfig.SeedAdminPassword != "" {
		if seedErr := storage.SeedAdmin(database, serverConfig.SeedAdminEmail, serverConfig.SeedAdminPassword); seedErr != nil {
			logger.Fatal(loggerContextSeedAdmin, zap.Error(seedErr))
		}
	}

	router := buildRouter(database, logger, routerConfig{
		TokenSecret:   serverConfig.TokenSecret,
		TokenTTL:      auth.DefaultTokenTTL,
		PublicBaseURL: serverConfig.PublicBaseURL,
		CORSOrigins:   serverConfig.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:              serverConfig.ApplicationAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeoutSeconds * time.Second,
	}

	logger.Info(logEventListening, zap.String(logFieldAddress, serverConfig.ApplicationAddress))
	if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		logger.Fatal(loggerContextServer, zap.Error(serveErr))
	}

	return nil
}

func (application *ServerApplication) ensureRequiredConfiguration(configuration ServerConfig) error {
	var missingParameters []string

	if configuration.DatabaseDataSourceName == "" {
		missingParameters = append(missingParameters, flagNameDatabaseDataSourceName)
	}
	if configuration.TokenSecret == "" {
		missingParameters = append(missingParameters, flagNameTokenSecret)
	}

	if len(missingParameters) == 0 {
		return nil
	}

	return fmt.Errorf("%s: %s", missingConfigurationMessage, strings.Join(missingParameters, ", "))
}

func main() {
	application := NewServerApplication()
	rootCommand, commandErr := application.Command()
	if commandErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandInitializationFailure, commandErr)
		os.Exit(1)
	}

	if executeErr := rootCommand.Execute(); executeErr != nil {
		os.Exit(1)
	}
}
