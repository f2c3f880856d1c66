package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tablepulse/tablepulse/internal/auth"
	"github.com/tablepulse/tablepulse/internal/model"
	"github.com/tablepulse/tablepulse/internal/storage"
	"github.com/tablepulse/tablepulse/internal/testutil"
)

func TestOpenDatabaseRequiresDriverName(testingT *testing.T) {
	_, openErr := storage.OpenDatabase(storage.Config{DataSourceName: "file:test?mode=memory"})
	require.ErrorIs(testingT, openErr, storage.ErrMissingDatabaseDriverName)
}

func TestOpenDatabaseRejectsUnknownDriver(testingT *testing.T) {
	_, openErr := storage.OpenDatabase(storage.Config{DriverName: "oracle", DataSourceName: "dsn"})
	require.ErrorIs(testingT, openErr, storage.ErrUnsupportedDatabaseDriver)
}

func TestOpenDatabaseRequiresDataSourceName(testingT *testing.T) {
	_, openErr := storage.OpenDatabase(storage.Config{DriverName: storage.DriverNameSQLite})
	require.ErrorIs(testingT, openErr, storage.ErrMissingDataSourceName)
}

func TestAutoMigrateCreatesAllTables(testingT *testing.T) {
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	require.NoError(testingT, storage.AutoMigrate(database))

	migrator := database.Migrator()
	require.True(testingT, migrator.HasTable(&model.User{}))
	require.True(testingT, migrator.HasTable(&model.Restaurant{}))
	require.True(testingT, migrator.HasTable(&model.Feedback{}))
	require.True(testingT, migrator.HasTable(&model.Complaint{}))
	require.True(testingT, migrator.HasTable(&model.Platform{}))
	require.True(testingT, migrator.HasTable(&model.StarClick{}))
	require.True(testingT, migrator.HasTable(&model.StarClickStat{}))
	require.True(testingT, migrator.HasTable("waitlist"))
}

func TestSeedAdminCreatesActiveAdmin(testingT *testing.T) {
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	require.NoError(testingT, storage.AutoMigrate(database))

	require.NoError(testingT, storage.SeedAdmin(database, "Admin@Example.com", "admin-password"))

	var admin model.User
	require.NoError(testingT, database.First(&admin, "email = ?", "admin@example.com").Error)
	require.Equal(testingT, model.RoleAdmin, admin.Role)
	require.True(testingT, admin.IsActive)
	require.True(testingT, auth.CheckPassword(admin.HashedPassword, "admin-password"))
}

func TestSeedAdminIsIdempotent(testingT *testing.T) {
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	require.NoError(testingT, storage.AutoMigrate(database))

	require.NoError(testingT, storage.SeedAdmin(database, "admin@example.com", "first-password"))
	require.NoError(testingT, storage.SeedAdmin(database, "admin@example.com", "second-password"))

	var adminCount int64
	require.NoError(testingT, database.Model(&model.User{}).Where("email = ?", "admin@example.com").Count(&adminCount).Error)
	require.Equal(testingT, int64(1), adminCount)

	var admin model.User
	require.NoError(testingT, database.First(&admin, "email = ?", "admin@example.com").Error)
	require.True(testingT, auth.CheckPassword(admin.HashedPassword, "first-password"))
}

func TestSeedAdminRequiresCredentials(testingT *testing.T) {
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	require.NoError(testingT, storage.AutoMigrate(database))

	require.ErrorIs(testingT, storage.SeedAdmin(database, "", "password"), storage.ErrMissingSeedCredentials)
	require.ErrorIs(testingT, storage.SeedAdmin(database, "admin@example.com", ""), storage.ErrMissingSeedCredentials)
}

func TestNewIDGeneratesUniqueIdentifiers(testingT *testing.T) {
	firstID := storage.NewID()
	secondID := storage.NewID()
	require.NotEmpty(testingT, firstID)
	require.NotEqual(testingT, firstID, secondID)
}
