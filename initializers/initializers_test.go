package initializers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kariqs/storefront-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenDatabase("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", gormlogger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "https://shop.test,https://admin.shop.test")
	t.Setenv("SMTP_ADDRESS", "smtp.test:587")
	t.Setenv("FROM_EMAIL", "shop@shop.test")

	require.NoError(t, LoadEnv())

	assert.True(t, Config.IsProduction())
	assert.Equal(t, "9090", Config.Port)
	assert.Equal(t, "postgres", Config.DBDriver)
	assert.Equal(t, "s3cret", Config.JWTSecret)
	assert.Equal(t, 144*time.Hour, Config.JWTExpiresIn)
	assert.Equal(t, []string{"https://shop.test", "https://admin.shop.test"}, Config.CORSOrigins)
	assert.True(t, Config.Mail().Enabled())
}

func TestLoadEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "six days")
	assert.Error(t, LoadEnv())
}

func TestOpenDatabaseUnknownDriver(t *testing.T) {
	_, err := OpenDatabase("oracle", "dsn", gormlogger.Silent)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestConnectToDBNeedsDSN(t *testing.T) {
	Config = AppConfig{DBDriver: "sqlite"}
	assert.Error(t, ConnectToDB())
}

func TestSyncDatabaseEmpty(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, SyncDatabase(db))

	var claims int64
	require.NoError(t, db.Model(&models.Bootstrap{}).Count(&claims).Error)
	assert.Zero(t, claims)
}

func TestSyncDatabaseSeedsOwnerClaim(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, SyncDatabase(db))

	owner := models.User{Username: "alice", Email: "alice@example.com", PhoneNumber: "+254700000001", Password: "x", Role: models.RoleOwner}
	require.NoError(t, db.Create(&owner).Error)

	require.NoError(t, SyncDatabase(db))
	require.NoError(t, SyncDatabase(db))

	var claims []models.Bootstrap
	require.NoError(t, db.Find(&claims).Error)
	require.Len(t, claims, 1)
	assert.Equal(t, models.BootstrapOwner, claims[0].Name)
	assert.Equal(t, owner.ID, claims[0].UserID)
}

func TestInitUploaderUnknownProvider(t *testing.T) {
	Config = AppConfig{UploadProvider: "ftp"}
	assert.Error(t, InitUploader(t.Context()))

	Config = AppConfig{UploadProvider: "cloudinary", CloudinaryCloudName: "demo", CloudinaryAPIKey: "k", CloudinaryAPISecret: "s"}
	require.NoError(t, InitUploader(t.Context()))
	assert.NotNil(t, Uploader)
}
