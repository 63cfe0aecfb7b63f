package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"STOREFRONT_APP_NAME",
	"STOREFRONT_APP_ENV",
	"STOREFRONT_APP_PORT",
	"STOREFRONT_DATABASE_HOST",
	"STOREFRONT_DATABASE_PORT",
	"STOREFRONT_DATABASE_USER",
	"STOREFRONT_DATABASE_PASSWORD",
	"STOREFRONT_DATABASE_DBNAME",
	"STOREFRONT_DATABASE_SSLMODE",
	"STOREFRONT_DATABASE_MAX_IDLE_CONNS",
	"STOREFRONT_DATABASE_MAX_OPEN_CONNS",
	"STOREFRONT_JWT_SECRET",
	"STOREFRONT_PAYPAL_MODE",
	"STOREFRONT_HTTP_CORS_ALLOW_ORIGINS",
}

// clearConfigEnv unsets every config env var for the test's duration.
// t.Setenv registers the restore, Unsetenv removes the empty value that
// would otherwise override a default.
func clearConfigEnv(t *testing.T) {
	for _, key := range configEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storefront-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "storefront", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, "storefront-backend", cfg.JWT.Issuer)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sandbox", cfg.PayPal.Mode)
	assert.False(t, cfg.PayPal.Enabled)
	assert.Equal(t, int64(4<<20), cfg.HTTP.MaxBodySize)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STOREFRONT_APP_NAME", "shop-api")
	t.Setenv("STOREFRONT_DATABASE_HOST", "db.internal")
	t.Setenv("STOREFRONT_DATABASE_PORT", "5433")
	t.Setenv("STOREFRONT_DATABASE_PASSWORD", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shop-api", cfg.App.Name)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoad_RejectsInvalidPayPalMode(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STOREFRONT_PAYPAL_MODE", "staging")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paypal.mode")
}

func TestLoad_IdleConnsCannotExceedOpenConns(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STOREFRONT_DATABASE_MAX_OPEN_CONNS", "5")
	t.Setenv("STOREFRONT_DATABASE_MAX_IDLE_CONNS", "10")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot exceed")
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("STOREFRONT_APP_ENV", "production")

	// Missing JWT secret
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")

	// Short secret is still rejected
	t.Setenv("STOREFRONT_JWT_SECRET", "too-short")
	_, err = Load()
	require.Error(t, err)

	// Full production settings pass
	t.Setenv("STOREFRONT_JWT_SECRET", "a-secret-that-is-at-least-32-chars!!")
	t.Setenv("STOREFRONT_DATABASE_PASSWORD", "s3cret")
	t.Setenv("STOREFRONT_DATABASE_SSLMODE", "require")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "storefront",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password are escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
