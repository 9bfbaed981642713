package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "JWT_SECRET_KEY", "SALT_ROUND", "INVITE_CODE_TTL_DAYS", "CERTIFICATE_BASE_URL"} {
		t.Setenv(key, "")
	}

	LoadConfig()

	assert.Equal(t, "3000", AppConfig.Port)
	assert.Equal(t, "postgres", AppConfig.DBDriver)
	assert.Equal(t, defaultJWTKey, AppConfig.JWTKey)
	assert.Equal(t, 10, AppConfig.SaltRound)
	assert.Equal(t, 7, AppConfig.InviteCodeTTLDays)
	assert.Equal(t, 6, AppConfig.InviteCodeLength)
	assert.Equal(t, "https://internlab.demo/verify", AppConfig.CertificateBaseURL)
	assert.False(t, AppConfig.IsProduction())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SALT_ROUND", "12")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CERTIFICATE_BASE_URL", "https://certs.example.com/v/")

	LoadConfig()

	assert.Equal(t, "8080", AppConfig.Port)
	assert.Equal(t, "sqlite", AppConfig.DBDriver)
	assert.Equal(t, 12, AppConfig.SaltRound)
	assert.Equal(t, "https://certs.example.com/v", AppConfig.CertificateBaseURL)
	assert.True(t, AppConfig.IsProduction())
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("INVITE_CODE_TTL_DAYS", "seven")
	assert.Equal(t, 7, getEnvInt("INVITE_CODE_TTL_DAYS", 7))
}

func TestLoadConfig_ShortInviteCodeLength(t *testing.T) {
	t.Setenv("INVITE_CODE_LENGTH", "2")
	LoadConfig()
	assert.Equal(t, 6, AppConfig.InviteCodeLength)
}

func TestLoadConfig_LongInviteCodeLength(t *testing.T) {
	t.Setenv("INVITE_CODE_LENGTH", "40")
	LoadConfig()
	assert.Equal(t, MaxInviteCodeLength, AppConfig.InviteCodeLength)
}

func TestLoadConfig_ProxySettings(t *testing.T) {
	t.Setenv("PROXY_HEADER", "X-Forwarded-For")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, ,10.0.0.0/8 ")
	LoadConfig()
	assert.Equal(t, "X-Forwarded-For", AppConfig.ProxyHeader)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0/8"}, AppConfig.TrustedProxies)
}
