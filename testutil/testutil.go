// Package testutil wires an isolated sqlite database and config for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"internlab/config"
	"internlab/database"
	"internlab/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain-text password of every user created by CreateUser
const Password = "secret123"

// Setup points the global config and database at a fresh sqlite file
func Setup(t testing.TB) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{
		AppEnv:               "test",
		DBDriver:             "sqlite",
		JWTKey:               "test-secret",
		JWTExpiryHours:       1,
		SaltRound:            bcrypt.MinCost,
		InviteCodeTTLDays:    7,
		InviteCodeLength:     6,
		LoginMaxAttempts:     3,
		LoginBlockMinutes:    15,
		CorsOrigins:          "*",
		EmailSenderName:      "InternLab",
		StatsCacheTTLSeconds: 60,
		CertificateBaseURL:   "https://internlab.demo/verify",
		SchedulerSpec:        "0 9 * * *",
		ReminderWindowDays:   2,
	}

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "internlab.db"))
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	saved := database.Database
	database.Database = database.DbInstance{Db: db}
	database.Cache = nil
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		database.Database = saved
	})
	return db
}

// CreateUser inserts a user with Password as password
func CreateUser(t testing.TB, db *gorm.DB, name, email, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: name, Email: email, Password: string(hash), Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}
