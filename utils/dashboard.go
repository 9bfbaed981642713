package utils

import (
	"context"
	"fmt"
	"time"

	"internlab/config"
	"internlab/database"
	"internlab/models"

	"gorm.io/gorm"
)

// DashboardStats is the admin dashboard payload
type DashboardStats struct {
	DashboardSummary
	TotalLearners  int64     `json:"totalLearners"`
	TotalPrograms  int64     `json:"totalPrograms"`
	TotalResources int64     `json:"totalResources"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

// BuildDashboardStats aggregates every enrollment plus the catalogue totals
func BuildDashboardStats(db *gorm.DB, t time.Time) (DashboardStats, error) {
	var enrollments []models.Enrollment
	if err := db.Preload("Progress").Find(&enrollments).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("load enrollments: %w", err)
	}

	stats := DashboardStats{DashboardSummary: SummarizeDashboard(enrollments, t), GeneratedAt: t}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleIntern).Count(&stats.TotalLearners).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("count learners: %w", err)
	}
	if err := db.Model(&models.Program{}).Count(&stats.TotalPrograms).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("count programs: %w", err)
	}
	if err := db.Model(&models.Resource{}).Count(&stats.TotalResources).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("count resources: %w", err)
	}
	return stats, nil
}

// CachedDashboardStats serves the dashboard from the cache when it is enabled and fresh.
// It reports whether the value came from the cache.
func CachedDashboardStats(ctx context.Context, db *gorm.DB, t time.Time) (DashboardStats, bool, error) {
	var stats DashboardStats
	if database.CacheGetJSON(ctx, StatsCacheKey, &stats) {
		return stats, true, nil
	}

	stats, err := BuildDashboardStats(db, t)
	if err != nil {
		return stats, false, err
	}
	ttl := time.Duration(config.AppConfig.StatsCacheTTLSeconds) * time.Second
	database.CacheSetJSON(ctx, StatsCacheKey, stats, ttl)
	return stats, false, nil
}
