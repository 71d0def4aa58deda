// Package migration keeps the schema in step with the models at startup.
package migration

import (
	"gorm.io/gorm"

	bundledomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/domain"
	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
	subscriptiondomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/domain"
	usagedomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/domain"
)

// AutoMigrate creates or updates the tables backing the engine.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&subscriptiondomain.Subscription{},
		&usagedomain.ServiceUsage{},
		&bundledomain.TelecomBundle{},
		&bundledomain.BundleRecommendation{},
		&recdomain.OptimizationRecommendation{},
	)
}
