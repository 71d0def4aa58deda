// Package seed bootstraps the telecom bundle catalog on first start.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	bundledomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/domain"
)

// EnsureBundleCatalog inserts the default bundle catalog when the table is
// empty. Safe to run on every start.
func EnsureBundleCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&bundledomain.TelecomBundle{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		bundles := defaultCatalog(node, now)
		return tx.Create(&bundles).Error
	})
}

func defaultCatalog(node *snowflake.Node, now time.Time) []bundledomain.TelecomBundle {
	return []bundledomain.TelecomBundle{
		{
			ID:           node.Generate(),
			Provider:     "Jio",
			PlanName:     "Postpaid Plus 399",
			PlanType:     "postpaid",
			MonthlyPrice: 399,
			IncludedServices: datatypes.JSONSlice[string]{
				"Netflix", "Amazon Prime Video", "JioCinema", "JioSaavn",
			},
			ServiceCount: 4,
			PlanDetails: datatypes.JSONMap{
				"Netflix": "Basic plan included",
			},
			DataAllowance: ptr("75GB/month"),
			ValueScore:    18,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:           node.Generate(),
			Provider:     "Airtel",
			PlanName:     "Black 699",
			PlanType:     "postpaid",
			MonthlyPrice: 699,
			IncludedServices: datatypes.JSONSlice[string]{
				"Netflix", "Disney+ Hotstar", "Amazon Prime Video",
			},
			ServiceCount: 3,
			PlanDetails: datatypes.JSONMap{
				"Disney+ Hotstar": "Super plan included",
			},
			DataAllowance: ptr("unlimited 5G"),
			ValueScore:    22,
			IsActive:      true,
			Notes:         ptr("Family add-ons available at no extra cost."),
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:           node.Generate(),
			Provider:     "Vi",
			PlanName:     "REDX 1101",
			PlanType:     "postpaid",
			MonthlyPrice: 1101,
			IncludedServices: datatypes.JSONSlice[string]{
				"Netflix", "Disney+ Hotstar", "Amazon Prime Video", "SonyLIV", "ZEE5",
			},
			ServiceCount: 5,
			PlanDetails: datatypes.JSONMap{
				"Netflix": "Premium plan included",
			},
			DataAllowance: ptr("unlimited data"),
			ValueScore:    20,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:           node.Generate(),
			Provider:     "Jio",
			PlanName:     "Fiber Entertainment 999",
			PlanType:     "fiber",
			MonthlyPrice: 999,
			IncludedServices: datatypes.JSONSlice[string]{
				"Netflix", "Amazon Prime Video", "Disney+ Hotstar", "SonyLIV", "ZEE5", "JioCinema",
			},
			ServiceCount:  6,
			DataAllowance: ptr("unlimited broadband"),
			ValueScore:    24,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}

func ptr(s string) *string { return &s }
