package seeders

import (
	"errors"

	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("demo_user", SeedDemoUser)
	Register("demo_catalog", SeedDemoCatalog)
}

// SeedDemoUser creates a login for local development. Skips if it exists.
func SeedDemoUser(db *gorm.DB) error {
	var existing models.User
	err := db.Where("email = ?", "demo@inbox.app").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     "demo",
		Email:    "demo@inbox.app",
		Password: hash,
	}).Error
}

// SeedDemoCatalog creates a sample group owned by the demo user with a few
// lendable items, so a fresh install has something to reserve.
func SeedDemoCatalog(db *gorm.DB) error {
	var owner models.User
	if err := db.Where("email = ?", "demo@inbox.app").First(&owner).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Group{}).Where("owner_id = ?", owner.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		group := models.Group{
			Name:        "Demo Household",
			Description: "Sample group seeded for local development",
			OwnerID:     owner.ID,
		}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		member := models.Membership{GroupID: group.ID, UserID: owner.ID, Role: "owner"}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		products := []models.Product{
			{Name: "Cordless Drill", Category: "tools", TotalQuantity: 1, GroupID: group.ID, CreatorID: owner.ID},
			{Name: "Board Game Night Kit", Category: "games", TotalQuantity: 2, GroupID: group.ID, CreatorID: owner.ID},
			{Name: "Camping Tent", Category: "outdoors", TotalQuantity: 1, GroupID: group.ID, CreatorID: owner.ID},
		}
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
