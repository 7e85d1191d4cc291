package initializers

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/storefront-api/models"
)

func SyncDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Bootstrap{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return err
	}

	if err := seedOwnerClaim(db); err != nil {
		return err
	}
	log.Info().Msg("database synced successfully")
	return nil
}

// seedOwnerClaim marks the owner slot as taken for databases that already
// held users before the bootstrap table existed.
func seedOwnerClaim(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	claim := models.Bootstrap{Name: models.BootstrapOwner}
	var owner models.User
	err := db.Where("role = ?", models.RoleOwner).Order("id").First(&owner).Error
	switch {
	case err == nil:
		claim.UserID = owner.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&claim).Error
}
