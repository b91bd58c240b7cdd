package migration

import (
	"fmt"
	"log"

	"Pointspin-Backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	models := []any{
		&entities.User{},
		&entities.Wallet{},
		&entities.WalletTransaction{},
		&entities.RewardCatalog{},
		&entities.Machine{},
		&entities.ProbabilityVersion{},
		&entities.RarityWeight{},
		&entities.RewardPoolItem{},
		&entities.Spin{},
		&entities.Inventory{},
		&entities.Equip{},
		&entities.Payment{},
		&entities.AuditLog{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			log.Fatalf("Error migrating %T: %v", model, err)
			return err
		}
	}

	fmt.Println("Database migration complete")
	return nil
}
