package migration

import (
	"log"

	"gorm.io/gorm"

	"xianshiji/entities"
	applog "xianshiji/internal/utils/logger"
)

func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"food item", &entities.FoodItem{}},
		{"recipe", &entities.Recipe{}},
		{"recipe ingredient", &entities.RecipeIngredient{}},
		{"family", &entities.Family{}},
		{"user family", &entities.UserFamily{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			log.Fatalf("Error migrating %s database: %v", m.name, err)
			return err
		}
	}

	applog.Get().Info("database migration complete")
	return nil
}
