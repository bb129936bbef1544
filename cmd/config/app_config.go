package config

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"xianshiji/internal/api/handlers"
	"xianshiji/internal/api/routes"
	"xianshiji/internal/middleware"
	"xianshiji/internal/utils"
	applog "xianshiji/internal/utils/logger"
	"xianshiji/internal/utils/mailing"
	"xianshiji/internal/utils/storage"
	"xianshiji/pkg/family"
	"xianshiji/pkg/food"
	"xianshiji/pkg/inventory"
	"xianshiji/pkg/jwt"
	"xianshiji/pkg/notify"
	"xianshiji/pkg/recipe"
	"xianshiji/pkg/user"
)

const defaultAccessLog = "./logs/access.log"

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: utils.GetConfig("APP_ENV") != "production",
		BodyLimit:         8 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware(utils.GetConfig("CORS_ORIGINS"))
	validator := utils.Validate

	// access log and limiter
	accessLog, err := applog.RotatingWriter(utils.GetConfigOr("ACCESS_LOG", defaultAccessLog))
	if err != nil {
		return nil, fmt.Errorf("error opening access log: %w", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   utils.GetConfigOr("TIME_ZONE", "Asia/Shanghai"),
		Output:     accessLog,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	classifier := inventory.NewClassifier(utils.GetIntConfig("NEAR_EXPIRY_DAYS", inventory.DefaultNearExpiryDays))

	// Repository
	userRepository := user.NewUserRepository(db)
	foodRepository := food.NewFoodRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	familyRepository := family.NewFamilyRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, s3)
	foodService := food.NewFoodService(foodRepository, classifier, s3)
	recipeService := recipe.NewRecipeService(recipeRepository)
	familyService := family.NewFamilyService(familyRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	foodHandler := handlers.NewFoodHandler(foodService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	familyHandler := handlers.NewFamilyHandler(familyService, validator)

	// routes
	routesConfig := routes.Config{
		App:           app,
		UserHandler:   userHandler,
		FoodHandler:   foodHandler,
		RecipeHandler: recipeHandler,
		FamilyHandler: familyHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

// NewDigest wires the expiry digest job. It returns nil when the job is
// disabled or SMTP is not configured.
func NewDigest(db *gorm.DB) *notify.Digest {
	if utils.GetConfig("DIGEST_ENABLED") != "true" {
		return nil
	}
	mailConfig := mailing.LoadMailConfig()
	if mailConfig.SMTPHost == "" {
		log.Warn("digest enabled but SMTP_HOST is empty, skipping")
		return nil
	}

	classifier := inventory.NewClassifier(utils.GetIntConfig("NEAR_EXPIRY_DAYS", inventory.DefaultNearExpiryDays))
	foodService := food.NewFoodService(food.NewFoodRepository(db), classifier, nil)
	return notify.NewDigest(foodService, user.NewUserRepository(db), mailing.NewSMTPSender(mailConfig), mailConfig.AppURL)
}

// DigestInterval parses DIGEST_INTERVAL, defaulting to a day.
func DigestInterval() time.Duration {
	d, err := time.ParseDuration(utils.GetConfig("DIGEST_INTERVAL"))
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
