package routes

import (
	"github.com/gofiber/fiber/v2"

	"xianshiji/domain"
	"xianshiji/internal/api/handlers"
	"xianshiji/internal/api/presenters"
	"xianshiji/internal/middleware"
	"xianshiji/pkg/jwt"
)

type Config struct {
	App           *fiber.App
	UserHandler   handlers.UserHandler
	FoodHandler   handlers.FoodHandler
	RecipeHandler handlers.RecipeHandler
	FamilyHandler handlers.FamilyHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Families()
	c.FoodItems()
	c.Recipes()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessPing)
	})
}

func (c *Config) User() {
	user := c.App.Group("/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Put("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Post("/upload-avatar", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UploadAvatar)
	}
}

func (c *Config) Families() {
	families := c.App.Group("/families", c.Middleware.AuthMiddleware(c.JWTService))
	families.Post("/create", c.FamilyHandler.CreateFamily)
	families.Post("/join", c.FamilyHandler.JoinFamily)
	families.Get("/my", c.FamilyHandler.GetMyFamilies)
}

func (c *Config) FoodItems() {
	foodItems := c.App.Group("/food-items", c.Middleware.AuthMiddleware(c.JWTService))

	// per-user views
	foodItems.Get("/user/:userId", c.FoodHandler.GetFoodItems)
	foodItems.Get("/user/:userId/statistics", c.FoodHandler.GetFoodStatistics)
	foodItems.Get("/user/:userId/alerts", c.FoodHandler.GetFoodAlerts)
	foodItems.Get("/user/:userId/export", c.FoodHandler.ExportFoodItems)
	foodItems.Get("/user/:userId/search", c.FoodHandler.SearchFoodItems)
	foodItems.Get("/user/:userId/category/:category", c.FoodHandler.GetFoodItemsByCategory)
	foodItems.Get("/user/:userId/status/:status", c.FoodHandler.GetFoodItemsByStatus)

	foodItems.Post("", c.FoodHandler.AddFoodItem)
	foodItems.Put("/:id", c.FoodHandler.UpdateFoodItem)
	foodItems.Put("/:id/quantity", c.FoodHandler.UpdateQuantity)
	foodItems.Put("/:id/min-quantity", c.FoodHandler.UpdateMinQuantity)
	foodItems.Delete("/:id", c.FoodHandler.DeleteFoodItem)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/recipes")
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/search", c.RecipeHandler.SearchRecipes)
	recipes.Get("/cuisine/:cuisineType", c.RecipeHandler.GetRecipesByCuisineType)
	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
	recipes.Get("/:id/ingredients", c.RecipeHandler.GetRecipeIngredients)

	recipes.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.AddRecipe)
	recipes.Put("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.DeleteRecipe)
}
