package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessGetIngredients  = "success get recipe ingredients"
	MessageSuccessSaveRecipe      = "recipe saved successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageFailedGetRecipes       = "failed to get recipes"
	MessageFailedGetRecipeDetail  = "failed to get recipe detail"
	MessageFailedGetIngredients   = "failed to get recipe ingredients"
	MessageFailedSaveRecipe       = "failed to save recipe"
	MessageFailedUpdateRecipe     = "failed to update recipe"
	MessageFailedDeleteRecipe     = "failed to delete recipe"

	ErrRecipeNotFound = errors.New("recipe not found")
)

type (
	RecipeFields struct {
		Name        string `json:"name" validate:"required"`
		CuisineType string `json:"cuisineType" validate:"required"`
		PrepTime    int    `json:"prepTime" validate:"gte=0"`
		CookTime    int    `json:"cookTime" validate:"gte=0"`
		Difficulty  string `json:"difficulty"`
		Servings    int    `json:"servings" validate:"gte=0"`
		Description string `json:"description"`
		Steps       string `json:"steps"`
		ImageURL    string `json:"imageUrl"`
	}

	IngredientRequest struct {
		IngredientName string `json:"ingredientName" validate:"required"`
		Amount         string `json:"amount"`
	}

	RecipeRequest struct {
		Recipe      RecipeFields        `json:"recipe" validate:"required"`
		Ingredients []IngredientRequest `json:"ingredients" validate:"dive"`
	}
)
