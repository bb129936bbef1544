package recipe

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"xianshiji/domain"
	"xianshiji/entities"
	"xianshiji/internal/utils/logger"
	"xianshiji/pkg/inventory"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context) ([]inventory.Recipe, error)
		GetRecipesByCuisineType(ctx context.Context, cuisineType string) ([]inventory.Recipe, error)
		SearchRecipes(ctx context.Context, keyword string) ([]inventory.Recipe, error)
		GetRecipeDetail(ctx context.Context, id uint) (inventory.Recipe, error)
		GetRecipeIngredients(ctx context.Context, id uint) ([]inventory.Ingredient, error)
		AddRecipe(ctx context.Context, req domain.RecipeRequest, userID uint) (inventory.Recipe, error)
		UpdateRecipe(ctx context.Context, id uint, req domain.RecipeRequest) (inventory.Recipe, error)
		DeleteRecipe(ctx context.Context, id uint) error
	}

	recipeService struct {
		recipeRepository RecipeRepository
	}
)

func NewRecipeService(recipeRepository RecipeRepository) RecipeService {
	return &recipeService{recipeRepository: recipeRepository}
}

func (s *recipeService) GetRecipes(ctx context.Context) ([]inventory.Recipe, error) {
	recipes, err := s.recipeRepository.GetRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return toRecipes(recipes), nil
}

func (s *recipeService) GetRecipesByCuisineType(ctx context.Context, cuisineType string) ([]inventory.Recipe, error) {
	recipes, err := s.recipeRepository.GetRecipesByCuisineType(ctx, cuisineType)
	if err != nil {
		return nil, err
	}
	return toRecipes(recipes), nil
}

func (s *recipeService) SearchRecipes(ctx context.Context, keyword string) ([]inventory.Recipe, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.GetRecipes(ctx)
	}
	recipes, err := s.recipeRepository.SearchRecipes(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return toRecipes(recipes), nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, id uint) (inventory.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.Recipe{}, domain.ErrRecipeNotFound
		}
		return inventory.Recipe{}, err
	}
	return toRecipe(recipe), nil
}

func (s *recipeService) GetRecipeIngredients(ctx context.Context, id uint) ([]inventory.Ingredient, error) {
	if _, err := s.GetRecipeDetail(ctx, id); err != nil {
		return nil, err
	}
	ingredients, err := s.recipeRepository.GetIngredients(ctx, id)
	if err != nil {
		return nil, err
	}
	return toIngredients(ingredients), nil
}

func (s *recipeService) AddRecipe(ctx context.Context, req domain.RecipeRequest, userID uint) (inventory.Recipe, error) {
	recipe := &entities.Recipe{}
	applyFields(recipe, req.Recipe)
	if userID != 0 {
		recipe.CreatedBy = &userID
	}
	recipe.Ingredients = fromRequest(req.Ingredients)

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return inventory.Recipe{}, err
	}

	logger.Get().Info("recipe added", zap.Uint("id", recipe.ID), zap.Int("ingredients", len(recipe.Ingredients)))
	return toRecipe(recipe), nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id uint, req domain.RecipeRequest) (inventory.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.Recipe{}, domain.ErrRecipeNotFound
		}
		return inventory.Recipe{}, err
	}

	applyFields(recipe, req.Recipe)
	ingredients := fromRequest(req.Ingredients)
	recipe.Ingredients = nil

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, ingredients); err != nil {
		return inventory.Recipe{}, err
	}
	recipe.Ingredients = ingredients
	return toRecipe(recipe), nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id uint) error {
	if _, err := s.GetRecipeDetail(ctx, id); err != nil {
		return err
	}
	return s.recipeRepository.DeleteRecipe(ctx, id)
}

func applyFields(recipe *entities.Recipe, f domain.RecipeFields) {
	recipe.Name = strings.TrimSpace(f.Name)
	recipe.CuisineType = strings.TrimSpace(f.CuisineType)
	recipe.PrepTime = f.PrepTime
	recipe.CookTime = f.CookTime
	recipe.Difficulty = f.Difficulty
	recipe.Servings = f.Servings
	recipe.Description = f.Description
	recipe.Steps = f.Steps
	recipe.ImageURL = f.ImageURL
}

func fromRequest(reqs []domain.IngredientRequest) []entities.RecipeIngredient {
	out := make([]entities.RecipeIngredient, 0, len(reqs))
	for _, r := range reqs {
		name := strings.TrimSpace(r.IngredientName)
		if name == "" {
			continue
		}
		out = append(out, entities.RecipeIngredient{IngredientName: name, Amount: strings.TrimSpace(r.Amount)})
	}
	return out
}

func toRecipe(r *entities.Recipe) inventory.Recipe {
	return inventory.Recipe{
		ID:          r.ID,
		Name:        r.Name,
		CuisineType: r.CuisineType,
		PrepTime:    r.PrepTime,
		CookTime:    r.CookTime,
		Difficulty:  r.Difficulty,
		Servings:    r.Servings,
		Description: r.Description,
		Steps:       r.Steps,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
		Ingredients: toIngredients(r.Ingredients),
	}
}

func toRecipes(rs []*entities.Recipe) []inventory.Recipe {
	out := make([]inventory.Recipe, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRecipe(r))
	}
	return out
}

func toIngredients(is []entities.RecipeIngredient) []inventory.Ingredient {
	if len(is) == 0 {
		return nil
	}
	out := make([]inventory.Ingredient, 0, len(is))
	for _, i := range is {
		out = append(out, inventory.Ingredient{
			ID:             i.ID,
			RecipeID:       i.RecipeID,
			IngredientName: i.IngredientName,
			Amount:         i.Amount,
		})
	}
	return out
}
