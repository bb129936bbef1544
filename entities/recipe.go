package entities

type Recipe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:128;not null;index" json:"name"`
	CuisineType string `gorm:"size:64;index" json:"cuisineType"`
	PrepTime    int    `json:"prepTime"`
	CookTime    int    `json:"cookTime"`
	Difficulty  string `gorm:"size:32" json:"difficulty"`
	Servings    int    `json:"servings"`
	Description string `gorm:"type:text" json:"description"`
	Steps       string `gorm:"type:text" json:"steps"`
	ImageURL    string `json:"imageUrl,omitempty"`
	CreatedBy   *uint  `json:"createdBy,omitempty"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Timestamp
}

type RecipeIngredient struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	RecipeID       uint   `gorm:"index;not null" json:"recipeId"`
	IngredientName string `gorm:"size:128;not null" json:"ingredientName"`
	Amount         string `gorm:"size:64" json:"amount"`
}
