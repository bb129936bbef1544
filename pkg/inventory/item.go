// Package inventory holds the food status rules shared by the backend and the
// client: status classification, list filtering and alert grouping.
package inventory

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusNormal       Status = "NORMAL"
	StatusNearExpiry   Status = "NEAR_EXPIRY"
	StatusInsufficient Status = "INSUFFICIENT"
	StatusExpired      Status = "EXPIRED"
)

// DefaultUnit is used when an item is stored without a unit.
const DefaultUnit = "个"

func (s Status) Valid() bool {
	switch s {
	case StatusNormal, StatusNearExpiry, StatusInsufficient, StatusExpired:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Label is the display name used by the client surfaces.
func (s Status) Label() string {
	switch s {
	case StatusNearExpiry:
		return "临期"
	case StatusInsufficient:
		return "不足"
	case StatusExpired:
		return "过期"
	default:
		return "正常"
	}
}

// Item is the wire shape of a tracked food item.
type Item struct {
	ID           uint     `json:"id"`
	UserID       uint     `json:"userId,omitempty"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	MinQuantity  *float64 `json:"minQuantity"`
	PurchaseDate *Date    `json:"purchaseDate"`
	ExpiryDate   Date     `json:"expiryDate"`
	Status       Status   `json:"status"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

func (i Item) DisplayUnit() string {
	if strings.TrimSpace(i.Unit) == "" {
		return DefaultUnit
	}
	return i.Unit
}

type Ingredient struct {
	ID             uint   `json:"id,omitempty"`
	RecipeID       uint   `json:"recipeId,omitempty"`
	IngredientName string `json:"ingredientName"`
	Amount         string `json:"amount"`
}

type Recipe struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	CuisineType string       `json:"cuisineType"`
	PrepTime    int          `json:"prepTime"`
	CookTime    int          `json:"cookTime"`
	Difficulty  string       `json:"difficulty"`
	Servings    int          `json:"servings"`
	Description string       `json:"description"`
	Steps       string       `json:"steps"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
}
