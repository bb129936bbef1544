package domain

import (
	"errors"
)

var (
	MessageSuccessAddFoodItem       = "food item added successfully"
	MessageSuccessUpdateFoodItem    = "food item updated successfully"
	MessageSuccessUpdateQuantity    = "quantity updated successfully"
	MessageSuccessUpdateMinQuantity = "minimum quantity updated successfully"
	MessageSuccessDeleteFoodItem    = "food item deleted successfully"
	MessageSuccessGetFoodItems      = "food items retrieved successfully"
	MessageSuccessGetFoodStatistics = "food statistics retrieved successfully"
	MessageSuccessGetFoodAlerts     = "food alerts retrieved successfully"
	MessageFailedAddFoodItem        = "failed to add food item"
	MessageFailedUpdateFoodItem     = "failed to update food item"
	MessageFailedUpdateQuantity     = "failed to update quantity"
	MessageFailedUpdateMinQuantity  = "failed to update minimum quantity"
	MessageFailedDeleteFoodItem     = "failed to delete food item"
	MessageFailedGetFoodItems       = "failed to retrieve food items"
	MessageFailedGetFoodStatistics  = "failed to retrieve food statistics"
	MessageFailedGetFoodAlerts      = "failed to retrieve food alerts"
	MessageFailedExportFoodItems    = "failed to export food items"

	ErrFoodItemNotFound     = errors.New("food item not found or no permission")
	ErrInvalidExpiryDate    = errors.New("invalid expiry date, expected YYYY-MM-DD")
	ErrInvalidPurchaseDate  = errors.New("invalid purchase date, expected YYYY-MM-DD")
	ErrInvalidQuantity      = errors.New("quantity must not be negative")
	ErrInvalidMinQuantity   = errors.New("minimum quantity must not be negative")
	ErrInvalidStatus        = errors.New("invalid food status")
	ErrSearchKeywordMissing = errors.New("search keyword is required")
)

type (
	FoodItemRequest struct {
		UserID       uint     `json:"userId" validate:"required"`
		Name         string   `json:"name" validate:"required"`
		Category     string   `json:"category"`
		Quantity     *float64 `json:"quantity" validate:"required,gte=0"`
		Unit         string   `json:"unit"`
		MinQuantity  *float64 `json:"minQuantity" validate:"omitempty,gte=0"`
		PurchaseDate string   `json:"purchaseDate" validate:"omitempty,isodate"`
		ExpiryDate   string   `json:"expiryDate" validate:"required,isodate"`
		ImageURL     string   `json:"imageUrl"`
	}

	UpdateQuantityRequest struct {
		UserID   uint     `json:"userId" validate:"required"`
		Quantity *float64 `json:"quantity" validate:"required"`
	}

	UpdateMinQuantityRequest struct {
		UserID      uint     `json:"userId" validate:"required"`
		MinQuantity *float64 `json:"minQuantity" validate:"omitempty,gte=0"`
	}

	// FoodItemQuery narrows a user's list. Empty fields do not filter.
	FoodItemQuery struct {
		Status   string `query:"status"`
		Category string `query:"category"`
		Search   string `query:"search"`
	}
)
