package entities

import "xianshiji/pkg/inventory"

type FoodItem struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	UserID       uint             `gorm:"index;not null" json:"userId"`
	Name         string           `gorm:"size:128;not null" json:"name"`
	Category     string           `gorm:"size:64;index" json:"category"`
	Quantity     float64          `gorm:"not null" json:"quantity"`
	Unit         string           `gorm:"size:16" json:"unit"`
	MinQuantity  *float64         `json:"minQuantity"`
	PurchaseDate *inventory.Date  `json:"purchaseDate"`
	ExpiryDate   inventory.Date   `gorm:"not null;index" json:"expiryDate"`
	Status       inventory.Status `gorm:"size:16;index" json:"status"`
	ImageURL     string           `json:"imageUrl,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

// Item converts the row to the wire shape used by the inventory engine.
func (f *FoodItem) Item() inventory.Item {
	return inventory.Item{
		ID:           f.ID,
		UserID:       f.UserID,
		Name:         f.Name,
		Category:     f.Category,
		Quantity:     f.Quantity,
		Unit:         f.Unit,
		MinQuantity:  f.MinQuantity,
		PurchaseDate: f.PurchaseDate,
		ExpiryDate:   f.ExpiryDate,
		Status:       f.Status,
		ImageURL:     f.ImageURL,
	}
}

func FoodItemsToItems(rows []*FoodItem) []inventory.Item {
	out := make([]inventory.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Item())
	}
	return out
}
