package food

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"xianshiji/domain"
	"xianshiji/entities"
	"xianshiji/internal/utils/logger"
	"xianshiji/internal/utils/storage"
	"xianshiji/pkg/inventory"
)

type (
	FoodService interface {
		AddFoodItem(ctx context.Context, req domain.FoodItemRequest) (inventory.Item, error)
		UpdateFoodItem(ctx context.Context, id uint, req domain.FoodItemRequest) (inventory.Item, error)
		UpdateQuantity(ctx context.Context, id uint, req domain.UpdateQuantityRequest) error
		UpdateMinQuantity(ctx context.Context, id uint, req domain.UpdateMinQuantityRequest) error
		DeleteFoodItem(ctx context.Context, id uint, userID uint) error
		GetFoodItems(ctx context.Context, userID uint, query domain.FoodItemQuery) ([]inventory.Item, error)
		GetFoodStatistics(ctx context.Context, userID uint) (inventory.Statistics, error)
		GetFoodAlerts(ctx context.Context, userID uint) (inventory.Alerts, error)
		ExportFoodItems(ctx context.Context, userID uint) ([]byte, error)
	}

	foodService struct {
		foodRepository FoodRepository
		classifier     inventory.Classifier
		s3             storage.AwsS3
	}
)

func NewFoodService(foodRepository FoodRepository, classifier inventory.Classifier, s3 storage.AwsS3) FoodService {
	return &foodService{
		foodRepository: foodRepository,
		classifier:     classifier,
		s3:             s3,
	}
}

func (s *foodService) AddFoodItem(ctx context.Context, req domain.FoodItemRequest) (inventory.Item, error) {
	foodItem := &entities.FoodItem{UserID: req.UserID}
	if err := applyRequest(foodItem, req); err != nil {
		return inventory.Item{}, err
	}
	foodItem.Status = s.classifier.Classify(foodItem.Item())

	if err := s.foodRepository.AddFoodItem(ctx, foodItem); err != nil {
		return inventory.Item{}, err
	}

	logger.Get().Info("food item added",
		zap.Uint("id", foodItem.ID),
		zap.Uint("user_id", foodItem.UserID),
		zap.String("status", string(foodItem.Status)))
	return foodItem.Item(), nil
}

func (s *foodService) UpdateFoodItem(ctx context.Context, id uint, req domain.FoodItemRequest) (inventory.Item, error) {
	foodItem, err := s.ownedItem(ctx, id, req.UserID)
	if err != nil {
		return inventory.Item{}, err
	}

	if err := applyRequest(foodItem, req); err != nil {
		return inventory.Item{}, err
	}
	foodItem.Status = s.classifier.Classify(foodItem.Item())

	if err := s.foodRepository.UpdateFoodItem(ctx, foodItem); err != nil {
		return inventory.Item{}, err
	}
	return foodItem.Item(), nil
}

// UpdateQuantity stores a new quantity. A quantity of zero or less removes the item.
func (s *foodService) UpdateQuantity(ctx context.Context, id uint, req domain.UpdateQuantityRequest) error {
	foodItem, err := s.ownedItem(ctx, id, req.UserID)
	if err != nil {
		return err
	}

	if *req.Quantity <= 0 {
		logger.Get().Info("food item used up", zap.Uint("id", id))
		return s.foodRepository.DeleteFoodItem(ctx, id)
	}

	foodItem.Quantity = *req.Quantity
	foodItem.Status = s.classifier.Classify(foodItem.Item())
	return s.foodRepository.UpdateFoodItem(ctx, foodItem)
}

func (s *foodService) UpdateMinQuantity(ctx context.Context, id uint, req domain.UpdateMinQuantityRequest) error {
	if req.MinQuantity != nil && *req.MinQuantity < 0 {
		return domain.ErrInvalidMinQuantity
	}

	foodItem, err := s.ownedItem(ctx, id, req.UserID)
	if err != nil {
		return err
	}

	foodItem.MinQuantity = req.MinQuantity
	foodItem.Status = s.classifier.Classify(foodItem.Item())
	return s.foodRepository.UpdateFoodItem(ctx, foodItem)
}

func (s *foodService) DeleteFoodItem(ctx context.Context, id uint, userID uint) error {
	foodItem, err := s.ownedItem(ctx, id, userID)
	if err != nil {
		return err
	}

	if foodItem.ImageURL != "" && s.s3 != nil {
		if objectKey := s.s3.GetObjectKeyFromLink(foodItem.ImageURL); objectKey != "" {
			if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
				logger.Get().Warn("failed to delete food image", zap.String("key", objectKey), zap.Error(err))
			}
		}
	}

	return s.foodRepository.DeleteFoodItem(ctx, id)
}

func (s *foodService) GetFoodItems(ctx context.Context, userID uint, query domain.FoodItemQuery) ([]inventory.Item, error) {
	filter := inventory.Filter{Tab: inventory.TabAll, Category: query.Category, Search: query.Search}
	if query.Status != "" && !strings.EqualFold(query.Status, string(inventory.TabAll)) {
		tab, err := inventory.ParseTab(query.Status)
		if err != nil {
			return nil, domain.ErrInvalidStatus
		}
		filter.Tab = tab
	}

	items, err := s.currentItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return inventory.Apply(items, filter), nil
}

func (s *foodService) GetFoodStatistics(ctx context.Context, userID uint) (inventory.Statistics, error) {
	items, err := s.currentItems(ctx, userID)
	if err != nil {
		return inventory.Statistics{}, err
	}
	return inventory.Summarize(items), nil
}

func (s *foodService) GetFoodAlerts(ctx context.Context, userID uint) (inventory.Alerts, error) {
	items, err := s.currentItems(ctx, userID)
	if err != nil {
		return inventory.Alerts{}, err
	}
	return inventory.ComposeAlerts(items), nil
}

// currentItems loads a user's items and persists any status that changed
// since the last read.
func (s *foodService) currentItems(ctx context.Context, userID uint) ([]inventory.Item, error) {
	rows, err := s.foodRepository.GetFoodItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored := entities.FoodItemsToItems(rows)
	items := s.classifier.Reclassify(stored)
	for i := range items {
		if items[i].Status == stored[i].Status {
			continue
		}
		if err := s.foodRepository.UpdateStatus(ctx, items[i].ID, items[i].Status); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *foodService) ownedItem(ctx context.Context, id uint, userID uint) (*entities.FoodItem, error) {
	foodItem, err := s.foodRepository.GetFoodItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFoodItemNotFound
		}
		return nil, err
	}

	if foodItem.UserID != userID {
		return nil, domain.ErrFoodItemNotFound
	}
	return foodItem, nil
}

func applyRequest(foodItem *entities.FoodItem, req domain.FoodItemRequest) error {
	if req.Quantity == nil || *req.Quantity < 0 {
		return domain.ErrInvalidQuantity
	}
	if req.MinQuantity != nil && *req.MinQuantity < 0 {
		return domain.ErrInvalidMinQuantity
	}

	expiryDate, err := inventory.ParseDate(req.ExpiryDate)
	if err != nil {
		return domain.ErrInvalidExpiryDate
	}

	var purchaseDate *inventory.Date
	if req.PurchaseDate != "" {
		d, err := inventory.ParseDate(req.PurchaseDate)
		if err != nil {
			return domain.ErrInvalidPurchaseDate
		}
		purchaseDate = &d
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = inventory.DefaultUnit
	}

	foodItem.Name = strings.TrimSpace(req.Name)
	foodItem.Category = strings.TrimSpace(req.Category)
	foodItem.Quantity = *req.Quantity
	foodItem.Unit = unit
	foodItem.MinQuantity = req.MinQuantity
	foodItem.PurchaseDate = purchaseDate
	foodItem.ExpiryDate = expiryDate
	foodItem.ImageURL = req.ImageURL
	return nil
}
