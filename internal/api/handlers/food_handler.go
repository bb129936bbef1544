package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"xianshiji/domain"
	"xianshiji/internal/api/presenters"
	"xianshiji/pkg/food"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type (
	FoodHandler interface {
		AddFoodItem(c *fiber.Ctx) error
		UpdateFoodItem(c *fiber.Ctx) error
		UpdateQuantity(c *fiber.Ctx) error
		UpdateMinQuantity(c *fiber.Ctx) error
		DeleteFoodItem(c *fiber.Ctx) error
		GetFoodItems(c *fiber.Ctx) error
		GetFoodItemsByCategory(c *fiber.Ctx) error
		SearchFoodItems(c *fiber.Ctx) error
		GetFoodItemsByStatus(c *fiber.Ctx) error
		GetFoodStatistics(c *fiber.Ctx) error
		GetFoodAlerts(c *fiber.Ctx) error
		ExportFoodItems(c *fiber.Ctx) error
	}

	foodHandler struct {
		foodService food.FoodService
		validator   *validator.Validate
	}
)

func NewFoodHandler(foodService food.FoodService, validator *validator.Validate) FoodHandler {
	return &foodHandler{
		foodService: foodService,
		validator:   validator,
	}
}

func (h *foodHandler) AddFoodItem(c *fiber.Ctx) error {
	req := new(domain.FoodItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddFoodItem, err)
	}

	if err := ensureSelf(c, req.UserID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedAddFoodItem, err)
	}

	res, err := h.foodService.AddFoodItem(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedAddFoodItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFoodItem)
}

func (h *foodHandler) UpdateFoodItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateFoodItem, err)
	}
	req := new(domain.FoodItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateFoodItem, err)
	}

	if err := ensureSelf(c, req.UserID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUpdateFoodItem, err)
	}

	res, err := h.foodService.UpdateFoodItem(c.Context(), id, *req)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUpdateFoodItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateFoodItem)
}

func (h *foodHandler) UpdateQuantity(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateQuantity, err)
	}
	req := new(domain.UpdateQuantityRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateQuantity, err)
	}

	if err := ensureSelf(c, req.UserID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUpdateQuantity, err)
	}

	if err := h.foodService.UpdateQuantity(c.Context(), id, *req); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUpdateQuantity, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateQuantity)
}

// UpdateMinQuantity sets the threshold. A null minQuantity clears it.
func (h *foodHandler) UpdateMinQuantity(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMinQuantity, err)
	}
	req := new(domain.UpdateMinQuantityRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMinQuantity, err)
	}

	if err := ensureSelf(c, req.UserID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUpdateMinQuantity, err)
	}

	if err := h.foodService.UpdateMinQuantity(c.Context(), id, *req); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUpdateMinQuantity, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateMinQuantity)
}

func (h *foodHandler) DeleteFoodItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteFoodItem, err)
	}
	userID, err := queryID(c, "userId")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteFoodItem, err)
	}

	if err := ensureSelf(c, userID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedDeleteFoodItem, err)
	}

	if err := h.foodService.DeleteFoodItem(c.Context(), id, userID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedDeleteFoodItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteFoodItem)
}

// ownerFromPath reads {userId} and checks it against the token.
func ownerFromPath(c *fiber.Ctx) (uint, error) {
	userID, err := paramID(c, "userId")
	if err != nil {
		return 0, err
	}
	if err := ensureSelf(c, userID); err != nil {
		return 0, err
	}
	return userID, nil
}

func (h *foodHandler) listFoodItems(c *fiber.Ctx, query domain.FoodItemQuery) error {
	userID, err := ownerFromPath(c)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetFoodItems, err)
	}

	items, err := h.foodService.GetFoodItems(c.Context(), userID, query)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, items, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *foodHandler) GetFoodItems(c *fiber.Ctx) error {
	query := domain.FoodItemQuery{}
	if err := c.QueryParser(&query); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFoodItems, err)
	}
	return h.listFoodItems(c, query)
}

func (h *foodHandler) GetFoodItemsByCategory(c *fiber.Ctx) error {
	category, err := unescapeParam(c, "category")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFoodItems, err)
	}
	return h.listFoodItems(c, domain.FoodItemQuery{Category: category})
}

func (h *foodHandler) SearchFoodItems(c *fiber.Ctx) error {
	keyword := c.Query("keyword")
	if keyword == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFoodItems, domain.ErrSearchKeywordMissing)
	}
	return h.listFoodItems(c, domain.FoodItemQuery{Search: keyword})
}

func (h *foodHandler) GetFoodItemsByStatus(c *fiber.Ctx) error {
	return h.listFoodItems(c, domain.FoodItemQuery{Status: c.Params("status")})
}

func (h *foodHandler) GetFoodStatistics(c *fiber.Ctx) error {
	userID, err := ownerFromPath(c)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetFoodStatistics, err)
	}

	res, err := h.foodService.GetFoodStatistics(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetFoodStatistics, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFoodStatistics)
}

func (h *foodHandler) GetFoodAlerts(c *fiber.Ctx) error {
	userID, err := ownerFromPath(c)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetFoodAlerts, err)
	}

	res, err := h.foodService.GetFoodAlerts(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetFoodAlerts, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFoodAlerts)
}

func (h *foodHandler) ExportFoodItems(c *fiber.Ctx) error {
	userID, err := ownerFromPath(c)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedExportFoodItems, err)
	}

	raw, err := h.foodService.ExportFoodItems(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedExportFoodItems, err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="inventory-%d.xlsx"`, userID))
	return c.Status(fiber.StatusOK).Send(raw)
}
