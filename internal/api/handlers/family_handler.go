package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"xianshiji/domain"
	"xianshiji/internal/api/presenters"
	"xianshiji/pkg/family"
)

type (
	FamilyHandler interface {
		CreateFamily(c *fiber.Ctx) error
		JoinFamily(c *fiber.Ctx) error
		GetMyFamilies(c *fiber.Ctx) error
	}

	familyHandler struct {
		familyService family.FamilyService
		validator     *validator.Validate
	}
)

func NewFamilyHandler(familyService family.FamilyService, validator *validator.Validate) FamilyHandler {
	return &familyHandler{
		familyService: familyService,
		validator:     validator,
	}
}

func (h *familyHandler) CreateFamily(c *fiber.Ctx) error {
	req := new(domain.CreateFamilyRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateFamily, err)
	}

	if err := ensureSelf(c, req.CreatorID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedCreateFamily, err)
	}

	res, err := h.familyService.CreateFamily(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedCreateFamily, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateFamily)
}

func (h *familyHandler) JoinFamily(c *fiber.Ctx) error {
	req := new(domain.JoinFamilyRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedJoinFamily, err)
	}

	if err := ensureSelf(c, req.UserID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedJoinFamily, err)
	}

	if err := h.familyService.JoinFamily(c.Context(), *req); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedJoinFamily, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessJoinFamily)
}

func (h *familyHandler) GetMyFamilies(c *fiber.Ctx) error {
	userID, err := queryID(c, "userId")
	if err != nil {
		userID = authUserID(c)
	}

	if err := ensureSelf(c, userID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetFamilies, err)
	}

	res, err := h.familyService.GetUserFamilies(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetFamilies, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFamilies)
}
