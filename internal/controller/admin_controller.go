package controller

import (
	"errors"

	"souartista-be/internal/dto"
	"souartista-be/internal/pkg/serverutils"
	"souartista-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	SetupTotp(ctx *fiber.Ctx) error
	VerifyTotp(ctx *fiber.Ctx) error
	Broadcast(ctx *fiber.Ctx) error
	SubscriptionStats(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
}

func NewAdminController(service service.IAdminService) IAdminController {
	return &adminController{service: service}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware, serverutils.AdminOnly)
	h.Post("/totp/setup", c.SetupTotp)
	h.Post("/totp/verify", c.VerifyTotp)
	h.Post("/notifications/broadcast", c.Broadcast)
	h.Get("/stats/subscriptions", c.SubscriptionStats)
}

func (c *adminController) SubscriptionStats(ctx *fiber.Ctx) error {
	stats, err := c.service.SubscriptionStats(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription stats", stats))
}

func (c *adminController) SetupTotp(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user identity"))
	}

	res, err := c.service.SetupTotp(ctx.Context(), userId)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, err.Error()))
		case errors.Is(err, service.ErrTotpConfirmed):
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("TOTP provisioning", res))
}

func (c *adminController) VerifyTotp(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user identity"))
	}

	var req dto.TotpVerifyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.VerifyTotp(ctx.Context(), userId, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, err.Error()))
		case errors.Is(err, service.ErrTotpNotSetup), errors.Is(err, service.ErrTotpInvalid):
			return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("TOTP verified", res))
}

func (c *adminController) Broadcast(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user identity"))
	}

	var req dto.BroadcastNotificationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.service.Broadcast(ctx.Context(), userId.String(), &req); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Broadcast queued", nil))
}
