package controller

import (
	"errors"

	"souartista-be/internal/pkg/serverutils"
	"souartista-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetStatus(ctx *fiber.Ctx) error
	GetPixQrCode(ctx *fiber.Ctx) error
	CancelSubscription(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subscription")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/status", c.GetStatus)
	h.Get("/pix-qrcode", c.GetPixQrCode)
	h.Post("/cancel", c.CancelSubscription)
	h.Get("/payments", c.GetHistory)
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, errors.New("missing user identity")
	}
	return uuid.Parse(userIdStr)
}

func (c *paymentController) GetStatus(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user identity"))
	}

	res, err := c.service.GetSubscriptionStatus(ctx.Context(), userId)
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *paymentController) GetPixQrCode(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user identity"))
	}

	res, err := c.service.GetPixQrCode(ctx.Context(), userId)
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("PIX QR code", res))
}

func (c *paymentController) CancelSubscription(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user identity"))
	}

	if err := c.service.CancelSubscription(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription canceled", nil))
}

func (c *paymentController) GetHistory(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user identity"))
	}

	res, err := c.service.GetPaymentHistory(ctx.Context(), userId)
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment history", res))
}
