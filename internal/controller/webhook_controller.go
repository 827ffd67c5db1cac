package controller

import (
	"souartista-be/internal/dto"
	"souartista-be/internal/pkg/logger"
	"souartista-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	AsaasWebhook(ctx *fiber.Ctx) error
	AppleWebhook(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IWebhookService
	logger  logger.ILogger
}

func NewWebhookController(service service.IWebhookService, log logger.ILogger) IWebhookController {
	return &webhookController{service: service, logger: log}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhooks")
	h.Post("/asaas", c.AsaasWebhook)
	h.Post("/apple", c.AppleWebhook)
}

// AsaasWebhook always answers 200 once the body parses. The gateway
// retries on anything else and we never want a storm over a row we can
// reconverge by sweep.
func (c *webhookController) AsaasWebhook(ctx *fiber.Ctx) error {
	var req dto.AsaasWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		c.logger.Warn("Webhook", "Malformed webhook body", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "malformed body"})
	}

	if err := c.service.HandleAsaasEvent(ctx.Context(), &req); err != nil {
		c.logger.Error("Webhook", "Event handling failed", map[string]interface{}{
			"event": req.Event, "error": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{"success": true})
}

func (c *webhookController) AppleWebhook(ctx *fiber.Ctx) error {
	if err := c.service.HandleAppleEvent(ctx.Context(), ctx.Body()); err != nil {
		c.logger.Error("Webhook", "Apple event handling failed", map[string]interface{}{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true})
}
