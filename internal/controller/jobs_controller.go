package controller

import (
	"souartista-be/internal/pkg/serverutils"
	"souartista-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IJobsController interface {
	RegisterRoutes(r fiber.Router)
	SyncPayments(ctx *fiber.Ctx) error
	CheckExpired(ctx *fiber.Ctx) error
}

type jobsController struct {
	service service.ISweepService
}

func NewJobsController(service service.ISweepService) IJobsController {
	return &jobsController{service: service}
}

func (c *jobsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/jobs")
	h.Use(serverutils.ServiceTokenMiddleware)
	h.Post("/sync-asaas-payments", c.SyncPayments)
	h.Post("/check-expired-subscriptions", c.CheckExpired)
}

// Sweeps answer 200 with the error tally inside the summary. A non-200
// would make the scheduler retry a run that partially succeeded.
func (c *jobsController) SyncPayments(ctx *fiber.Ctx) error {
	summary, err := c.service.SyncPayments(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment sync completed", summary))
}

func (c *jobsController) CheckExpired(ctx *fiber.Ctx) error {
	summary, err := c.service.CheckExpired(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Expiration check completed", summary))
}
