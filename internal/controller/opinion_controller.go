package controller

import (
	"errors"

	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/pkg/serverutils"
	"morning-pulse-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOpinionController interface {
	RegisterRoutes(r fiber.Router, editorOnly fiber.Handler)
	GetPublished(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	GetPending(ctx *fiber.Ctx) error
	Publish(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
}

type opinionController struct {
	service service.IOpinionService
}

func NewOpinionController(service service.IOpinionService) IOpinionController {
	return &opinionController{service: service}
}

func (c *opinionController) RegisterRoutes(r fiber.Router, editorOnly fiber.Handler) {
	h := r.Group("/opinions")
	h.Get("", c.GetPublished)
	h.Post("", c.Submit)
	h.Get("/pending", editorOnly, c.GetPending)
	h.Put("/:id/publish", editorOnly, c.Publish)
	h.Put("/:id/reject", editorOnly, c.Reject)
}

func (c *opinionController) GetPublished(ctx *fiber.Ctx) error {
	res, err := c.service.Published(ctx.UserContext(), ctx.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get opinions", res))
}

func (c *opinionController) Submit(ctx *fiber.Ctx) error {
	var req dto.SubmitOpinionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Submit(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Opinion submitted for review", res))
}

func (c *opinionController) GetPending(ctx *fiber.Ctx) error {
	res, err := c.service.Pending(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get review queue", res))
}

func (c *opinionController) Publish(ctx *fiber.Ctx) error {
	editorId, err := editorID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Publish(ctx.UserContext(), editorId, id)
	if err != nil {
		return reviewError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Opinion published", res))
}

func (c *opinionController) Reject(ctx *fiber.Ctx) error {
	editorId, err := editorID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.RejectOpinionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := serverutils.ValidateRequest(req); err != nil {
			return err
		}
	}

	res, err := c.service.Reject(ctx.UserContext(), editorId, id, req.Reason)
	if err != nil {
		return reviewError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Opinion rejected", res))
}

func reviewError(err error) error {
	switch {
	case errors.Is(err, service.ErrOpinionNotFound):
		return serverutils.WithStatus(fiber.StatusNotFound, err)
	case errors.Is(err, service.ErrInvalidTransition):
		return serverutils.WithStatus(fiber.StatusConflict, err)
	}
	return err
}
