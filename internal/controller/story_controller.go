package controller

import (
	"errors"

	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/pkg/serverutils"
	"morning-pulse-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStoryController interface {
	RegisterRoutes(r fiber.Router, editorOnly fiber.Handler)
	Publish(ctx *fiber.Ctx) error
	Retract(ctx *fiber.Ctx) error
}

type storyController struct {
	service service.IStoryService
}

func NewStoryController(service service.IStoryService) IStoryController {
	return &storyController{service: service}
}

func (c *storyController) RegisterRoutes(r fiber.Router, editorOnly fiber.Handler) {
	h := r.Group("/stories")
	h.Post("", editorOnly, c.Publish)
	h.Delete("/:id", editorOnly, c.Retract)
}

func (c *storyController) Publish(ctx *fiber.Ctx) error {
	editorId, err := editorID(ctx)
	if err != nil {
		return err
	}

	var req dto.PublishStoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Publish(ctx.UserContext(), editorId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success publish story", res))
}

func (c *storyController) Retract(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err := c.service.Retract(ctx.UserContext(), id); err != nil {
		if errors.Is(err, service.ErrStoryNotFound) {
			return serverutils.WithStatus(fiber.StatusNotFound, err)
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Story retracted", nil))
}
