package controller

import (
	"errors"

	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/pkg/serverutils"
	"morning-pulse-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEditorController interface {
	RegisterRoutes(r fiber.Router, editorOnly fiber.Handler)
	Login(ctx *fiber.Ctx) error
	SessionLog(ctx *fiber.Ctx) error
}

type editorController struct {
	service service.IEditorService
	archive service.IArchiveService
}

func NewEditorController(service service.IEditorService, archive service.IArchiveService) IEditorController {
	return &editorController{service: service, archive: archive}
}

func (c *editorController) RegisterRoutes(r fiber.Router, editorOnly fiber.Handler) {
	h := r.Group("/editor")
	h.Post("/login", c.Login)
	h.Get("/ask-logs/:sessionId", editorOnly, c.SessionLog)
}

func (c *editorController) Login(ctx *fiber.Ctx) error {
	var req dto.EditorLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return serverutils.WithStatus(fiber.StatusUnauthorized, err)
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success login", res))
}

// SessionLog lists the archived questions of one reader session.
func (c *editorController) SessionLog(ctx *fiber.Ctx) error {
	logs, err := c.archive.SessionLog(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	res := make([]dto.AskLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, dto.AskLogResponse{
			Id:         l.Id.String(),
			Question:   l.Question,
			Answer:     l.Answer,
			Sources:    l.Sources,
			Failed:     l.Failed,
			Truncated:  l.Truncated,
			DurationMs: l.DurationMs,
			CreatedAt:  l.CreatedAt,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get ask log", res))
}
