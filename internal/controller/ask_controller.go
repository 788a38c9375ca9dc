package controller

import (
	"bufio"
	"context"
	"errors"
	"sync"
	"time"

	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/pkg/serverutils"
	"morning-pulse-be/internal/service"
	"morning-pulse-be/pkg/llm"
	"morning-pulse-be/pkg/rag/stream"

	"github.com/gofiber/fiber/v2"
)

type IAskController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
}

type askController struct {
	service           service.IAskService
	heartbeatInterval time.Duration
}

func NewAskController(service service.IAskService) IAskController {
	return &askController{service: service, heartbeatInterval: constant.SSEHeartbeatInterval}
}

func (c *askController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ask")
	h.Post("", c.Ask)
	h.Delete("/session/:id", c.ResetSession)
}

func (c *askController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if req.Stream {
		return c.stream(ctx, &req)
	}

	res, err := c.service.Ask(ctx.UserContext(), &req, nil)
	if err != nil {
		code, message := failure(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, message))
	}
	// answers go out bare as {text, sources}; errors keep the envelope
	return ctx.JSON(res)
}

// stream answers over SSE. The body writer runs after the handler returns, so
// the request context is detached from the fiber ctx first.
func (c *askController) stream(ctx *fiber.Ctx, req *dto.AskRequest) error {
	for k, v := range stream.Headers {
		ctx.Set(k, v)
	}
	parent := context.WithoutCancel(ctx.UserContext())

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		runCtx, cancel := context.WithCancel(parent)
		writer := stream.NewWriter(w)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.heartbeat(runCtx, writer)
		}()
		// w is recycled once this func returns
		defer wg.Wait()
		defer cancel()

		onChunk := func(text string) error {
			if err := writer.Chunk(text); err != nil {
				// the reader went away
				cancel()
				return err
			}
			return nil
		}

		res, err := c.service.Ask(runCtx, req, onChunk)
		if err != nil {
			_, message := failure(err)
			_ = writer.Error(message)
			return
		}
		_ = writer.Done(res.Text, res.Sources)
	})
	return nil
}

func (c *askController) heartbeat(ctx context.Context, writer *stream.Writer) {
	if c.heartbeatInterval <= 0 {
		return
	}
	ticker := time.NewTicker(c.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if writer.Heartbeat() != nil {
				return
			}
		}
	}
}

func (c *askController) ResetSession(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if !c.service.ResetSession(id) {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success reset session", nil))
}

// failure maps an ask error to the status and the message shown to the reader.
func failure(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyQuestion):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, llm.ErrQuotaExceeded):
		return fiber.StatusTooManyRequests, llm.QuotaMessage
	default:
		return fiber.StatusBadGateway, llm.FallbackMessage
	}
}
