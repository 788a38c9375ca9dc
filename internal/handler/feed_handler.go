package handler

import (
	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/internal/pkg/serverutils"
	"morning-pulse-be/internal/service"
	internalWS "morning-pulse-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedHandler serves the story feed and its live websocket.
type FeedHandler struct {
	stories service.IStoryService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewFeedHandler(stories service.IStoryService, hub *internalWS.Hub, log logger.ILogger) *FeedHandler {
	return &FeedHandler{
		stories: stories,
		hub:     hub,
		logger:  log,
	}
}

func (h *FeedHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/feed")
	g.Get("", h.GetFeed)
	g.Get("/ws", h.ServeWs)
}

func (h *FeedHandler) GetFeed(c *fiber.Ctx) error {
	var query dto.FeedQuery
	if err := c.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := h.stories.Feed(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Success get feed", res))
}

// ServeWs upgrades anonymous readers; the feed is public.
func (h *FeedHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Debug(constant.ModuleFeed, "WebSocket session started", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		internalWS.ServeWs(h.hub, conn)
		h.logger.Debug(constant.ModuleFeed, "WebSocket session ended", map[string]interface{}{"remote": conn.RemoteAddr().String()})
	})(c)
}
