package controller

import (
	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"
	"support-chat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	StartChat(ctx *fiber.Ctx) error
	EndChat(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	GetById(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	hub     *websocket.Hub
}

func NewChatController(service service.IChatService, hub *websocket.Hub) IChatController {
	return &chatController{service: service, hub: hub}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chats", serverutils.JwtMiddleware)
	h.Post("/start", c.StartChat)
	h.Post("/end/:id", c.EndChat)
	h.Post("/messages", c.SendMessage)
	h.Get("/messages/:sessionId", c.GetMessages)
	h.Get("/all", c.GetAll)
	h.Get("/:id", c.GetById)
}

func (c *chatController) StartChat(ctx *fiber.Ctx) error {
	var req dto.StartChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}

	res, err := c.service.StartChat(ctx.Context(), &req)
	if err != nil {
		return fail(ctx, err)
	}

	// Let every online agent see the new session immediately.
	c.hub.NotifyAgents(res)

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Chat session started",
		"data":    res,
	})
}

func (c *chatController) EndChat(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.ErrBadRequest
	}

	res, err := c.service.EndChat(ctx.Context(), id)
	if err != nil {
		return fail(ctx, err)
	}
	// Missing or already ended sessions produce no result to broadcast.
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"code":    404,
			"message": "Chat session not found or already ended",
		})
	}

	c.hub.BroadcastChatEnded(res)

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat session ended",
		"data":    res,
	})
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}

	res, err := c.service.SendMessage(ctx.Context(), &req)
	if err != nil {
		return fail(ctx, err)
	}

	c.hub.BroadcastMessage(res)

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Message sent",
		"data":    res,
	})
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return fiber.ErrBadRequest
	}

	res, err := c.service.GetMessages(ctx.Context(), id)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    res,
	})
}

func (c *chatController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAllChats(ctx.Context())
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    res,
	})
}

func (c *chatController) GetById(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.ErrBadRequest
	}

	res, err := c.service.GetChatById(ctx.Context(), id)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    res,
	})
}
