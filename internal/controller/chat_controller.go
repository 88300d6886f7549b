package controller

import (
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	StartChat(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	RenameSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/chat/v1")
	h.Use(auth)
	h.Post("/sessions", c.StartChat)
	h.Get("/sessions", c.GetAllSessions)
	h.Get("/sessions/:id", c.GetSession)
	h.Post("/sessions/:id", c.SendChat)
	h.Patch("/sessions/:id", c.RenameSession)
	h.Delete("/sessions/:id", c.DeleteSession)
}

func callerId(ctx *fiber.Ctx) (string, error) {
	caller, ok := ctx.Locals(serverutils.CallerIdKey).(string)
	if !ok || caller == "" {
		return "", serverutils.NewAuthError("Not authenticated")
	}
	return caller, nil
}

// StartChat always opens a fresh session for the first prompt.
func (c *chatController) StartChat(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), caller, uuid.Nil, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

// SendChat continues an existing session; an unknown or foreign id falls
// back to creating a new one, which the client adopts from the response.
func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}

	// unparseable ids (including "new") mean no session was supplied
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), caller, sessionId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) GetAllSessions(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetAllSessions(ctx.Context(), caller)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewNotFoundError("Session not found")
	}

	res, err := c.service.GetSession(ctx.Context(), caller, sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) RenameSession(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewNotFoundError("Session not found")
	}

	var req dto.RenameSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RenameSession(ctx.Context(), caller, sessionId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewNotFoundError("Session not found")
	}

	res, err := c.service.DeleteSession(ctx.Context(), caller, sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
