package controller

import (
	"errors"

	"real-estate-be/internal/dto"
	"real-estate-be/internal/pkg/serverutils"
	"real-estate-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// emptyMessageReply is the fixed 400 body for blank assistant messages.
const emptyMessageReply = "Please type a message so I can help you."

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	DescribeSession(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{assistantService: assistantService}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	// Conversation identity lives in the sessionId; the JWT only gates
	// access to the widget.
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/chat", c.Chat)
	h.Post("/session/clear", c.ClearSession)
	h.Get("/session/:sessionId", c.DescribeSession)
}

// Chat returns the bare assistant payload, not the standard envelope. It
// never answers 5xx for downstream failures: the service degrades to a
// fallback reply instead.
func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	var req dto.AssistantChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, emptyMessageReply))
	}

	res, err := c.assistantService.Chat(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, emptyMessageReply))
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.JSON(res)
}

func (c *assistantController) ClearSession(ctx *fiber.Ctx) error {
	var req dto.ClearSessionRequest
	// A malformed or empty body just means "no session to clear"
	_ = ctx.BodyParser(&req)

	res := c.assistantService.ClearSession(ctx.Context(), &req)
	return ctx.JSON(res)
}

func (c *assistantController) DescribeSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")

	res, err := c.assistantService.DescribeSession(ctx.Context(), sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
	}
	return ctx.JSON(res)
}
