package controller

import (
	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/login", c.Login)
	h.Post("/refresh", c.Refresh)
	h.Post("/logout", c.Logout)
	h.Get("/me", serverutils.JwtMiddleware, c.Me)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
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

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Login successful",
		"data":    res,
	})
}

func (c *authController) Refresh(ctx *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
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

	res, err := c.service.Refresh(ctx.Context(), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Token refreshed",
		"data":    res,
	})
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	if err := c.service.Logout(ctx.Context(), &req); err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Logged out",
		"data":    nil,
	})
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	userID, err := callerID(ctx)
	if err != nil {
		return fail(ctx, service.ErrUnauthorized)
	}

	res, err := c.service.Me(ctx.Context(), userID)
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

// callerID reads the authenticated user id placed in locals by the JWT
// middleware.
func callerID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	return uuid.Parse(raw)
}
