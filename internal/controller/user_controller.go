package controller

import (
	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	GetById(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Post("/register", c.Register)
	h.Get("/", serverutils.JwtMiddleware, c.GetAll)
	h.Get("/:id", serverutils.JwtMiddleware, c.GetById)
	h.Put("/:id", serverutils.JwtMiddleware, c.Update)
	h.Delete("/:id", serverutils.JwtMiddleware, c.Delete)
}

func (c *userController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterUserRequest
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

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "User registered successfully",
		"data":    res,
	})
}

func (c *userController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.Context())
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

func (c *userController) GetById(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.ErrBadRequest
	}

	res, err := c.service.GetById(ctx.Context(), id)
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

// Update is self-service only. Callers can change their own account, nobody
// else's.
func (c *userController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.ErrBadRequest
	}
	caller, err := callerID(ctx)
	if err != nil || caller != id {
		return fail(ctx, service.ErrUnauthorized)
	}

	var req dto.UpdateUserRequest
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

	res, err := c.service.Update(ctx.Context(), id, &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "User updated",
		"data":    res,
	})
}

func (c *userController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.ErrBadRequest
	}
	caller, err := callerID(ctx)
	if err != nil || caller != id {
		return fail(ctx, service.ErrUnauthorized)
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "User deleted",
		"data":    nil,
	})
}
