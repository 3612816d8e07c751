package controller

import (
	"io"

	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// maxUploadBytes caps a single file upload.
const maxUploadBytes = 10 << 20

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
}

type fileController struct {
	service service.IFileService
}

func NewFileController(service service.IFileService) IFileController {
	return &fileController{service: service}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/files", serverutils.JwtMiddleware)
	h.Post("/upload", c.Upload)
	h.Get("/:name", c.Download)
}

// Upload accepts multipart form data: a file field plus the chatSessionId the
// file belongs to.
func (c *fileController) Upload(ctx *fiber.Ctx) error {
	sessionID, err := uuid.Parse(ctx.FormValue("chatSessionId"))
	if err != nil {
		return fiber.ErrBadRequest
	}
	uploaderID, err := callerID(ctx)
	if err != nil {
		return fail(ctx, service.ErrUnauthorized)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.ErrBadRequest
	}
	if fileHeader.Size > maxUploadBytes {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.ErrBadRequest
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return fiber.ErrBadRequest
	}

	res, err := c.service.Upload(ctx.Context(), sessionID, uploaderID, fileHeader.Filename, content)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "File uploaded",
		"data":    res,
	})
}

func (c *fileController) Download(ctx *fiber.Ctx) error {
	name := ctx.Params("name")
	if name == "" {
		return fiber.ErrBadRequest
	}

	content, fileName, err := c.service.GetFile(ctx.Context(), name)
	if err != nil {
		return fail(ctx, err)
	}

	ctx.Attachment(fileName)
	return ctx.Send(content)
}
