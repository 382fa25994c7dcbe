package credentials

import (
	"errors"
	"fmt"

	"github.com/apiarycd/reposync/internal/credentials"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-core-fx/fiberfx/validation"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	credentialsSvc *credentials.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(credentialsSvc *credentials.Service, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		credentialsSvc: credentialsSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/credentials")

	r.Use(h.errorsHandler)
	r.Get("/", h.list)
	r.Post("/:id", validation.DecorateWithBodyEx(h.validator, h.post))
}

//	@Summary		List pending credential prompts
//	@Tags			credentials
//	@Produce		json
//	@Success		200	{array}	PromptResponse
//	@Router			/credentials [get]
//
// List pending prompts, oldest first.
func (h *Handler) list(c *fiber.Ctx) error {
	prompts := h.credentialsSvc.Pending()

	return c.JSON(lo.Map(prompts, func(p credentials.Prompt, _ int) PromptResponse {
		return PromptResponse(p)
	}))
}

//	@Summary		Answer a credential prompt
//	@Tags			credentials
//	@Accept			json
//	@Param			id			path	string			true	"Prompt ID"
//	@Param			credentials	body	ProvideRequest	true	"Credentials"
//	@Success		204
//	@Failure		400	{object}	fiberfx.ErrorResponse
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/credentials/{id} [post]
//
// Answer a prompt.
func (h *Handler) post(c *fiber.Ctx, req *ProvideRequest) error {
	cred := credentials.Credential{
		Username: req.Username,
		Password: req.Password,
	}

	if err := h.credentialsSvc.Provide(c.Params("id"), cred); err != nil {
		return fmt.Errorf("failed to provide credentials: %w", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	if errors.Is(err, credentials.ErrPromptNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
