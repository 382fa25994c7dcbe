package repositories

import (
	"errors"
	"fmt"

	"github.com/apiarycd/reposync/internal/fetches"
	"github.com/apiarycd/reposync/internal/remoteerr"
	"github.com/apiarycd/reposync/internal/repository"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-core-fx/fiberfx/validation"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const defaultFetchesLimit = 20

type Handler struct {
	repositorySvc *repository.Service
	fetchesSvc    *fetches.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	repositorySvc *repository.Service,
	fetchesSvc *fetches.Service,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		repositorySvc: repositorySvc,
		fetchesSvc:    fetchesSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/repositories")

	r.Use(h.errorsHandler)
	r.Post("/", validation.DecorateWithBodyEx(h.validator, h.post))
	r.Get("/", h.list)
	r.Get("/:id", h.get)
	r.Delete("/:id", h.delete)
	r.Post("/:id/refresh", h.refresh)
	r.Post("/:id/fetch", validation.DecorateWithBodyEx(h.validator, h.fetch))
	r.Delete("/:id/error", h.closeError)
	r.Post("/:id/branches", validation.DecorateWithBodyEx(h.validator, h.createBranch))
	r.Get("/:id/fetches", h.listFetches)
	r.Delete("/:id/fetches", h.clearFetches)
}

//	@Summary		Open a repository
//	@Description	Open a repository by path. Opening an already opened path returns the existing repository.
//	@Tags			repositories
//	@Accept			json
//	@Produce		json
//	@Param			repository	body		OpenRequest	true	"Repository to open"
//	@Success		201			{object}	RepositoryResponse
//	@Failure		400			{object}	fiberfx.ErrorResponse
//	@Router			/repositories [post]
//
// Open a repository.
func (h *Handler) post(c *fiber.Ctx, req *OpenRequest) error {
	resource, err := h.repositorySvc.Open(req.Path)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	return c.Status(fiber.StatusCreated).JSON(toResponse(resource.View()))
}

//	@Summary		List opened repositories
//	@Tags			repositories
//	@Produce		json
//	@Success		200	{array}	RepositoryResponse
//	@Router			/repositories [get]
//
// List opened repositories.
func (h *Handler) list(c *fiber.Ctx) error {
	resources := h.repositorySvc.List()

	return c.JSON(lo.Map(resources, func(r *repository.Resource, _ int) RepositoryResponse {
		return toResponse(r.View())
	}))
}

//	@Summary		Get a repository
//	@Tags			repositories
//	@Produce		json
//	@Param			id	path		string	true	"Repository ID"
//	@Success		200	{object}	RepositoryResponse
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/repositories/{id} [get]
//
// Get a repository.
func (h *Handler) get(c *fiber.Ctx) error {
	resource, err := h.resource(c)
	if err != nil {
		return err
	}

	return c.JSON(toResponse(resource.View()))
}

//	@Summary		Close a repository
//	@Tags			repositories
//	@Param			id	path	string	true	"Repository ID"
//	@Success		204
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/repositories/{id} [delete]
//
// Close a repository.
func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := getRepositoryID(c)
	if err != nil {
		return err
	}

	if closeErr := h.repositorySvc.Close(id); closeErr != nil {
		return fmt.Errorf("failed to close repository: %w", closeErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

//	@Summary		Refresh every view of a repository
//	@Tags			repositories
//	@Param			id	path	string	true	"Repository ID"
//	@Success		202
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/repositories/{id}/refresh [post]
//
// Refresh a repository in the background.
func (h *Handler) refresh(c *fiber.Ctx) error {
	resource, err := h.resource(c)
	if err != nil {
		return err
	}

	if !resource.RefreshAsync() {
		return fmt.Errorf("failed to refresh repository: %w", repository.ErrClosed)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

//	@Summary		Start a fetch
//	@Description	Fetch history and/or tags from the remotes. Only one fetch runs at a time.
//	@Tags			repositories
//	@Accept			json
//	@Param			id		path	string			true	"Repository ID"
//	@Param			fetch	body	FetchRequest	true	"Fetch request"
//	@Success		202
//	@Failure		400	{object}	fiberfx.ErrorResponse
//	@Failure		409	{object}	fiberfx.ErrorResponse
//	@Router			/repositories/{id}/fetch [post]
//
// Start a fetch in the background.
func (h *Handler) fetch(c *fiber.Ctx, req *FetchRequest) error {
	resource, err := h.resource(c)
	if err != nil {
		return err
	}

	if fetchErr := resource.FetchAsync(repository.FetchRequest{Nodes: req.Nodes, Tags: req.Tags}); fetchErr != nil {
		return fmt.Errorf("failed to start fetch: %w", fetchErr)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

//	@Summary		Dismiss the fetch error popup
//	@Tags			repositories
//	@Param			id	path	string	true	"Repository ID"
//	@Success		204
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/repositories/{id}/error [delete]
//
// Dismiss the fetch error.
func (h *Handler) closeError(c *fiber.Ctx) error {
	resource, err := h.resource(c)
	if err != nil {
		return err
	}

	resource.CloseRemoteErrorPopup()

	return c.SendStatus(fiber.StatusNoContent)
}

//	@Summary		Create a branch at HEAD
//	@Tags			repositories
//	@Accept			json
//	@Param			id		path	string			true	"Repository ID"
//	@Param			branch	body	BranchRequest	true	"Branch"
//	@Success		201
//	@Failure		400	{object}	fiberfx.ErrorResponse
//	@Failure		409	{object}	fiberfx.ErrorResponse
//	@Router			/repositories/{id}/branches [post]
//
// Create a branch.
func (h *Handler) createBranch(c *fiber.Ctx, req *BranchRequest) error {
	resource, err := h.resource(c)
	if err != nil {
		return err
	}

	if branchErr := resource.CreateNewBranch(c.Context(), req.Name); branchErr != nil {
		return fmt.Errorf("failed to create branch: %w", branchErr)
	}

	return c.SendStatus(fiber.StatusCreated)
}

//	@Summary		List recent fetches
//	@Tags			repositories
//	@Produce		json
//	@Param			id		path	string	true	"Repository ID"
//	@Param			limit	query	int		false	"Maximum number of records"
//	@Success		200		{array}	FetchRecordResponse
//	@Router			/repositories/{id}/fetches [get]
//
// List recent fetches, newest first.
func (h *Handler) listFetches(c *fiber.Ctx) error {
	resource, err := h.resource(c)
	if err != nil {
		return err
	}

	records, err := h.fetchesSvc.ListByPath(c.Context(), resource.Path(), c.QueryInt("limit", defaultFetchesLimit))
	if err != nil {
		return fmt.Errorf("failed to list fetches: %w", err)
	}

	return c.JSON(lo.Map(records, toRecordResponse))
}

//	@Summary		Clear the fetch history
//	@Tags			repositories
//	@Param			id	path	string	true	"Repository ID"
//	@Success		204
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/repositories/{id}/fetches [delete]
func (h *Handler) clearFetches(c *fiber.Ctx) error {
	resource, err := h.resource(c)
	if err != nil {
		return err
	}

	if forgetErr := h.fetchesSvc.Forget(c.Context(), resource.Path()); forgetErr != nil {
		return fmt.Errorf("failed to clear fetches: %w", forgetErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) resource(c *fiber.Ctx) (*repository.Resource, error) {
	id, err := getRepositoryID(c)
	if err != nil {
		return nil, err
	}

	resource, err := h.repositorySvc.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}

	return resource, nil
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrClosed):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrFetchInProgress), errors.Is(err, repository.ErrNotInited):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrEmptyFetchRequest),
		errors.Is(err, repository.ErrInvalidPath),
		errors.Is(err, repository.ErrEmptyBranchName):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	switch repository.ErrorCode(err) {
	case remoteerr.CodeBranchExists:
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case remoteerr.CodeInvalidBranchName, remoteerr.CodeNotARepository:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
	}

	return err //nolint:wrapcheck //already wrapped
}
