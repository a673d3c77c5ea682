package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ugackMiner53/CrowdTruth/internal/middleware"
	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// List handles GET /posts?url=<page-identity-hash>
// Responds with a bare Post array; an unknown page yields an empty array so
// the extension can treat "no data" and "no posts" uniformly.
func (h *PostHandler) List(c fiber.Ctx) error {
	hash := fiber.Query[string](c, "url")
	if hash == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Missing url parameter")
	}

	posts, err := h.svc.ListBySourceHash(c.Context(), hash)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error")
	}
	return c.JSON(posts)
}

// Submit handles POST /posts (authenticated)
func (h *PostHandler) Submit(c fiber.Ctx) error {
	var req model.PostRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	url, errMsg := middleware.ValidateURL(req.URL)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.URL = url

	title, errMsg := middleware.ValidateTitle(req.Title)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.Title = title

	comment, errMsg := middleware.ValidateComment(req.Comment)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.Comment = comment

	userID := middleware.AuthedUserID(c)

	resp, err := h.svc.Create(c.Context(), userID, req)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error")
	}

	Metrics.PostsTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(resp)
}
