package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/ugackMiner53/CrowdTruth/internal/middleware"
	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/repository"
	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

type SearchHandler struct {
	sources *service.SourceService
	posts   *repository.PostRepo
}

func NewSearchHandler(sources *service.SourceService, posts *repository.PostRepo) *SearchHandler {
	return &SearchHandler{sources: sources, posts: posts}
}

// Search handles GET /search?q=term&type=sources|posts&limit=N
func (h *SearchHandler) Search(c fiber.Ctx) error {
	query := strings.TrimSpace(fiber.Query[string](c, "q"))
	if query == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Missing search query")
	}
	if len(query) > 200 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Search query too long")
	}

	typ := fiber.Query[string](c, "type", "sources")
	if typ != "sources" && typ != "posts" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid search type")
	}

	limit := fiber.Query[int](c, "limit", 20)
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	results, err := h.sources.Search(c.Context(), h.posts, query, typ, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Search failed")
	}
	return c.JSON(model.SearchResponse{OK: true, Type: typ, Results: results})
}
