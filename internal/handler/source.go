package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ugackMiner53/CrowdTruth/internal/middleware"
	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

type SourceHandler struct {
	svc *service.SourceService
}

func NewSourceHandler(svc *service.SourceService) *SourceHandler {
	return &SourceHandler{svc: svc}
}

// GetInfo handles GET /sources?url=X or GET /sources?hash=X
// The hash form is the privacy-preserving page-identity path; the url form
// remains for direct lookups.
func (h *SourceHandler) GetInfo(c fiber.Ctx) error {
	url := fiber.Query[string](c, "url")
	hash := fiber.Query[string](c, "hash")
	if url == "" && hash == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Missing source url or hash")
	}

	var (
		info interface{}
		err  error
	)
	if hash != "" {
		info, err = h.svc.InfoByHash(c.Context(), hash)
	} else {
		info, err = h.svc.InfoByURL(c.Context(), url)
	}
	if err != nil {
		if service.IsNotFound(err) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Source not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error")
	}

	return c.JSON(info)
}
