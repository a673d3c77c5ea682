package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ugackMiner53/CrowdTruth/internal/middleware"
	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/repository"
	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(svc *service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// Submit handles POST /votes (authenticated)
func (h *VoteHandler) Submit(c fiber.Ctx) error {
	var req model.VoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.PostID == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Missing postId")
	}
	if errMsg := middleware.ValidateRating(req.Rating); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}

	userID := middleware.AuthedUserID(c)

	resp, err := h.svc.Submit(c.Context(), userID, req)
	if err != nil {
		// The duplicate-vote case must stay distinguishable from a generic
		// failure: the extension rephrases this exact string for the user.
		if errors.Is(err, repository.ErrDuplicateVote) || errors.Is(err, repository.ErrUnknownPost) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, "Already voted or invalid post")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to submit vote")
	}

	Metrics.VotesTotal.Inc()
	return c.Status(fiber.StatusCreated).JSON(resp)
}
