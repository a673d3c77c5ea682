package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/ugackMiner53/CrowdTruth/internal/middleware"
	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

type UserHandler struct {
	users *service.UserService
	posts *service.PostService
}

func NewUserHandler(users *service.UserService, posts *service.PostService) *UserHandler {
	return &UserHandler{users: users, posts: posts}
}

// GetProfile handles GET /users/:userId
func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}

	user, err := h.users.Profile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "User not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error")
	}

	return c.JSON(fiber.Map{"ok": true, "userId": user.ID, "email": user.Email})
}

// GetPosts handles GET /users/:userId/posts?limit=N&offset=N
func (h *UserHandler) GetPosts(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}

	limit := fiber.Query[int](c, "limit", 50)
	offset := fiber.Query[int](c, "offset", 0)
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := h.posts.ListByUser(c.Context(), userID, limit, offset)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error")
	}

	return c.JSON(model.UserPostsResponse{OK: true, UserID: userID, Posts: posts})
}

// GetStats handles GET /users/:userId/stats
func (h *UserHandler) GetStats(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}

	stats, err := h.users.Stats(c.Context(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error")
	}
	return c.JSON(stats)
}
