package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ugackMiner53/CrowdTruth/internal/middleware"
	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/repository"
	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	id, errMsg := middleware.ValidateUserID(req.ID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.ID = id

	email, errMsg := middleware.ValidateEmail(req.Email)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.Email = email

	if errMsg := middleware.ValidatePassword(req.Password); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}

	if err := h.svc.Register(c.Context(), req); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return middleware.ErrorResponse(c, fiber.StatusConflict,
				"Registration failed. Email may already be in use.")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "userId": req.ID})
}

// Login handles POST /login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Missing email or password")
	}

	resp, err := h.svc.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error")
	}

	return c.JSON(resp)
}
