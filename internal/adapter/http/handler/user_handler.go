package handler

import (
	"net/http"
	"time"

	"gul-marketplace/internal/adapter/http/dto"
	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"
	"gul-marketplace/pkg/apperror"
	"gul-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler handles directory endpoints.
type UserHandler struct {
	directorySvc ports.DirectoryService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(directorySvc ports.DirectoryService) *UserHandler {
	return &UserHandler{directorySvc: directorySvc}
}

// GetUser handles GET /api/v1/users?walletAddress=... — a read that
// provisions the user on first sight, mirroring wallet-connect flows.
func (h *UserHandler) GetUser(c *gin.Context) {
	walletAddress := c.Query("walletAddress")
	if walletAddress == "" {
		response.Error(c, apperror.Validation("walletAddress query parameter is required"))
		return
	}

	user, err := h.directorySvc.ResolveOrCreateUser(c.Request.Context(), walletAddress)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toUserResponse(user))
}

// UpsertUser handles POST /api/v1/users — profile upsert keyed by wallet.
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var req dto.UserUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	user, err := h.directorySvc.UpdateProfile(c.Request.Context(), ports.ProfileUpdateRequest{
		WalletAddress: req.WalletAddress,
		Username:      req.Username,
		Bio:           req.Bio,
		Avatar:        req.Avatar,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toUserResponse(user))
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

// toUserResponse converts domain.User to DTO, embeds included.
func toUserResponse(u *domain.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:            u.ID.String(),
		WalletAddress: u.WalletAddress,
		Username:      u.Username,
		Bio:           u.Bio,
		Avatar:        u.Avatar,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		Listings:      toListingResponses(u.Listings),
		Purchases:     toPurchaseResponses(u.Purchases),
	}
	return resp
}
