package handler

import (
	"gul-marketplace/internal/adapter/http/dto"
	"gul-marketplace/internal/core/ports"
	"gul-marketplace/pkg/apperror"
	"gul-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// BalanceHandler exposes the on-chain $GUL balance read.
type BalanceHandler struct {
	chainGw ports.ChainGateway
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(chainGw ports.ChainGateway) *BalanceHandler {
	return &BalanceHandler{chainGw: chainGw}
}

// GetBalance handles GET /api/v1/balance?walletAddress=...
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	walletAddress := c.Query("walletAddress")
	if walletAddress == "" {
		response.Error(c, apperror.Validation("walletAddress query parameter is required"))
		return
	}

	balance, err := h.chainGw.GetTokenBalance(c.Request.Context(), walletAddress)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OK(c, dto.BalanceResponse{
		WalletAddress: walletAddress,
		Amount:        balance.Amount,
		Decimals:      balance.Decimals,
	})
}
