package handler

import (
	"time"

	"gul-marketplace/internal/adapter/http/dto"
	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"
	"gul-marketplace/pkg/apperror"
	"gul-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseHandler handles settlement endpoints.
type PurchaseHandler struct {
	settlementSvc ports.SettlementService
	directorySvc  ports.DirectoryService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(settlementSvc ports.SettlementService, directorySvc ports.DirectoryService) *PurchaseHandler {
	return &PurchaseHandler{settlementSvc: settlementSvc, directorySvc: directorySvc}
}

// CreatePurchase handles POST /api/v1/purchases. The client reports the
// on-chain transfer it made; settlement reconciles the listing state.
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		response.Error(c, apperror.Validation("listingId must be a UUID"))
		return
	}

	buyer, err := h.directorySvc.ResolveOrCreateUser(c.Request.Context(), req.BuyerWallet)
	if err != nil {
		response.Error(c, err)
		return
	}

	purchase, err := h.settlementSvc.AttemptPurchase(c.Request.Context(), ports.PurchaseRequest{
		ListingID:            listingID,
		BuyerID:              buyer.ID,
		TransactionSignature: req.TransactionSignature,
		Amount:               req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toPurchaseResponse(purchase))
}

// ListPurchases handles GET /api/v1/purchases?buyerId=...
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	var buyerID *uuid.UUID
	if raw := c.Query("buyerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Validation("buyerId must be a UUID"))
			return
		}
		buyerID = &id
	}

	purchases, err := h.settlementSvc.ListPurchases(c.Request.Context(), buyerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toPurchaseResponses(purchases))
}

// toPurchaseResponse converts domain.Purchase to DTO.
func toPurchaseResponse(p *domain.Purchase) dto.PurchaseResponse {
	resp := dto.PurchaseResponse{
		ID:                   p.ID.String(),
		ListingID:            p.ListingID.String(),
		BuyerID:              p.BuyerID.String(),
		TransactionSignature: p.TransactionSignature,
		Amount:               p.Amount,
		CreatedAt:            p.CreatedAt.Format(time.RFC3339),
	}
	if p.Listing != nil {
		listing := toListingResponse(p.Listing)
		resp.Listing = &listing
	}
	if p.Buyer != nil {
		resp.Buyer = &dto.SellerResponse{
			WalletAddress: p.Buyer.WalletAddress,
			Username:      p.Buyer.Username,
			Avatar:        p.Buyer.Avatar,
		}
	}
	return resp
}

func toPurchaseResponses(purchases []domain.Purchase) []dto.PurchaseResponse {
	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, toPurchaseResponse(&purchases[i]))
	}
	return out
}
