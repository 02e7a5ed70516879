package handler

import (
	"errors"
	"time"

	"gul-marketplace/internal/adapter/fallback"
	"gul-marketplace/internal/adapter/http/dto"
	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"
	"gul-marketplace/pkg/apperror"
	"gul-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListingHandler handles catalog endpoints.
type ListingHandler struct {
	catalogSvc   ports.CatalogService
	directorySvc ports.DirectoryService
	demo         *fallback.DemoCatalog // nil = fallback disabled
}

// NewListingHandler creates a new ListingHandler. A non-nil demo catalog is
// served when the real catalog is unreachable.
func NewListingHandler(catalogSvc ports.CatalogService, directorySvc ports.DirectoryService, demo *fallback.DemoCatalog) *ListingHandler {
	return &ListingHandler{catalogSvc: catalogSvc, directorySvc: directorySvc, demo: demo}
}

// ListListings handles GET /api/v1/listings.
func (h *ListingHandler) ListListings(c *gin.Context) {
	filter, err := parseListingFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	listings, err := h.catalogSvc.ListListings(c.Request.Context(), filter)
	if err != nil {
		if h.demo != nil && isInternal(err) {
			response.OK(c, toListingResponses(h.demo.List(filter)))
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, toListingResponses(listings))
}

// GetListing handles GET /api/v1/listings/:id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a UUID"))
		return
	}

	listing, err := h.catalogSvc.GetListing(c.Request.Context(), id)
	if err != nil {
		if h.demo != nil && isInternal(err) {
			if demoListing := h.demo.Get(id); demoListing != nil {
				response.OK(c, toListingResponse(demoListing))
				return
			}
		}
		response.Error(c, err)
		return
	}

	response.OK(c, toListingResponse(listing))
}

// CreateListing handles POST /api/v1/listings.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	// The storefront only knows wallets; resolve (or provision) the seller.
	seller, err := h.directorySvc.ResolveOrCreateUser(c.Request.Context(), req.SellerWallet)
	if err != nil {
		response.Error(c, err)
		return
	}

	var category *domain.Category
	if req.Category != nil && *req.Category != "" {
		cat := domain.Category(*req.Category)
		category = &cat
	}

	listing, err := h.catalogSvc.CreateListing(c.Request.Context(), ports.CreateListingRequest{
		SellerID:    seller.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    category,
		Images:      req.Images,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toListingResponse(listing))
}

// PatchListing handles PATCH /api/v1/listings/:id (admin-key guarded).
func (h *ListingHandler) PatchListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a UUID"))
		return
	}

	var req dto.PatchListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var buyerID *uuid.UUID
	if req.BuyerID != nil {
		parsed, err := uuid.Parse(*req.BuyerID)
		if err != nil {
			response.Error(c, apperror.Validation("buyerId must be a UUID"))
			return
		}
		buyerID = &parsed
	}

	listing, err := h.catalogSvc.PatchSoldState(c.Request.Context(), id, req.Sold, buyerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toListingResponse(listing))
}

func parseListingFilter(c *gin.Context) (ports.ListingFilter, error) {
	var filter ports.ListingFilter

	if raw := c.Query("sellerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, apperror.Validation("sellerId must be a UUID")
		}
		filter.SellerID = &id
	}
	if raw := c.Query("category"); raw != "" {
		cat := domain.Category(raw)
		filter.Category = &cat
	}
	if raw := c.Query("sold"); raw != "" {
		switch raw {
		case "true":
			v := true
			filter.Sold = &v
		case "false":
			v := false
			filter.Sold = &v
		default:
			return filter, apperror.Validation("sold must be true or false")
		}
	}
	if raw := c.Query("search"); raw != "" {
		filter.Search = &raw
	}

	return filter, nil
}

// isInternal reports whether err is an infrastructure failure rather than a
// business outcome; only those trigger the demo fallback.
func isInternal(err error) bool {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code == "SYS_001"
	}
	return true
}

// toListingResponse converts domain.Listing to DTO.
func toListingResponse(l *domain.Listing) dto.ListingResponse {
	resp := dto.ListingResponse{
		ID:          l.ID.String(),
		SellerID:    l.SellerID.String(),
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Images:      l.Images,
		Sold:        l.Sold,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.Format(time.RFC3339),
	}
	if l.Category != nil {
		s := string(*l.Category)
		resp.Category = &s
	}
	if l.BuyerID != nil {
		s := l.BuyerID.String()
		resp.BuyerID = &s
	}
	if l.Seller != nil {
		resp.Seller = &dto.SellerResponse{
			WalletAddress: l.Seller.WalletAddress,
			Username:      l.Seller.Username,
			Avatar:        l.Seller.Avatar,
		}
	}
	return resp
}

func toListingResponses(listings []domain.Listing) []dto.ListingResponse {
	out := make([]dto.ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, toListingResponse(&listings[i]))
	}
	return out
}
