package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"
	"gul-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	minTitleLen       = 3
	maxTitleLen       = 100
	minDescriptionLen = 10
	maxDescriptionLen = 2000
)

type catalogService struct {
	listingRepo  ports.ListingRepository
	listingCache ports.ListingCache
	cacheTTL     time.Duration
	log          zerolog.Logger
}

// NewCatalogService creates the listing catalog service. cacheTTL bounds the
// read-through cache staleness window for single-listing reads.
func NewCatalogService(
	listingRepo ports.ListingRepository,
	listingCache ports.ListingCache,
	cacheTTL time.Duration,
	log zerolog.Logger,
) ports.CatalogService {
	return &catalogService{
		listingRepo:  listingRepo,
		listingCache: listingCache,
		cacheTTL:     cacheTTL,
		log:          log,
	}
}

func (s *catalogService) CreateListing(ctx context.Context, req ports.CreateListingRequest) (*domain.Listing, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	if l := len(req.Title); l < minTitleLen || l > maxTitleLen {
		return nil, apperror.Validation(fmt.Sprintf("title must be %d-%d characters", minTitleLen, maxTitleLen))
	}
	if l := len(req.Description); l < minDescriptionLen || l > maxDescriptionLen {
		return nil, apperror.Validation(fmt.Sprintf("description must be %d-%d characters", minDescriptionLen, maxDescriptionLen))
	}
	if req.Price <= 0 {
		return nil, apperror.Validation("price must be a positive amount of base units")
	}
	if len(req.Images) == 0 {
		return nil, apperror.Validation("at least one image is required")
	}
	if req.Category != nil && !domain.ValidCategory(*req.Category) {
		return nil, apperror.Validation(fmt.Sprintf("unknown category %q", *req.Category))
	}

	now := time.Now().UTC()
	listing := &domain.Listing{
		ID:          uuid.New(),
		SellerID:    req.SellerID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      req.Images,
		Sold:        false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create listing: %w", err))
	}

	s.log.Info().
		Str("listing_id", listing.ID.String()).
		Str("seller_id", listing.SellerID.String()).
		Int64("price", listing.Price).
		Msg("listing created")

	return listing, nil
}

func (s *catalogService) GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	cached, err := s.listingCache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("listing_id", id.String()).Msg("listing cache read failed, falling through to DB")
	}
	if cached != nil {
		listing := &domain.Listing{}
		if err := json.Unmarshal(cached, listing); err == nil {
			return listing, nil
		}
		// Corrupt entry; the DB read below repopulates it.
		s.log.Warn().Str("listing_id", id.String()).Msg("discarding undecodable listing cache entry")
	}

	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get listing: %w", err))
	}
	if listing == nil {
		return nil, apperror.ErrNotFound("listing")
	}

	if data, err := json.Marshal(listing); err == nil {
		if err := s.listingCache.Set(ctx, id, data, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("listing_id", id.String()).Msg("failed to cache listing")
		}
	}

	return listing, nil
}

func (s *catalogService) ListListings(ctx context.Context, filter ports.ListingFilter) ([]domain.Listing, error) {
	if filter.Category != nil && !domain.ValidCategory(*filter.Category) {
		return nil, apperror.Validation(fmt.Sprintf("unknown category %q", *filter.Category))
	}
	if filter.Search != nil {
		trimmed := strings.TrimSpace(*filter.Search)
		if trimmed == "" {
			filter.Search = nil
		} else {
			filter.Search = &trimmed
		}
	}

	listings, err := s.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list listings: %w", err))
	}
	return listings, nil
}

// PatchSoldState is the admin-only escape hatch around the settlement path.
// It still refuses states that violate the sold/buyer pairing.
func (s *catalogService) PatchSoldState(ctx context.Context, id uuid.UUID, sold bool, buyerID *uuid.UUID) (*domain.Listing, error) {
	if sold && buyerID == nil {
		return nil, apperror.Validation("a sold listing requires a buyerId")
	}
	if !sold && buyerID != nil {
		return nil, apperror.Validation("an available listing cannot carry a buyerId")
	}

	listing, err := s.listingRepo.SetSoldState(ctx, id, sold, buyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("set sold state: %w", err))
	}
	if listing == nil {
		return nil, apperror.ErrNotFound("listing")
	}

	if err := s.listingCache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("listing_id", id.String()).Msg("failed to invalidate listing cache")
	}

	s.log.Info().
		Str("listing_id", id.String()).
		Bool("sold", sold).
		Msg("listing sold state patched")

	return listing, nil
}
