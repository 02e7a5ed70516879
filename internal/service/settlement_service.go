package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"
	"gul-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const purchaseCacheTTL = 24 * time.Hour

// SettlementServiceImpl implements ports.SettlementService.
type SettlementServiceImpl struct {
	listingRepo   ports.ListingRepository
	purchaseRepo  ports.PurchaseRepository
	purchaseCache ports.PurchaseCache
	listingCache  ports.ListingCache
	verifier      ports.TransferVerifier // nil = trust the reported signature
	transactor    ports.DBTransactor
	log           zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl. A nil verifier
// disables on-chain verification and settles on the caller's word, which is
// the default contract; wiring a verifier in is the hardened mode.
func NewSettlementService(
	listingRepo ports.ListingRepository,
	purchaseRepo ports.PurchaseRepository,
	purchaseCache ports.PurchaseCache,
	listingCache ports.ListingCache,
	verifier ports.TransferVerifier,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		listingRepo:   listingRepo,
		purchaseRepo:  purchaseRepo,
		purchaseCache: purchaseCache,
		listingCache:  listingCache,
		verifier:      verifier,
		transactor:    transactor,
		log:           log,
	}
}

// AttemptPurchase settles the off-chain side of a purchase with pessimistic
// locking. The transaction signature doubles as the idempotency key: a
// replayed settlement returns the purchase recorded the first time.
func (s *SettlementServiceImpl) AttemptPurchase(ctx context.Context, req ports.PurchaseRequest) (*domain.Purchase, error) {
	if req.Amount <= 0 {
		return nil, apperror.Validation("amount must be a positive amount of base units")
	}
	if req.TransactionSignature == "" {
		return nil, apperror.Validation("transactionSignature is required")
	}

	// Layer 1: Redis idempotency check
	cached, err := s.purchaseCache.Get(ctx, req.TransactionSignature)
	if err != nil {
		s.log.Warn().Err(err).Str("signature", req.TransactionSignature).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		if recorded, err := s.unmarshalCachedPurchase(cached); err == nil {
			if recorded.ListingID != req.ListingID || recorded.BuyerID != req.BuyerID {
				return nil, apperror.ErrDuplicateSignature()
			}
			return recorded, nil
		}
		// Corrupt cache entry: ignore it and settle via the DB path.
		s.log.Warn().Str("signature", req.TransactionSignature).Msg("discarding corrupt cached purchase")
	}

	// Layer 2: DB idempotency check
	existing, err := s.purchaseRepo.GetBySignature(ctx, req.TransactionSignature)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if existing != nil {
		if existing.ListingID != req.ListingID || existing.BuyerID != req.BuyerID {
			// Same signature, different purchase: a replayed receipt.
			return nil, apperror.ErrDuplicateSignature()
		}
		return existing, nil
	}

	// Optional on-chain verification before touching any state.
	if s.verifier != nil {
		if err := s.verifier.VerifyTransfer(ctx, req.TransactionSignature, req.Amount); err != nil {
			return nil, apperror.ErrTransferNotVerified(err)
		}
	}

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get listing
	listing, err := s.listingRepo.GetByIDForUpdate(ctx, dbTx, req.ListingID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock listing: %w", err))
	}
	if listing == nil {
		return nil, apperror.ErrNotFound("listing")
	}

	// Guards, in order
	if listing.Sold {
		return nil, apperror.ErrAlreadySold()
	}
	if listing.SellerID == req.BuyerID {
		return nil, apperror.ErrSelfPurchase()
	}
	if listing.Price != req.Amount {
		return nil, apperror.ErrAmountMismatch()
	}

	now := time.Now().UTC()
	purchase := &domain.Purchase{
		ID:                   uuid.New(),
		ListingID:            req.ListingID,
		BuyerID:              req.BuyerID,
		TransactionSignature: req.TransactionSignature,
		Amount:               req.Amount,
		CreatedAt:            now,
	}

	// Persist: purchase row (unique transaction_signature)
	if err := s.purchaseRepo.Create(ctx, dbTx, purchase); err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return nil, apperror.ErrDuplicateSignature()
		}
		return nil, apperror.InternalError(fmt.Errorf("create purchase: %w", err))
	}

	// Persist: flip the sold flag, guarded against a concurrent winner
	flipped, err := s.listingRepo.MarkSold(ctx, dbTx, req.ListingID, req.BuyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("mark listing sold: %w", err))
	}
	if !flipped {
		return nil, apperror.ErrAlreadySold()
	}

	// Commit
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-process: cache the settled purchase, drop the stale listing (best-effort)
	if respJSON, err := json.Marshal(purchase); err == nil {
		if err := s.purchaseCache.Set(ctx, req.TransactionSignature, respJSON, purchaseCacheTTL); err != nil {
			s.log.Warn().Err(err).Str("signature", req.TransactionSignature).Msg("failed to cache settled purchase")
		}
	}
	if err := s.listingCache.Invalidate(ctx, req.ListingID); err != nil {
		s.log.Warn().Err(err).Str("listing_id", req.ListingID.String()).Msg("failed to invalidate listing cache")
	}

	s.log.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("listing_id", req.ListingID.String()).
		Str("buyer_id", req.BuyerID.String()).
		Int64("amount", req.Amount).
		Msg("purchase settled")

	return purchase, nil
}

// ListPurchases returns purchases newest-first, optionally scoped to a buyer.
func (s *SettlementServiceImpl) ListPurchases(ctx context.Context, buyerID *uuid.UUID) ([]domain.Purchase, error) {
	purchases, err := s.purchaseRepo.List(ctx, buyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list purchases: %w", err))
	}
	return purchases, nil
}

// unmarshalCachedPurchase deserializes a cached purchase.
func (s *SettlementServiceImpl) unmarshalCachedPurchase(data []byte) (*domain.Purchase, error) {
	purchase := &domain.Purchase{}
	if err := json.Unmarshal(data, purchase); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached purchase: %w", err))
	}
	return purchase, nil
}
