package ports

import (
	"context"

	"gul-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

// DirectoryService maps wallet addresses to persistent user identities.
type DirectoryService interface {
	// ResolveOrCreateUser looks a user up by wallet address, provisioning
	// one on first sight. The result embeds the user's listings and
	// purchases.
	ResolveOrCreateUser(ctx context.Context, walletAddress string) (*domain.User, error)
	// UpdateProfile upserts the user and patches only the provided fields.
	UpdateProfile(ctx context.Context, req ProfileUpdateRequest) (*domain.User, error)
}

// ProfileUpdateRequest holds validated input for a profile upsert.
// Nil field = leave unchanged, present empty string = clear.
type ProfileUpdateRequest struct {
	WalletAddress string
	Username      *string
	Bio           *string
	Avatar        *string
}

// CatalogService is the listing catalog: creation plus the filtered read
// surface. All reads are side-effect free.
type CatalogService interface {
	CreateListing(ctx context.Context, req CreateListingRequest) (*domain.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	ListListings(ctx context.Context, filter ListingFilter) ([]domain.Listing, error)
	// PatchSoldState is administrative and must stay behind the admin-key
	// guard; unrestricted use bypasses the settlement invariants.
	PatchSoldState(ctx context.Context, id uuid.UUID, sold bool, buyerID *uuid.UUID) (*domain.Listing, error)
}

// CreateListingRequest holds validated input for listing creation.
type CreateListingRequest struct {
	SellerID    uuid.UUID
	Title       string
	Description string
	Price       int64 // $GUL base units, 9 decimals
	Category    *domain.Category
	Images      []string
}

// SettlementService commits the off-chain side of a purchase after the
// on-chain transfer reported success.
type SettlementService interface {
	AttemptPurchase(ctx context.Context, req PurchaseRequest) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, buyerID *uuid.UUID) ([]domain.Purchase, error)
}

// PurchaseRequest holds validated input for purchase settlement.
type PurchaseRequest struct {
	ListingID            uuid.UUID
	BuyerID              uuid.UUID
	TransactionSignature string
	Amount               int64 // $GUL base units, 9 decimals
}
