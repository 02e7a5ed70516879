package ports

import (
	"context"
	"errors"
	"time"

	"gul-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrDuplicateKey is returned by repositories when an insert loses a
// uniqueness race (e.g. a replayed transaction signature).
var ErrDuplicateKey = errors.New("duplicate key")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Insert adds a user row. Returns false without error when another
	// caller already created the wallet address (unique-constraint race).
	Insert(ctx context.Context, user *domain.User) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByWallet(ctx context.Context, walletAddress string) (*domain.User, error)
	// UpdateProfile patches only the fields present in patch.
	// Returns nil, nil when no user exists for the wallet address.
	UpdateProfile(ctx context.Context, walletAddress string, patch ProfilePatch) (*domain.User, error)
}

// ProfilePatch carries partial profile updates. A nil field is left
// unchanged; a present empty string clears the stored value.
type ProfilePatch struct {
	Username *string
	Bio      *string
	Avatar   *string
}

// ListingRepository defines persistence operations for listings.
// Methods accepting pgx.Tx run inside settlement transactions and rely on
// row-level locking.
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	// GetByIDForUpdate locks the listing row (SELECT ... FOR UPDATE).
	// MUST be called within a transaction.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]domain.Listing, error)
	// MarkSold flips sold=false->true and sets the buyer inside tx.
	// Returns false when the listing was already sold (guarded compare-and-set).
	MarkSold(ctx context.Context, tx pgx.Tx, listingID, buyerID uuid.UUID) (bool, error)
	// SetSoldState is the narrow administrative mutation behind the guarded
	// PATCH route. It bypasses the settlement guards on purpose.
	SetSoldState(ctx context.Context, id uuid.UUID, sold bool, buyerID *uuid.UUID) (*domain.Listing, error)
}

// ListingFilter holds optional catalog query constraints. Nil fields impose
// no constraint.
type ListingFilter struct {
	SellerID *uuid.UUID
	Category *domain.Category
	Sold     *bool
	Search   *string // case-insensitive substring over title OR description
}

// PurchaseRepository defines persistence for the append-only purchase ledger.
type PurchaseRepository interface {
	Create(ctx context.Context, tx pgx.Tx, purchase *domain.Purchase) error
	// GetBySignature returns nil, nil when the signature is unknown.
	GetBySignature(ctx context.Context, signature string) (*domain.Purchase, error)
	// List returns purchases newest-first with listing and seller embedded.
	// A nil buyerID returns all purchases.
	List(ctx context.Context, buyerID *uuid.UUID) ([]domain.Purchase, error)
}

// ListingCache is the read-through cache over single listings, keyed by id
// and invalidated by every listing mutation.
type ListingCache interface {
	Get(ctx context.Context, id uuid.UUID) ([]byte, error) // nil, nil on miss
	Set(ctx context.Context, id uuid.UUID, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// PurchaseCache is the fast-path settlement idempotency check, keyed by
// transaction signature.
type PurchaseCache interface {
	Get(ctx context.Context, signature string) ([]byte, error) // nil, nil on miss
	Set(ctx context.Context, signature string, value []byte, ttl time.Duration) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
