package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Insert(ctx context.Context, u *domain.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.WalletAddress == u.WalletAddress {
			return false, nil
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return true, nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) GetByWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.WalletAddress == walletAddress {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) UpdateProfile(ctx context.Context, walletAddress string, patch ports.ProfilePatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.WalletAddress != walletAddress {
			continue
		}
		if patch.Username != nil {
			u.Username = nilIfEmpty(*patch.Username)
		}
		if patch.Bio != nil {
			u.Bio = nilIfEmpty(*patch.Bio)
		}
		if patch.Avatar != nil {
			u.Avatar = nilIfEmpty(*patch.Avatar)
		}
		u.UpdatedAt = time.Now()
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// --- In-Memory Listing Repo ---

type inMemoryListingRepo struct {
	mu       sync.RWMutex
	listings map[uuid.UUID]*domain.Listing
	users    *inMemoryUserRepo
}

func newInMemoryListingRepo(users *inMemoryUserRepo) *inMemoryListingRepo {
	return &inMemoryListingRepo{
		listings: make(map[uuid.UUID]*domain.Listing),
		users:    users,
	}
}

func (r *inMemoryListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *inMemoryListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	r.embedSeller(&cp)
	return &cp, nil
}

// GetByIDForUpdate has no row lock to take in memory; the MarkSold
// compare-and-set under the write lock provides the same serialisation.
func (r *inMemoryListingRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Listing, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryListingRepo) List(ctx context.Context, filter ports.ListingFilter) ([]domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if filter.SellerID != nil && l.SellerID != *filter.SellerID {
			continue
		}
		if filter.Category != nil && (l.Category == nil || *l.Category != *filter.Category) {
			continue
		}
		if filter.Sold != nil && l.Sold != *filter.Sold {
			continue
		}
		if filter.Search != nil {
			needle := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(l.Title), needle) &&
				!strings.Contains(strings.ToLower(l.Description), needle) {
				continue
			}
		}
		cp := *l
		r.embedSeller(&cp)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryListingRepo) MarkSold(ctx context.Context, tx pgx.Tx, listingID, buyerID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok || l.Sold {
		return false, nil
	}
	l.Sold = true
	l.BuyerID = &buyerID
	l.UpdatedAt = time.Now()
	return true, nil
}

func (r *inMemoryListingRepo) SetSoldState(ctx context.Context, id uuid.UUID, sold bool, buyerID *uuid.UUID) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, nil
	}
	l.Sold = sold
	l.BuyerID = buyerID
	l.UpdatedAt = time.Now()
	cp := *l
	return &cp, nil
}

// embedSeller must be called with r.mu held.
func (r *inMemoryListingRepo) embedSeller(l *domain.Listing) {
	r.users.mu.RLock()
	defer r.users.mu.RUnlock()
	if seller, ok := r.users.users[l.SellerID]; ok {
		l.Seller = seller.Ref()
	}
}

// --- In-Memory Purchase Repo ---

type inMemoryPurchaseRepo struct {
	mu        sync.RWMutex
	purchases map[uuid.UUID]*domain.Purchase
	listings  *inMemoryListingRepo
	users     *inMemoryUserRepo
}

func newInMemoryPurchaseRepo(listings *inMemoryListingRepo, users *inMemoryUserRepo) *inMemoryPurchaseRepo {
	return &inMemoryPurchaseRepo{
		purchases: make(map[uuid.UUID]*domain.Purchase),
		listings:  listings,
		users:     users,
	}
}

func (r *inMemoryPurchaseRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.purchases {
		if existing.TransactionSignature == p.TransactionSignature {
			return fmt.Errorf("purchases_transaction_signature_key: %w", ports.ErrDuplicateKey)
		}
	}
	cp := *p
	r.purchases[p.ID] = &cp
	return nil
}

func (r *inMemoryPurchaseRepo) GetBySignature(ctx context.Context, signature string) (*domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.purchases {
		if p.TransactionSignature == signature {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryPurchaseRepo) List(ctx context.Context, buyerID *uuid.UUID) ([]domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Purchase, 0, len(r.purchases))
	for _, p := range r.purchases {
		if buyerID != nil && p.BuyerID != *buyerID {
			continue
		}
		cp := *p
		if listing, err := r.listings.GetByID(ctx, p.ListingID); err == nil && listing != nil {
			cp.Listing = listing
		}
		if buyer, err := r.users.GetByID(ctx, p.BuyerID); err == nil && buyer != nil {
			cp.Buyer = buyer.Ref()
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- In-Memory Transactor ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor { return &inMemoryTransactor{} }

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
