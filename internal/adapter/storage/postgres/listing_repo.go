package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListingRepo implements ports.ListingRepository.
type ListingRepo struct {
	pool Pool
}

// NewListingRepo creates a new ListingRepo.
func NewListingRepo(pool Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

const listingColumns = `l.id, l.seller_id, l.title, l.description, l.price, l.category,
		l.images, l.sold, l.buyer_id, l.created_at, l.updated_at`

const sellerColumns = `u.wallet_address, u.username, u.avatar`

// Create inserts a new listing.
func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO listings (id, seller_id, title, description, price, category, images, sold, buyer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		l.ID, l.SellerID, l.Title, l.Description, l.Price, l.Category,
		l.Images, l.Sold, l.BuyerID, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// GetByID fetches a listing with its seller embedded.
func (r *ListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + `, ` + sellerColumns + `
		FROM listings l JOIN users u ON u.id = l.seller_id WHERE l.id = $1`

	return scanListingWithSeller(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a listing with a pessimistic row lock.
// This MUST be called within a transaction.
func (r *ListingRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings l WHERE l.id = $1 FOR UPDATE`

	l := &domain.Listing{}
	var category *string
	err := tx.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Price, &category,
		&l.Images, &l.Sold, &l.BuyerID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing for update: %w", err)
	}
	l.Category = toCategory(category)
	return l, nil
}

// List fetches listings newest-first with optional filters and the seller
// embedded.
func (r *ListingRepo) List(ctx context.Context, filter ports.ListingFilter) ([]domain.Listing, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if filter.SellerID != nil {
		conditions = append(conditions, fmt.Sprintf("l.seller_id = $%d", argIdx))
		args = append(args, *filter.SellerID)
		argIdx++
	}
	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("l.category = $%d", argIdx))
		args = append(args, *filter.Category)
		argIdx++
	}
	if filter.Sold != nil {
		conditions = append(conditions, fmt.Sprintf("l.sold = $%d", argIdx))
		args = append(args, *filter.Sold)
		argIdx++
	}
	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(l.title ILIKE '%%' || $%d || '%%' OR l.description ILIKE '%%' || $%d || '%%')", argIdx, argIdx))
		args = append(args, *filter.Search)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s, %s
		FROM listings l JOIN users u ON u.id = l.seller_id
		%s ORDER BY l.created_at DESC`, listingColumns, sellerColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		l := domain.Listing{Seller: &domain.UserRef{}}
		var category *string
		err := rows.Scan(
			&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Price, &category,
			&l.Images, &l.Sold, &l.BuyerID, &l.CreatedAt, &l.UpdatedAt,
			&l.Seller.WalletAddress, &l.Seller.Username, &l.Seller.Avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		l.Category = toCategory(category)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing rows: %w", err)
	}
	return listings, nil
}

// MarkSold flips the sold flag and records the buyer inside tx. The
// sold = FALSE predicate makes this a compare-and-set: a second settlement
// on the same listing affects zero rows.
func (r *ListingRepo) MarkSold(ctx context.Context, tx pgx.Tx, listingID, buyerID uuid.UUID) (bool, error) {
	query := `UPDATE listings SET sold = TRUE, buyer_id = $1, updated_at = NOW()
		WHERE id = $2 AND sold = FALSE`

	tag, err := tx.Exec(ctx, query, buyerID, listingID)
	if err != nil {
		return false, fmt.Errorf("mark listing sold: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetSoldState performs the unguarded administrative sold/buyer mutation.
func (r *ListingRepo) SetSoldState(ctx context.Context, id uuid.UUID, sold bool, buyerID *uuid.UUID) (*domain.Listing, error) {
	query := `UPDATE listings SET sold = $1, buyer_id = $2, updated_at = NOW() WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, sold, buyerID, id)
	if err != nil {
		return nil, fmt.Errorf("set listing sold state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// scanListingWithSeller scans a single joined row into a Listing.
func scanListingWithSeller(row pgx.Row) (*domain.Listing, error) {
	l := &domain.Listing{Seller: &domain.UserRef{}}
	var category *string
	err := row.Scan(
		&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Price, &category,
		&l.Images, &l.Sold, &l.BuyerID, &l.CreatedAt, &l.UpdatedAt,
		&l.Seller.WalletAddress, &l.Seller.Username, &l.Seller.Avatar,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan listing: %w", err)
	}
	l.Category = toCategory(category)
	return l, nil
}

func toCategory(s *string) *domain.Category {
	if s == nil {
		return nil
	}
	c := domain.Category(*s)
	return &c
}
