package postgres

import (
	"context"
	"errors"
	"fmt"

	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PurchaseRepo implements ports.PurchaseRepository.
type PurchaseRepo struct {
	pool Pool
}

// NewPurchaseRepo creates a new PurchaseRepo.
func NewPurchaseRepo(pool Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

// Create inserts a purchase within a settlement transaction. A unique
// constraint on transaction_signature turns replayed signatures into
// ports.ErrDuplicateKey.
func (r *PurchaseRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Purchase) error {
	query := `INSERT INTO purchases (id, listing_id, buyer_id, transaction_signature, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		p.ID, p.ListingID, p.BuyerID, p.TransactionSignature, p.Amount, p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("insert purchase: %w", ports.ErrDuplicateKey)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetBySignature fetches a purchase by its transaction signature.
func (r *PurchaseRepo) GetBySignature(ctx context.Context, signature string) (*domain.Purchase, error) {
	query := `SELECT id, listing_id, buyer_id, transaction_signature, amount, created_at
		FROM purchases WHERE transaction_signature = $1`

	p := &domain.Purchase{}
	err := r.pool.QueryRow(ctx, query, signature).Scan(
		&p.ID, &p.ListingID, &p.BuyerID, &p.TransactionSignature, &p.Amount, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase by signature: %w", err)
	}
	return p, nil
}

// List fetches purchases newest-first with the listing, its seller, and the
// buyer embedded. A nil buyerID returns every purchase.
func (r *PurchaseRepo) List(ctx context.Context, buyerID *uuid.UUID) ([]domain.Purchase, error) {
	query := `SELECT p.id, p.listing_id, p.buyer_id, p.transaction_signature, p.amount, p.created_at,
		` + listingColumns + `, ` + sellerColumns + `,
		b.wallet_address, b.username, b.avatar
		FROM purchases p
		JOIN listings l ON l.id = p.listing_id
		JOIN users u ON u.id = l.seller_id
		JOIN users b ON b.id = p.buyer_id`

	var args []any
	if buyerID != nil {
		query += ` WHERE p.buyer_id = $1`
		args = append(args, *buyerID)
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		p := domain.Purchase{
			Listing: &domain.Listing{Seller: &domain.UserRef{}},
			Buyer:   &domain.UserRef{},
		}
		l := p.Listing
		var category *string
		err := rows.Scan(
			&p.ID, &p.ListingID, &p.BuyerID, &p.TransactionSignature, &p.Amount, &p.CreatedAt,
			&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Price, &category,
			&l.Images, &l.Sold, &l.BuyerID, &l.CreatedAt, &l.UpdatedAt,
			&l.Seller.WalletAddress, &l.Seller.Username, &l.Seller.Avatar,
			&p.Buyer.WalletAddress, &p.Buyer.Username, &p.Buyer.Avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("scan purchase row: %w", err)
		}
		l.Category = toCategory(category)
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase rows: %w", err)
	}
	return purchases, nil
}
