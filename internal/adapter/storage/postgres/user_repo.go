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

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, wallet_address, username, bio, avatar, created_at, updated_at`

// Insert adds a user row. The unique constraint on wallet_address makes
// concurrent first-sight creates race safely: the loser gets false, nil.
func (r *UserRepo) Insert(ctx context.Context, u *domain.User) (bool, error) {
	query := `INSERT INTO users (id, wallet_address, username, bio, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (wallet_address) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		u.ID, u.WalletAddress, u.Username, u.Bio, u.Avatar,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID fetches a user by its UUID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByWallet fetches a user by wallet address.
func (r *UserRepo) GetByWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE wallet_address = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, walletAddress))
}

// UpdateProfile patches only the fields present in patch. A present empty
// string is stored as NULL (clear). Returns nil, nil when the wallet address
// is unknown.
func (r *UserRepo) UpdateProfile(ctx context.Context, walletAddress string, patch ports.ProfilePatch) (*domain.User, error) {
	sets := []string{"updated_at = NOW()"}
	var args []any
	argIdx := 1

	if patch.Username != nil {
		sets = append(sets, fmt.Sprintf("username = NULLIF($%d, '')", argIdx))
		args = append(args, *patch.Username)
		argIdx++
	}
	if patch.Bio != nil {
		sets = append(sets, fmt.Sprintf("bio = NULLIF($%d, '')", argIdx))
		args = append(args, *patch.Bio)
		argIdx++
	}
	if patch.Avatar != nil {
		sets = append(sets, fmt.Sprintf("avatar = NULLIF($%d, '')", argIdx))
		args = append(args, *patch.Avatar)
		argIdx++
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE wallet_address = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIdx, userColumns)
	args = append(args, walletAddress)

	return r.scanUser(r.pool.QueryRow(ctx, query, args...))
}

// scanUser is a helper to scan a single row into a User.
func (r *UserRepo) scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID, &u.WalletAddress, &u.Username, &u.Bio, &u.Avatar,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
