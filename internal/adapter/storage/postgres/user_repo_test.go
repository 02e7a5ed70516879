package postgres

import (
	"context"
	"testing"
	"time"

	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser() *domain.User {
	return &domain.User{
		ID:            uuid.New(),
		WalletAddress: "GuLWa11et" + uuid.New().String()[:8],
		Username:      strPtr("moonseller"),
		Bio:           strPtr("Purveyor of rare elixirs"),
		Avatar:        strPtr("ipfs://avatar"),
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func strPtr(s string) *string { return &s }

func userColumnNames() []string {
	return []string{"id", "wallet_address", "username", "bio", "avatar", "created_at", "updated_at"}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumnNames()).AddRow(
		u.ID, u.WalletAddress, u.Username, u.Bio, u.Avatar,
		u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserRepo_Insert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.WalletAddress, u.Username, u.Bio, u.Avatar,
			u.CreatedAt, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	inserted, err := repo.Insert(context.Background(), u)
	assert.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Insert_ConflictLoses(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	// ON CONFLICT DO NOTHING -> zero rows affected
	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.WalletAddress, u.Username, u.Bio, u.Avatar,
			u.CreatedAt, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	inserted, err := repo.Insert(context.Background(), u)
	assert.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectQuery("SELECT .+ FROM users WHERE wallet_address").
		WithArgs(u.WalletAddress).
		WillReturnRows(userRow(u))

	result, err := repo.GetByWallet(context.Background(), u.WalletAddress)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, u.ID, result.ID)
	assert.Equal(t, u.WalletAddress, result.WalletAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByWallet_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM users WHERE wallet_address").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(userColumnNames()))

	result, err := repo.GetByWallet(context.Background(), "unknown-wallet")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))

	result, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, u.WalletAddress, result.WalletAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_UpdateProfile_PartialPatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	// Only username provided: bio and avatar stay out of the SET clause.
	mock.ExpectQuery("UPDATE users SET updated_at = NOW\\(\\), username = NULLIF").
		WithArgs("newname", u.WalletAddress).
		WillReturnRows(userRow(u))

	result, err := repo.UpdateProfile(context.Background(), u.WalletAddress, ports.ProfilePatch{
		Username: strPtr("newname"),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_UpdateProfile_UnknownWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)

	mock.ExpectQuery("UPDATE users SET").
		WithArgs("bio text", "missing-wallet").
		WillReturnRows(pgxmock.NewRows(userColumnNames()))

	result, err := repo.UpdateProfile(context.Background(), "missing-wallet", ports.ProfilePatch{
		Bio: strPtr("bio text"),
	})
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
