package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace identity keyed by a Solana wallet address.
// Users are provisioned lazily on first sight of an address and never deleted.
type User struct {
	ID            uuid.UUID `json:"id"`
	WalletAddress string    `json:"wallet_address"` // Immutable, unique
	Username      *string   `json:"username,omitempty"`
	Bio           *string   `json:"bio,omitempty"`
	Avatar        *string   `json:"avatar,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Populated only by the user detail query.
	Listings  []Listing  `json:"listings,omitempty"`
	Purchases []Purchase `json:"purchases,omitempty"`
}

// UserRef is the public seller/buyer projection embedded in listings
// and purchases.
type UserRef struct {
	WalletAddress string  `json:"wallet_address"`
	Username      *string `json:"username,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
}

// Ref returns the public projection of the user.
func (u *User) Ref() *UserRef {
	return &UserRef{
		WalletAddress: u.WalletAddress,
		Username:      u.Username,
		Avatar:        u.Avatar,
	}
}
