package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is the append-only settlement record tying an on-chain token
// transfer (by signature) to the listing it bought. Exactly one purchase
// exists per sold listing; the signature is unique so client retries are
// idempotent.
type Purchase struct {
	ID                   uuid.UUID `json:"id"`
	ListingID            uuid.UUID `json:"listing_id"`
	BuyerID              uuid.UUID `json:"buyer_id"`
	TransactionSignature string    `json:"transaction_signature"`
	Amount               int64     `json:"amount"` // $GUL base units, 9 decimals
	CreatedAt            time.Time `json:"created_at"`

	// Populated by read queries.
	Listing *Listing `json:"listing,omitempty"`
	Buyer   *UserRef `json:"buyer,omitempty"`
}
