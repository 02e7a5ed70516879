package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenDecimals is the fixed-point scale of $GUL prices and amounts.
// All money values are int64 base units with 9 implied fractional digits;
// floating point never touches the money path.
const TokenDecimals = 9

// Category is a fixed shop-section tag for listings.
type Category string

const (
	CategoryPotions   Category = "potions"
	CategoryHerbs     Category = "herbs"
	CategoryOils      Category = "oils"
	CategoryElixirs   Category = "elixirs"
	CategoryCrystals  Category = "crystals"
	CategoryTalismans Category = "talismans"
	CategoryBooks     Category = "books"
	CategoryCandles   Category = "candles"
	CategoryIncense   Category = "incense"
	CategoryRitual    Category = "ritual"
)

// Categories enumerates every valid listing category.
func Categories() []Category {
	return []Category{
		CategoryPotions, CategoryHerbs, CategoryOils, CategoryElixirs,
		CategoryCrystals, CategoryTalismans, CategoryBooks, CategoryCandles,
		CategoryIncense, CategoryRitual,
	}
}

// ValidCategory reports whether c is a member of the fixed category set.
func ValidCategory(c Category) bool {
	for _, v := range Categories() {
		if v == c {
			return true
		}
	}
	return false
}

// Listing is a sellable item. The sold flag flips false->true exactly once,
// during purchase settlement, and buyer_id is set in the same transaction.
type Listing struct {
	ID          uuid.UUID  `json:"id"`
	SellerID    uuid.UUID  `json:"seller_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       int64      `json:"price"` // $GUL base units, 9 decimals
	Category    *Category  `json:"category,omitempty"`
	Images      []string   `json:"images"`
	Sold        bool       `json:"sold"`
	BuyerID     *uuid.UUID `json:"buyer_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Populated by read queries that join the seller.
	Seller *UserRef `json:"seller,omitempty"`
}

// Available reports whether the listing can still be purchased.
func (l *Listing) Available() bool {
	return !l.Sold
}

// SoldStateConsistent checks the sold <=> buyer invariant.
func (l *Listing) SoldStateConsistent() bool {
	return l.Sold == (l.BuyerID != nil)
}
