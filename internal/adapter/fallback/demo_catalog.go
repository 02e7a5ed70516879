// Package fallback carries a fixed demo catalog served when the real catalog
// is unreachable. It is wired at the HTTP handler boundary and config-gated,
// so the catalog service itself never sees fixture data.
package fallback

import (
	"strings"
	"time"

	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"

	"github.com/google/uuid"
)

// DemoCatalog is an in-memory, read-only listing source.
type DemoCatalog struct {
	listings []domain.Listing
}

// NewDemoCatalog builds the fixture catalog. IDs are fixed so repeated
// requests see stable data; timestamps are set at startup.
func NewDemoCatalog() *DemoCatalog {
	now := time.Now().UTC()
	mk := func(id, sellerID, title, description string, price int64, category domain.Category, images ...string) domain.Listing {
		return domain.Listing{
			ID:          uuid.MustParse(id),
			SellerID:    uuid.MustParse(sellerID),
			Title:       title,
			Description: description,
			Price:       price,
			Category:    &category,
			Images:      images,
			Sold:        false,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	sellerA := "a1f0c0de-0000-4000-8000-000000000001"
	sellerB := "a1f0c0de-0000-4000-8000-000000000002"
	sellerC := "a1f0c0de-0000-4000-8000-000000000003"

	return &DemoCatalog{listings: []domain.Listing{
		mk("d3300000-0000-4000-8000-000000000001", sellerA,
			"Elixir of Eternal Youth",
			"A potent elixir brewed under a full moon, granting vitality and youth. Crafted from rare moonpetals and phoenix tears. One drop restores energy, three drops reverse aging by a decade. Warning: Use responsibly.",
			10_000_000_000, domain.CategoryElixirs,
			"https://images.unsplash.com/photo-1556228578-0d85b1a4d571?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=800&h=800&fit=crop"),
		mk("d3300000-0000-4000-8000-000000000002", sellerB,
			"Ancient Grimoire of Shadows",
			"A rare spell book containing forgotten incantations and dark rituals. Bound in dragonhide with silver clasps. Contains over 500 spells including protection, summoning, and transformation magic. Handle with care.",
			50_000_000_000, domain.CategoryBooks,
			"https://images.unsplash.com/photo-1543002588-bfa74002ed7e?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=800&h=800&fit=crop"),
		mk("d3300000-0000-4000-8000-000000000003", sellerA,
			"Moonpetal Potion",
			"A shimmering potion crafted from rare moonpetals, enhancing intuition and psychic abilities. Glows softly in the dark. Perfect for divination rituals and dream work. Fresh batch, harvested during the last blue moon.",
			15_000_000_000, domain.CategoryPotions,
			"https://images.unsplash.com/photo-1556228578-0d85b1a4d571?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=800&h=800&fit=crop"),
		mk("d3300000-0000-4000-8000-000000000004", sellerB,
			"Dragon's Breath Incense",
			"Hand-rolled incense with a fiery aroma, perfect for protection rituals. Made from dragon scale powder and sacred herbs. Burns for 3 hours, creates a protective aura. Ideal for warding off negative energies.",
			8_000_000_000, domain.CategoryIncense,
			"https://images.unsplash.com/photo-1605100804763-247f67b3557e?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1518709268805-4e9042af2176?w=800&h=800&fit=crop"),
		mk("d3300000-0000-4000-8000-000000000005", sellerC,
			"Amethyst Protection Crystal",
			"A powerful amethyst crystal charged under the stars for protection and spiritual growth. Enhances intuition and wards off negative energy. Comes with a hand-woven leather cord. Size: 3 inches.",
			12_000_000_000, domain.CategoryCrystals,
			"https://images.unsplash.com/photo-1605100804763-247f67b3557e?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1518709268805-4e9042af2176?w=800&h=800&fit=crop"),
		mk("d3300000-0000-4000-8000-000000000006", sellerC,
			"Black Candle Ritual Set",
			"A set of seven hand-dipped black candles for banishing and protection work. Made from pure beeswax infused with myrrh and frankincense. Each candle burns for 6 hours. Comes in a carved wooden box.",
			6_000_000_000, domain.CategoryCandles,
			"https://images.unsplash.com/photo-1602607213546-ab1b6b3ba9b0?w=800&h=800&fit=crop",
			"https://images.unsplash.com/photo-1512909006721-3d6018887383?w=800&h=800&fit=crop"),
	}}
}

// Get returns the fixture listing with the given id, or nil.
func (d *DemoCatalog) Get(id uuid.UUID) *domain.Listing {
	for i := range d.listings {
		if d.listings[i].ID == id {
			listing := d.listings[i]
			return &listing
		}
	}
	return nil
}

// List applies the catalog filter to the fixture set.
func (d *DemoCatalog) List(filter ports.ListingFilter) []domain.Listing {
	out := make([]domain.Listing, 0, len(d.listings))
	for _, l := range d.listings {
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
		out = append(out, l)
	}
	return out
}
