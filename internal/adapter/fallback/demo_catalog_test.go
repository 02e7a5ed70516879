package fallback

import (
	"testing"

	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoCatalog_ListingsAreValid(t *testing.T) {
	catalog := NewDemoCatalog()
	listings := catalog.List(ports.ListingFilter{})
	require.NotEmpty(t, listings)

	for _, l := range listings {
		assert.Positive(t, l.Price, "%s must have a positive price", l.Title)
		assert.NotEmpty(t, l.Images, "%s must carry images", l.Title)
		require.NotNil(t, l.Category)
		assert.True(t, domain.ValidCategory(*l.Category))
		assert.False(t, l.Sold)
		assert.True(t, l.SoldStateConsistent())
	}
}

func TestDemoCatalog_Get(t *testing.T) {
	catalog := NewDemoCatalog()
	all := catalog.List(ports.ListingFilter{})
	require.NotEmpty(t, all)

	found := catalog.Get(all[0].ID)
	require.NotNil(t, found)
	assert.Equal(t, all[0].Title, found.Title)

	assert.Nil(t, catalog.Get(uuid.New()))
}

func TestDemoCatalog_ListFilters(t *testing.T) {
	catalog := NewDemoCatalog()

	category := domain.CategoryPotions
	potions := catalog.List(ports.ListingFilter{Category: &category})
	require.NotEmpty(t, potions)
	for _, l := range potions {
		assert.Equal(t, domain.CategoryPotions, *l.Category)
	}

	search := "grimoire"
	books := catalog.List(ports.ListingFilter{Search: &search})
	require.Len(t, books, 1)
	assert.Equal(t, "Ancient Grimoire of Shadows", books[0].Title)

	sold := true
	assert.Empty(t, catalog.List(ports.ListingFilter{Sold: &sold}))
}
