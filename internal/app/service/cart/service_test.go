package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberhill/storefront/internal/models"
)

func TestApplyItem(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "a", Quantity: 1, UnitPrice: 100},
		{ProductID: "b", Quantity: 2, UnitPrice: 250},
	}

	// New line appended.
	got := applyItem(items, models.CartItem{ProductID: "c", Quantity: 3, UnitPrice: 10})
	require.Len(t, got, 3)

	// Existing line replaced, not duplicated.
	got = applyItem(items, models.CartItem{ProductID: "a", Quantity: 5, UnitPrice: 100})
	require.Len(t, got, 2)
	updated, ok := find(got, "a")
	require.True(t, ok)
	require.EqualValues(t, 5, updated.Quantity)

	// Zero quantity removes the line.
	got = applyItem(items, models.CartItem{ProductID: "b", Quantity: 0})
	require.Len(t, got, 1)
	_, ok = find(got, "b")
	require.False(t, ok)
}

func find(items []models.CartItem, productID string) (models.CartItem, bool) {
	for _, it := range items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return models.CartItem{}, false
}
