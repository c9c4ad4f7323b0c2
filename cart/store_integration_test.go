package cart_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Deymosik/bonafide-client/api"
	"github.com/Deymosik/bonafide-client/cart"
	"github.com/Deymosik/bonafide-client/domain"
	"github.com/Deymosik/bonafide-client/shoptest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end over the wire: real client, real JSON, fake backend.
func TestStore_AgainstFakeBackend(t *testing.T) {
	shop := shoptest.New(shoptest.WithDiscountRule("оптовая", 5, 10))
	shop.SeedProducts(
		domain.Product{ID: 1, Name: "Чехол", Price: decimal.RequireFromString("100.00")},
		domain.Product{ID: 2, Name: "Шнурок", Price: decimal.RequireFromString("50.00")},
	)
	srv := httptest.NewServer(shop.Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, api.WithInitData("signed-blob"))
	require.NoError(t, err)

	sut := cart.New(client, cart.WithQuietWindow(30*time.Millisecond))
	t.Cleanup(sut.Close)

	ctx := context.Background()
	require.NoError(t, sut.Refresh(ctx))
	require.Empty(t, sut.Lines())

	// Build up to the discount threshold.
	for i := 0; i < 4; i++ {
		require.NoError(t, sut.AddItem(ctx, 1))
	}
	require.NoError(t, sut.AddItem(ctx, 2))

	require.Len(t, sut.Lines(), 2)
	assert.Equal(t, 5, sut.TotalItems())
	assert.Equal(t, "450.00", sut.Summary().Subtotal.String())
	assert.Equal(t, "405.00", sut.Summary().FinalTotal.String())
	require.NotNil(t, sut.Summary().AppliedRule)

	// Deselect the lace: the debounced recompute reprices just the cases.
	sut.ToggleItemSelection(2)
	require.Eventually(t, func() bool {
		return sut.Summary().Subtotal.String() == "400.00"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Nil(t, sut.Summary().AppliedRule)
	require.NotNil(t, sut.Summary().UpsellHint)

	// Bulk-delete what is selected; the lace survives.
	require.NoError(t, sut.DeleteSelected(ctx))
	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Product.ID)
	assert.Empty(t, sut.Selected())

	// Emptying the cart zeroes the summary without waiting for the wire.
	require.NoError(t, sut.UpdateQuantity(ctx, 2, 0))
	assert.Empty(t, sut.Lines())
	assert.Equal(t, "0.00", sut.Summary().FinalTotal.String())
}
