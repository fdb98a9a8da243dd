package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljcl79/shophub/internal/domain"
)

type mockAuthorizer struct {
	authed bool
}

func (m *mockAuthorizer) Authenticated() bool { return m.authed }

func backpack() domain.Product {
	return domain.Product{
		ID:       1,
		Title:    "Backpack",
		Price:    59.99,
		Category: "bags",
		Rating:   &domain.Rating{Rate: 4.5, Count: 10},
	}
}

func setupLedger(t *testing.T) (*Ledger, *mockAuthorizer) {
	t.Helper()
	auth := &mockAuthorizer{authed: true}
	return NewLedger(auth), auth
}

func TestAddItem_TwiceMergesIntoOneLine(t *testing.T) {
	ledger, _ := setupLedger(t)

	require.NoError(t, ledger.AddItem(backpack(), 1))
	require.NoError(t, ledger.AddItem(backpack(), 1))

	lines := ledger.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, ledger.TotalItems())
	assert.InDelta(t, 119.98, ledger.TotalPrice(), 0.001)
}

func TestAddItem_ClampsQuantityToOne(t *testing.T) {
	ledger, _ := setupLedger(t)

	require.NoError(t, ledger.AddItem(backpack(), 0))
	require.NoError(t, ledger.AddItem(backpack(), -3))

	lines := ledger.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddItem_PreservesFirstAddedOrder(t *testing.T) {
	ledger, _ := setupLedger(t)

	second := domain.Product{ID: 2, Title: "Wallet", Price: 24.99, Category: "accessories"}
	require.NoError(t, ledger.AddItem(second, 1))
	require.NoError(t, ledger.AddItem(backpack(), 1))
	require.NoError(t, ledger.AddItem(second, 1))

	lines := ledger.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), lines[0].ProductID)
	assert.Equal(t, int64(1), lines[1].ProductID)
}

func TestAddItem_SnapshotsProductFields(t *testing.T) {
	ledger, _ := setupLedger(t)

	require.NoError(t, ledger.AddItem(backpack(), 1))

	line := ledger.Lines()[0]
	assert.Equal(t, "Backpack", line.Title)
	assert.Equal(t, 59.99, line.Price)
	assert.Equal(t, "bags", line.Category)
	assert.False(t, line.AddedAt.IsZero())
}

func TestSetQuantity_Overwrites(t *testing.T) {
	ledger, _ := setupLedger(t)
	require.NoError(t, ledger.AddItem(backpack(), 3))

	require.NoError(t, ledger.SetQuantity(1, 7))

	assert.Equal(t, 7, ledger.TotalItems())
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	ledger, _ := setupLedger(t)
	require.NoError(t, ledger.AddItem(backpack(), 2))

	require.NoError(t, ledger.SetQuantity(1, 0))

	assert.Empty(t, ledger.Lines())
	assert.Equal(t, 0, ledger.TotalItems())
}

func TestSetQuantity_UnknownProductIsNoop(t *testing.T) {
	ledger, _ := setupLedger(t)
	require.NoError(t, ledger.AddItem(backpack(), 2))

	require.NoError(t, ledger.SetQuantity(999, 5))

	require.Len(t, ledger.Lines(), 1)
	assert.Equal(t, 2, ledger.TotalItems())
}

func TestRemoveItem(t *testing.T) {
	ledger, _ := setupLedger(t)
	require.NoError(t, ledger.AddItem(backpack(), 2))

	require.NoError(t, ledger.RemoveItem(1))
	assert.Empty(t, ledger.Lines())

	// Removing again is a no-op, not an error.
	require.NoError(t, ledger.RemoveItem(1))
}

func TestClear_WorksWhileAnonymous(t *testing.T) {
	ledger, auth := setupLedger(t)
	require.NoError(t, ledger.AddItem(backpack(), 2))

	auth.authed = false
	ledger.Clear()

	assert.Empty(t, ledger.Lines())
}

func TestMutations_DeniedWhileAnonymous(t *testing.T) {
	ledger, auth := setupLedger(t)
	require.NoError(t, ledger.AddItem(backpack(), 2))

	auth.authed = false

	assert.ErrorIs(t, ledger.AddItem(backpack(), 1), ErrNotAuthenticated)
	assert.ErrorIs(t, ledger.SetQuantity(1, 5), ErrNotAuthenticated)
	assert.ErrorIs(t, ledger.RemoveItem(1), ErrNotAuthenticated)

	// Cart is unchanged by the denied operations.
	require.Len(t, ledger.Lines(), 1)
	assert.Equal(t, 2, ledger.TotalItems())
}

func TestTotals_MatchLineQuantities(t *testing.T) {
	ledger, _ := setupLedger(t)
	wallet := domain.Product{ID: 2, Title: "Wallet", Price: 24.99}

	require.NoError(t, ledger.AddItem(backpack(), 2))
	require.NoError(t, ledger.AddItem(wallet, 1))
	require.NoError(t, ledger.SetQuantity(2, 4))
	require.NoError(t, ledger.RemoveItem(1))
	require.NoError(t, ledger.AddItem(backpack(), 1))

	sum := 0
	for _, line := range ledger.Lines() {
		require.GreaterOrEqual(t, line.Quantity, 1)
		sum += line.Quantity
	}
	assert.Equal(t, sum, ledger.TotalItems())
	assert.InDelta(t, 4*24.99+59.99, ledger.TotalPrice(), 0.001)
}

func TestTotalPrice_UsesSnapshotPrice(t *testing.T) {
	ledger, _ := setupLedger(t)
	p := backpack()
	require.NoError(t, ledger.AddItem(p, 1))

	// A later catalog price change does not affect the stored line.
	p.Price = 99.99
	assert.InDelta(t, 59.99, ledger.TotalPrice(), 0.001)
}

func TestSnapshot(t *testing.T) {
	ledger, _ := setupLedger(t)
	require.NoError(t, ledger.AddItem(backpack(), 2))

	snap := ledger.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.TotalItems)
	assert.InDelta(t, 119.98, snap.TotalPrice, 0.001)
	assert.InDelta(t, 119.98, snap.Items[0].Subtotal, 0.001)
	assert.False(t, snap.CapturedAt.IsZero())
}

func TestEmptyLedgerTotals(t *testing.T) {
	ledger, _ := setupLedger(t)

	assert.Equal(t, 0, ledger.TotalItems())
	assert.Equal(t, 0.0, ledger.TotalPrice())
	assert.Empty(t, ledger.Lines())
}
