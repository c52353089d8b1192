package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/suipaper/internal/entity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(decimal.NewFromInt(1000))
	require.NoError(t, err)
	return s
}

func TestNewStore_RejectsNonPositiveInitialCash(t *testing.T) {
	_, err := NewStore(decimal.Zero)
	assert.Error(t, err)
}

func TestStore_LazyCreation(t *testing.T) {
	s := newTestStore(t)

	snap := s.Snapshot("alice", nil)
	assert.True(t, snap.Cash.Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, snap.Holdings)
	assert.True(t, snap.PnL.IsZero())
}

func TestStore_ApplyBuy(t *testing.T) {
	s := newTestStore(t)

	price := decimal.NewFromInt(10)
	cash, err := s.ApplyBuy("alice", "MOON", decimal.NewFromInt(50), decimal.NewFromInt(500), price)
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(500)))
	assert.True(t, s.Held("alice", "MOON").Equal(decimal.NewFromInt(50)))
}

func TestStore_ApplyBuy_WeightedAveragePrice(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ApplyBuy("alice", "MOON", decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = s.ApplyBuy("alice", "MOON", decimal.NewFromInt(10), decimal.NewFromInt(200), decimal.NewFromInt(20))
	require.NoError(t, err)

	quotes := []entity.Quote{{Symbol: "MOON", Price: decimal.NewFromInt(20)}}
	snap := s.Snapshot("alice", quotes)
	require.Len(t, snap.Holdings, 1)
	// 10@10 + 10@20 averages to 15
	assert.True(t, snap.Holdings[0].AvgPrice.Equal(decimal.NewFromInt(15)))
	// position pnl vs avg price: (20-15)*20 = 100
	assert.True(t, snap.Holdings[0].PnL.Equal(decimal.NewFromInt(100)))
}

func TestStore_ApplyBuy_InsufficientFundsLeavesStateUnchanged(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ApplyBuy("alice", "MOON", decimal.NewFromInt(200), decimal.NewFromInt(2000), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, entity.ErrInsufficientFunds)

	snap := s.Snapshot("alice", nil)
	assert.True(t, snap.Cash.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.Held("alice", "MOON").IsZero())
}

func TestStore_ApplyBuy_InvalidQuantity(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ApplyBuy("alice", "MOON", decimal.Zero, decimal.Zero, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, entity.ErrInvalidQuantity)

	_, err = s.ApplyBuy("alice", "MOON", decimal.NewFromInt(-1), decimal.NewFromInt(-10), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, entity.ErrInvalidQuantity)
}

func TestStore_ApplySell(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ApplyBuy("alice", "MOON", decimal.NewFromInt(50), decimal.NewFromInt(500), decimal.NewFromInt(10))
	require.NoError(t, err)

	cash, err := s.ApplySell("alice", "MOON", decimal.NewFromInt(20), decimal.NewFromInt(12))
	require.NoError(t, err)
	// 500 + 20*12 = 740
	assert.True(t, cash.Equal(decimal.NewFromInt(740)))
	assert.True(t, s.Held("alice", "MOON").Equal(decimal.NewFromInt(30)))
}

func TestStore_ApplySell_RemovesEmptiedHolding(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ApplyBuy("alice", "MOON", decimal.NewFromInt(50), decimal.NewFromInt(500), decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = s.ApplySell("alice", "MOON", decimal.NewFromInt(50), decimal.NewFromInt(10))
	require.NoError(t, err)

	quotes := []entity.Quote{{Symbol: "MOON", Price: decimal.NewFromInt(10)}}
	snap := s.Snapshot("alice", quotes)
	assert.Empty(t, snap.Holdings)
}

func TestStore_ApplySell_InsufficientHoldingsLeavesStateUnchanged(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ApplyBuy("alice", "MOON", decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(10))
	require.NoError(t, err)

	_, err = s.ApplySell("alice", "MOON", decimal.NewFromInt(11), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, entity.ErrInsufficientHoldings)

	_, err = s.ApplySell("alice", "STAR", decimal.NewFromInt(1), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, entity.ErrInsufficientHoldings)

	snap := s.Snapshot("alice", nil)
	assert.True(t, snap.Cash.Equal(decimal.NewFromInt(900)))
	assert.True(t, s.Held("alice", "MOON").Equal(decimal.NewFromInt(10)))
}

func TestStore_BuySellRoundTripAtFrozenPrice(t *testing.T) {
	s := newTestStore(t)
	price := decimal.NewFromFloat(0.75)
	quantity := decimal.NewFromInt(100)
	cost := quantity.Mul(price)

	_, err := s.ApplyBuy("alice", "STAR", quantity, cost, price)
	require.NoError(t, err)
	cash, err := s.ApplySell("alice", "STAR", quantity, price)
	require.NoError(t, err)

	assert.True(t, cash.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.Held("alice", "STAR").IsZero())
}

func TestStore_Reset(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ApplyBuy("alice", "MOON", decimal.NewFromInt(50), decimal.NewFromInt(500), decimal.NewFromInt(10))
	require.NoError(t, err)

	s.Reset("alice")

	snap := s.Snapshot("alice", nil)
	assert.True(t, snap.Cash.Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, snap.Holdings)
	assert.True(t, snap.PnL.IsZero())
}

func TestStore_UsersAreIsolated(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ApplyBuy("alice", "MOON", decimal.NewFromInt(50), decimal.NewFromInt(500), decimal.NewFromInt(10))
	require.NoError(t, err)

	snap := s.Snapshot("bob", nil)
	assert.True(t, snap.Cash.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.Held("bob", "MOON").IsZero())
}

func TestStore_SnapshotValuation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ApplyBuy("alice", "MOON", decimal.NewFromInt(50), decimal.NewFromInt(500), decimal.NewFromInt(10))
	require.NoError(t, err)

	quotes := []entity.Quote{{Symbol: "MOON", Name: "Moon", Price: decimal.NewFromInt(12)}}
	snap := s.Snapshot("alice", quotes)
	require.Len(t, snap.Holdings, 1)
	assert.True(t, snap.Holdings[0].Value.Equal(decimal.NewFromInt(600)))
	assert.True(t, snap.TotalValue.Equal(decimal.NewFromInt(1100)))
	assert.True(t, snap.PnL.Equal(decimal.NewFromInt(100)))
}
