package entitlement_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"styleme-backend/internal/entitlement"
	"styleme-backend/internal/storage"
)

type stubOracle struct {
	subscribed bool
	err        error
	calls      int32
}

func (s *stubOracle) GetStatus(context.Context, bool) (bool, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.subscribed, s.err
}

func (s *stubOracle) Purchase(context.Context, string) (entitlement.PurchaseResult, error) {
	return entitlement.PurchaseResult{Success: true, IsSubscribed: true}, nil
}

func (s *stubOracle) Restore(context.Context) (entitlement.PurchaseResult, error) {
	return entitlement.PurchaseResult{Success: true, IsSubscribed: s.subscribed}, nil
}

// brokenStore fails every operation, simulating an unreachable database.
type brokenStore struct{}

func (brokenStore) GetAll(context.Context, string) ([]byte, error) {
	return nil, errors.New("store unavailable")
}

func (brokenStore) SetAll(context.Context, string, []byte) error {
	return errors.New("store unavailable")
}

func seedUsageRecord(t *testing.T, store storage.Store, month string, count int) {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"month":        month,
		"count":        count,
		"last_used_at": time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, store.SetAll(context.Background(), storage.CollectionTryOnUsage, data))
}

func TestGate_TryOn_UnsubscribedBlocked(t *testing.T) {
	gate := entitlement.NewGate(&stubOracle{subscribed: false}, storage.NewMemoryStore())

	access := gate.CheckTryOnUsage(context.Background())

	assert.False(t, access.CanUse)
	assert.False(t, access.IsSubscribed)
	assert.True(t, access.CanUpgrade)
	assert.NotEmpty(t, access.Reason)
}

func TestGate_TryOn_SubscribedWithinLimit(t *testing.T) {
	store := storage.NewMemoryStore()
	seedUsageRecord(t, store, time.Now().Format("2006-01"), 10)
	gate := entitlement.NewGate(&stubOracle{subscribed: true}, store)

	access := gate.CheckTryOnUsage(context.Background())

	assert.True(t, access.CanUse)
	assert.Equal(t, 10, access.Used)
	assert.Equal(t, entitlement.MonthlyTryOnLimit-10, access.Remaining)
	assert.Equal(t, entitlement.MonthlyTryOnLimit, access.Limit)
}

func TestGate_TryOn_AtLimitBlocked(t *testing.T) {
	store := storage.NewMemoryStore()
	seedUsageRecord(t, store, time.Now().Format("2006-01"), entitlement.MonthlyTryOnLimit)
	gate := entitlement.NewGate(&stubOracle{subscribed: true}, store)

	access := gate.CheckTryOnUsage(context.Background())

	assert.False(t, access.CanUse)
	assert.False(t, access.CanUpgrade, "already subscribed, upgrading will not help")
	assert.Equal(t, 0, access.Remaining)
}

func TestGate_TryOn_CheckIsIdempotent(t *testing.T) {
	store := storage.NewMemoryStore()
	seedUsageRecord(t, store, time.Now().Format("2006-01"), 5)
	gate := entitlement.NewGate(&stubOracle{subscribed: true}, store)

	for i := 0; i < 10; i++ {
		gate.CheckTryOnUsage(context.Background())
	}

	assert.Equal(t, 5, gate.CheckTryOnUsage(context.Background()).Used)
}

func TestGate_RecordTryOnUsage_Increments(t *testing.T) {
	gate := entitlement.NewGate(&stubOracle{subscribed: true}, storage.NewMemoryStore())

	for i := 1; i <= 3; i++ {
		assert.Equal(t, i, gate.RecordTryOnUsage(context.Background()))
	}

	assert.Equal(t, 3, gate.CheckTryOnUsage(context.Background()).Used)
}

func TestGate_TryOn_MonthRolloverResetsCount(t *testing.T) {
	store := storage.NewMemoryStore()
	seedUsageRecord(t, store, "2026-01", entitlement.MonthlyTryOnLimit)
	gate := entitlement.NewGate(&stubOracle{subscribed: true}, store)

	access := gate.CheckTryOnUsage(context.Background())

	assert.True(t, access.CanUse)
	assert.Equal(t, 0, access.Used)
}

func TestGate_TryOn_CorruptUsageFailsOpen(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.SetAll(context.Background(), storage.CollectionTryOnUsage, []byte("{not json")))
	gate := entitlement.NewGate(&stubOracle{subscribed: true}, store)

	access := gate.CheckTryOnUsage(context.Background())

	assert.True(t, access.CanUse)
	assert.Equal(t, 0, access.Used)
}

func TestGate_TryOn_StoreErrorFailsOpen(t *testing.T) {
	gate := entitlement.NewGate(&stubOracle{subscribed: true}, brokenStore{})

	access := gate.CheckTryOnUsage(context.Background())

	assert.True(t, access.CanUse)
}

func TestGate_RecordTryOnUsage_StoreErrorDoesNotPanic(t *testing.T) {
	gate := entitlement.NewGate(&stubOracle{subscribed: true}, brokenStore{})

	// Reads fail open to zero and writes are swallowed, so each call counts
	// from a fresh record.
	assert.Equal(t, 1, gate.RecordTryOnUsage(context.Background()))
	assert.Equal(t, 1, gate.RecordTryOnUsage(context.Background()))
}

func TestGate_SubscriptionStatus_CachedWithinTTL(t *testing.T) {
	oracle := &stubOracle{subscribed: true}
	gate := entitlement.NewGate(oracle, storage.NewMemoryStore())

	for i := 0; i < 5; i++ {
		assert.True(t, gate.SubscriptionStatus(context.Background(), false))
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&oracle.calls))
}

func TestGate_SubscriptionStatus_ForceRefreshBypassesCache(t *testing.T) {
	oracle := &stubOracle{subscribed: true}
	gate := entitlement.NewGate(oracle, storage.NewMemoryStore())

	gate.SubscriptionStatus(context.Background(), false)
	gate.SubscriptionStatus(context.Background(), true)

	assert.Equal(t, int32(2), atomic.LoadInt32(&oracle.calls))
}

func TestGate_SubscriptionStatus_OracleFailureFallsBackToCache(t *testing.T) {
	oracle := &stubOracle{subscribed: true}
	gate := entitlement.NewGate(oracle, storage.NewMemoryStore())

	require.True(t, gate.SubscriptionStatus(context.Background(), false))

	oracle.err = errors.New("revenuecat unreachable")

	assert.True(t, gate.SubscriptionStatus(context.Background(), true), "stale cache beats an outage")
}

func TestGate_SubscriptionStatus_OracleFailureNoCacheDefaultsFalse(t *testing.T) {
	oracle := &stubOracle{err: errors.New("revenuecat unreachable")}
	gate := entitlement.NewGate(oracle, storage.NewMemoryStore())

	assert.False(t, gate.SubscriptionStatus(context.Background(), false))
}

func TestGate_OutfitCreation_FreeLimit(t *testing.T) {
	gate := entitlement.NewGate(&stubOracle{subscribed: false}, storage.NewMemoryStore())

	access := gate.CheckOutfitCreation(context.Background(), entitlement.FreeOutfitLimit-1)
	assert.True(t, access.CanCreate)

	access = gate.CheckOutfitCreation(context.Background(), entitlement.FreeOutfitLimit)
	assert.False(t, access.CanCreate)
	assert.Equal(t, 0, access.Remaining)
}

func TestGate_OutfitCreation_SubscriberUnlimited(t *testing.T) {
	gate := entitlement.NewGate(&stubOracle{subscribed: true}, storage.NewMemoryStore())

	access := gate.CheckOutfitCreation(context.Background(), 100)

	assert.True(t, access.CanCreate)
	assert.True(t, access.IsSubscribed)
}

func TestGate_Purchase_UpdatesCachedStatus(t *testing.T) {
	oracle := &stubOracle{subscribed: false}
	gate := entitlement.NewGate(oracle, storage.NewMemoryStore())

	require.False(t, gate.SubscriptionStatus(context.Background(), false))

	result, err := gate.Purchase(context.Background(), "premium_monthly")
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.True(t, gate.SubscriptionStatus(context.Background(), false),
		"purchase success must refresh the cache without another oracle call")
}
