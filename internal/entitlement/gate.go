package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"styleme-backend/internal/storage"
)

const (
	// FreeOutfitLimit is how many outfits a free-tier user may keep.
	FreeOutfitLimit = 2
	// MonthlyTryOnLimit is how many try-ons a subscribed user gets per
	// calendar month.
	MonthlyTryOnLimit = 50

	statusCacheTTL = 5 * time.Minute
)

// OutfitAccess answers whether the caller may create another outfit.
type OutfitAccess struct {
	CanCreate    bool `json:"can_create"`
	IsSubscribed bool `json:"is_subscribed"`
	Remaining    int  `json:"remaining"`
	Limit        int  `json:"limit"`
}

// TryOnAccess answers whether the caller may run a virtual try-on right now.
type TryOnAccess struct {
	CanUse       bool   `json:"can_use"`
	IsSubscribed bool   `json:"is_subscribed"`
	Reason       string `json:"reason,omitempty"`
	CanUpgrade   bool   `json:"can_upgrade"`
	Used         int    `json:"used"`
	Remaining    int    `json:"remaining"`
	Limit        int    `json:"limit"`
}

// usageRecord is the persisted monthly counter. Count never decreases within
// a month; a new month gets a fresh record on first access.
type usageRecord struct {
	Month      string    `json:"month"`
	Count      int       `json:"count"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// statusCache is the persisted subscription flag with its freshness stamp.
type statusCache struct {
	IsSubscribed bool      `json:"is_subscribed"`
	LastChecked  time.Time `json:"last_checked"`
}

// Gate enforces subscription and usage entitlements. The subscription flag is
// cached (memory + store) with a 5-minute TTL and falls back to the last
// cached value when the oracle is unreachable. Usage reads are fail-open:
// an unreadable usage store permits subscribed callers rather than blocking
// them, favoring availability over strict quota enforcement.
type Gate struct {
	oracle Oracle
	store  storage.Store

	usageMu sync.Mutex

	cacheMu sync.Mutex
	cache   *statusCache

	now func() time.Time
}

func NewGate(oracle Oracle, store storage.Store) *Gate {
	return &Gate{
		oracle: oracle,
		store:  store,
		now:    time.Now,
	}
}

// SubscriptionStatus resolves whether the caller is subscribed, via cache
// unless forceRefresh is set.
func (g *Gate) SubscriptionStatus(ctx context.Context, forceRefresh bool) bool {
	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()

	if !forceRefresh {
		if c := g.cachedStatus(ctx); c != nil && g.now().Sub(c.LastChecked) < statusCacheTTL {
			return c.IsSubscribed
		}
	}

	subscribed, err := g.oracle.GetStatus(ctx, forceRefresh)
	if err != nil {
		log.Printf("entitlement oracle unavailable, using cached status: %v", err)
		if c := g.cachedStatus(ctx); c != nil {
			return c.IsSubscribed
		}
		return false
	}

	g.storeStatus(ctx, subscribed)
	return subscribed
}

// Purchase forwards a package purchase to the billing platform and refreshes
// the cached flag on success.
func (g *Gate) Purchase(ctx context.Context, packageID string) (PurchaseResult, error) {
	result, err := g.oracle.Purchase(ctx, packageID)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("purchase failed: %w", err)
	}

	if result.Success {
		g.cacheMu.Lock()
		g.storeStatus(ctx, result.IsSubscribed)
		g.cacheMu.Unlock()
	}

	return result, nil
}

// Restore re-syncs previously purchased entitlements.
func (g *Gate) Restore(ctx context.Context) (PurchaseResult, error) {
	result, err := g.oracle.Restore(ctx)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("restore failed: %w", err)
	}

	if result.Success {
		g.cacheMu.Lock()
		g.storeStatus(ctx, result.IsSubscribed)
		g.cacheMu.Unlock()
	}

	return result, nil
}

// CheckOutfitCreation gates outfit creation: subscribers are unlimited, free
// users get FreeOutfitLimit.
func (g *Gate) CheckOutfitCreation(ctx context.Context, currentCount int) OutfitAccess {
	if g.SubscriptionStatus(ctx, false) {
		return OutfitAccess{CanCreate: true, IsSubscribed: true}
	}

	remaining := FreeOutfitLimit - currentCount
	if remaining < 0 {
		remaining = 0
	}

	return OutfitAccess{
		CanCreate: currentCount < FreeOutfitLimit,
		Remaining: remaining,
		Limit:     FreeOutfitLimit,
	}
}

// CheckTryOnUsage gates the virtual try-on: premium only, capped per month.
func (g *Gate) CheckTryOnUsage(ctx context.Context) TryOnAccess {
	if !g.SubscriptionStatus(ctx, false) {
		return TryOnAccess{
			Reason:     "Virtual Try-On is a premium feature. Upgrade to premium to use it.",
			CanUpgrade: true,
		}
	}

	used := g.currentUsage(ctx).Count
	if used >= MonthlyTryOnLimit {
		return TryOnAccess{
			IsSubscribed: true,
			Reason:       fmt.Sprintf("You have used all %d try-ons for this month. Your quota resets next month.", MonthlyTryOnLimit),
			Used:         used,
			Limit:        MonthlyTryOnLimit,
		}
	}

	return TryOnAccess{
		CanUse:       true,
		IsSubscribed: true,
		Used:         used,
		Remaining:    MonthlyTryOnLimit - used,
		Limit:        MonthlyTryOnLimit,
	}
}

// RecordTryOnUsage increments this month's counter and returns the new count.
// Persistence failures are swallowed: the generation already succeeded, so
// accounting is best-effort and never blocks the caller.
func (g *Gate) RecordTryOnUsage(ctx context.Context) int {
	g.usageMu.Lock()
	defer g.usageMu.Unlock()

	rec := g.currentUsage(ctx)
	rec.Count++
	rec.LastUsedAt = g.now()

	data, err := json.Marshal(rec)
	if err == nil {
		err = g.store.SetAll(ctx, storage.CollectionTryOnUsage, data)
	}
	if err != nil {
		log.Printf("failed to persist try-on usage: %v", err)
	}

	return rec.Count
}

// currentUsage reads this month's record, treating a missing, unreadable or
// stale-month record as a fresh zero counter.
func (g *Gate) currentUsage(ctx context.Context) usageRecord {
	month := g.now().Format("2006-01")
	fresh := usageRecord{Month: month}

	data, err := g.store.GetAll(ctx, storage.CollectionTryOnUsage)
	if err != nil {
		log.Printf("failed to read try-on usage, assuming zero used: %v", err)
		return fresh
	}
	if data == nil {
		return fresh
	}

	var rec usageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Printf("corrupt try-on usage record, assuming zero used: %v", err)
		return fresh
	}

	if rec.Month != month {
		return fresh
	}

	return rec
}

// cachedStatus returns the freshest known subscription record, hydrating the
// in-memory copy from the store on first use. Callers hold cacheMu.
func (g *Gate) cachedStatus(ctx context.Context) *statusCache {
	if g.cache != nil {
		return g.cache
	}

	data, err := g.store.GetAll(ctx, storage.CollectionSubscriptionStatus)
	if err != nil || data == nil {
		return nil
	}

	var c statusCache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}

	g.cache = &c
	return &c
}

// storeStatus updates both cache layers. Callers hold cacheMu.
func (g *Gate) storeStatus(ctx context.Context, subscribed bool) {
	c := statusCache{IsSubscribed: subscribed, LastChecked: g.now()}
	g.cache = &c

	data, _ := json.Marshal(c)
	if err := g.store.SetAll(ctx, storage.CollectionSubscriptionStatus, data); err != nil {
		log.Printf("failed to persist subscription status: %v", err)
	}
}
