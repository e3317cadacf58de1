package entitlement

import "context"

// PurchaseResult is the outcome of a purchase or restore attempt against the
// billing platform.
type PurchaseResult struct {
	Success      bool   `json:"success"`
	IsSubscribed bool   `json:"is_subscribed"`
	Cancelled    bool   `json:"cancelled,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Oracle is the opaque billing-platform contract: the gate only needs a
// yes/no subscription answer and the ability to forward purchase/restore
// calls. Implemented by the RevenueCat client; faked in tests.
type Oracle interface {
	GetStatus(ctx context.Context, forceRefresh bool) (bool, error)
	Purchase(ctx context.Context, packageID string) (PurchaseResult, error)
	Restore(ctx context.Context) (PurchaseResult, error)
}

// NopOracle answers "not subscribed" to everything. Used when no billing
// platform is configured.
type NopOracle struct{}

func (NopOracle) GetStatus(context.Context, bool) (bool, error) {
	return false, nil
}

func (NopOracle) Purchase(context.Context, string) (PurchaseResult, error) {
	return PurchaseResult{Error: "billing is not configured"}, nil
}

func (NopOracle) Restore(context.Context) (PurchaseResult, error) {
	return PurchaseResult{Error: "billing is not configured"}, nil
}
