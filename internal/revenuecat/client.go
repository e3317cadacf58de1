package revenuecat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"styleme-backend/internal/entitlement"
)

// PremiumEntitlement is the RevenueCat entitlement identifier that marks a
// subscribed user.
const PremiumEntitlement = "Premium access"

// Client talks to the RevenueCat REST API for a single app user. It
// implements entitlement.Oracle; the gate layers caching and fallback on top.
type Client struct {
	baseURL    string
	apiKey     string
	appUserID  string
	httpClient *http.Client
}

type subscriberResponse struct {
	Subscriber struct {
		Entitlements map[string]struct {
			ExpiresDate *time.Time `json:"expires_date"`
		} `json:"entitlements"`
	} `json:"subscriber"`
}

type purchaseRequest struct {
	ProductID string `json:"product_id"`
}

func NewClient(baseURL, apiKey, appUserID string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		appUserID: appUserID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetStatus reports whether the premium entitlement is currently active.
// forceRefresh is part of the oracle contract; this client always queries the
// remote API, so the flag only matters to cache layers above it.
func (c *Client) GetStatus(ctx context.Context, forceRefresh bool) (bool, error) {
	url := c.baseURL + "/subscribers/" + c.appUserID
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if forceRefresh {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return false, fmt.Errorf("failed to get subscriber: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result subscriberResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	return c.isSubscribed(result), nil
}

// Purchase acknowledges a package purchase for the app user and returns the
// refreshed entitlement state.
func (c *Client) Purchase(ctx context.Context, packageID string) (entitlement.PurchaseResult, error) {
	jsonData, err := json.Marshal(purchaseRequest{ProductID: packageID})
	if err != nil {
		return entitlement.PurchaseResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/subscribers/" + c.appUserID + "/purchases"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return entitlement.PurchaseResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entitlement.PurchaseResult{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entitlement.PurchaseResult{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return entitlement.PurchaseResult{
			Error: fmt.Sprintf("purchase rejected: status %d", resp.StatusCode),
		}, nil
	}

	var result subscriberResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return entitlement.PurchaseResult{}, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	return entitlement.PurchaseResult{Success: true, IsSubscribed: c.isSubscribed(result)}, nil
}

// Restore re-fetches the subscriber and reports current entitlements, which
// is all a server-side restore needs.
func (c *Client) Restore(ctx context.Context) (entitlement.PurchaseResult, error) {
	subscribed, err := c.GetStatus(ctx, true)
	if err != nil {
		return entitlement.PurchaseResult{}, err
	}

	return entitlement.PurchaseResult{Success: true, IsSubscribed: subscribed}, nil
}

func (c *Client) isSubscribed(result subscriberResponse) bool {
	ent, ok := result.Subscriber.Entitlements[PremiumEntitlement]
	if !ok {
		return false
	}
	return ent.ExpiresDate == nil || ent.ExpiresDate.After(time.Now())
}
