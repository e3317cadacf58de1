package models

import (
	"styleme-backend/internal/tryon"
	"styleme-backend/internal/wardrobe"
)

type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	CanUpgrade bool   `json:"can_upgrade,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type TryOnResponse struct {
	Result    tryon.Result `json:"result"`
	HistoryID string       `json:"history_id,omitempty"`
}

type SubscriptionStatusResponse struct {
	IsSubscribed bool `json:"is_subscribed"`
}

type ClothesResponse struct {
	Clothes []wardrobe.ClothingItem `json:"clothes"`
}

type OutfitsResponse struct {
	Outfits []wardrobe.Outfit `json:"outfits"`
}

type HistoryResponse struct {
	History []wardrobe.HistoryItem `json:"history"`
}
