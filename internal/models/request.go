package models

type ClothRequest struct {
	Name     string `json:"name" binding:"required"`
	Brand    string `json:"brand,omitempty"`
	Material string `json:"material,omitempty"`
	ImageURI string `json:"image_uri" binding:"required"`
}

type OutfitRequest struct {
	Name    string   `json:"name" binding:"required"`
	ItemIDs []string `json:"item_ids" binding:"required"`
}

type PurchaseRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}
