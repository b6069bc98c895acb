package models

import "gorm.io/gorm"

// Product is a reservable item type belonging to a group.
// TotalQuantity is a static capacity, not a live counter: remaining stock is
// always derived from the reservation ledger.
type Product struct {
	gorm.Model
	Name          string `gorm:"size:255;not null;index" json:"name"`
	Description   string `gorm:"type:text"              json:"description"`
	Category      string `gorm:"size:100;index"         json:"category"`
	TotalQuantity int    `gorm:"not null;default:1"     json:"total_quantity"`
	GroupID       uint   `gorm:"not null;index"         json:"group_id"`
	CreatorID     uint   `gorm:"not null"               json:"creator_id"`
}

// ProductAvailability is the read model returned by availability listings.
type ProductAvailability struct {
	ProductID         uint   `json:"product_id"`
	Name              string `json:"name"`
	TotalQuantity     int    `json:"total_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
}
