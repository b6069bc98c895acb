package models

import "gorm.io/gorm"

// Group is a named collection of products with a membership list.
type Group struct {
	gorm.Model
	Name        string `gorm:"size:255;not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	PhotoURL    string `gorm:"size:512" json:"photo_url"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
}

// Membership links a user to a group. A user may only view and reserve
// products of groups they belong to.
type Membership struct {
	gorm.Model
	GroupID uint   `gorm:"not null;index:idx_memberships_group_user,unique" json:"group_id"`
	UserID  uint   `gorm:"not null;index:idx_memberships_group_user,unique" json:"user_id"`
	Role    string `gorm:"size:50;default:member" json:"role"` // "owner" | "member"
}
