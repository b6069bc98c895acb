package models

import "gorm.io/gorm"

// Notification kinds.
const (
	NotificationInvite       = "invite"
	NotificationConfirmation = "confirmation"
	NotificationWelcome      = "welcome"
	NotificationLogin        = "login"
	NotificationGroup        = "group"
	NotificationReservation  = "reservation"
)

// Notification is one entry in a user's append-only notification feed,
// ordered by creation time.
type Notification struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Kind    string `gorm:"size:50;not null" json:"kind"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	// Stored as is_read: READ is reserved in MySQL.
	Read bool `gorm:"column:is_read;not null;default:false;index" json:"read"`
	// GroupID links invite notifications back to the group so accepting
	// the invite knows which membership to create. Zero for other kinds.
	GroupID uint `gorm:"index" json:"group_id,omitempty"`
}
