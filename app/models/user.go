package models

import "gorm.io/gorm"

// User is the primary user model.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Nickname string `gorm:"size:255" json:"nickname"`
	Phone    string `gorm:"size:50" json:"phone"`
	PhotoURL string `gorm:"size:512" json:"photo_url"`
}
