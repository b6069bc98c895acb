package repositories

import (
	"github.com/shashiranjanraj/inbox/app/models"
	"gorm.io/gorm"
)

// NotificationRepository handles database operations for the append-only
// notification feed.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Append persists a new notification. Existing rows are never reordered or
// rewritten, so the feed keeps creation order.
func (r *NotificationRepository) Append(n *models.Notification) error {
	return r.db.Create(n).Error
}

// FindByID looks up a notification by primary key.
func (r *NotificationRepository) FindByID(id uint) (models.Notification, error) {
	var n models.Notification
	err := r.db.First(&n, id).Error
	return n, err
}

// ListByUser returns the user's notifications in creation order.
func (r *NotificationRepository) ListByUser(userID uint) ([]models.Notification, error) {
	var rows []models.Notification
	err := r.db.Where("user_id = ?", userID).Order("id asc").Find(&rows).Error
	return rows, err
}

// CountUnread returns how many unread notifications the user has.
func (r *NotificationRepository) CountUnread(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(n *models.Notification) error {
	n.Read = true
	return r.db.Model(n).Update("is_read", true).Error
}

// Delete removes one notification from the feed.
func (r *NotificationRepository) Delete(n *models.Notification) error {
	return r.db.Delete(n).Error
}

// DeleteAll clears the user's feed.
func (r *NotificationRepository) DeleteAll(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error
}
