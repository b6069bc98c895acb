package repositories

import (
	"errors"

	"github.com/shashiranjanraj/inbox/app/models"
	"gorm.io/gorm"
)

// GroupRepository handles database operations for Group and Membership.
type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create persists a group and the owner membership in one transaction.
func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := models.Membership{
			GroupID: group.ID,
			UserID:  group.OwnerID,
			Role:    "owner",
		}
		return tx.Create(&member).Error
	})
}

// Update persists changes to an existing group.
func (r *GroupRepository) Update(group *models.Group) error {
	return r.db.Save(group).Error
}

// FindByID looks up a group by primary key.
func (r *GroupRepository) FindByID(id uint) (models.Group, error) {
	var group models.Group
	err := r.db.First(&group, id).Error
	return group, err
}

// ListForUser returns all groups the user belongs to.
func (r *GroupRepository) ListForUser(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.
		Joins("JOIN memberships ON memberships.group_id = groups.id").
		Where("memberships.user_id = ? AND memberships.deleted_at IS NULL", userID).
		Find(&groups).Error
	return groups, err
}

// IsMember reports whether the user belongs to the group.
func (r *GroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var m models.Membership
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddMember creates a membership. Adding an existing member is a no-op.
func (r *GroupRepository) AddMember(groupID, userID uint, role string) error {
	ok, err := r.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return r.db.Create(&models.Membership{GroupID: groupID, UserID: userID, Role: role}).Error
}

// Members returns all users belonging to the group.
func (r *GroupRepository) Members(groupID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN memberships ON memberships.user_id = users.id").
		Where("memberships.group_id = ? AND memberships.deleted_at IS NULL", groupID).
		Find(&users).Error
	return users, err
}
