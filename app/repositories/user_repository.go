// Package repositories contains the database access layer. Every repository
// receives its *gorm.DB at construction — there is no package-level handle —
// so tests can run each against an isolated database.
package repositories

import (
	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/pkg/orm"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return user, err
}

// FindByLogin looks up a user by email or by name — the login form accepts
// either.
func (r *UserRepository) FindByLogin(login string) (models.User, error) {
	var user models.User
	err := r.db.Where("email = ? OR name = ?", login, login).First(&user).Error
	return user, err
}

// FindByName looks up a user by their exact name.
func (r *UserRepository) FindByName(name string) (models.User, error) {
	var user models.User
	err := r.db.Where("name = ?", name).First(&user).Error
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// All returns one page of users.
func (r *UserRepository) All(page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	pagination, err := orm.New(r.db).Model(&models.User{}).GetWithPagination(&users, page, limit)
	return users, pagination, err
}
