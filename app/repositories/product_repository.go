package repositories

import (
	"github.com/shashiranjanraj/inbox/app/models"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create persists a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	return product, err
}

// ListByGroup returns all products owned by the group.
func (r *ProductRepository) ListByGroup(groupID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("group_id = ?", groupID).Order("id asc").Find(&products).Error
	return products, err
}
