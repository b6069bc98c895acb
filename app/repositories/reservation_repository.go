package repositories

import (
	"time"

	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/pkg/orm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationRepository handles database operations for the reservation
// ledger. Admission-path methods take an explicit transaction handle so the
// service can hold the product row lock across the check and the insert.
type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// DB exposes the underlying handle for transaction scoping.
func (r *ReservationRepository) DB() *gorm.DB {
	return r.db
}

// Create persists a reservation using the given handle (a transaction during
// admission).
func (r *ReservationRepository) Create(tx *gorm.DB, res *models.Reservation) error {
	return tx.Create(res).Error
}

// FindByID looks up a reservation by primary key.
func (r *ReservationRepository) FindByID(id uint) (models.Reservation, error) {
	var res models.Reservation
	err := r.db.First(&res, id).Error
	return res, err
}

// UpdateStatus transitions a reservation to the given status.
func (r *ReservationRepository) UpdateStatus(res *models.Reservation, status string) error {
	res.Status = status
	return r.db.Model(res).Update("status", status).Error
}

// LockProduct fetches the product row under SELECT ... FOR UPDATE, serialising
// concurrent admission checks for the same product at the database level.
func (r *ReservationRepository) LockProduct(tx *gorm.DB, productID uint) (models.Product, error) {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, productID).Error
	return product, err
}

// ActiveOverlapping returns the active reservations whose windows intersect
// [qs, qe]. Both windows are inclusive: [start, end] overlaps [qs, qe] iff
// start_date <= qe AND end_date >= qs.
func (r *ReservationRepository) ActiveOverlapping(tx *gorm.DB, productID uint, qs, qe time.Time) ([]models.Reservation, error) {
	var rows []models.Reservation
	err := tx.
		Where("product_id = ?", productID).
		Where("status IN ?", models.ActiveStatuses).
		Where("start_date <= ? AND end_date >= ?", qe, qs).
		Find(&rows).Error
	return rows, err
}

// CountActiveAt returns how many active reservations cover the single day
// asOf, for the availability read path.
func (r *ReservationRepository) CountActiveAt(productID uint, asOf time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.Reservation{}).
		Where("product_id = ?", productID).
		Where("status IN ?", models.ActiveStatuses).
		Where("start_date <= ? AND end_date >= ?", asOf, asOf).
		Count(&n).Error
	return n, err
}

// ListByUser returns one page of a user's reservations, newest first.
func (r *ReservationRepository) ListByUser(userID uint, page, limit int) ([]models.Reservation, orm.Pagination, error) {
	var rows []models.Reservation
	pagination, err := orm.New(r.db).
		Model(&models.Reservation{}).
		Where("user_id = ?", userID).
		Order("id desc").
		GetWithPagination(&rows, page, limit)
	return rows, pagination, err
}

// ListByProduct returns every reservation ever made for the product.
func (r *ReservationRepository) ListByProduct(productID uint) ([]models.Reservation, error) {
	var rows []models.Reservation
	err := r.db.Where("product_id = ?", productID).Order("id asc").Find(&rows).Error
	return rows, err
}

// OverdueActive returns active reservations whose end_date is before cutoff,
// for the expiry sweep.
func (r *ReservationRepository) OverdueActive(cutoff time.Time) ([]models.Reservation, error) {
	var rows []models.Reservation
	err := r.db.
		Where("status IN ?", models.ActiveStatuses).
		Where("end_date < ?", cutoff).
		Find(&rows).Error
	return rows, err
}
