package migrations

import (
	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260801000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260801000001_create_groups_table", &CreateGroupsTable{})
	migration.Register("20260801000002_create_memberships_table", &CreateMembershipsTable{})
	migration.Register("20260801000003_create_products_table", &CreateProductsTable{})
	migration.Register("20260801000004_create_reservations_table", &CreateReservationsTable{})
	migration.Register("20260801000005_create_notifications_table", &CreateNotificationsTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: groups --------

type CreateGroupsTable struct{}

func (m *CreateGroupsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Group{})
}

func (m *CreateGroupsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("groups")
}

// -------- 0003: memberships --------

type CreateMembershipsTable struct{}

func (m *CreateMembershipsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Membership{})
}

func (m *CreateMembershipsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("memberships")
}

// -------- 0004: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0005: reservations --------

type CreateReservationsTable struct{}

func (m *CreateReservationsTable) Up(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Reservation{}); err != nil {
		return err
	}
	// Availability checks filter on product + date range constantly.
	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_reservations_product_dates ON reservations (product_id, start_date, end_date)",
	).Error
}

func (m *CreateReservationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("reservations")
}

// -------- 0006: notifications --------

type CreateNotificationsTable struct{}

func (m *CreateNotificationsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Notification{})
}

func (m *CreateNotificationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("notifications")
}
