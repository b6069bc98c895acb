package services

import (
	"testing"
	"time"

	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/app/repositories"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fixture wires the full service stack against an in-memory database.
type fixture struct {
	db            *gorm.DB
	users         *repositories.UserRepository
	groups        *repositories.GroupRepository
	products      *repositories.ProductRepository
	reservations  *repositories.ReservationRepository
	notifications *repositories.NotificationRepository

	auth    *AuthService
	catalog *CatalogService
	reserve *ReservationService
	notify  *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Group{}, &models.Membership{},
		&models.Product{}, &models.Reservation{}, &models.Notification{},
	))

	f := &fixture{
		db:            db,
		users:         repositories.NewUserRepository(db),
		groups:        repositories.NewGroupRepository(db),
		products:      repositories.NewProductRepository(db),
		reservations:  repositories.NewReservationRepository(db),
		notifications: repositories.NewNotificationRepository(db),
	}
	f.auth = NewAuthService(f.users)
	f.catalog = NewCatalogService(f.groups, f.products, f.users, f.reservations, f.notifications)
	f.reserve = NewReservationService(f.reservations, f.products, f.groups, true)
	f.notify = NewNotificationService(f.notifications, nil)
	return f
}

func (f *fixture) user(t *testing.T, name string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com", Password: "irrelevant"}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) group(t *testing.T, owner models.User, name string) models.Group {
	t.Helper()
	g, err := f.catalog.CreateGroup(owner.ID, name, "", "")
	require.NoError(t, err)
	return g
}

func (f *fixture) product(t *testing.T, g models.Group, creator models.User, name string, quantity int) models.Product {
	t.Helper()
	p, err := f.catalog.AddProduct(g.ID, creator.ID, name, "", "", quantity)
	require.NoError(t, err)
	return p
}

// day returns midnight UTC n days from now.
func day(n int) time.Time {
	return models.Midnight(time.Now().AddDate(0, 0, n))
}
