package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shashiranjanraj/inbox/app/controllers"
	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/app/repositories"
	"github.com/shashiranjanraj/inbox/app/routes"
	"github.com/shashiranjanraj/inbox/app/services"
	"github.com/shashiranjanraj/inbox/pkg/router"
	"github.com/shashiranjanraj/inbox/pkg/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Group{}, &models.Membership{},
		&models.Product{}, &models.Reservation{}, &models.Notification{},
	))

	users := repositories.NewUserRepository(db)
	groups := repositories.NewGroupRepository(db)
	products := repositories.NewProductRepository(db)
	reservations := repositories.NewReservationRepository(db)
	notifications := repositories.NewNotificationRepository(db)

	authService := services.NewAuthService(users)
	catalogService := services.NewCatalogService(groups, products, users, reservations, notifications)
	reservationService := services.NewReservationService(reservations, products, groups, true)
	notificationService := services.NewNotificationService(notifications, nil)

	r := router.New()
	routes.RegisterAPI(r, routes.Controllers{
		Auth:          controllers.NewAuthController(authService),
		Groups:        controllers.NewGroupController(catalogService),
		Products:      controllers.NewProductController(catalogService),
		Reservations:  controllers.NewReservationController(reservationService),
		Notifications: controllers.NewNotificationController(notificationService),
	}, ws.NewHub())

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func registerAndLogin(t *testing.T, srv *httptest.Server, name string) string {
	t.Helper()

	code, _ := call(t, srv, http.MethodPost, "/api/register", "", map[string]string{
		"name":                  name,
		"email":                 name + "@example.com",
		"password":              "s3cret-pass",
		"password_confirmation": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := call(t, srv, http.MethodPost, "/api/login", "", map[string]string{
		"login":    name,
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRegisterValidation(t *testing.T) {
	srv := newServer(t)

	code, _ := call(t, srv, http.MethodPost, "/api/register", "", map[string]string{
		"name":                  "x",
		"email":                 "not-an-email",
		"password":              "short",
		"password_confirmation": "different",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newServer(t)
	registerAndLogin(t, srv, "dave")

	code, env := call(t, srv, http.MethodPost, "/api/login", "", map[string]string{
		"login":    "dave",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newServer(t)

	code, _ := call(t, srv, http.MethodGet, "/api/groups", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, srv, http.MethodGet, "/api/groups", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestReservationFlow(t *testing.T) {
	srv := newServer(t)
	token := registerAndLogin(t, srv, "erin")

	// Group.
	code, env := call(t, srv, http.MethodPost, "/api/groups", token, map[string]string{
		"name": "office",
	})
	require.Equal(t, http.StatusCreated, code)
	var group struct {
		ID uint `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &group))
	require.NotZero(t, group.ID)

	// Product with a single unit.
	code, env = call(t, srv, http.MethodPost, fmt.Sprintf("/api/groups/%d/products", group.ID), token, map[string]any{
		"name":           "projector",
		"total_quantity": 1,
	})
	require.Equal(t, http.StatusCreated, code)
	var product struct {
		ID uint `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))

	// Reserve tomorrow..+2.
	window := map[string]string{
		"start_date": day(1),
		"end_date":   day(2),
	}
	code, env = call(t, srv, http.MethodPost, fmt.Sprintf("/api/products/%d/reservations", product.ID), token, window)
	require.Equal(t, http.StatusCreated, code)
	var reservation struct {
		ID     uint   `json:"ID"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reservation))
	assert.Equal(t, models.StatusApproved, reservation.Status)

	// Same window again: capacity conflict.
	code, env = call(t, srv, http.MethodPost, fmt.Sprintf("/api/products/%d/reservations", product.ID), token, window)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "No units available for the requested dates", env.Message)

	// Availability reflects the held unit.
	code, env = call(t, srv, http.MethodGet,
		fmt.Sprintf("/api/products/%d/availability?as_of=%s", product.ID, day(1)), token, nil)
	require.Equal(t, http.StatusOK, code)
	var avail struct {
		Available int `json:"available"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &avail))
	assert.Equal(t, 0, avail.Available)

	// Cancel frees it.
	code, _ = call(t, srv, http.MethodPost, fmt.Sprintf("/api/reservations/%d/cancel", reservation.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = call(t, srv, http.MethodGet,
		fmt.Sprintf("/api/products/%d/availability?as_of=%s", product.ID, day(1)), token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &avail))
	assert.Equal(t, 1, avail.Available)

	// Malformed date is a 400, not a 500.
	code, _ = call(t, srv, http.MethodPost, fmt.Sprintf("/api/products/%d/reservations", product.ID), token, map[string]string{
		"start_date": "soon",
		"end_date":   day(2),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestGroupMembershipEnforced(t *testing.T) {
	srv := newServer(t)
	owner := registerAndLogin(t, srv, "frank")
	outsider := registerAndLogin(t, srv, "grace")

	code, env := call(t, srv, http.MethodPost, "/api/groups", owner, map[string]string{"name": "club"})
	require.Equal(t, http.StatusCreated, code)
	var group struct {
		ID uint `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &group))

	code, _ = call(t, srv, http.MethodGet, fmt.Sprintf("/api/groups/%d", group.ID), outsider, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, srv, http.MethodGet, "/api/groups/9999", owner, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

// day formats midnight n days from now as the wire date format.
func day(n int) string {
	return models.Midnight(time.Now().AddDate(0, 0, n)).Format("2006-01-02")
}
