// Package server boots the application: config, database, cache, workers,
// scheduler, routes, and the HTTP listener.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/inbox/app/controllers"
	"github.com/shashiranjanraj/inbox/app/jobs"
	"github.com/shashiranjanraj/inbox/app/repositories"
	"github.com/shashiranjanraj/inbox/app/routes"
	"github.com/shashiranjanraj/inbox/app/services"
	"github.com/shashiranjanraj/inbox/config"
	"github.com/shashiranjanraj/inbox/pkg/cache"
	"github.com/shashiranjanraj/inbox/pkg/database"
	"github.com/shashiranjanraj/inbox/pkg/logger"
	"github.com/shashiranjanraj/inbox/pkg/metrics"
	"github.com/shashiranjanraj/inbox/pkg/middleware"
	"github.com/shashiranjanraj/inbox/pkg/migration"
	"github.com/shashiranjanraj/inbox/pkg/orm"
	"github.com/shashiranjanraj/inbox/pkg/queue"
	"github.com/shashiranjanraj/inbox/pkg/reqid"
	"github.com/shashiranjanraj/inbox/pkg/router"
	"github.com/shashiranjanraj/inbox/pkg/schedule"
	"github.com/shashiranjanraj/inbox/pkg/storage"
	"github.com/shashiranjanraj/inbox/pkg/ws"

	_ "github.com/shashiranjanraj/inbox/database/migrations"
)

// cacheBridge adapts pkg/cache to the orm.Cacher hook.
type cacheBridge struct{}

func (cacheBridge) Get(key string, dest interface{}) bool { return cache.Get(key, dest) }
func (cacheBridge) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

// RegisterSchedules registers the recurring tasks. It is shared by Start and
// the standalone `inbox schedule:run` command.
func RegisterSchedules(reservations *services.ReservationService) {
	// Daily sweep for reservations whose window has passed.
	schedule.Daily().Name("reservations:expire").Run(func() {
		if _, err := reservations.ExpireOverdue(); err != nil {
			logger.Error("expire overdue reservations", "error", err)
		}
	})
}

// Start wires the whole application and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}

	// Pending migrations run at boot so a fresh install works without a
	// separate migrate step. `inbox migrate` remains available for
	// controlled rollouts.
	if err := migration.New(db).Run(); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, availability caching disabled", "error", err)
	}
	orm.CacheStore = cacheBridge{}

	storage.Connect()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repositories.
	userRepo := repositories.NewUserRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	productRepo := repositories.NewProductRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Live push hub.
	hub := ws.NewHub()
	go hub.Run()

	// Services.
	authService := services.NewAuthService(userRepo)
	catalogService := services.NewCatalogService(groupRepo, productRepo, userRepo, reservationRepo, notificationRepo)
	reservationService := services.NewReservationService(reservationRepo, productRepo, groupRepo, config.ReserveAutoApprove())
	notificationService := services.NewNotificationService(notificationRepo, hub)
	notificationService.RegisterListeners()

	// Queue: memory driver by default, Redis when available.
	jobs.Register()
	queue.UseDB(db)
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, 4)

	RegisterSchedules(reservationService)
	go schedule.Start(ctx)

	// HTTP stack.
	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)

	routes.RegisterAPI(r, routes.Controllers{
		Auth:          controllers.NewAuthController(authService),
		Groups:        controllers.NewGroupController(catalogService),
		Products:      controllers.NewProductController(catalogService),
		Reservations:  controllers.NewReservationController(reservationService),
		Notifications: controllers.NewNotificationController(notificationService),
	}, hub)

	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("inbox listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
