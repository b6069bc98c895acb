package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/app/repositories"
	"github.com/shashiranjanraj/inbox/pkg/cache"
	"github.com/shashiranjanraj/inbox/pkg/event"
	"github.com/shashiranjanraj/inbox/pkg/logger"
	"github.com/shashiranjanraj/inbox/pkg/metrics"
	"github.com/shashiranjanraj/inbox/pkg/orm"
	"gorm.io/gorm"
)

// productLocks serialises admission per product within this process. The
// row lock taken inside the transaction covers multi-process deployments;
// the in-process mutex keeps lock contention out of the database under
// local bursts. No cross-product locking: one mutex per product ID.
type productLocks struct {
	mu sync.Map // productID → *sync.Mutex
}

func (l *productLocks) lock(productID uint) *sync.Mutex {
	m, _ := l.mu.LoadOrStore(productID, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// ReservationService owns the reservation ledger: admission, lifecycle
// transitions and the availability read path.
type ReservationService struct {
	reservations *repositories.ReservationRepository
	products     *repositories.ProductRepository
	groups       *repositories.GroupRepository
	autoApprove  bool
	locks        productLocks
}

func NewReservationService(
	reservations *repositories.ReservationRepository,
	products *repositories.ProductRepository,
	groups *repositories.GroupRepository,
	autoApprove bool,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		products:     products,
		groups:       groups,
		autoApprove:  autoApprove,
	}
}

// ─── Admission ────────────────────────────────────────────────────────────────

// Reserve admits or rejects a reservation request atomically with respect
// to concurrent requests for the same product.
//
// The window is inclusive on both ends and day-granular. Admission holds the
// per-product mutex and, inside the transaction, a FOR UPDATE lock on the
// product row while it computes the peak concurrent active-reservation count
// across the requested window including the candidate. The reservation is
// written only if that peak stays within the product's total quantity; a
// rejection writes nothing.
func (s *ReservationService) Reserve(productID, userID uint, start, end time.Time) (models.Reservation, error) {
	start = models.Midnight(start)
	end = models.Midnight(end)
	today := models.Midnight(time.Now())

	if start.After(end) {
		return models.Reservation{}, fmt.Errorf("%w: start date is after end date", ErrInvalidRequest)
	}
	if start.Before(today) {
		return models.Reservation{}, fmt.Errorf("%w: start date is in the past", ErrInvalidRequest)
	}

	product, err := s.products.FindByID(productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Reservation{}, ErrNotFound
	}
	if err != nil {
		return models.Reservation{}, err
	}

	ok, err := s.groups.IsMember(product.GroupID, userID)
	if err != nil {
		return models.Reservation{}, err
	}
	if !ok {
		return models.Reservation{}, ErrForbidden
	}

	status := models.StatusPending
	if s.autoApprove {
		status = models.StatusApproved
	}

	res := models.Reservation{
		ProductID: productID,
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}

	mu := s.locks.lock(productID)
	mu.Lock()
	defer mu.Unlock()

	err = s.reservations.DB().Transaction(func(tx *gorm.DB) error {
		locked, err := s.reservations.LockProduct(tx, productID)
		if err != nil {
			return err
		}

		existing, err := s.reservations.ActiveOverlapping(tx, productID, start, end)
		if err != nil {
			return err
		}

		if peakConcurrency(existing, start, end)+1 > locked.TotalQuantity {
			return ErrCapacityExceeded
		}

		return s.reservations.Create(tx, &res)
	})
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			metrics.ReservationsRejected.Inc()
			return models.Reservation{}, ErrCapacityExceeded
		}
		return models.Reservation{}, fmt.Errorf("reservation: admit: %w", err)
	}

	metrics.ReservationsAdmitted.WithLabelValues(status).Inc()
	cache.Forget(availabilityCacheKey(product.GroupID))
	event.Fire(EventReservationMade, ReservationEvent{Reservation: res, Product: product})
	return res, nil
}

// peakConcurrency returns the maximum number of reservations in rows that
// cover any single day of [qs, qe]. The count can only increase at a
// reservation's start day, so it is enough to probe qs and each start date
// falling inside the window.
func peakConcurrency(rows []models.Reservation, qs, qe time.Time) int {
	probes := []time.Time{qs}
	for _, r := range rows {
		if r.StartDate.After(qs) && !r.StartDate.After(qe) {
			probes = append(probes, r.StartDate)
		}
	}

	peak := 0
	for _, day := range probes {
		n := 0
		for _, r := range rows {
			if r.Overlaps(day, day) {
				n++
			}
		}
		if n > peak {
			peak = n
		}
	}
	return peak
}

// ─── Availability read path ───────────────────────────────────────────────────

// Availability returns how many units of the product are free on asOf:
// total quantity minus active reservations covering that day, clamped at
// zero. Read-only and unsynchronized.
func (s *ReservationService) Availability(productID uint, asOf time.Time) (int, error) {
	product, err := s.products.FindByID(productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	active, err := s.reservations.CountActiveAt(productID, models.Midnight(asOf))
	if err != nil {
		return 0, err
	}

	available := product.TotalQuantity - int(active)
	if available < 0 {
		available = 0
	}
	return available, nil
}

// ─── Lifecycle transitions ────────────────────────────────────────────────────

// Approve moves a pending reservation to approved. Only a member of the
// product's group may approve.
func (s *ReservationService) Approve(reservationID, actorID uint) (models.Reservation, error) {
	return s.transition(reservationID, actorID, models.StatusApproved, actorGroupMember)
}

// Reject declines a reservation. Only a member of the product's group may
// reject.
func (s *ReservationService) Reject(reservationID, actorID uint) (models.Reservation, error) {
	return s.transition(reservationID, actorID, models.StatusRejected, actorGroupMember)
}

// Start records that the item was picked up.
func (s *ReservationService) Start(reservationID, actorID uint) (models.Reservation, error) {
	return s.transition(reservationID, actorID, models.StatusInProgress, actorReserver)
}

// Complete records the item's return. It never re-validates capacity:
// releasing can only increase availability.
func (s *ReservationService) Complete(reservationID, actorID uint) (models.Reservation, error) {
	return s.transition(reservationID, actorID, models.StatusCompleted, actorReserver)
}

// Cancel withdraws the caller's own reservation.
func (s *ReservationService) Cancel(reservationID, actorID uint) (models.Reservation, error) {
	return s.transition(reservationID, actorID, models.StatusCancelled, actorReserver)
}

// authorisation modes for transitions
const (
	actorReserver    = "reserver"
	actorGroupMember = "member"
)

func (s *ReservationService) transition(reservationID, actorID uint, next, mode string) (models.Reservation, error) {
	res, err := s.reservations.FindByID(reservationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Reservation{}, ErrNotFound
	}
	if err != nil {
		return models.Reservation{}, err
	}

	product, err := s.products.FindByID(res.ProductID)
	if err != nil {
		return models.Reservation{}, err
	}

	switch mode {
	case actorReserver:
		if res.UserID != actorID {
			return models.Reservation{}, ErrForbidden
		}
	case actorGroupMember:
		ok, err := s.groups.IsMember(product.GroupID, actorID)
		if err != nil {
			return models.Reservation{}, err
		}
		if !ok {
			return models.Reservation{}, ErrForbidden
		}
	}

	if !res.CanTransition(next) {
		return models.Reservation{}, fmt.Errorf("%w: cannot move %s reservation to %s",
			ErrInvalidRequest, res.Status, next)
	}

	if err := s.reservations.UpdateStatus(&res, next); err != nil {
		return models.Reservation{}, fmt.Errorf("reservation: update status: %w", err)
	}

	cache.Forget(availabilityCacheKey(product.GroupID))
	event.Fire(EventReservationMoved, ReservationEvent{Reservation: res, Product: product})
	return res, nil
}

// ─── Listings ─────────────────────────────────────────────────────────────────

// ListForUser returns one page of the caller's reservation history.
func (s *ReservationService) ListForUser(userID uint, page, limit int) ([]models.Reservation, orm.Pagination, error) {
	return s.reservations.ListByUser(userID, page, limit)
}

// ─── Expiry sweep ─────────────────────────────────────────────────────────────

// ExpireOverdue transitions active reservations whose window has fully
// passed: never-started ones (pending/approved) are cancelled, in-progress
// ones are completed. The availability read path already excludes them via
// the overlap predicate; the sweep keeps stored statuses from lagging
// reality forever. Returns how many rows were transitioned.
func (s *ReservationService) ExpireOverdue() (int, error) {
	today := models.Midnight(time.Now())
	overdue, err := s.reservations.OverdueActive(today)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, res := range overdue {
		next := models.StatusCancelled
		if res.Status == models.StatusInProgress {
			next = models.StatusCompleted
		}
		if err := s.reservations.UpdateStatus(&res, next); err != nil {
			logger.Error("reservation: expiry sweep failed", "id", res.ID, "error", err)
			continue
		}
		n++
	}

	if n > 0 {
		logger.Info("reservation: expiry sweep", "transitioned", n)
	}
	return n, nil
}
