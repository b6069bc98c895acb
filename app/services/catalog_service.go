package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/inbox/app/jobs"
	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/app/repositories"
	"github.com/shashiranjanraj/inbox/pkg/cache"
	"github.com/shashiranjanraj/inbox/pkg/event"
	"github.com/shashiranjanraj/inbox/pkg/logger"
	"github.com/shashiranjanraj/inbox/pkg/queue"
	"github.com/shashiranjanraj/inbox/pkg/workerpool"
	"gorm.io/gorm"
)

// availabilityTTL bounds how stale a cached group listing may get. Writes
// also invalidate the key, so the TTL only matters for missed invalidations.
const availabilityTTL = 10 * time.Second

func availabilityCacheKey(groupID uint) string {
	return fmt.Sprintf("availability:group:%d:today", groupID)
}

// CatalogService manages groups, memberships, invites and products.
type CatalogService struct {
	groups        *repositories.GroupRepository
	products      *repositories.ProductRepository
	users         *repositories.UserRepository
	reservations  *repositories.ReservationRepository
	notifications *repositories.NotificationRepository

	// availPool bounds the per-product count queries fanned out by
	// ListAvailability.
	availPool *workerpool.Pool
}

func NewCatalogService(
	groups *repositories.GroupRepository,
	products *repositories.ProductRepository,
	users *repositories.UserRepository,
	reservations *repositories.ReservationRepository,
	notifications *repositories.NotificationRepository,
) *CatalogService {
	return &CatalogService{
		groups:        groups,
		products:      products,
		users:         users,
		reservations:  reservations,
		notifications: notifications,
		availPool:     workerpool.New(8),
	}
}

// ─── Groups ───────────────────────────────────────────────────────────────────

// CreateGroup creates a group owned by ownerID; the owner becomes its first
// member.
func (s *CatalogService) CreateGroup(ownerID uint, name, description, photoURL string) (models.Group, error) {
	owner, err := s.users.FindByID(ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Group{}, ErrNotFound
	}
	if err != nil {
		return models.Group{}, err
	}

	group := models.Group{
		Name:        name,
		Description: description,
		PhotoURL:    photoURL,
		OwnerID:     ownerID,
	}
	if err := s.groups.Create(&group); err != nil {
		return models.Group{}, fmt.Errorf("catalog: create group: %w", err)
	}

	event.Fire(EventGroupCreated, GroupEvent{Group: group, Actor: owner})
	return group, nil
}

// ListGroups returns the groups the user belongs to.
func (s *CatalogService) ListGroups(userID uint) ([]models.Group, error) {
	return s.groups.ListForUser(userID)
}

// GetGroup returns one group; the caller must be a member.
func (s *CatalogService) GetGroup(groupID, userID uint) (models.Group, error) {
	group, err := s.groups.FindByID(groupID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Group{}, ErrNotFound
	}
	if err != nil {
		return models.Group{}, err
	}
	if err := s.requireMember(groupID, userID); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// SetGroupPhoto records the stored photo URL on the group. The caller must
// be a member.
func (s *CatalogService) SetGroupPhoto(groupID, userID uint, photoURL string) (models.Group, error) {
	group, err := s.GetGroup(groupID, userID)
	if err != nil {
		return models.Group{}, err
	}
	group.PhotoURL = photoURL
	if err := s.groups.Update(&group); err != nil {
		return models.Group{}, fmt.Errorf("catalog: update group: %w", err)
	}
	return group, nil
}

// Members returns the group's member list; the caller must be a member.
func (s *CatalogService) Members(groupID, userID uint) ([]models.User, error) {
	if err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	return s.groups.Members(groupID)
}

// ─── Invites ──────────────────────────────────────────────────────────────────

// InviteUser invites another user (looked up by email or name) to the
// group. The inviter must be a member. The invitee gets an invite
// notification and an email.
func (s *CatalogService) InviteUser(groupID, inviterID uint, inviteeLogin string) error {
	group, err := s.groups.FindByID(groupID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := s.requireMember(groupID, inviterID); err != nil {
		return err
	}

	invitee, err := s.users.FindByLogin(inviteeLogin)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	event.Fire(EventInviteSent, InviteEvent{Group: group, Invitee: invitee})

	job := &jobs.InviteEmailJob{
		Email:     invitee.Email,
		UserName:  invitee.Name,
		GroupName: group.Name,
	}
	if err := queue.Dispatch(job); err != nil {
		// The invite itself stands; only the email is lost.
		logger.Warn("catalog: invite email dispatch failed", "error", err)
	}
	return nil
}

// AcceptInvite turns an invite notification into a membership and marks the
// notification read.
func (s *CatalogService) AcceptInvite(notificationID, userID uint) error {
	n, err := s.notifications.FindByID(notificationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	if n.Kind != models.NotificationInvite || n.GroupID == 0 {
		return fmt.Errorf("%w: notification is not an invite", ErrInvalidRequest)
	}

	group, err := s.groups.FindByID(n.GroupID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.groups.AddMember(group.ID, userID, "member"); err != nil {
		return fmt.Errorf("catalog: add member: %w", err)
	}
	if err := s.notifications.MarkRead(&n); err != nil {
		return err
	}

	invitee, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	event.Fire(EventInviteAccepted, InviteEvent{Group: group, Invitee: invitee})
	return nil
}

// ─── Products ─────────────────────────────────────────────────────────────────

// AddProduct adds a reservable item to the group. The caller must be a
// member; quantity must be at least 1.
func (s *CatalogService) AddProduct(groupID, creatorID uint, name, description, category string, totalQuantity int) (models.Product, error) {
	if totalQuantity < 1 {
		return models.Product{}, fmt.Errorf("%w: total_quantity must be at least 1", ErrInvalidRequest)
	}
	if _, err := s.groups.FindByID(groupID); errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	} else if err != nil {
		return models.Product{}, err
	}
	if err := s.requireMember(groupID, creatorID); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		Name:          name,
		Description:   description,
		Category:      category,
		TotalQuantity: totalQuantity,
		GroupID:       groupID,
		CreatorID:     creatorID,
	}
	if err := s.products.Create(&product); err != nil {
		return models.Product{}, fmt.Errorf("catalog: create product: %w", err)
	}

	cache.Forget(availabilityCacheKey(groupID))
	return product, nil
}

// ListAvailability returns the group's products with the quantity available
// on asOf. The caller must be a member. Today's listing is served through
// the cache; reservation writes invalidate it.
func (s *CatalogService) ListAvailability(groupID, userID uint, asOf time.Time) ([]models.ProductAvailability, error) {
	if _, err := s.groups.FindByID(groupID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}

	asOf = models.Midnight(asOf)
	today := asOf.Equal(models.Midnight(time.Now()))

	if today {
		var cached []models.ProductAvailability
		if cache.Get(availabilityCacheKey(groupID), &cached) {
			return cached, nil
		}
	}

	products, err := s.products.ListByGroup(groupID)
	if err != nil {
		return nil, err
	}

	// One count query per product, fanned out through the bounded pool.
	// Under backpressure the task runs inline on the caller.
	out := make([]models.ProductAvailability, len(products))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for i := range products {
		i, p := i, products[i]
		task := func() {
			defer wg.Done()
			active, err := s.reservations.CountActiveAt(p.ID, asOf)
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}
			available := p.TotalQuantity - int(active)
			if available < 0 {
				available = 0 // cannot occur when admission holds; clamp anyway
			}
			out[i] = models.ProductAvailability{
				ProductID:         p.ID,
				Name:              p.Name,
				TotalQuantity:     p.TotalQuantity,
				AvailableQuantity: available,
			}
		}
		wg.Add(1)
		if err := s.availPool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	if today {
		_ = cache.Set(availabilityCacheKey(groupID), out, availabilityTTL)
	}
	return out, nil
}

// ListProducts is ListAvailability as of today — the product listing always
// shows current remaining stock.
func (s *CatalogService) ListProducts(groupID, userID uint) ([]models.ProductAvailability, error) {
	return s.ListAvailability(groupID, userID, time.Now())
}

func (s *CatalogService) requireMember(groupID, userID uint) error {
	ok, err := s.groups.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
