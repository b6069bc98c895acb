package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/app/repositories"
	"github.com/shashiranjanraj/inbox/pkg/event"
	"github.com/shashiranjanraj/inbox/pkg/logger"
	"github.com/shashiranjanraj/inbox/pkg/metrics"
	"gorm.io/gorm"
)

// Pusher delivers a payload to every live connection of a user. The
// WebSocket hub satisfies this; tests pass nil or a recorder.
type Pusher interface {
	SendToUser(userID uint, data []byte)
}

// UnreadSummary is the payload of the unread-count endpoint.
type UnreadSummary struct {
	Count     int64 `json:"count"`
	HasUnread bool  `json:"has_unread"`
}

// NotificationService owns the append-only notification feed.
type NotificationService struct {
	repo   *repositories.NotificationRepository
	pusher Pusher
}

func NewNotificationService(repo *repositories.NotificationRepository, pusher Pusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher}
}

// Append adds a notification to the user's feed and pushes it to any live
// WebSocket connections.
func (s *NotificationService) Append(userID uint, kind, title, message string, groupID uint) (models.Notification, error) {
	n := models.Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: message,
		GroupID: groupID,
	}
	if err := s.repo.Append(&n); err != nil {
		return models.Notification{}, fmt.Errorf("notification: append: %w", err)
	}
	metrics.NotificationsSent.WithLabelValues("inbox").Inc()

	if s.pusher != nil {
		if payload, err := json.Marshal(n); err == nil {
			s.pusher.SendToUser(userID, payload)
			metrics.NotificationsSent.WithLabelValues("websocket").Inc()
		}
	}
	return n, nil
}

// List returns the user's feed in creation order.
func (s *NotificationService) List(userID uint) ([]models.Notification, error) {
	return s.repo.ListByUser(userID)
}

// Unread returns the unread count plus a convenience flag.
func (s *NotificationService) Unread(userID uint) (UnreadSummary, error) {
	count, err := s.repo.CountUnread(userID)
	if err != nil {
		return UnreadSummary{}, err
	}
	return UnreadSummary{Count: count, HasUnread: count > 0}, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(id, userID uint) error {
	n, err := s.find(id, userID)
	if err != nil {
		return err
	}
	return s.repo.MarkRead(&n)
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(id, userID uint) error {
	n, err := s.find(id, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(&n)
}

// DeleteAll clears the user's feed.
func (s *NotificationService) DeleteAll(userID uint) error {
	return s.repo.DeleteAll(userID)
}

func (s *NotificationService) find(id, userID uint) (models.Notification, error) {
	n, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Notification{}, ErrNotFound
	}
	if err != nil {
		return models.Notification{}, err
	}
	if n.UserID != userID {
		return models.Notification{}, ErrForbidden
	}
	return n, nil
}

// RegisterListeners subscribes the service to the domain events fired by the
// other services, turning each into a feed entry. Call once at boot.
func (s *NotificationService) RegisterListeners() {
	event.Listen(EventUserRegistered, func(payload interface{}) {
		e, ok := payload.(UserEvent)
		if !ok {
			return
		}
		s.append(e.User.ID, models.NotificationWelcome, "Welcome to Inbox",
			fmt.Sprintf("Hello %s, your account is ready.", e.User.Name), 0)
	})

	event.Listen(EventUserLoggedIn, func(payload interface{}) {
		e, ok := payload.(UserEvent)
		if !ok {
			return
		}
		s.append(e.User.ID, models.NotificationLogin, "New login",
			"You signed in to your account.", 0)
	})

	event.Listen(EventGroupCreated, func(payload interface{}) {
		e, ok := payload.(GroupEvent)
		if !ok {
			return
		}
		s.append(e.Actor.ID, models.NotificationGroup, "Group created",
			fmt.Sprintf("The group %q was created.", e.Group.Name), e.Group.ID)
	})

	event.Listen(EventInviteSent, func(payload interface{}) {
		e, ok := payload.(InviteEvent)
		if !ok {
			return
		}
		s.append(e.Invitee.ID, models.NotificationInvite, "Group invite",
			fmt.Sprintf("You were invited to join %q.", e.Group.Name), e.Group.ID)
	})

	event.Listen(EventInviteAccepted, func(payload interface{}) {
		e, ok := payload.(InviteEvent)
		if !ok {
			return
		}
		s.append(e.Invitee.ID, models.NotificationConfirmation, "Invite accepted",
			fmt.Sprintf("You are now a member of %q.", e.Group.Name), e.Group.ID)
	})

	event.Listen(EventReservationMade, func(payload interface{}) {
		e, ok := payload.(ReservationEvent)
		if !ok {
			return
		}
		s.append(e.Reservation.UserID, models.NotificationReservation, "Reservation confirmed",
			fmt.Sprintf("Your reservation for %q was registered.", e.Product.Name), e.Product.GroupID)
	})

	event.Listen(EventReservationMoved, func(payload interface{}) {
		e, ok := payload.(ReservationEvent)
		if !ok {
			return
		}
		s.append(e.Reservation.UserID, models.NotificationReservation, "Reservation updated",
			fmt.Sprintf("Your reservation for %q is now %s.", e.Product.Name, e.Reservation.Status), e.Product.GroupID)
	})
}

// append is the listener-side helper: failures are logged, never propagated
// back into the operation that fired the event.
func (s *NotificationService) append(userID uint, kind, title, message string, groupID uint) {
	if _, err := s.Append(userID, kind, title, message, groupID); err != nil {
		logger.Error("notification: listener append failed", "kind", kind, "error", err)
	}
}
