package services

import "github.com/shashiranjanraj/inbox/app/models"

// Event names fired by the services. The notification service subscribes to
// these at boot (RegisterListeners) and turns them into feed entries and
// WebSocket pushes.
const (
	EventUserRegistered   = "user.registered"
	EventUserLoggedIn     = "user.logged_in"
	EventGroupCreated     = "group.created"
	EventInviteSent       = "invite.sent"
	EventInviteAccepted   = "invite.accepted"
	EventReservationMade  = "reservation.made"
	EventReservationMoved = "reservation.status_changed"
)

// UserEvent accompanies user lifecycle events.
type UserEvent struct {
	User models.User
}

// GroupEvent accompanies group lifecycle events.
type GroupEvent struct {
	Group models.Group
	Actor models.User
}

// InviteEvent accompanies invite events. Invitee is the user receiving the
// invite or accepting it.
type InviteEvent struct {
	Group   models.Group
	Invitee models.User
}

// ReservationEvent accompanies reservation lifecycle events.
type ReservationEvent struct {
	Reservation models.Reservation
	Product     models.Product
}
