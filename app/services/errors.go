// Package services contains the application's business logic. Services
// receive repositories at construction and report failures through the
// sentinel errors below, which controllers map onto HTTP status codes.
package services

import "errors"

var (
	// ErrInvalidRequest covers bad dates, missing fields and illegal
	// status transitions. Maps to 400.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrForbidden means the caller is not allowed to touch the resource,
	// typically because they are not a member of the group. Maps to 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced entity does not exist. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrCapacityExceeded means admitting the reservation would
	// oversubscribe the product on at least one day of the requested
	// window. Maps to 409. Terminal for the request: the caller must
	// resubmit with different parameters.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)
