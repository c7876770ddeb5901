// Package entities contains core business entities and errors.
package entities

import "errors"

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized is returned when a request carries no valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials signals an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive signals a deactivated account.
	ErrAccountInactive = errors.New("account inactive")
	// ErrForbidden signals that the actor may not touch the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists signals email conflict.
	ErrUserExists = errors.New("user exists")
	// ErrProjectNotFound signals missing project.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTicketNotFound signals missing ticket.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrAttachmentNotFound signals missing attachment.
	ErrAttachmentNotFound = errors.New("attachment not found")
	// ErrSessionNotFound signals unknown session token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidTransition signals a forbidden ticket status change.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrTooLarge signals an upload above the configured limit.
	ErrTooLarge = errors.New("payload too large")
)
