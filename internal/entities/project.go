// Package entities contains core business entities.
package entities

import "time"

// Project groups tickets under a single owner.
type Project struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
