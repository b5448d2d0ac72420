package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// PropertyStatus is the connection state of a property's PMS feed.
type PropertyStatus string

const (
	StatusOnline  PropertyStatus = "online"
	StatusOffline PropertyStatus = "offline"
	StatusSyncing PropertyStatus = "syncing"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusSyncing:
		return true
	}
	return false
}

// Property represents a properties row.
type Property struct {
	ID        string
	Name      string
	Location  string
	Rooms     int
	Status    PropertyStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Metrics is one reporting period for a property. Period is "YYYY-MM".
// OccupancyRate is a percentage; money is in cents.
type Metrics struct {
	PropertyID        string
	Period            string
	OccupancyRate     float64
	AvgDailyRateCents int64
	RevPARCents       int64
	RevenueCents      int64
	ExpensesCents     int64
}

// User represents a users row.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// scanner handles both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}
