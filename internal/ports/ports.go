// Package ports declares the collaborator interfaces the engines depend on.
// Implementations live in their own packages and are wired in main, so a
// stub can be swapped for a real service without touching the engines.
package ports

import (
	"context"

	"autosync/serving/internal/domain"
)

// SlotBooker is the service-calendar collaborator.
type SlotBooker interface {
	// FindAvailableSlot returns the next open slot, or nil when the
	// calendar is fully booked.
	FindAvailableSlot(ctx context.Context) (*domain.Slot, error)

	// BookSlot claims a slot for a vehicle. It returns false (not an
	// error) when the slot is unknown or already claimed; implementations
	// must be safe under concurrent invocation and must never double-book.
	BookSlot(ctx context.Context, slotID, vehicleReg string) (bool, error)

	// History returns the booking records for a vehicle, oldest first.
	History(ctx context.Context, vehicleReg string) ([]domain.BookingRecord, error)
}

// Alerter delivers a spoken or textual alert to the driver.
type Alerter interface {
	// SendAlert returns whether the alert was delivered. Delivery failure
	// is reported, never fatal.
	SendAlert(ctx context.Context, message string) (bool, error)
}

// Retriever looks up manual text for a free-text query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (domain.ManualExcerpt, error)
}

// SafetyValidator decides whether an agent action is permitted given the
// current vehicle snapshot.
type SafetyValidator interface {
	Validate(ctx context.Context, action string, snapshot map[string]any) (allowed bool, reason string)
}
