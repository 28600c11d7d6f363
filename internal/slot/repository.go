package slot

import (
	"context"
	"time"
)

// Repository is durable storage for slots. The engine itself never talks to
// it; hosts seed a session from LoadGroups and mirror mutations back through
// an Observer.
type Repository interface {
	// LoadGroups returns the groups dated within [from, to], ordered by date,
	// with slots in insertion order.
	LoadGroups(ctx context.Context, from, to time.Time) ([]DaySlotGroup, error)

	// LoadAllGroups returns every stored group.
	LoadAllGroups(ctx context.Context) ([]DaySlotGroup, error)

	// InsertSlot appends a slot to the end of its date.
	InsertSlot(ctx context.Context, date time.Time, s TimeSlot) error

	// UpdateSlot overwrites every field of an existing slot.
	UpdateSlot(ctx context.Context, date time.Time, s TimeSlot) error

	// UpdateDuration changes only the duration of a slot.
	UpdateDuration(ctx context.Context, id string, durationMinutes int) error

	// DeleteSlot removes a slot. Removing a missing slot is not an error.
	DeleteSlot(ctx context.Context, id string) error

	// Close releases any resources held by the repository.
	Close() error
}
