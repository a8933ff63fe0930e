package models

import (
	"time"

	"pantry/engine"
)

// PantryItem is a tracked perishable item as stored in the pantry_items
// table. The row owns identity and mutation; freshness status, urgency
// bucket and effective dates are never stored — they are recomputed by the
// engine on every read.
type PantryItem struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Name               string     `json:"name"`
	Category           *string    `json:"category,omitempty"`
	Quantity           int        `json:"quantity"`
	IsFresh            bool       `json:"is_fresh"`
	BaseExpirationDate *time.Time `json:"base_expiration_date,omitempty"`
	OpenedQuantity     int        `json:"opened_quantity"`
	OpenedDate         *time.Time `json:"opened_date,omitempty"`
	UseAdvancedExpiry  bool       `json:"use_advanced_expiry"`
	AdvancedExpiryDays *int       `json:"advanced_expiry_days,omitempty"`
	IsConsumed         bool       `json:"is_consumed"`
	ConsumedAt         *time.Time `json:"consumed_at,omitempty"`
	Barcode            *string    `json:"barcode,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Snapshot converts the stored row into the immutable value the engine
// evaluates.
func (p PantryItem) Snapshot() engine.Item {
	it := engine.Item{
		ID:                p.ID,
		Quantity:          p.Quantity,
		IsFresh:           p.IsFresh,
		CreatedAt:         p.CreatedAt,
		OpenedQuantity:    p.OpenedQuantity,
		OpenedDate:        p.OpenedDate,
		IsConsumed:        p.IsConsumed,
		UseAdvancedExpiry: p.UseAdvancedExpiry,
	}
	if p.BaseExpirationDate != nil {
		it.BaseExpirationDate = *p.BaseExpirationDate
	}
	if p.AdvancedExpiryDays != nil {
		it.AdvancedExpiryDays = *p.AdvancedExpiryDays
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	return it
}

// EvaluatedItem is a pantry item augmented with the engine output the
// dashboard and notification screens render.
type EvaluatedItem struct {
	PantryItem
	Status                  string     `json:"status"`
	EffectiveExpirationDate time.Time  `json:"effective_expiration_date"`
	DaysRemaining           int        `json:"days_remaining"`
	Bucket                  string     `json:"bucket"`
	ClosedPortionExpiry     time.Time  `json:"closed_portion_expiry"`
	OpenedPortionExpiry     *time.Time `json:"opened_portion_expiry,omitempty"`
}

// Evaluate attaches the engine evaluation for the given instant.
func (p PantryItem) Evaluate(now time.Time, soonWindowDays int) (EvaluatedItem, error) {
	ev, err := engine.Evaluate(p.Snapshot(), now, soonWindowDays)
	if err != nil {
		return EvaluatedItem{}, err
	}
	return EvaluatedItem{
		PantryItem:              p,
		Status:                  string(ev.Status),
		EffectiveExpirationDate: ev.Resolution.EffectiveExpiry,
		DaysRemaining:           ev.Resolution.DaysRemaining,
		Bucket:                  string(ev.Bucket),
		ClosedPortionExpiry:     ev.Resolution.ClosedExpiry,
		OpenedPortionExpiry:     ev.Resolution.OpenedExpiry,
	}, nil
}

// ItemEvent logs any change to an item's quantities or portion split.
type ItemEvent struct {
	ID              string    `json:"id"`
	ItemID          string    `json:"item_id"`
	UserID          string    `json:"user_id"`
	EventType       string    `json:"event_type"`
	QuantityChanged int       `json:"quantity_changed"`
	NewQuantity     int       `json:"new_quantity"`
	Notes           *string   `json:"notes,omitempty"`
	EventDate       time.Time `json:"event_date"`
}

// Reminder is a scheduled expiry alert. Delivery is handled elsewhere; rows
// in the reminders table are the whole contract.
type Reminder struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ItemID     string    `json:"item_id"`
	ItemName   *string   `json:"item_name,omitempty"`
	DaysBefore int       `json:"days_before"`
	RemindAt   time.Time `json:"remind_at"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StatusSnapshot is one row of recorded classification history, consumed by
// the statistics endpoints.
type StatusSnapshot struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	Status     string    `json:"status"`
	RecordedAt time.Time `json:"recorded_at"`
}

// DashboardSummary is the bucketed view of a user's active pantry.
type DashboardSummary struct {
	ExpiringToday []EvaluatedItem          `json:"expiring_today"`
	ToConsume     []EvaluatedItem          `json:"to_consume"`
	Incoming      []EvaluatedItem          `json:"incoming"`
	AllOk         []EvaluatedItem          `json:"all_ok"`
	Counts        engine.Counts            `json:"counts"`
	ByCategory    map[string]engine.Counts `json:"by_category"`
	TotalActive   int                      `json:"total_active"`
	SafeRatio     float64                  `json:"safe_ratio"`
}

// StatsSummary aggregates consumption and waste over everything the user
// ever tracked.
type StatsSummary struct {
	TotalTracked    int           `json:"total_tracked"`
	ActiveCount     int           `json:"active_count"`
	ConsumedCount   int           `json:"consumed_count"`
	ExpiredActive   int           `json:"expired_active"`
	ConsumptionRate float64       `json:"consumption_rate"`
	WasteRate       float64       `json:"waste_rate"`
	Buckets         engine.Counts `json:"buckets"`
}

// --- Request bodies ---

type CreateItemRequest struct {
	Name               string     `json:"name"`
	Category           *string    `json:"category,omitempty"`
	Quantity           int        `json:"quantity"`
	IsFresh            bool       `json:"is_fresh"`
	BaseExpirationDate *time.Time `json:"base_expiration_date,omitempty"`
	UseAdvancedExpiry  bool       `json:"use_advanced_expiry"`
	AdvancedExpiryDays *int       `json:"advanced_expiry_days,omitempty"`
	Barcode            *string    `json:"barcode,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}

type OpenItemRequest struct {
	Count int `json:"count"`
}

type ConsumeItemRequest struct {
	// Quantity of units consumed. Zero or omitted means the whole item.
	Quantity int `json:"quantity"`
}

type CreateReminderRequest struct {
	ItemID     string `json:"item_id"`
	DaysBefore int    `json:"days_before"`
}
