package domain

import (
	"context"
	"time"
)

// Conference represents a conference event with its nested workshops and
// paid optionals.
// swagger:model Conference
type Conference struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Price       float64     `json:"price"`
	Active      bool        `json:"active"`
	DateStart   time.Time   `json:"date_start"`
	DateEnd     time.Time   `json:"date_end"`
	Workshops   []*Workshop `json:"workshops"`
	Optionals   []*Optional `json:"optionals"`
}

// Workshop is a free sub-session owned by a conference. It has no lifecycle
// of its own.
// swagger:model Workshop
type Workshop struct {
	ID    int64  `json:"id,omitempty"`
	Title string `json:"title"`
}

// Optional is a paid add-on owned by a conference, selectable per booking
// with a quantity.
// swagger:model Optional
type Optional struct {
	ID    int64   `json:"id,omitempty"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// ConferenceWithPricing decorates the active conference with the
// identity-dependent discount fields.
// swagger:model ConferenceWithPricing
type ConferenceWithPricing struct {
	*Conference
	DiscountPrice       float64 `json:"discount_price"`
	DiscountPriceGuests float64 `json:"discount_price_guests"`
}

// ConferenceRepository defines storage operations for conferences and their
// child collections. Create and Update are transactional: either the parent
// row and every submitted child persist, or nothing does.
type ConferenceRepository interface {
	Create(ctx context.Context, c *Conference) error
	// Update rewrites the scalar fields and reconciles both child
	// collections so that exactly the submitted set remains.
	Update(ctx context.Context, c *Conference, id int64) error
	GetByID(ctx context.Context, id int64) (*Conference, error)
	// GetActive returns the first conference flagged active, children not
	// populated. Returns ErrNotFound when no conference is active.
	GetActive(ctx context.Context) (*Conference, error)
	List(ctx context.Context) ([]*Conference, error)
	// Delete removes the parent row only. Deleting an absent id is not an
	// error.
	Delete(ctx context.Context, id int64) error
	// FindByOrderID resolves the conference booked under the given order.
	FindByOrderID(ctx context.Context, orderID string) (*Conference, error)
}

// ConferenceService defines the business operations exposed over HTTP.
type ConferenceService interface {
	GetActive(ctx context.Context, identity *Identity) (*ConferenceWithPricing, error)
	GetByID(ctx context.Context, id int64) (*Conference, error)
	List(ctx context.Context) ([]*Conference, error)
	Create(ctx context.Context, c *Conference) (*Conference, error)
	Update(ctx context.Context, c *Conference, id int64) (*Conference, error)
	Delete(ctx context.Context, id int64) error
	FindByOrderID(ctx context.Context, orderID string) (*Conference, error)
}
