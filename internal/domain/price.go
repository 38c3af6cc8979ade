package domain

import "context"

// Price rule codes consulted when computing the active conference's
// discount fields.
const (
	PriceConferenceMember = "PRICE_CONFERENCE_MEMBER"
	PriceConferenceExpert = "PRICE_CONFERENCE_EXPERT"
	PriceConferenceGuests = "PRICE_CONFERENCE_GUESTS"
)

// PriceRule maps a price code to an amount. The price table is static
// reference data, read-only from the booking path's perspective.
// swagger:model PriceRule
type PriceRule struct {
	Code  string  `json:"code"`
	Price float64 `json:"price"`
}

// PriceRepository defines read access to the price rule table.
type PriceRepository interface {
	List(ctx context.Context) ([]*PriceRule, error)
}
