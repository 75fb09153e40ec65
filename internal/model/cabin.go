package model

import "time"

// Cabin represents a bookable unit as stored in the `cabins` table.
// Prices are stored in cents to avoid floating point drift. The
// effective nightly price is RegularPriceCents - DiscountCents and
// is never negative; the form boundary rejects discounts larger
// than the regular price before a row is written.
//
// Fields:
//  ID                – primary key identifier.
//  Name              – display name, unique per cabin.
//  MaxCapacity       – maximum number of guests allowed.
//  RegularPriceCents – nightly price in cents before discount.
//  DiscountCents     – discount in cents applied per night.
//  Image             – public URL of the cabin photo in the asset store.
//  Description       – free-text description shown to staff.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type Cabin struct {
	ID                uint64    `json:"id"`                // cabins.id
	Name              string    `json:"name"`              // cabins.name
	MaxCapacity       int       `json:"maxCapacity"`       // cabins.max_capacity
	RegularPriceCents int64     `json:"regularPrice"`      // cabins.regular_price_cents
	DiscountCents     int64     `json:"discount"`          // cabins.discount_cents
	Image             string    `json:"image"`             // cabins.image
	Description       string    `json:"description"`       // cabins.description
	CreatedAt         time.Time `json:"createdAt"`         // cabins.created_at
	UpdatedAt         time.Time `json:"updatedAt"`         // cabins.updated_at
}

// EffectivePriceCents returns the discounted nightly price.
func (c Cabin) EffectivePriceCents() int64 {
	return c.RegularPriceCents - c.DiscountCents
}
