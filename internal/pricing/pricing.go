// Package pricing implements the availability and pricing engine for
// prospective bookings. All functions are pure and deterministic: they
// never touch the database or the cache and are cheap enough to call on
// every form change.
package pricing

import (
	"fmt"
	"time"

	"github.com/iliyamo/cabin-booking-api/internal/model"
)

// StayRange is the slice of a booking the engine needs to compute
// availability: the cabin's display name and the raw start/end
// datetime strings as stored in the database (naive, no zone suffix,
// e.g. "2024-03-12T00:00:00").
type StayRange struct {
	CabinName string
	Start     string
	End       string
}

// BookedDates returns every calendar day already covered by a booking
// for the named cabin, expanded day by day over [start, end] inclusive
// and unioned across bookings. The returned days are midnight UTC and
// sorted ascending.
//
// The raw datetime strings are suffixed with "Z" before parsing so the
// expansion always happens in UTC. Parsing them in local time shifts
// the excluded set by a day in zones west of UTC.
func BookedDates(stays []StayRange, cabinName string) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, s := range stays {
		if s.CabinName != cabinName {
			continue
		}
		start, err1 := time.Parse(time.RFC3339, s.Start+"Z")
		end, err2 := time.Parse(time.RFC3339, s.End+"Z")
		if err1 != nil || err2 != nil {
			continue
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			seen[d] = struct{}{}
		}
	}
	out := make([]time.Time, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sortDates(out)
	return out
}

func sortDates(ds []time.Time) {
	for i := 1; i < len(ds); i++ {
		for j := i; j > 0 && ds[j].Before(ds[j-1]); j-- {
			ds[j], ds[j-1] = ds[j-1], ds[j]
		}
	}
}

// QuoteParams carries the user-entered booking parameters. StartDate
// and EndDate are nil until the user picks them; NumGuests and CabinID
// are zero until filled in.
type QuoteParams struct {
	HasBreakfast bool
	NumGuests    int
	StartDate    *time.Time
	EndDate      *time.Time
	CabinID      uint64
}

// Quote is the computed price breakdown for a prospective booking.
// All amounts are in cents.
type Quote struct {
	NumNights        int
	CabinPriceCents  int64
	ExtrasPriceCents int64
	TotalPriceCents  int64
	Breakdown        string
}

// BuildQuote computes the quote for the given parameters against the
// resolved cabin and the current settings. It reports ok=false while
// any of numGuests, startDate, endDate or cabinID is still missing;
// that is the "not yet computable" sentinel, not an error. Date
// ordering is a form-level validation concern and is not checked here.
func BuildQuote(p QuoteParams, cabin model.Cabin, settings model.Settings) (Quote, bool) {
	if p.NumGuests == 0 || p.StartDate == nil || p.EndDate == nil || p.CabinID == 0 {
		return Quote{}, false
	}
	nights := int(p.EndDate.Sub(*p.StartDate) / (24 * time.Hour))

	cabinPrice := int64(p.NumGuests) * cabin.EffectivePriceCents() * int64(nights)
	var extrasPrice int64
	if p.HasBreakfast {
		extrasPrice = int64(p.NumGuests) * settings.BreakfastPriceCents * int64(nights)
	}

	breakdown := fmt.Sprintf("cabin price (%s)", FormatCurrency(cabinPrice))
	if p.HasBreakfast {
		breakdown += fmt.Sprintf(" + breakfast (%s)", FormatCurrency(extrasPrice))
	}

	return Quote{
		NumNights:        nights,
		CabinPriceCents:  cabinPrice,
		ExtrasPriceCents: extrasPrice,
		TotalPriceCents:  cabinPrice + extrasPrice,
		Breakdown:        breakdown,
	}, true
}

// FormatCurrency renders a cent amount as a dollar string, e.g.
// 54000 -> "$540.00".
func FormatCurrency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
