package pricing

import (
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/cabin-booking-api/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBookedDatesExpandsInclusiveRange(t *testing.T) {
	stays := []StayRange{
		{CabinName: "Cabin 1", Start: "2024-03-12T00:00:00", End: "2024-03-19T00:00:00"},
	}
	got := BookedDates(stays, "Cabin 1")
	if len(got) != 8 {
		t.Fatalf("expected 8 days, got %d", len(got))
	}
	want := map[time.Time]bool{
		date(2024, 3, 12): true, // start is included
		date(2024, 3, 15): true,
		date(2024, 3, 19): true, // end is included
	}
	excluded := date(2024, 3, 20)
	for _, d := range got {
		delete(want, d)
		if d.Equal(excluded) {
			t.Errorf("day after end %v must not be booked", d)
		}
	}
	for d := range want {
		t.Errorf("missing expected day %v", d)
	}
}

func TestBookedDatesFiltersByCabinName(t *testing.T) {
	stays := []StayRange{
		{CabinName: "Cabin 1", Start: "2024-03-12T00:00:00", End: "2024-03-13T00:00:00"},
		{CabinName: "Cabin 2", Start: "2024-05-01T00:00:00", End: "2024-05-02T00:00:00"},
	}
	for _, d := range BookedDates(stays, "Cabin 1") {
		if d.Month() == time.May {
			t.Errorf("date %v belongs to another cabin", d)
		}
	}
	if got := BookedDates(stays, "Cabin 3"); len(got) != 0 {
		t.Errorf("cabin with no bookings should have no booked dates, got %v", got)
	}
	if got := BookedDates(nil, "Cabin 1"); len(got) != 0 {
		t.Errorf("empty input should yield empty output, got %v", got)
	}
}

func TestBookedDatesOverlappingBookingsUnion(t *testing.T) {
	stays := []StayRange{
		{CabinName: "Cabin 1", Start: "2024-03-12T00:00:00", End: "2024-03-15T00:00:00"},
		{CabinName: "Cabin 1", Start: "2024-03-14T00:00:00", End: "2024-03-16T00:00:00"},
	}
	got := BookedDates(stays, "Cabin 1")
	if len(got) != 5 { // 12,13,14,15,16 – no duplicates
		t.Fatalf("expected 5 distinct days, got %d: %v", len(got), got)
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Before(got[i]) {
			t.Fatalf("dates not sorted: %v", got)
		}
	}
}

func TestBookedDatesExpandsInUTC(t *testing.T) {
	// The naive strings are interpreted as UTC regardless of the
	// process's local zone; midnight must not drift to the prior day.
	stays := []StayRange{{CabinName: "Cabin 1", Start: "2024-03-12T00:00:00", End: "2024-03-12T00:00:00"}}
	got := BookedDates(stays, "Cabin 1")
	if len(got) != 1 || !got[0].Equal(date(2024, 3, 12)) {
		t.Fatalf("expected exactly 2024-03-12 UTC, got %v", got)
	}
}

func quoteFixtures() (model.Cabin, model.Settings) {
	cabin := model.Cabin{ID: 7, Name: "Cabin 1", MaxCapacity: 4, RegularPriceCents: 100, DiscountCents: 10}
	settings := model.Settings{BreakfastPriceCents: 15}
	return cabin, settings
}

func TestBuildQuoteWithBreakfast(t *testing.T) {
	cabin, settings := quoteFixtures()
	start, end := date(2024, 3, 12), date(2024, 3, 15)
	q, ok := BuildQuote(QuoteParams{
		HasBreakfast: true, NumGuests: 2, StartDate: &start, EndDate: &end, CabinID: cabin.ID,
	}, cabin, settings)
	if !ok {
		t.Fatal("quote should be computable")
	}
	if q.NumNights != 3 {
		t.Errorf("numNights = %d, want 3", q.NumNights)
	}
	if q.CabinPriceCents != 540 {
		t.Errorf("cabinPrice = %d, want 540", q.CabinPriceCents)
	}
	if q.ExtrasPriceCents != 90 {
		t.Errorf("extrasPrice = %d, want 90", q.ExtrasPriceCents)
	}
	if q.TotalPriceCents != 630 {
		t.Errorf("totalPrice = %d, want 630", q.TotalPriceCents)
	}
	if !strings.Contains(q.Breakdown, "breakfast") {
		t.Errorf("breakdown should mention breakfast: %q", q.Breakdown)
	}
}

func TestBuildQuoteWithoutBreakfast(t *testing.T) {
	cabin, settings := quoteFixtures()
	start, end := date(2024, 3, 12), date(2024, 3, 15)
	q, ok := BuildQuote(QuoteParams{
		NumGuests: 2, StartDate: &start, EndDate: &end, CabinID: cabin.ID,
	}, cabin, settings)
	if !ok {
		t.Fatal("quote should be computable")
	}
	if q.ExtrasPriceCents != 0 {
		t.Errorf("extrasPrice = %d, want 0", q.ExtrasPriceCents)
	}
	if q.TotalPriceCents != q.CabinPriceCents || q.TotalPriceCents != 540 {
		t.Errorf("totalPrice = %d, want cabinPrice = 540", q.TotalPriceCents)
	}
	if strings.Contains(q.Breakdown, "breakfast") {
		t.Errorf("breakdown must omit breakfast term: %q", q.Breakdown)
	}
}

func TestBuildQuoteMissingParams(t *testing.T) {
	cabin, settings := quoteFixtures()
	start, end := date(2024, 3, 12), date(2024, 3, 15)
	cases := []struct {
		name string
		p    QuoteParams
	}{
		{"no guests", QuoteParams{StartDate: &start, EndDate: &end, CabinID: 7}},
		{"no start", QuoteParams{NumGuests: 2, EndDate: &end, CabinID: 7}},
		{"no end", QuoteParams{NumGuests: 2, StartDate: &start, CabinID: 7}},
		{"no cabin", QuoteParams{NumGuests: 2, StartDate: &start, EndDate: &end}},
		{"nothing", QuoteParams{HasBreakfast: true}},
	}
	for _, tc := range cases {
		if _, ok := BuildQuote(tc.p, cabin, settings); ok {
			t.Errorf("%s: expected no quote", tc.name)
		}
	}
}

func TestBuildQuoteTotalIsSumOfParts(t *testing.T) {
	cabin, settings := quoteFixtures()
	start := date(2024, 3, 12)
	for nights := 1; nights <= 14; nights++ {
		for guests := 1; guests <= cabin.MaxCapacity; guests++ {
			for _, breakfast := range []bool{false, true} {
				end := start.AddDate(0, 0, nights)
				q, ok := BuildQuote(QuoteParams{
					HasBreakfast: breakfast, NumGuests: guests,
					StartDate: &start, EndDate: &end, CabinID: cabin.ID,
				}, cabin, settings)
				if !ok {
					t.Fatalf("nights=%d guests=%d: quote not computable", nights, guests)
				}
				if q.TotalPriceCents != q.CabinPriceCents+q.ExtrasPriceCents {
					t.Fatalf("total %d != cabin %d + extras %d", q.TotalPriceCents, q.CabinPriceCents, q.ExtrasPriceCents)
				}
				if !breakfast && q.ExtrasPriceCents != 0 {
					t.Fatalf("extras must be zero without breakfast, got %d", q.ExtrasPriceCents)
				}
			}
		}
	}
}

func TestBuildQuoteIdempotent(t *testing.T) {
	cabin, settings := quoteFixtures()
	start, end := date(2024, 3, 12), date(2024, 3, 15)
	p := QuoteParams{HasBreakfast: true, NumGuests: 2, StartDate: &start, EndDate: &end, CabinID: cabin.ID}
	q1, _ := BuildQuote(p, cabin, settings)
	q2, _ := BuildQuote(p, cabin, settings)
	if q1 != q2 {
		t.Errorf("identical inputs must yield identical quotes: %+v vs %+v", q1, q2)
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := map[int64]string{
		0:     "$0.00",
		5:     "$0.05",
		54000: "$540.00",
		63099: "$630.99",
	}
	for cents, want := range cases {
		if got := FormatCurrency(cents); got != want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", cents, got, want)
		}
	}
}
