package ticket

import (
	"testing"
	"time"

	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testFlight(from, to string) *domain.Flight {
	return &domain.Flight{
		ID:            "f1",
		From:          from,
		To:            to,
		DepartureTime: time.Date(2025, 4, 2, 8, 30, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2025, 4, 2, 9, 20, 0, 0, time.UTC),
		Airplane:      &domain.Airplane{Name: "ATR 72-600"},
	}
}

func TestBuildView_OneWay(t *testing.T) {
	booking := &domain.Booking{
		ID:           "b1",
		Flight:       testFlight("Accra (Kotoka Airport)", "Kumasi Airport"),
		SeatClass:    domain.SeatClassEconomy,
		Passengers:   2,
		TotalAmount:  1000,
		Status:       domain.BookingStatusConfirmed,
		TicketNumber: "LJ17000000000001A2B",
	}

	view, err := BuildView(booking)
	assert.NoError(t, err)
	assert.Equal(t, "LEJET Airlines", view.Airline)
	assert.False(t, view.RoundTrip)
	assert.Equal(t, "LJ17000000000001A2B", view.Reference)
	assert.Len(t, view.Legs, 1)
	assert.Equal(t, "ATR 72-600", view.Legs[0].Aircraft)
	assert.Equal(t, "CONFIRMED", view.Status)
	assert.Equal(t, "GH₵900", view.BaseFare)
	assert.Equal(t, "GH₵100", view.TaxesFees)
	assert.Equal(t, "GH₵1,000", view.TotalAmount)
}

func TestBuildView_RoundTrip(t *testing.T) {
	booking := &domain.Booking{
		ID:                   "b2",
		IsRoundTrip:          true,
		OutboundFlight:       testFlight("Accra (Kotoka Airport)", "Tamale Airport"),
		ReturnFlight:         testFlight("Tamale Airport", "Accra (Kotoka Airport)"),
		SeatClass:            domain.SeatClassFirstClass,
		Passengers:           1,
		TotalAmount:          2400,
		Status:               domain.BookingStatusConfirmed,
		OutboundTicketNumber: "LJ1700000000000AAAAOUT",
		ReturnTicketNumber:   "LJ1700000000000BBBBRTN",
	}

	view, err := BuildView(booking)
	assert.NoError(t, err)
	assert.True(t, view.RoundTrip)
	assert.Equal(t, "LJ1700000000000AAAAOUT", view.Reference)
	assert.Len(t, view.Legs, 2)
	assert.Equal(t, "Outbound Flight", view.Legs[0].Label)
	assert.Equal(t, "Return Flight", view.Legs[1].Label)
	assert.Equal(t, "LJ1700000000000BBBBRTN", view.Legs[1].TicketNumber)
}

func TestBuildView_Incomplete(t *testing.T) {
	// No flight at all.
	_, err := BuildView(&domain.Booking{ID: "b3", TicketNumber: "LJ1"})
	assert.ErrorIs(t, err, ErrIncomplete)

	// Round trip missing its return leg.
	_, err = BuildView(&domain.Booking{
		ID:             "b4",
		IsRoundTrip:    true,
		OutboundFlight: testFlight("Accra (Kotoka Airport)", "Kumasi Airport"),
	})
	assert.ErrorIs(t, err, ErrIncomplete)

	// Flight present but no ticket number issued.
	_, err = BuildView(&domain.Booking{
		ID:     "b5",
		Flight: testFlight("Accra (Kotoka Airport)", "Kumasi Airport"),
	})
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestBuildView_MissingAircraftAndTimes(t *testing.T) {
	flight := testFlight("Accra (Kotoka Airport)", "Kumasi Airport")
	flight.Airplane = nil
	flight.DepartureTime = time.Time{}

	view, err := BuildView(&domain.Booking{
		ID:           "b6",
		Flight:       flight,
		Passengers:   1,
		TicketNumber: "LJ1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Aircraft Not Assigned", view.Legs[0].Aircraft)
	assert.Equal(t, "Date not available", view.Legs[0].Departure)
}

func TestPrintableDocument(t *testing.T) {
	view, err := BuildView(&domain.Booking{
		ID:           "b7",
		Flight:       testFlight("Accra (Kotoka Airport)", "Takoradi Airport"),
		SeatClass:    domain.SeatClassEconomy,
		Passengers:   2,
		TotalAmount:  1500,
		Status:       domain.BookingStatusConfirmed,
		TicketNumber: "LJ1700000000000CCCC",
	})
	assert.NoError(t, err)

	doc := view.PrintableDocument()
	assert.Contains(t, doc, "LEJET Airlines")
	assert.Contains(t, doc, "Booking Reference: LJ1700000000000CCCC")
	assert.Contains(t, doc, "Accra (Kotoka Airport)")
	assert.Contains(t, doc, "Total:        GH₵1,500")
}
