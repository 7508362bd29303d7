package ticket

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/fare"
)

// ErrIncomplete means the booking is missing the fields a ticket needs; the
// caller should re-resolve the booking or send the user back to search.
var ErrIncomplete = errors.New("booking is missing ticket fields")

const displayTimeLayout = "Mon, 02 Jan 2006 15:04"

type LegView struct {
	Label        string `json:"label"`
	TicketNumber string `json:"ticketNumber"`
	Aircraft     string `json:"aircraft"`
	From         string `json:"from"`
	To           string `json:"to"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
}

// View is the fully resolved ticket presentation. It is built from a booking
// the workflow already resolved; nothing here calls upstream.
type View struct {
	Reference   string    `json:"reference"`
	Airline     string    `json:"airline"`
	RoundTrip   bool      `json:"roundTrip"`
	Legs        []LegView `json:"legs"`
	Passengers  int       `json:"passengers"`
	SeatClass   string    `json:"seatClass"`
	Status      string    `json:"status"`
	BaseFare    string    `json:"baseFare"`
	TaxesFees   string    `json:"taxesFees"`
	TotalAmount string    `json:"totalAmount"`
}

// BuildView branches on trip shape: one leg block for a one-way booking, two
// blocks for a round trip.
func BuildView(b *domain.Booking) (*View, error) {
	v := &View{
		Airline:     "LEJET Airlines",
		RoundTrip:   b.IsRoundTrip,
		Passengers:  b.Passengers,
		SeatClass:   string(b.SeatClass),
		Status:      strings.ToUpper(string(b.Status)),
		BaseFare:    fare.FormatAmount(b.TotalAmount * 0.9),
		TaxesFees:   fare.FormatAmount(b.TotalAmount * 0.1),
		TotalAmount: fare.FormatAmount(b.TotalAmount),
	}

	if b.IsRoundTrip {
		if b.OutboundFlight == nil || b.ReturnFlight == nil {
			return nil, ErrIncomplete
		}
		v.Reference = b.OutboundTicketNumber
		v.Legs = []LegView{
			legView("Outbound Flight", b.OutboundFlight, b.OutboundTicketNumber),
			legView("Return Flight", b.ReturnFlight, b.ReturnTicketNumber),
		}
	} else {
		if b.Flight == nil {
			return nil, ErrIncomplete
		}
		v.Reference = b.TicketNumber
		v.Legs = []LegView{legView("Flight", b.Flight, b.TicketNumber)}
	}

	if v.Reference == "" {
		return nil, ErrIncomplete
	}
	return v, nil
}

func legView(label string, f *domain.Flight, number string) LegView {
	return LegView{
		Label:        label,
		TicketNumber: number,
		Aircraft:     f.AirplaneName(),
		From:         f.From,
		To:           f.To,
		Departure:    formatTime(f.DepartureTime),
		Arrival:      formatTime(f.ArrivalTime),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "Date not available"
	}
	return t.Format(displayTimeLayout)
}

// PrintableDocument renders the whole ticket as one plain-text document for
// the print action.
func (v *View) PrintableDocument() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - Electronic Ticket\n", v.Airline)
	fmt.Fprintf(&b, "Booking Reference: %s\n\n", v.Reference)

	for _, leg := range v.Legs {
		fmt.Fprintf(&b, "%s (%s)\n", leg.Label, leg.TicketNumber)
		fmt.Fprintf(&b, "  Aircraft:  %s\n", leg.Aircraft)
		fmt.Fprintf(&b, "  From:      %s at %s\n", leg.From, leg.Departure)
		fmt.Fprintf(&b, "  To:        %s at %s\n\n", leg.To, leg.Arrival)
	}

	fmt.Fprintf(&b, "Passengers: %d\n", v.Passengers)
	fmt.Fprintf(&b, "Class:      %s\n", v.SeatClass)
	fmt.Fprintf(&b, "Status:     %s\n\n", v.Status)
	fmt.Fprintf(&b, "Base Fare:    %s\n", v.BaseFare)
	fmt.Fprintf(&b, "Taxes & Fees: %s\n", v.TaxesFees)
	fmt.Fprintf(&b, "Total:        %s\n", v.TotalAmount)
	return b.String()
}
