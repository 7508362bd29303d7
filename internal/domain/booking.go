package domain

import "time"

type TripType string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingDraft is the transient booking proposal threaded between workflow
// steps as navigation state. It is never persisted by the gateway; abandoning
// the flow discards it.
type BookingDraft struct {
	Trip           TripType  `json:"trip"`
	OutboundFlight *Flight   `json:"outboundFlight"`
	ReturnFlight   *Flight   `json:"returnFlight,omitempty"`
	SeatClass      SeatClass `json:"seatClass"`
	Passengers     int       `json:"passengers"`
	OutboundAmount float64   `json:"outboundAmount"`
	ReturnAmount   float64   `json:"returnAmount"`
	TotalAmount    float64   `json:"totalAmount"`
}

// Legs returns the flights present on the draft, outbound first.
func (d *BookingDraft) Legs() []*Flight {
	legs := make([]*Flight, 0, 2)
	if d.OutboundFlight != nil {
		legs = append(legs, d.OutboundFlight)
	}
	if d.ReturnFlight != nil {
		legs = append(legs, d.ReturnFlight)
	}
	return legs
}

type Booking struct {
	ID     string `json:"_id"`
	UserID string `json:"user,omitempty"`

	// One-way bookings carry Flight; round trips carry the outbound/return
	// pair instead.
	Flight         *Flight `json:"flight,omitempty"`
	OutboundFlight *Flight `json:"outboundFlight,omitempty"`
	ReturnFlight   *Flight `json:"returnFlight,omitempty"`
	IsRoundTrip    bool    `json:"isRoundTrip"`

	SeatClass      SeatClass     `json:"seatClass"`
	Passengers     int           `json:"passengers"`
	TotalAmount    float64       `json:"totalAmount"`
	OutboundAmount float64       `json:"outboundAmount,omitempty"`
	ReturnAmount   float64       `json:"returnAmount,omitempty"`
	Status         BookingStatus `json:"status"`

	TicketNumber         string `json:"ticketNumber,omitempty"`
	OutboundTicketNumber string `json:"outboundTicketNumber,omitempty"`
	ReturnTicketNumber   string `json:"returnTicketNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// PrimaryFlight is the leg whose departure governs cancellation eligibility.
func (b *Booking) PrimaryFlight() *Flight {
	if b.Flight != nil {
		return b.Flight
	}
	return b.OutboundFlight
}
