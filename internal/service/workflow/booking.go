package workflow

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/fare"
	"github.com/lejet/booking-gateway/internal/kafka"
	"github.com/lejet/booking-gateway/internal/ticket"
	"github.com/lejet/booking-gateway/internal/upstream"
)

// Selection is the navigation state produced by choosing a flight from a
// result list. For a one-way trip it already carries the finished draft; for
// a round trip the first selection only fixes the outbound leg and asks the
// client to search the return leg.
type Selection struct {
	State       State                `json:"state"`
	NeedsReturn bool                 `json:"needsReturn"`
	Outbound    *domain.Flight       `json:"outbound,omitempty"`
	Quote       fare.Quote           `json:"quote"`
	Draft       *domain.BookingDraft `json:"draft,omitempty"`
}

func (s *Service) SelectOutbound(in SearchInput, flight *domain.Flight) (*Selection, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, ErrMissingPrecursor
	}

	quote := fare.Compute(flight, in.SeatClass, in.Passengers)

	if in.Trip == domain.TripRoundTrip {
		return &Selection{
			State:       StateOutboundSelected,
			NeedsReturn: true,
			Outbound:    flight,
			Quote:       quote,
		}, nil
	}

	draft := &domain.BookingDraft{
		Trip:           domain.TripOneWay,
		OutboundFlight: flight,
		SeatClass:      in.SeatClass,
		Passengers:     in.Passengers,
	}
	fare.DraftTotals(draft)

	return &Selection{
		State: StateDrafted,
		Quote: quote,
		Draft: draft,
	}, nil
}

func (s *Service) SelectReturn(in SearchInput, outbound, returnFlight *domain.Flight) (*Selection, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Trip != domain.TripRoundTrip {
		return nil, &ValidationError{Reason: "return selection requires a round trip"}
	}
	if outbound == nil || returnFlight == nil {
		return nil, ErrMissingPrecursor
	}

	draft := &domain.BookingDraft{
		Trip:           domain.TripRoundTrip,
		OutboundFlight: outbound,
		ReturnFlight:   returnFlight,
		SeatClass:      in.SeatClass,
		Passengers:     in.Passengers,
	}
	fare.DraftTotals(draft)

	return &Selection{
		State: StateDrafted,
		Quote: fare.Compute(returnFlight, in.SeatClass, in.Passengers),
		Draft: draft,
	}, nil
}

// PaymentContext is the navigation state carried from confirmation into
// payment: the persisted pending booking plus the draft it came from.
type PaymentContext struct {
	State                State                `json:"state"`
	BookingID            string               `json:"bookingId"`
	TotalAmount          float64              `json:"totalAmount"`
	Draft                *domain.BookingDraft `json:"draft,omitempty"`
	TicketNumber         string               `json:"ticketNumber,omitempty"`
	OutboundTicketNumber string               `json:"outboundTicketNumber,omitempty"`
	ReturnTicketNumber   string               `json:"returnTicketNumber,omitempty"`
}

// Confirm submits the draft upstream, which allocates a pending booking. On
// failure the caller stays on the drafted step with the error surfaced and
// nothing retained. On success the workflow advances straight to awaiting
// payment, carrying the booking id, total, and freshly issued leg ticket
// numbers.
func (s *Service) Confirm(ctx context.Context, identity *domain.Identity, draft *domain.BookingDraft) (*PaymentContext, error) {
	if identity == nil {
		return nil, upstream.ErrUnauthorized
	}
	if draft == nil || draft.OutboundFlight == nil {
		return nil, ErrMissingPrecursor
	}
	if draft.Trip == domain.TripRoundTrip && draft.ReturnFlight == nil {
		return nil, ErrMissingPrecursor
	}
	if draft.Passengers < 1 || draft.Passengers > 9 {
		return nil, &ValidationError{Reason: "passengers must be between 1 and 9"}
	}
	if !fare.Consistent(draft) {
		return nil, &ValidationError{Reason: "draft amounts do not match the selected flights"}
	}

	booking, err := s.upstream.CreateBooking(ctx, identity.Token, upstream.CreateBookingInput{
		FlightID:    draft.OutboundFlight.ID,
		SeatClass:   draft.SeatClass,
		Passengers:  draft.Passengers,
		TotalAmount: draft.TotalAmount,
	})
	if err != nil {
		return nil, err
	}

	pc := &PaymentContext{
		State:       StateAwaitingPayment,
		BookingID:   booking.ID,
		TotalAmount: booking.TotalAmount,
		Draft:       draft,
	}
	now := s.now()
	if draft.Trip == domain.TripRoundTrip {
		pc.OutboundTicketNumber = ticket.NewLegNumber(now, ticket.LegOutbound)
		pc.ReturnTicketNumber = ticket.NewLegNumber(now, ticket.LegReturn)
	} else {
		pc.TicketNumber = ticket.NewLegNumber(now, ticket.LegSingle)
	}

	s.publish(ctx, "booking_created", identity.Email, booking)
	return pc, nil
}

func validatePayment(method domain.PaymentMethod, details domain.PaymentDetails) error {
	switch method {
	case domain.PaymentMethodCard:
		if details.CardNumber == "" || details.ExpiryDate == "" || details.CVV == "" {
			return &ValidationError{Reason: "please fill in all card details"}
		}
	case domain.PaymentMethodMobileMoney:
		if details.Network == "" || details.PhoneNumber == "" {
			return &ValidationError{Reason: "please fill in all mobile money details"}
		}
	default:
		return &ValidationError{Reason: "please select a payment method"}
	}
	return nil
}

// SubmitPayment validates the method-specific fields, then submits exactly
// one payment attempt for the pending booking. A second submission while one
// is in flight is refused. Rejections other than credential failures surface
// the upstream message verbatim and leave the booking pending for an
// explicit retry; nothing is retried automatically.
func (s *Service) SubmitPayment(ctx context.Context, identity *domain.Identity, pc *PaymentContext, method domain.PaymentMethod, details domain.PaymentDetails) (*domain.Booking, error) {
	if identity == nil {
		return nil, upstream.ErrUnauthorized
	}
	if pc == nil || pc.BookingID == "" {
		return nil, ErrMissingPrecursor
	}
	if err := validatePayment(method, details); err != nil {
		return nil, err
	}

	if s.cache != nil {
		ok, err := s.cache.AcquireSubmitLock(ctx, pc.BookingID, s.submitLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSubmissionInFlight
		}
		defer func() {
			if err := s.cache.ReleaseSubmitLock(ctx, pc.BookingID); err != nil {
				log.Printf("release submit lock for booking %s: %v", pc.BookingID, err)
			}
		}()
	}

	booking, err := s.upstream.ConfirmPayment(ctx, identity.Token, domain.PaymentRequest{
		BookingID: pc.BookingID,
		Method:    method,
		Details:   details,
	})
	if err != nil {
		return nil, err
	}

	s.finalize(booking, pc)
	s.publish(ctx, "booking_confirmed", identity.Email, booking)
	return booking, nil
}

// finalize merges the navigation-carried context into the upstream booking:
// leg flights the upstream response may omit, and ticket numbers where the
// upstream assigned none. Upstream-assigned numbers win.
func (s *Service) finalize(booking *domain.Booking, pc *PaymentContext) {
	draft := pc.Draft
	if draft == nil {
		return
	}

	if draft.Trip == domain.TripRoundTrip {
		booking.IsRoundTrip = true
		if booking.OutboundFlight == nil {
			booking.OutboundFlight = draft.OutboundFlight
		}
		if booking.ReturnFlight == nil {
			booking.ReturnFlight = draft.ReturnFlight
		}
		if booking.OutboundTicketNumber == "" {
			booking.OutboundTicketNumber = pc.OutboundTicketNumber
		}
		if booking.ReturnTicketNumber == "" {
			booking.ReturnTicketNumber = pc.ReturnTicketNumber
		}
		if booking.OutboundAmount == 0 {
			booking.OutboundAmount = draft.OutboundAmount
		}
		if booking.ReturnAmount == 0 {
			booking.ReturnAmount = draft.ReturnAmount
		}
	} else {
		if booking.Flight == nil {
			booking.Flight = draft.OutboundFlight
		}
		if booking.TicketNumber == "" {
			booking.TicketNumber = pc.TicketNumber
		}
	}
}

func (s *Service) ListBookings(ctx context.Context, identity *domain.Identity) ([]domain.Booking, error) {
	if identity == nil {
		return nil, upstream.ErrUnauthorized
	}
	return s.upstream.ListUserBookings(ctx, identity.Token)
}

// CancelEligible applies the cutoff invariant: cancellation is allowed only
// while departure is more than the cutoff away.
func (s *Service) CancelEligible(departure, now time.Time) bool {
	return departure.Sub(now) > s.cancelCutoff
}

// Cancel refuses ineligible cancellations before any cancellation request is
// issued upstream.
func (s *Service) Cancel(ctx context.Context, identity *domain.Identity, bookingID string) error {
	if identity == nil {
		return upstream.ErrUnauthorized
	}
	if bookingID == "" {
		return ErrMissingPrecursor
	}

	booking, err := s.upstream.GetBooking(ctx, identity.Token, bookingID)
	if err != nil {
		return err
	}

	leg := booking.PrimaryFlight()
	if leg == nil {
		// No departure to check the window against; the booking data is
		// incomplete, not too close to departure.
		return ErrMissingPrecursor
	}
	if !s.CancelEligible(leg.DepartureTime, s.now()) {
		return ErrCancelWindowClosed
	}

	if err := s.upstream.CancelBooking(ctx, identity.Token, bookingID); err != nil {
		return err
	}

	booking.Status = domain.BookingStatusCancelled
	s.publish(ctx, "booking_cancelled", identity.Email, booking)
	return nil
}

// ResolveTicket renders the ticket for a finalized booking. The booking
// carried through navigation is preferred; entering the ticket view directly
// (bookmark, reload) re-fetches by id. If neither yields a renderable
// booking the caller redirects to search.
func (s *Service) ResolveTicket(ctx context.Context, identity *domain.Identity, bookingID string, carried *domain.Booking) (*ticket.View, error) {
	if identity == nil {
		return nil, upstream.ErrUnauthorized
	}

	if carried != nil {
		if view, err := ticket.BuildView(carried); err == nil {
			return view, nil
		}
	}

	if bookingID == "" {
		return nil, ErrMissingPrecursor
	}
	booking, err := s.upstream.GetBooking(ctx, identity.Token, bookingID)
	if err != nil {
		return nil, err
	}

	view, err := ticket.BuildView(booking)
	if err != nil {
		if errors.Is(err, ticket.ErrIncomplete) {
			return nil, ErrMissingPrecursor
		}
		return nil, err
	}
	return view, nil
}

func (s *Service) publish(ctx context.Context, eventType, email string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}

	trip := domain.TripOneWay
	if booking.IsRoundTrip {
		trip = domain.TripRoundTrip
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		Email:       email,
		Trip:        string(trip),
		TotalAmount: booking.TotalAmount,
		Status:      string(booking.Status),
		OccurredAt:  s.now(),
	}

	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		log.Printf("publish %s event for booking %s: %v", eventType, booking.ID, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			log.Printf("publish %s notification for booking %s: %v", eventType, booking.ID, err)
		}
	}
}
