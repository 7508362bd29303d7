package workflow

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lejet/booking-gateway/internal/domain"
)

// SearchInput carries the traveller's search form. The same input, with the
// airports swapped and the return date substituted, drives the return-leg
// query of a round trip.
type SearchInput struct {
	Trip          domain.TripType  `json:"trip"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	DepartureDate time.Time        `json:"departureDate"`
	ReturnDate    time.Time        `json:"returnDate,omitzero"`
	Passengers    int              `json:"passengers"`
	SeatClass     domain.SeatClass `json:"seatClass"`
}

func (in SearchInput) Validate() error {
	if in.From == "" || in.To == "" {
		return &ValidationError{Reason: "departure and arrival airports are required"}
	}
	if in.From == in.To {
		return &ValidationError{Reason: "departure and arrival airports must differ"}
	}
	if in.DepartureDate.IsZero() {
		return &ValidationError{Reason: "departure date is required"}
	}
	if in.Passengers < 1 || in.Passengers > 9 {
		return &ValidationError{Reason: "passengers must be between 1 and 9"}
	}
	if !in.SeatClass.Valid() {
		return &ValidationError{Reason: "invalid seat class"}
	}
	if in.Trip != domain.TripOneWay && in.Trip != domain.TripRoundTrip {
		return &ValidationError{Reason: "invalid trip type"}
	}
	if in.Trip == domain.TripRoundTrip && in.ReturnDate.IsZero() {
		return &ValidationError{Reason: "return date is required for round trips"}
	}
	return nil
}

// returnLeg derives the return-leg query: airports swapped, return date.
func (in SearchInput) returnLeg() SearchInput {
	out := in
	out.From, out.To = in.To, in.From
	out.DepartureDate = in.ReturnDate
	return out
}

type SearchResult struct {
	Flights []domain.Flight `json:"flights"`
	// Empty marks a valid zero-match response: an informational state, not
	// a failure.
	Empty bool `json:"empty"`
}

// SearchTracker keeps only the newest search a session issued. A response
// belonging to a superseded request is never applied, so a slow early search
// cannot overwrite a later one.
type SearchTracker struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	flights []domain.Flight
}

// Begin registers a new outstanding request and returns its sequence number.
func (t *SearchTracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued++
	return t.issued
}

// Apply installs a result if it belongs to the newest issued request.
// It reports whether the result was kept.
func (t *SearchTracker) Apply(seq uint64, flights []domain.Flight) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq != t.issued || seq < t.applied {
		return false
	}
	t.applied = seq
	t.flights = flights
	return true
}

// Current returns the newest applied result.
func (t *SearchTracker) Current() []domain.Flight {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flights
}

// Search runs one outbound-leg query. Results are cached briefly; the
// per-session tracker suppresses stale responses when searches overlap.
func (s *Service) Search(ctx context.Context, sessionID string, in SearchInput) (*SearchResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.runSearch(ctx, sessionID, in.From, in.To, in.DepartureDate)
}

// SearchReturnLeg queries the return leg. It is only issued after an
// outbound flight has been selected.
func (s *Service) SearchReturnLeg(ctx context.Context, sessionID string, in SearchInput) (*SearchResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Trip != domain.TripRoundTrip {
		return nil, &ValidationError{Reason: "return search requires a round trip"}
	}
	leg := in.returnLeg()
	return s.runSearch(ctx, sessionID, leg.From, leg.To, leg.DepartureDate)
}

func (s *Service) runSearch(ctx context.Context, sessionID, from, to string, date time.Time) (*SearchResult, error) {
	day := searchDay(date)
	tracker := s.tracker(sessionID)
	seq := tracker.Begin()

	flights, err := s.lookup(ctx, from, to, day)
	if err != nil {
		return nil, err
	}

	if !tracker.Apply(seq, flights) {
		// A newer search finished first; its results stand.
		flights = tracker.Current()
	}
	return &SearchResult{Flights: flights, Empty: len(flights) == 0}, nil
}

func (s *Service) lookup(ctx context.Context, from, to string, day time.Time) ([]domain.Flight, error) {
	key := day.Format("2006-01-02")
	if s.cache != nil {
		cached, err := s.cache.GetSearchResults(ctx, from, to, key)
		if err != nil {
			log.Printf("search cache read error: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.upstream.SearchFlights(ctx, from, to, day)
	if err != nil {
		return nil, err
	}
	if flights == nil {
		flights = []domain.Flight{}
	}

	if s.cache != nil {
		if err := s.cache.SetSearchResults(ctx, from, to, key, flights); err != nil {
			log.Printf("search cache write error: %v", err)
		}
	}
	return flights, nil
}

// FlightDetails resolves one flight by id, for re-entering the booking page
// with only a flight reference in hand.
func (s *Service) FlightDetails(ctx context.Context, id string) (*domain.Flight, error) {
	if id == "" {
		return nil, &ValidationError{Reason: "flight id is required"}
	}
	return s.upstream.GetFlight(ctx, "", id)
}

// searchDay truncates to UTC midnight, the granularity the upstream search
// works at.
func searchDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
