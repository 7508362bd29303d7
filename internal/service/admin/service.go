package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/upstream"
)

// ValidationError is a pre-network rejection of an admin form.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

type AdminUseCase interface {
	ListAirplanes(ctx context.Context, identity *domain.Identity) ([]domain.Airplane, error)
	AddAirplane(ctx context.Context, identity *domain.Identity, airplane domain.Airplane) error
	ListFlights(ctx context.Context, identity *domain.Identity) ([]domain.Flight, error)
	ScheduleFlight(ctx context.Context, identity *domain.Identity, in ScheduleInput) error
	MonthlyReport(ctx context.Context, identity *domain.Identity, month, year int) (*domain.RevenueReport, error)
}

type Upstream interface {
	ListAirplanes(ctx context.Context, token string) ([]domain.Airplane, error)
	CreateAirplane(ctx context.Context, token string, airplane domain.Airplane) error
	ListFlights(ctx context.Context, token string) ([]domain.Flight, error)
	CreateFlight(ctx context.Context, token string, schedule domain.FlightSchedule) error
	MonthlyRevenue(ctx context.Context, token string, month, year int) (*domain.RevenueReport, error)
}

type Service struct {
	upstream Upstream
	now      func() time.Time
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(up Upstream, opts ...ServiceOption) *Service {
	s := &Service{upstream: up, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListAirplanes(ctx context.Context, identity *domain.Identity) ([]domain.Airplane, error) {
	if !identity.IsAdmin() {
		return nil, upstream.ErrUnauthorized
	}
	return s.upstream.ListAirplanes(ctx, identity.Token)
}

func (s *Service) AddAirplane(ctx context.Context, identity *domain.Identity, airplane domain.Airplane) error {
	if !identity.IsAdmin() {
		return upstream.ErrUnauthorized
	}
	if airplane.Name == "" {
		return &ValidationError{Reason: "airplane name is required"}
	}
	if airplane.Capacity < 1 {
		return &ValidationError{Reason: "capacity must be at least 1"}
	}
	if !domain.KnownAirport(airplane.CurrentLocation) {
		return &ValidationError{Reason: "current location must be a served airport"}
	}
	return s.upstream.CreateAirplane(ctx, identity.Token, airplane)
}

func (s *Service) ListFlights(ctx context.Context, identity *domain.Identity) ([]domain.Flight, error) {
	if !identity.IsAdmin() {
		return nil, upstream.ErrUnauthorized
	}
	return s.upstream.ListFlights(ctx, identity.Token)
}

// ScheduleInput is the admin flight form: a calendar date plus wall-clock
// departure/arrival times for one-off flights, or a weekday set within a
// date window for recurring ones.
type ScheduleInput struct {
	AirplaneID      string   `json:"airplaneId"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	DepartureDate   string   `json:"departureDate"`
	DepartureTime   string   `json:"departureTime"`
	ArrivalTime     string   `json:"arrivalTime"`
	EconomyPrice    float64  `json:"economyPrice"`
	FirstClassPrice float64  `json:"firstClassPrice"`
	IsRecurring     bool     `json:"isRecurring"`
	RecurringDays   []string `json:"recurringDays"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ScheduleFlight validates the form before anything is sent upstream, then
// submits the composed schedule.
func (s *Service) ScheduleFlight(ctx context.Context, identity *domain.Identity, in ScheduleInput) error {
	if !identity.IsAdmin() {
		return upstream.ErrUnauthorized
	}

	if in.AirplaneID == "" || in.From == "" || in.To == "" || in.DepartureTime == "" || in.ArrivalTime == "" {
		return &ValidationError{Reason: "please fill in all required fields"}
	}
	if in.EconomyPrice <= 0 || in.FirstClassPrice <= 0 {
		return &ValidationError{Reason: "both class prices are required"}
	}
	if in.From == in.To {
		return &ValidationError{Reason: "departure and arrival airports must differ"}
	}
	if !domain.KnownAirport(in.From) || !domain.KnownAirport(in.To) {
		return &ValidationError{Reason: "flights operate between served airports only"}
	}

	if in.IsRecurring {
		return s.scheduleRecurring(ctx, identity.Token, in)
	}
	return s.scheduleOneOff(ctx, identity.Token, in)
}

func (s *Service) scheduleOneOff(ctx context.Context, token string, in ScheduleInput) error {
	if in.DepartureDate == "" {
		return &ValidationError{Reason: "departure date is required"}
	}

	departure, err := time.Parse(dateLayout+"T"+timeLayout, in.DepartureDate+"T"+in.DepartureTime)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid departure: %v", err)}
	}
	arrival, err := time.Parse(dateLayout+"T"+timeLayout, in.DepartureDate+"T"+in.ArrivalTime)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid arrival: %v", err)}
	}
	// Arrival clock-time before departure means the flight lands next day.
	if !arrival.After(departure) {
		arrival = arrival.AddDate(0, 0, 1)
	}
	if !departure.After(s.now()) {
		return &ValidationError{Reason: "departure time must be in the future"}
	}

	return s.upstream.CreateFlight(ctx, token, domain.FlightSchedule{
		AirplaneID:      in.AirplaneID,
		From:            in.From,
		To:              in.To,
		DepartureTime:   departure.UTC().Format(time.RFC3339),
		ArrivalTime:     arrival.UTC().Format(time.RFC3339),
		EconomyPrice:    in.EconomyPrice,
		FirstClassPrice: in.FirstClassPrice,
		IsRecurring:     false,
	})
}

func (s *Service) scheduleRecurring(ctx context.Context, token string, in ScheduleInput) error {
	if in.StartDate == "" || in.EndDate == "" || len(in.RecurringDays) == 0 {
		return &ValidationError{Reason: "please fill in all recurring flight details"}
	}
	for _, day := range in.RecurringDays {
		if !domain.KnownWeekday(day) {
			return &ValidationError{Reason: fmt.Sprintf("unknown weekday %q", day)}
		}
	}
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid start date: %v", err)}
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("invalid end date: %v", err)}
	}
	if end.Before(start) {
		return &ValidationError{Reason: "recurrence window end precedes its start"}
	}

	return s.upstream.CreateFlight(ctx, token, domain.FlightSchedule{
		AirplaneID:      in.AirplaneID,
		From:            in.From,
		To:              in.To,
		DepartureTime:   in.DepartureTime,
		ArrivalTime:     in.ArrivalTime,
		EconomyPrice:    in.EconomyPrice,
		FirstClassPrice: in.FirstClassPrice,
		IsRecurring:     true,
		RecurringDays:   in.RecurringDays,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
	})
}

// MonthlyReport fetches the upstream aggregate and derives the average from
// the real totals. No placeholder figures are ever merged in.
func (s *Service) MonthlyReport(ctx context.Context, identity *domain.Identity, month, year int) (*domain.RevenueReport, error) {
	if !identity.IsAdmin() {
		return nil, upstream.ErrUnauthorized
	}
	if month < 1 || month > 12 {
		return nil, &ValidationError{Reason: "month must be between 1 and 12"}
	}
	if year < 2000 {
		return nil, &ValidationError{Reason: "invalid year"}
	}

	report, err := s.upstream.MonthlyRevenue(ctx, identity.Token, month, year)
	if err != nil {
		return nil, err
	}

	report.Month = month
	report.Year = year
	if report.TotalBookings > 0 {
		report.AverageRevenuePerBooking = report.TotalRevenue / float64(report.TotalBookings)
	}
	report.GeneratedAt = s.now()
	return report, nil
}
