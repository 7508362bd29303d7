package admin

import (
	"context"
	"testing"
	"time"

	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) ListAirplanes(ctx context.Context, token string) ([]domain.Airplane, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airplane), args.Error(1)
}

func (m *MockUpstream) CreateAirplane(ctx context.Context, token string, airplane domain.Airplane) error {
	args := m.Called(ctx, token, airplane)
	return args.Error(0)
}

func (m *MockUpstream) ListFlights(ctx context.Context, token string) ([]domain.Flight, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockUpstream) CreateFlight(ctx context.Context, token string, schedule domain.FlightSchedule) error {
	args := m.Called(ctx, token, schedule)
	return args.Error(0)
}

func (m *MockUpstream) MonthlyRevenue(ctx context.Context, token string, month, year int) (*domain.RevenueReport, error) {
	args := m.Called(ctx, token, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueReport), args.Error(1)
}

func adminIdentity() *domain.Identity {
	return &domain.Identity{Email: "ops@lejet.example", Role: domain.RoleAdmin, Token: "admin-token"}
}

func userIdentity() *domain.Identity {
	return &domain.Identity{Email: "ama@example.com", Role: domain.RoleUser, Token: "user-token"}
}

func TestAdminService_RejectsNonAdmins(t *testing.T) {
	mockUp := &MockUpstream{}
	service := NewService(mockUp)
	ctx := context.Background()

	_, err := service.ListAirplanes(ctx, userIdentity())
	assert.ErrorIs(t, err, upstream.ErrUnauthorized)

	err = service.AddAirplane(ctx, userIdentity(), domain.Airplane{Name: "ATR 72", Capacity: 70})
	assert.ErrorIs(t, err, upstream.ErrUnauthorized)

	_, err = service.MonthlyReport(ctx, userIdentity(), 3, 2025)
	assert.ErrorIs(t, err, upstream.ErrUnauthorized)

	mockUp.AssertNotCalled(t, "ListAirplanes")
	mockUp.AssertNotCalled(t, "CreateAirplane")
	mockUp.AssertNotCalled(t, "MonthlyRevenue")
}

func TestAddAirplane_Validation(t *testing.T) {
	mockUp := &MockUpstream{}
	service := NewService(mockUp)
	ctx := context.Background()

	testCases := []struct {
		name        string
		airplane    domain.Airplane
		expectedErr string
	}{
		{
			name:        "missing name",
			airplane:    domain.Airplane{Capacity: 70, CurrentLocation: "Accra (Kotoka Airport)"},
			expectedErr: "name is required",
		},
		{
			name:        "zero capacity",
			airplane:    domain.Airplane{Name: "ATR 72", Capacity: 0, CurrentLocation: "Accra (Kotoka Airport)"},
			expectedErr: "capacity",
		},
		{
			name:        "unknown location",
			airplane:    domain.Airplane{Name: "ATR 72", Capacity: 70, CurrentLocation: "Lagos"},
			expectedErr: "served airport",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.AddAirplane(ctx, adminIdentity(), tc.airplane)
			assert.Error(t, err)

			var validation *ValidationError
			assert.ErrorAs(t, err, &validation)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}

	mockUp.AssertNotCalled(t, "CreateAirplane")
}

func TestAddAirplane_Success(t *testing.T) {
	mockUp := &MockUpstream{}
	service := NewService(mockUp)
	ctx := context.Background()

	airplane := domain.Airplane{Name: "ATR 72-600", Capacity: 70, CurrentLocation: "Kumasi Airport"}
	mockUp.On("CreateAirplane", ctx, "admin-token", airplane).Return(nil).Once()

	err := service.AddAirplane(ctx, adminIdentity(), airplane)
	assert.NoError(t, err)
	mockUp.AssertExpectations(t)
}

func validSchedule() ScheduleInput {
	return ScheduleInput{
		AirplaneID:      "a1",
		From:            "Accra (Kotoka Airport)",
		To:              "Tamale Airport",
		DepartureDate:   "2025-06-10",
		DepartureTime:   "08:30",
		ArrivalTime:     "09:45",
		EconomyPrice:    500,
		FirstClassPrice: 1200,
	}
}

func TestScheduleFlight_OneOff(t *testing.T) {
	mockUp := &MockUpstream{}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	service := NewService(mockUp, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	mockUp.On("CreateFlight", ctx, "admin-token", mock.MatchedBy(func(s domain.FlightSchedule) bool {
		return s.DepartureTime == "2025-06-10T08:30:00Z" && s.ArrivalTime == "2025-06-10T09:45:00Z" && !s.IsRecurring
	})).Return(nil).Once()

	err := service.ScheduleFlight(ctx, adminIdentity(), validSchedule())
	assert.NoError(t, err)
	mockUp.AssertExpectations(t)
}

func TestScheduleFlight_ArrivalRollsToNextDay(t *testing.T) {
	mockUp := &MockUpstream{}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	service := NewService(mockUp, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	in := validSchedule()
	in.DepartureTime = "23:30"
	in.ArrivalTime = "00:45"

	// An arrival clock-time before the departure means landing the next day.
	mockUp.On("CreateFlight", ctx, "admin-token", mock.MatchedBy(func(s domain.FlightSchedule) bool {
		return s.DepartureTime == "2025-06-10T23:30:00Z" && s.ArrivalTime == "2025-06-11T00:45:00Z"
	})).Return(nil).Once()

	err := service.ScheduleFlight(ctx, adminIdentity(), in)
	assert.NoError(t, err)
	mockUp.AssertExpectations(t)
}

func TestScheduleFlight_Validation(t *testing.T) {
	mockUp := &MockUpstream{}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	service := NewService(mockUp, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	testCases := []struct {
		name        string
		mutate      func(*ScheduleInput)
		expectedErr string
	}{
		{
			name:        "missing airplane",
			mutate:      func(in *ScheduleInput) { in.AirplaneID = "" },
			expectedErr: "required fields",
		},
		{
			name:        "same airports",
			mutate:      func(in *ScheduleInput) { in.To = in.From },
			expectedErr: "must differ",
		},
		{
			name:        "unknown airport",
			mutate:      func(in *ScheduleInput) { in.To = "Lagos" },
			expectedErr: "served airports",
		},
		{
			name:        "missing price",
			mutate:      func(in *ScheduleInput) { in.FirstClassPrice = 0 },
			expectedErr: "prices are required",
		},
		{
			name:        "past departure",
			mutate:      func(in *ScheduleInput) { in.DepartureDate = "2025-05-01" },
			expectedErr: "in the future",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSchedule()
			tc.mutate(&in)

			err := service.ScheduleFlight(ctx, adminIdentity(), in)
			assert.Error(t, err)

			var validation *ValidationError
			assert.ErrorAs(t, err, &validation)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}

	mockUp.AssertNotCalled(t, "CreateFlight")
}

func TestScheduleFlight_Recurring(t *testing.T) {
	mockUp := &MockUpstream{}
	service := NewService(mockUp)
	ctx := context.Background()

	in := validSchedule()
	in.IsRecurring = true
	in.RecurringDays = []string{"Monday", "Friday"}
	in.StartDate = "2025-06-01"
	in.EndDate = "2025-08-31"

	mockUp.On("CreateFlight", ctx, "admin-token", mock.MatchedBy(func(s domain.FlightSchedule) bool {
		return s.IsRecurring && len(s.RecurringDays) == 2 && s.StartDate == "2025-06-01" && s.EndDate == "2025-08-31"
	})).Return(nil).Once()

	err := service.ScheduleFlight(ctx, adminIdentity(), in)
	assert.NoError(t, err)
	mockUp.AssertExpectations(t)
}

func TestScheduleFlight_RecurringValidation(t *testing.T) {
	mockUp := &MockUpstream{}
	service := NewService(mockUp)
	ctx := context.Background()

	in := validSchedule()
	in.IsRecurring = true
	in.RecurringDays = []string{"Funday"}
	in.StartDate = "2025-06-01"
	in.EndDate = "2025-08-31"

	err := service.ScheduleFlight(ctx, adminIdentity(), in)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown weekday")

	in.RecurringDays = []string{"Monday"}
	in.EndDate = "2025-05-01"
	err = service.ScheduleFlight(ctx, adminIdentity(), in)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "precedes its start")

	mockUp.AssertNotCalled(t, "CreateFlight")
}

func TestMonthlyReport_DerivesAverage(t *testing.T) {
	mockUp := &MockUpstream{}
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	service := NewService(mockUp, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	mockUp.On("MonthlyRevenue", ctx, "admin-token", 6, 2025).Return(&domain.RevenueReport{
		TotalRevenue:      120000,
		TotalBookings:     240,
		EconomyRevenue:    90000,
		FirstClassRevenue: 30000,
	}, nil).Once()

	report, err := service.MonthlyReport(ctx, adminIdentity(), 6, 2025)
	assert.NoError(t, err)
	assert.Equal(t, 6, report.Month)
	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 500.0, report.AverageRevenuePerBooking)
	assert.Equal(t, now, report.GeneratedAt)
}

func TestMonthlyReport_ZeroBookings(t *testing.T) {
	mockUp := &MockUpstream{}
	service := NewService(mockUp)
	ctx := context.Background()

	mockUp.On("MonthlyRevenue", ctx, "admin-token", 2, 2025).Return(&domain.RevenueReport{}, nil).Once()

	report, err := service.MonthlyReport(ctx, adminIdentity(), 2, 2025)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, report.AverageRevenuePerBooking)
}

func TestMonthlyReport_Validation(t *testing.T) {
	mockUp := &MockUpstream{}
	service := NewService(mockUp)
	ctx := context.Background()

	_, err := service.MonthlyReport(ctx, adminIdentity(), 0, 2025)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 12")

	_, err = service.MonthlyReport(ctx, adminIdentity(), 13, 2025)
	assert.Error(t, err)

	_, err = service.MonthlyReport(ctx, adminIdentity(), 5, 1990)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid year")

	mockUp.AssertNotCalled(t, "MonthlyRevenue")
}
