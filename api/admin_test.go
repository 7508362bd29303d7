package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/service/admin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAdminUseCase is a mock implementation of admin.AdminUseCase
type MockAdminUseCase struct {
	mock.Mock
}

func (m *MockAdminUseCase) ListAirplanes(ctx context.Context, identity *domain.Identity) ([]domain.Airplane, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airplane), args.Error(1)
}

func (m *MockAdminUseCase) AddAirplane(ctx context.Context, identity *domain.Identity, airplane domain.Airplane) error {
	args := m.Called(ctx, identity, airplane)
	return args.Error(0)
}

func (m *MockAdminUseCase) ListFlights(ctx context.Context, identity *domain.Identity) ([]domain.Flight, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockAdminUseCase) ScheduleFlight(ctx context.Context, identity *domain.Identity, in admin.ScheduleInput) error {
	args := m.Called(ctx, identity, in)
	return args.Error(0)
}

func (m *MockAdminUseCase) MonthlyReport(ctx context.Context, identity *domain.Identity, month, year int) (*domain.RevenueReport, error) {
	args := m.Called(ctx, identity, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueReport), args.Error(1)
}

func adminTestIdentity() *domain.Identity {
	return &domain.Identity{Email: "ops@lejet.example", Role: domain.RoleAdmin, Token: "admin-jwt"}
}

func TestAdminHandler_listAirplanes(t *testing.T) {
	mockService := &MockAdminUseCase{}
	handler := NewAdminHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(identityKey, adminTestIdentity())
	c.Request = httptest.NewRequest("GET", "/admin/airplanes", nil)

	airplanes := []domain.Airplane{{ID: "a1", Name: "ATR 72-600", Capacity: 70}}
	mockService.On("ListAirplanes", c.Request.Context(), adminTestIdentity()).Return(airplanes, nil).Once()

	handler.listAirplanes(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.Airplane
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "ATR 72-600", response[0].Name)

	mockService.AssertExpectations(t)
}

func TestAdminHandler_addAirplane(t *testing.T) {
	mockService := &MockAdminUseCase{}
	handler := NewAdminHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(identityKey, adminTestIdentity())

	airplane := domain.Airplane{Name: "Dash 8-400", Capacity: 78, CurrentLocation: "Accra (Kotoka Airport)"}
	body, _ := json.Marshal(airplane)
	c.Request = httptest.NewRequest("POST", "/admin/airplanes", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("AddAirplane", c.Request.Context(), adminTestIdentity(), airplane).Return(nil).Once()

	handler.addAirplane(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "added successfully")
	mockService.AssertExpectations(t)
}

func TestAdminHandler_addAirplane_validationError(t *testing.T) {
	mockService := &MockAdminUseCase{}
	handler := NewAdminHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(identityKey, adminTestIdentity())

	airplane := domain.Airplane{Name: "Dash 8-400", Capacity: 0}
	body, _ := json.Marshal(airplane)
	c.Request = httptest.NewRequest("POST", "/admin/airplanes", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("AddAirplane", c.Request.Context(), adminTestIdentity(), airplane).
		Return(&admin.ValidationError{Reason: "capacity must be at least 1"}).Once()

	handler.addAirplane(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "capacity must be at least 1")
}

func TestAdminHandler_scheduleFlight(t *testing.T) {
	mockService := &MockAdminUseCase{}
	handler := NewAdminHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(identityKey, adminTestIdentity())

	in := admin.ScheduleInput{
		AirplaneID:      "a1",
		From:            "Accra (Kotoka Airport)",
		To:              "Tamale Airport",
		DepartureDate:   "2025-06-10",
		DepartureTime:   "08:30",
		ArrivalTime:     "09:45",
		EconomyPrice:    500,
		FirstClassPrice: 1200,
	}
	body, _ := json.Marshal(in)
	c.Request = httptest.NewRequest("POST", "/admin/flights", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("ScheduleFlight", c.Request.Context(), adminTestIdentity(), in).Return(nil).Once()

	handler.scheduleFlight(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "scheduled successfully")
	mockService.AssertExpectations(t)
}

func TestAdminHandler_monthlyReport(t *testing.T) {
	mockService := &MockAdminUseCase{}
	handler := NewAdminHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(identityKey, adminTestIdentity())
	c.Request = httptest.NewRequest("GET", "/admin/reports/monthly-revenue?month=6&year=2025", nil)

	report := &domain.RevenueReport{
		Month:                    6,
		Year:                     2025,
		TotalRevenue:             120000,
		TotalBookings:            240,
		AverageRevenuePerBooking: 500,
	}
	mockService.On("MonthlyReport", c.Request.Context(), adminTestIdentity(), 6, 2025).Return(report, nil).Once()

	handler.monthlyReport(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.RevenueReport
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 500.0, response.AverageRevenuePerBooking)

	mockService.AssertExpectations(t)
}

func TestAdminHandler_monthlyReport_badQuery(t *testing.T) {
	mockService := &MockAdminUseCase{}
	handler := NewAdminHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(identityKey, adminTestIdentity())
	c.Request = httptest.NewRequest("GET", "/admin/reports/monthly-revenue?month=June&year=2025", nil)

	handler.monthlyReport(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid month")
	mockService.AssertNotCalled(t, "MonthlyReport")
}
