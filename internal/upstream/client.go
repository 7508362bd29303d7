package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lejet/booking-gateway/internal/domain"
)

// ErrUnauthorized is returned for any 401/403 from the core API. Callers
// treat it as a signal to clear the session and force re-authentication.
var ErrUnauthorized = errors.New("upstream rejected credentials")

// APIError carries the upstream-provided message verbatim so it can be
// surfaced to the user unchanged.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// Client talks to the core LEJET API over HTTP JSON. The gateway owns no
// storage; every durable operation goes through here.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type loginResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	body := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/login", "", body, &resp); err != nil {
		return nil, err
	}
	identity := resp.User
	identity.Token = resp.Token
	return &identity, nil
}

func (c *Client) Register(ctx context.Context, email, password string, role domain.Role) error {
	body := map[string]string{"email": email, "password": password, "role": string(role)}
	return c.do(ctx, http.MethodPost, "/api/users/register", "", body, nil)
}

// Verify checks a stored bearer token and returns the identity it belongs to.
func (c *Client) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	var identity domain.Identity
	if err := c.do(ctx, http.MethodGet, "/api/users/verify", token, nil, &identity); err != nil {
		return nil, err
	}
	identity.Token = token
	return &identity, nil
}

// SearchFlights queries one leg. The upstream responds with either a bare
// array or a {"flights": [...]} wrapper; both are normalized to a plain list
// here, at the boundary. An empty list is a valid result.
func (c *Client) SearchFlights(ctx context.Context, from, to string, date time.Time) ([]domain.Flight, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	q.Set("date", date.UTC().Format(time.RFC3339))

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/flights/search?"+q.Encode(), "", nil, &raw); err != nil {
		return nil, err
	}
	return normalizeFlightList(raw)
}

func normalizeFlightList(raw json.RawMessage) ([]domain.Flight, error) {
	var flights []domain.Flight
	if err := json.Unmarshal(raw, &flights); err == nil {
		return flights, nil
	}

	var wrapped struct {
		Flights []domain.Flight `json:"flights"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected flight search response shape: %w", err)
	}
	if wrapped.Flights == nil {
		return []domain.Flight{}, nil
	}
	return wrapped.Flights, nil
}

func (c *Client) GetFlight(ctx context.Context, token, id string) (*domain.Flight, error) {
	var flight domain.Flight
	if err := c.do(ctx, http.MethodGet, "/api/flights/"+id, token, nil, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

type CreateBookingInput struct {
	FlightID    string           `json:"flightId"`
	SeatClass   domain.SeatClass `json:"seatClass"`
	Passengers  int              `json:"passengers"`
	TotalAmount float64          `json:"totalAmount"`
}

type bookingEnvelope struct {
	Booking *domain.Booking `json:"booking"`
}

// CreateBooking persists a confirmed draft upstream. The returned booking has
// status pending until payment clears.
func (c *Client) CreateBooking(ctx context.Context, token string, input CreateBookingInput) (*domain.Booking, error) {
	var resp bookingEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/bookings", token, input, &resp); err != nil {
		return nil, err
	}
	if resp.Booking == nil {
		return nil, errors.New("upstream returned no booking")
	}
	return resp.Booking, nil
}

// ConfirmPayment submits the payment attempt for a pending booking. On
// success the returned booking is confirmed and carries its ticket numbers.
func (c *Client) ConfirmPayment(ctx context.Context, token string, req domain.PaymentRequest) (*domain.Booking, error) {
	var resp bookingEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/bookings/confirm-payment", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.Booking == nil {
		return nil, errors.New("upstream returned no booking")
	}
	return resp.Booking, nil
}

func (c *Client) GetBooking(ctx context.Context, token, id string) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/"+id, token, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) ListUserBookings(ctx context.Context, token string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/user/bookings", token, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) CancelBooking(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookings/"+id+"/cancel", token, nil, nil)
}

func (c *Client) ListAirplanes(ctx context.Context, token string) ([]domain.Airplane, error) {
	var airplanes []domain.Airplane
	if err := c.do(ctx, http.MethodGet, "/api/admin/airplanes", token, nil, &airplanes); err != nil {
		return nil, err
	}
	return airplanes, nil
}

func (c *Client) CreateAirplane(ctx context.Context, token string, airplane domain.Airplane) error {
	return c.do(ctx, http.MethodPost, "/api/admin/airplanes", token, airplane, nil)
}

func (c *Client) ListFlights(ctx context.Context, token string) ([]domain.Flight, error) {
	var flights []domain.Flight
	if err := c.do(ctx, http.MethodGet, "/api/admin/flights", token, nil, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *Client) CreateFlight(ctx context.Context, token string, schedule domain.FlightSchedule) error {
	return c.do(ctx, http.MethodPost, "/api/admin/flights", token, schedule, nil)
}

func (c *Client) MonthlyRevenue(ctx context.Context, token string, month, year int) (*domain.RevenueReport, error) {
	q := url.Values{}
	q.Set("month", strconv.Itoa(month))
	q.Set("year", strconv.Itoa(year))

	var report domain.RevenueReport
	if err := c.do(ctx, http.MethodGet, "/api/reports/monthly-revenue?"+q.Encode(), token, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// do issues one request. Request and response bodies are never logged here:
// payment submissions pass through this path.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read upstream response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode upstream response: %w", err)
	}
	return nil
}

func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
