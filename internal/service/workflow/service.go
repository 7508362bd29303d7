package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/ticket"
	"github.com/lejet/booking-gateway/internal/upstream"
)

// State names the workflow steps a booking moves through. The draft context
// threaded between steps records where it is; entering a step without the
// expected precursor state yields ErrMissingPrecursor.
type State string

const (
	StateSearching        State = "SEARCHING"
	StateOutboundSelected State = "OUTBOUND_SELECTED"
	StateReturnSelected   State = "RETURN_SELECTED"
	StateDrafted          State = "DRAFTED"
	StatePendingPersisted State = "PENDING_PERSISTED"
	StateAwaitingPayment  State = "AWAITING_PAYMENT"
	StateConfirmed        State = "CONFIRMED"
	StateCancelled        State = "CANCELLED"
)

var (
	// ErrMissingPrecursor signals entry into a step without the state the
	// step requires; handlers redirect to search.
	ErrMissingPrecursor = errors.New("booking context missing, start a new search")

	// ErrSubmissionInFlight guards against a second submission while the
	// first has not resolved.
	ErrSubmissionInFlight = errors.New("a submission for this booking is already in progress")

	// ErrCancelWindowClosed is the fixed refusal shown when the departure is
	// too close. No cancellation request is sent upstream in that case.
	ErrCancelWindowClosed = errors.New("bookings can only be cancelled at least 1 hour before departure")
)

// ValidationError is a pre-network rejection; nothing was submitted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

type WorkflowUseCase interface {
	Search(ctx context.Context, sessionID string, in SearchInput) (*SearchResult, error)
	SearchReturnLeg(ctx context.Context, sessionID string, in SearchInput) (*SearchResult, error)
	FlightDetails(ctx context.Context, id string) (*domain.Flight, error)
	SelectOutbound(in SearchInput, flight *domain.Flight) (*Selection, error)
	SelectReturn(in SearchInput, outbound, returnFlight *domain.Flight) (*Selection, error)
	Confirm(ctx context.Context, identity *domain.Identity, draft *domain.BookingDraft) (*PaymentContext, error)
	SubmitPayment(ctx context.Context, identity *domain.Identity, pc *PaymentContext, method domain.PaymentMethod, details domain.PaymentDetails) (*domain.Booking, error)
	ListBookings(ctx context.Context, identity *domain.Identity) ([]domain.Booking, error)
	Cancel(ctx context.Context, identity *domain.Identity, bookingID string) error
	ResolveTicket(ctx context.Context, identity *domain.Identity, bookingID string, carried *domain.Booking) (*ticket.View, error)
}

type Upstream interface {
	SearchFlights(ctx context.Context, from, to string, date time.Time) ([]domain.Flight, error)
	GetFlight(ctx context.Context, token, id string) (*domain.Flight, error)
	CreateBooking(ctx context.Context, token string, input upstream.CreateBookingInput) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, token string, req domain.PaymentRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, token, id string) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, token string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, token, id string) error
}

type Cache interface {
	GetSearchResults(ctx context.Context, from, to, date string) ([]domain.Flight, error)
	SetSearchResults(ctx context.Context, from, to, date string, flights []domain.Flight) error
	AcquireSubmitLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, bookingID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Service struct {
	upstream           Upstream
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	cancelCutoff       time.Duration
	submitLockTTL      time.Duration
	now                func() time.Time

	mu       sync.Mutex
	trackers map[string]*trackerEntry
}

// trackerIdleTTL bounds how long a session keeps its search tracker after its
// last search; idle entries are swept so the map cannot grow without bound on
// a long-running process.
const trackerIdleTTL = 30 * time.Minute

type trackerEntry struct {
	tracker  *SearchTracker
	lastSeen time.Time
}

type ServiceOption func(*Service)

func WithNotificationsTopic(topic string) ServiceOption {
	return func(s *Service) {
		s.notificationsTopic = topic
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(up Upstream, cache Cache, producer Producer, bookingTopic string, cancelCutoff, submitLockTTL time.Duration, opts ...ServiceOption) *Service {
	s := &Service{
		upstream:      up,
		cache:         cache,
		producer:      producer,
		bookingTopic:  bookingTopic,
		cancelCutoff:  cancelCutoff,
		submitLockTTL: submitLockTTL,
		now:           time.Now,
		trackers:      make(map[string]*trackerEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) tracker(sessionID string) *SearchTracker {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.trackers {
		if now.Sub(e.lastSeen) > trackerIdleTTL {
			delete(s.trackers, id)
		}
	}

	e, ok := s.trackers[sessionID]
	if !ok {
		e = &trackerEntry{tracker: &SearchTracker{}}
		s.trackers[sessionID] = e
	}
	e.lastSeen = now
	return e.tracker
}
