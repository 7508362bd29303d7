package domain

import "time"

type SeatClass string

const (
	SeatClassEconomy    SeatClass = "economy"
	SeatClassFirstClass SeatClass = "firstClass"
)

func (c SeatClass) Valid() bool {
	return c == SeatClassEconomy || c == SeatClassFirstClass
}

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusCancelled FlightStatus = "cancelled"
	FlightStatusCompleted FlightStatus = "completed"
)

// Airports served by LEJET. The UI offers exactly this set for both legs.
var Airports = []string{
	"Accra (Kotoka Airport)",
	"Kumasi Airport",
	"Tamale Airport",
	"Takoradi Airport",
}

func KnownAirport(name string) bool {
	for _, a := range Airports {
		if a == name {
			return true
		}
	}
	return false
}

type Airplane struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`

	CurrentLocation string `json:"currentLocation,omitempty"`
}

type SeatAvailability struct {
	Economy    int `json:"economy"`
	FirstClass int `json:"firstClass"`
}

func (s SeatAvailability) For(class SeatClass) int {
	if class == SeatClassFirstClass {
		return s.FirstClass
	}
	return s.Economy
}

type Flight struct {
	ID              string           `json:"_id"`
	From            string           `json:"from"`
	To              string           `json:"to"`
	DepartureTime   time.Time        `json:"departureTime"`
	ArrivalTime     time.Time        `json:"arrivalTime"`
	Airplane        *Airplane        `json:"airplane"`
	EconomyPrice    float64          `json:"economyPrice"`
	FirstClassPrice float64          `json:"firstClassPrice"`
	AvailableSeats  SeatAvailability `json:"availableSeats"`
	Status          FlightStatus     `json:"status,omitempty"`

	IsRecurring   bool      `json:"isRecurring,omitempty"`
	RecurringDays []string  `json:"recurringDays,omitempty"`
	StartDate     time.Time `json:"startDate,omitzero"`
	EndDate       time.Time `json:"endDate,omitzero"`
}

// Price returns the stored per-passenger price for the seat class.
func (f *Flight) Price(class SeatClass) float64 {
	if class == SeatClassFirstClass {
		return f.FirstClassPrice
	}
	return f.EconomyPrice
}

// AirplaneName falls back to a placeholder when no aircraft is assigned yet.
func (f *Flight) AirplaneName() string {
	if f.Airplane == nil || f.Airplane.Name == "" {
		return "Aircraft Not Assigned"
	}
	return f.Airplane.Name
}
