package domain

import "time"

var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

func KnownWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// FlightSchedule is the admin request to put a flight (or a recurring series)
// on the timetable.
type FlightSchedule struct {
	AirplaneID      string  `json:"airplaneId"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	DepartureTime   string  `json:"departureTime"`
	ArrivalTime     string  `json:"arrivalTime"`
	EconomyPrice    float64 `json:"economyPrice"`
	FirstClassPrice float64 `json:"firstClassPrice"`

	IsRecurring   bool     `json:"isRecurring"`
	RecurringDays []string `json:"recurringDays,omitempty"`
	StartDate     string   `json:"startDate,omitempty"`
	EndDate       string   `json:"endDate,omitempty"`
}

// RevenueReport is the upstream monthly aggregate. AverageRevenuePerBooking
// is derived by the gateway from the real totals, never reported upstream.
type RevenueReport struct {
	Month             int     `json:"month"`
	Year              int     `json:"year"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalBookings     int     `json:"totalBookings"`
	EconomyRevenue    float64 `json:"economyClassRevenue"`
	FirstClassRevenue float64 `json:"firstClassRevenue"`

	AverageRevenuePerBooking float64   `json:"averageRevenuePerBooking,omitempty"`
	GeneratedAt              time.Time `json:"generatedAt,omitzero"`
}
