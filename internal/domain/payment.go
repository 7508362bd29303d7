package domain

type PaymentMethod string

const (
	PaymentMethodCard        PaymentMethod = "credit_card"
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
)

// Mobile money networks accepted at checkout.
var MobileNetworks = []string{"mtn", "vodafone", "airteltigo"}

// PaymentDetails carries the method-specific fields for a single submission.
// It is forwarded upstream once and must never be logged or retained.
type PaymentDetails struct {
	CardNumber string `json:"cardNumber,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	CVV        string `json:"cvv,omitempty"`

	Network     string `json:"network,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type PaymentRequest struct {
	BookingID string         `json:"bookingId"`
	Method    PaymentMethod  `json:"paymentMethod"`
	Details   PaymentDetails `json:"paymentDetails"`
}
