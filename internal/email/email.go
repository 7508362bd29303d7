package email

import (
	"context"
	"fmt"

	"github.com/lejet/booking-gateway/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s: booking %s is %s (GH₵%.2f)\n", event.Email, event.BookingID, event.Status, event.TotalAmount)
	return nil
}
