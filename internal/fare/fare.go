// Package fare derives prices for booking drafts. Everything here is pure:
// quotes are recomputed on every selection change, so they must not depend on
// call order or any mutable state.
package fare

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lejet/booking-gateway/internal/domain"
)

type Quote struct {
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// Compute quotes one leg: the flight's stored per-class price times the
// passenger count.
func Compute(flight *domain.Flight, class domain.SeatClass, passengers int) Quote {
	unit := flight.Price(class)
	return Quote{
		UnitPrice:  unit,
		TotalPrice: unit * float64(passengers),
	}
}

// DraftTotals fills the per-leg and grand-total amounts on a draft from its
// selected legs. The grand total is always the sum of the legs present.
func DraftTotals(draft *domain.BookingDraft) {
	draft.OutboundAmount = 0
	draft.ReturnAmount = 0
	if draft.OutboundFlight != nil {
		draft.OutboundAmount = Compute(draft.OutboundFlight, draft.SeatClass, draft.Passengers).TotalPrice
	}
	if draft.ReturnFlight != nil {
		draft.ReturnAmount = Compute(draft.ReturnFlight, draft.SeatClass, draft.Passengers).TotalPrice
	}
	draft.TotalAmount = draft.OutboundAmount + draft.ReturnAmount
}

// Consistent reports whether the draft's stored amounts match what its legs
// imply. Confirmation refuses drafts that fail this.
func Consistent(draft *domain.BookingDraft) bool {
	want := 0.0
	for _, leg := range draft.Legs() {
		want += Compute(leg, draft.SeatClass, draft.Passengers).TotalPrice
	}
	return draft.TotalAmount == want && draft.TotalAmount == draft.OutboundAmount+draft.ReturnAmount
}

// FormatAmount renders an amount with the fixed cedi symbol and grouped
// digits, e.g. GH₵1,500. No conversion is performed anywhere.
func FormatAmount(amount float64) string {
	neg := amount < 0
	// Round to pesewas first so a fraction near 1.00 carries into the whole
	// part instead of being appended to it.
	amount = math.Round(math.Abs(amount)*100) / 100

	whole := int64(amount)
	frac := amount - float64(whole)

	digits := strconv.FormatInt(whole, 10)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}

	out := "GH₵" + grouped.String()
	if frac > 0 {
		out += strings.TrimPrefix(fmt.Sprintf("%.2f", frac), "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}
