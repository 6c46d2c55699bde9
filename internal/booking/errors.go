// Package booking holds the reservation engine: the interval overlap
// predicate, the pricing calculation, the reservation state machine,
// the payment ledger reconciliation and the role capability checks.
// Everything here is side-effect free; persistence and HTTP concerns
// live in the repository and handler layers.
package booking

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ErrInvalidRange is returned by Quote when the requested window has
// zero or negative nights.  Input validation should reject such
// windows before they reach the engine; the engine re-verifies anyway.
var ErrInvalidRange = errors.New("check-out must be after check-in")

// InvalidTransitionError reports a reservation transition attempted
// from a state that does not permit it.  Handlers translate it into a
// 409 response naming both states so the caller can distinguish a
// stale retry from a genuinely illegal request.
type InvalidTransitionError struct {
	From model.ReservationStatus
	To   model.ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition reservation from %s to %s", e.From, e.To)
}

// OverpaymentError reports an attempted charge exceeding the
// reservation's live pending amount.
type OverpaymentError struct {
	Amount  decimal.Decimal
	Pending decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment amount %s exceeds pending amount %s",
		e.Amount.StringFixed(2), e.Pending.StringFixed(2))
}

// ErrNotRefundable marks a refund aimed at a ledger entry that is not
// a completed charge: pending and failed entries have moved no money,
// and refund entries cannot themselves be refunded.  Handlers answer
// it with a 409.
var ErrNotRefundable = errors.New("only a completed charge can be refunded")

// ExcessiveRefundError reports a refund request exceeding the charge
// it is issued against.
type ExcessiveRefundError struct {
	Amount  decimal.Decimal
	Charged decimal.Decimal
}

func (e *ExcessiveRefundError) Error() string {
	return fmt.Sprintf("refund amount %s exceeds charged amount %s",
		e.Amount.StringFixed(2), e.Charged.StringFixed(2))
}
