package booking

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// LedgerState is the derived monetary state of a reservation after
// reconciling its payment ledger.  Clamped is set when the raw pending
// amount computed negative and was floored at zero; that combination
// indicates ledger entries inconsistent with the overpayment guard and
// is worth logging by the caller.
type LedgerState struct {
	Paid    decimal.Decimal
	Pending decimal.Decimal
	Status  model.PaymentState
	Clamped bool
}

// Reconcile is the single authoritative recomputation of a
// reservation's paid_amount, pending_amount and payment_status.  It
// must be invoked by every payment-mutating operation — completing a
// charge, recording a refund, or repricing the reservation after a
// date change.  completed holds the signed amounts of all completed
// ledger entries (refunds negative).
//
// paid = sum(completed); pending = max(0, total - paid).  The status
// is `paid` when the total is covered (a zero total is covered
// outright), `partial` while some but not all of it is, and `pending`
// otherwise — except that a reservation
// whose net paid amount has fallen back to zero through refunds
// reports `refunded` rather than `pending`, because its money history
// is not empty.
func Reconcile(total decimal.Decimal, completed []decimal.Decimal) LedgerState {
	paid := decimal.Zero
	refunded := false
	for _, amt := range completed {
		paid = paid.Add(amt)
		if amt.IsNegative() {
			refunded = true
		}
	}
	st := LedgerState{Paid: paid}
	st.Pending = total.Sub(paid)
	if st.Pending.IsNegative() {
		st.Pending = decimal.Zero
		st.Clamped = true
	}
	switch {
	case paid.GreaterThanOrEqual(total):
		st.Status = model.PaymentStatePaid
	case paid.IsPositive():
		st.Status = model.PaymentStatePartial
	case refunded:
		st.Status = model.PaymentStateRefunded
	default:
		st.Status = model.PaymentStatePending
	}
	return st
}

// CheckCharge enforces the overpayment guard: a new charge must not
// exceed the live pending amount.  The caller passes the pending value
// recomputed inside the same transaction, never a cached one.
func CheckCharge(amount, pending decimal.Decimal) error {
	if amount.GreaterThan(pending) {
		return &OverpaymentError{Amount: amount, Pending: pending}
	}
	return nil
}

// CheckRefund verifies that a refund may be issued against a ledger
// entry: only a completed charge is refundable, and the refund is
// capped at that charge's own amount.  Bounding per entry rather than
// per reservation keeps two partial charges from financing a single
// oversized refund.
func CheckRefund(amount decimal.Decimal, original *model.Payment) error {
	if original.Status != model.PaymentCompleted || original.Refund() {
		return ErrNotRefundable
	}
	if amount.GreaterThan(original.Amount) {
		return &ExcessiveRefundError{Amount: amount, Charged: original.Amount}
	}
	return nil
}
