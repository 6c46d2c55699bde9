package booking

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReconcileScenario(t *testing.T) {
	// reservation: 3 nights x 150.00 = 450.00
	total := dec("450.00")

	// complete a payment of 200.00
	st := Reconcile(total, []decimal.Decimal{dec("200.00")})
	if st.Pending.StringFixed(2) != "250.00" {
		t.Errorf("pending = %s, want 250.00", st.Pending.StringFixed(2))
	}
	if st.Status != model.PaymentStatePartial {
		t.Errorf("status = %s, want partial", st.Status)
	}

	// refund 50.00 of it
	st = Reconcile(total, []decimal.Decimal{dec("200.00"), dec("-50.00")})
	if st.Paid.StringFixed(2) != "150.00" {
		t.Errorf("paid = %s, want 150.00", st.Paid.StringFixed(2))
	}
	if st.Pending.StringFixed(2) != "300.00" {
		t.Errorf("pending = %s, want 300.00", st.Pending.StringFixed(2))
	}
	if st.Status != model.PaymentStatePartial {
		t.Errorf("status = %s, want partial", st.Status)
	}
}

func TestReconcileStates(t *testing.T) {
	total := dec("450.00")
	cases := []struct {
		name      string
		completed []decimal.Decimal
		paid      string
		pending   string
		status    model.PaymentState
	}{
		{"no payments", nil, "0.00", "450.00", model.PaymentStatePending},
		{"fully paid", []decimal.Decimal{dec("450.00")}, "450.00", "0.00", model.PaymentStatePaid},
		{"paid in two", []decimal.Decimal{dec("200.00"), dec("250.00")}, "450.00", "0.00", model.PaymentStatePaid},
		{"fully refunded", []decimal.Decimal{dec("450.00"), dec("-450.00")}, "0.00", "450.00", model.PaymentStateRefunded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := Reconcile(total, tc.completed)
			if st.Paid.StringFixed(2) != tc.paid {
				t.Errorf("paid = %s, want %s", st.Paid.StringFixed(2), tc.paid)
			}
			if st.Pending.StringFixed(2) != tc.pending {
				t.Errorf("pending = %s, want %s", st.Pending.StringFixed(2), tc.pending)
			}
			if st.Status != tc.status {
				t.Errorf("status = %s, want %s", st.Status, tc.status)
			}
			if st.Clamped {
				t.Error("unexpected clamp flag")
			}
		})
	}
}

func TestReconcileClampsNegativePending(t *testing.T) {
	st := Reconcile(dec("100.00"), []decimal.Decimal{dec("100.00"), dec("50.00")})
	if !st.Clamped {
		t.Error("overpaid ledger did not set the clamp flag")
	}
	if !st.Pending.IsZero() {
		t.Errorf("pending = %s, want 0", st.Pending.StringFixed(2))
	}
	if st.Status != model.PaymentStatePaid {
		t.Errorf("status = %s, want paid", st.Status)
	}
}

func TestReconcileZeroTotal(t *testing.T) {
	// A zero total needs no money to be covered.
	st := Reconcile(decimal.Zero, nil)
	if st.Status != model.PaymentStatePaid {
		t.Errorf("status = %s, want paid", st.Status)
	}
	if !st.Pending.IsZero() || st.Clamped {
		t.Errorf("pending = %s, clamped = %v, want 0 and false", st.Pending.StringFixed(2), st.Clamped)
	}
}

func TestCheckCharge(t *testing.T) {
	if err := CheckCharge(dec("250.00"), dec("250.00")); err != nil {
		t.Errorf("charge equal to pending refused: %v", err)
	}
	err := CheckCharge(dec("500.00"), dec("250.00"))
	var ope *OverpaymentError
	if !errors.As(err, &ope) {
		t.Fatalf("err = %v, want OverpaymentError", err)
	}
	if ope.Pending.StringFixed(2) != "250.00" {
		t.Errorf("error pending = %s, want 250.00", ope.Pending.StringFixed(2))
	}
}

func TestCheckRefund(t *testing.T) {
	charge := func(amount string, status model.PaymentStatus) *model.Payment {
		return &model.Payment{Amount: dec(amount), Status: status}
	}

	if err := CheckRefund(dec("200.00"), charge("200.00", model.PaymentCompleted)); err != nil {
		t.Errorf("full refund of a completed charge refused: %v", err)
	}
	if err := CheckRefund(dec("50.00"), charge("200.00", model.PaymentCompleted)); err != nil {
		t.Errorf("partial refund refused: %v", err)
	}

	for _, status := range []model.PaymentStatus{model.PaymentPending, model.PaymentFailed} {
		if err := CheckRefund(dec("50.00"), charge("200.00", status)); !errors.Is(err, ErrNotRefundable) {
			t.Errorf("%s charge: err = %v, want ErrNotRefundable", status, err)
		}
	}
	// A refund entry is itself not refundable.
	if err := CheckRefund(dec("50.00"), charge("-200.00", model.PaymentCompleted)); !errors.Is(err, ErrNotRefundable) {
		t.Errorf("refund entry: err = %v, want ErrNotRefundable", err)
	}

	// The cap is the single charge, not the reservation's paid sum: two
	// 100.00 charges never finance one 200.00 refund.
	err := CheckRefund(dec("200.00"), charge("100.00", model.PaymentCompleted))
	var xre *ExcessiveRefundError
	if !errors.As(err, &xre) {
		t.Fatalf("err = %v, want ExcessiveRefundError", err)
	}
	if xre.Charged.StringFixed(2) != "100.00" {
		t.Errorf("error charged = %s, want 100.00", xre.Charged.StringFixed(2))
	}
}

func TestReconcileAfterRepricing(t *testing.T) {
	// extending the stay raises the total; pending follows from the same formula
	st := Reconcile(dec("600.00"), []decimal.Decimal{dec("450.00")})
	if st.Pending.StringFixed(2) != "150.00" {
		t.Errorf("pending = %s, want 150.00", st.Pending.StringFixed(2))
	}
	if st.Status != model.PaymentStatePartial {
		t.Errorf("status = %s, want partial", st.Status)
	}
}
