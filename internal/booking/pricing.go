package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the result of pricing a stay: the number of nights and the
// exact total for the window at the snapshotted nightly rate.
type Quote struct {
	Nights uint32
	Total  decimal.Decimal
}

// Price computes a Quote for the half-open window [checkIn, checkOut)
// at the given nightly rate.  Nights is the integer day difference;
// windows of zero or negative length fail with ErrInvalidRange even
// though upstream validation should already have rejected them.  The
// total is decimal-exact: nights x rate with no float rounding.
func Price(checkIn, checkOut time.Time, rate decimal.Decimal) (Quote, error) {
	in, out := Day(checkIn), Day(checkOut)
	nights := int(out.Sub(in).Hours() / 24)
	if nights <= 0 {
		return Quote{}, ErrInvalidRange
	}
	return Quote{
		Nights: uint32(nights),
		Total:  rate.Mul(decimal.NewFromInt(int64(nights))),
	}, nil
}
