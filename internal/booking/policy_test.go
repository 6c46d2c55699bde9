package booking

import (
	"testing"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestCapabilities(t *testing.T) {
	if !CanManageHotels(model.RoleAdmin) || !CanManageHotels(model.RoleOwner) {
		t.Error("admin/owner must manage hotels")
	}
	if CanManageHotels(model.RoleUser) {
		t.Error("regular user must not manage hotels")
	}
	if CanOperateReservations(model.RoleUser) {
		t.Error("regular user must not drive lifecycle transitions")
	}
}

func TestCanCancel(t *testing.T) {
	if !CanCancel(model.RoleUser, 7, 7) {
		t.Error("booker must cancel own reservation")
	}
	if CanCancel(model.RoleUser, 7, 8) {
		t.Error("user must not cancel someone else's reservation")
	}
	if !CanCancel(model.RoleAdmin, 1, 8) {
		t.Error("admin must cancel any reservation")
	}
	if CanCancel(model.RoleOwner, 2, 8) {
		t.Error("owner role alone must not cancel a guest's reservation")
	}
}

// An owner cancelling a reservation booked at somebody else's hotel
// must be denied: the role grants nothing, and the hotel-ownership
// disjunct only passes when the caller actually owns the hotel.
func TestOwnerCancelRequiresHotelOwnership(t *testing.T) {
	role := model.RoleOwner
	var caller, booker uint64 = 42, 7

	for _, tc := range []struct {
		name       string
		hotelOwner uint64
		want       bool
	}{
		{"foreign hotel", 99, false},
		{"own hotel", 42, true},
	} {
		allowed := CanCancel(role, caller, booker) ||
			(role == model.RoleOwner && tc.hotelOwner == caller)
		if allowed != tc.want {
			t.Errorf("%s: allowed = %v, want %v", tc.name, allowed, tc.want)
		}
	}
}
