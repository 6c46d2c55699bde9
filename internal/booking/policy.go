package booking

import "github.com/iliyamo/hotel-reservation/internal/model"

// Role capability checks.  These replace scattered string comparisons:
// every handler gate goes through one of these helpers so the
// capability matrix lives in a single place.  Ownership of the
// concrete hotel is always re-verified against the database at the
// point of the call (see the ForOwner repository methods); these
// functions only answer whether the role class may attempt the
// operation at all.

// CanManageHotels reports whether the role may create or mutate
// hotels, room types and rooms.
func CanManageHotels(r model.Role) bool {
	return r == model.RoleAdmin || r == model.RoleOwner
}

// CanOperateReservations reports whether the role may drive the
// confirm / check-in / check-out transitions.
func CanOperateReservations(r model.Role) bool {
	return r == model.RoleAdmin || r == model.RoleOwner
}

// CanCancel reports whether the caller may cancel a reservation on
// their own authority: admins always, everyone else only as the
// booking user.  An owner cancelling a guest's reservation is granted
// separately, against the verified owner of the reservation's hotel —
// never by role alone.
func CanCancel(r model.Role, callerID, bookerID uint64) bool {
	if r == model.RoleAdmin {
		return true
	}
	return callerID == bookerID
}

// CanEditReservation reports whether the caller may change a
// reservation's dates or occupancy.  Only the booking user edits a
// stay; staff use the lifecycle transitions instead.
func CanEditReservation(r model.Role, callerID, bookerID uint64) bool {
	return r == model.RoleAdmin || callerID == bookerID
}

// CanManagePayments reports whether the role may complete, fail or
// refund payments.  Recording a charge is open to any authenticated
// principal paying for a reservation they can see.
func CanManagePayments(r model.Role) bool {
	return r == model.RoleAdmin || r == model.RoleOwner
}
