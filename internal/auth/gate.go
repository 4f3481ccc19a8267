package auth

import (
	"github.com/brlacerra/gh2o-sistema/internal/models"

	"gorm.io/gorm"
)

// Reason says why the gate allowed or refused access.
type Reason string

const (
	ReasonNotFound        Reason = "not_found"
	ReasonPublic          Reason = "public"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonOwnerOrAdmin    Reason = "owner_or_admin"
	ReasonForbidden       Reason = "forbidden"
)

// Decision is the gate's verdict for one station and one caller.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// CanAccess decides whether user (nil for anonymous) may read station
// (nil for absent). Order matters: public visibility is checked before
// authentication, so a logged-out caller still reaches public stations,
// and a stranger is refused only after the ownership and role checks.
func CanAccess(station *models.Station, user *models.User) Decision {
	if station == nil {
		return Decision{Allowed: false, Reason: ReasonNotFound}
	}
	if station.IsPublic {
		return Decision{Allowed: true, Reason: ReasonPublic}
	}
	if user == nil {
		return Decision{Allowed: false, Reason: ReasonUnauthenticated}
	}
	if user.Role == models.RoleAdmin || user.Code == station.OwnerCode {
		return Decision{Allowed: true, Reason: ReasonOwnerOrAdmin}
	}
	return Decision{Allowed: false, Reason: ReasonForbidden}
}

// ScopeStations narrows a station query to what user may see. The result
// set is the same as running CanAccess over every row: anonymous callers
// get public stations, admins everything, everyone else public plus their
// own.
func ScopeStations(db *gorm.DB, user *models.User) *gorm.DB {
	if user == nil {
		return db.Where("is_public = ?", true)
	}
	if user.Role == models.RoleAdmin {
		return db
	}
	return db.Where("is_public = ? OR owner_code = ?", true, user.Code)
}
