package auth

import (
	"testing"

	"github.com/brlacerra/gh2o-sistema/internal/models"

	"gorm.io/gorm"
)

func station(code, owner string, public bool) *models.Station {
	return &models.Station{Code: code, OwnerCode: owner, IsPublic: public}
}

func TestCanAccessOrder(t *testing.T) {
	owner := &models.User{Code: "u1", Role: models.RoleUser}
	stranger := &models.User{Code: "u2", Role: models.RoleUser}
	admin := &models.User{Code: "a1", Role: models.RoleAdmin}

	tests := []struct {
		name    string
		station *models.Station
		user    *models.User
		allowed bool
		reason  Reason
	}{
		{"missing station, anonymous", nil, nil, false, ReasonNotFound},
		{"missing station, admin", nil, admin, false, ReasonNotFound},
		{"public station, anonymous", station("s2", "u1", true), nil, true, ReasonPublic},
		{"public station, stranger", station("s2", "u1", true), stranger, true, ReasonPublic},
		// public is checked before authentication, so even the owner
		// gets ReasonPublic on a public station
		{"public station, owner", station("s2", "u1", true), owner, true, ReasonPublic},
		{"private station, anonymous", station("s1", "u1", false), nil, false, ReasonUnauthenticated},
		{"private station, owner", station("s1", "u1", false), owner, true, ReasonOwnerOrAdmin},
		{"private station, admin", station("s1", "u1", false), admin, true, ReasonOwnerOrAdmin},
		{"private station, stranger", station("s1", "u1", false), stranger, false, ReasonForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanAccess(tt.station, tt.user)
			if d.Allowed != tt.allowed {
				t.Errorf("allowed: got %v, want %v", d.Allowed, tt.allowed)
			}
			if d.Reason != tt.reason {
				t.Errorf("reason: got %s, want %s", d.Reason, tt.reason)
			}
		})
	}
}

func seedStations(t *testing.T, db *gorm.DB, u1, u2 *models.User) {
	t.Helper()

	stations := []models.Station{
		{Code: "s1-privada-u1", OwnerCode: u1.Code, IsPublic: false},
		{Code: "s2-publica-u1", OwnerCode: u1.Code, IsPublic: true},
		{Code: "s3-privada-u2", OwnerCode: u2.Code, IsPublic: false},
		{Code: "s4-publica-u2", OwnerCode: u2.Code, IsPublic: true},
	}
	for i := range stations {
		if err := db.Create(&stations[i]).Error; err != nil {
			t.Fatalf("seed station: %v", err)
		}
	}
}

func listCodes(t *testing.T, db *gorm.DB, user *models.User) map[string]bool {
	t.Helper()

	var stations []models.Station
	if err := ScopeStations(db, user).Find(&stations).Error; err != nil {
		t.Fatalf("scoped list: %v", err)
	}
	codes := make(map[string]bool, len(stations))
	for _, s := range stations {
		codes[s.Code] = true
	}
	return codes
}

func TestScopeStations(t *testing.T) {
	db := testDB(t)
	u1 := seedUser(t, db, "u1@example.com", "Senha12345", models.RoleUser)
	u2 := seedUser(t, db, "u2@example.com", "Senha12345", models.RoleUser)
	admin := seedUser(t, db, "admin@example.com", "Senha12345", models.RoleAdmin)
	seedStations(t, db, u1, u2)

	anon := listCodes(t, db, nil)
	if len(anon) != 2 || !anon["s2-publica-u1"] || !anon["s4-publica-u2"] {
		t.Errorf("anonymous sees %v, want only the public pair", anon)
	}

	asU1 := listCodes(t, db, u1)
	if len(asU1) != 3 || !asU1["s1-privada-u1"] || !asU1["s2-publica-u1"] || !asU1["s4-publica-u2"] {
		t.Errorf("u1 sees %v, want public union own", asU1)
	}

	asAdmin := listCodes(t, db, admin)
	if len(asAdmin) != 4 {
		t.Errorf("admin sees %v, want everything", asAdmin)
	}
}

// The listing filter must agree with the per-station gate for every row
// and every caller class.
func TestScopeMatchesGate(t *testing.T) {
	db := testDB(t)
	u1 := seedUser(t, db, "u1@example.com", "Senha12345", models.RoleUser)
	u2 := seedUser(t, db, "u2@example.com", "Senha12345", models.RoleUser)
	admin := seedUser(t, db, "admin@example.com", "Senha12345", models.RoleAdmin)
	seedStations(t, db, u1, u2)

	var all []models.Station
	if err := db.Find(&all).Error; err != nil {
		t.Fatalf("list all: %v", err)
	}

	callers := map[string]*models.User{
		"anonymous": nil,
		"u1":        u1,
		"u2":        u2,
		"admin":     admin,
	}

	for name, caller := range callers {
		scoped := listCodes(t, db, caller)
		for i := range all {
			want := CanAccess(&all[i], caller).Allowed
			if scoped[all[i].Code] != want {
				t.Errorf("%s on %s: listed=%v, gate says %v",
					name, all[i].Code, scoped[all[i].Code], want)
			}
		}
	}
}
