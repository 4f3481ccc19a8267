package models

import "time"

// Station represents a field unit: weather station, hour-meter or level
// gauge. Exactly one owner; IsPublic makes it readable without login.
type Station struct {
	Code       string   `gorm:"primaryKey;size:32"` // operator-assigned, e.g. "EST-0042"
	Name       string   `gorm:"size:128"`
	Alias      string   `gorm:"size:64"`
	ClientCode string   `gorm:"size:32;index"`
	Lat        *float64
	Lng        *float64
	Resolution *float64 // pulse resolution, mm per tip for rain gauges
	PeriodMin  int      `gorm:"default:15"` // reporting period in minutes
	IsPublic   bool     `gorm:"index;not null;default:false"`
	OwnerCode  string   `gorm:"size:36;index;not null"`
	Control    bool     `gorm:"default:false"`

	// sensor capabilities
	HasPulse      bool
	HasTemp       bool
	HasPressure   bool
	HasHumidity   bool
	HasLuminosity bool
	HasWind       bool
	HasWindDir    bool

	CreatedAt time.Time
	UpdatedAt time.Time

	Owner User `gorm:"foreignKey:OwnerCode;constraint:OnDelete:CASCADE"`
}
