package models

// Reading is one telemetry sample. Ts is unix seconds as reported by the
// station. Sensor columns are pointers: a station only fills the channels
// it carries.
type Reading struct {
	ID          uint   `gorm:"primaryKey"`
	StationCode string `gorm:"size:32;index:idx_readings_station_ts,priority:1;not null"`
	Ts          int64  `gorm:"index:idx_readings_station_ts,priority:2;not null"`

	Pulses *int64 // rain gauge tips / hour-meter pulses

	TempAvg *float64
	TempMin *float64
	TempMax *float64

	PressureAvg *float64
	PressureMin *float64
	PressureMax *float64

	HumidityAvg *float64
	HumidityMin *float64
	HumidityMax *float64

	LumAvg *float64
	LumMin *float64
	LumMax *float64

	WindAvg *float64
	WindMin *float64
	WindMax *float64

	WindDir *float64 // degrees
}
