package util

import (
	"fmt"
	"regexp"
)

var stationCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]{2,32}$`)

// ValidateStationCode checks the operator-assigned station code
// (2-32 chars: letters, digits, underscore, hyphen).
func ValidateStationCode(code string) error {
	if code == "" {
		return fmt.Errorf("station code is empty")
	}
	if !stationCodeRe.MatchString(code) {
		return fmt.Errorf("invalid station code: %q", code)
	}
	return nil
}

// ValidateCoordinates checks a lat/lng pair.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude out of range: %f", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude out of range: %f", lng)
	}
	return nil
}

// ValidatePeriod checks the reporting period in minutes.
func ValidatePeriod(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("period must be positive, got %d", minutes)
	}
	if minutes > 24*60 {
		return fmt.Errorf("period too large, got %d", minutes)
	}
	return nil
}
