// internal/models/reference.go
package models

import "strings"

type AircraftType struct {
	ID           int64   `json:"id" db:"id"`
	IATACode     string  `json:"iataCode" db:"iata_code"`
	ICAOCode     string  `json:"icaoCode" db:"icao_code"`
	Name         string  `json:"name" db:"name"`
	Manufacturer string  `json:"manufacturer" db:"manufacturer"`
	SizeCategory string  `json:"sizeCategory" db:"size_category"`
	WingspanM    float64 `json:"wingspanM" db:"wingspan_m"`
	LengthM      float64 `json:"lengthM" db:"length_m"`
}

type Airline struct {
	ID       int64  `json:"id" db:"id"`
	IATACode string `json:"iataCode" db:"iata_code"`
	ICAOCode string `json:"icaoCode" db:"icao_code"`
	Name     string `json:"name" db:"name"`
	Country  string `json:"country" db:"country"`
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
