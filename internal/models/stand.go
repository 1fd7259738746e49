// internal/models/stand.go
package models

type Stand struct {
	ID           int64    `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	Terminal     string   `json:"terminal" db:"terminal"`
	Pier         string   `json:"pier,omitempty" db:"pier"`
	SizeCategory string   `json:"sizeCategory" db:"size_category"`
	MaxWingspanM float64  `json:"maxWingspanM" db:"max_wingspan_m"`
	HasJetBridge bool     `json:"hasJetBridge" db:"has_jet_bridge"`
	IsActive     bool     `json:"isActive" db:"is_active"`
	IsAvailable  bool     `json:"isAvailable" db:"is_available"`
	Latitude     *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64 `json:"longitude,omitempty" db:"longitude"`
}

// StandFilter narrows ListStands. Zero values do not filter.
type StandFilter struct {
	Terminal     string `json:"terminal,omitempty"`
	Pier         string `json:"pier,omitempty"`
	SizeCategory string `json:"sizeCategory,omitempty"`
	Available    *bool  `json:"available,omitempty"`
	JetBridge    *bool  `json:"jetBridge,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// Matches applies the filter in memory, for services that only offer a full listing.
func (f StandFilter) Matches(s Stand) bool {
	if f.Terminal != "" && !equalFold(f.Terminal, s.Terminal) {
		return false
	}
	if f.Pier != "" && !equalFold(f.Pier, s.Pier) {
		return false
	}
	if f.SizeCategory != "" && !equalFold(f.SizeCategory, s.SizeCategory) {
		return false
	}
	if f.Available != nil && *f.Available != s.IsAvailable {
		return false
	}
	if f.JetBridge != nil && *f.JetBridge != s.HasJetBridge {
		return false
	}
	return true
}

// SizeCategories orders ICAO aerodrome reference codes from smallest to largest.
var SizeCategories = []string{"A", "B", "C", "D", "E", "F"}

// SizeRank returns the position of cat in SizeCategories, or -1.
func SizeRank(cat string) int {
	for i, c := range SizeCategories {
		if equalFold(c, cat) {
			return i
		}
	}
	return -1
}

// Accommodates reports whether the stand can take an aircraft of the given size category.
func (s Stand) Accommodates(aircraftCategory string) bool {
	standRank, aircraftRank := SizeRank(s.SizeCategory), SizeRank(aircraftCategory)
	if standRank < 0 || aircraftRank < 0 {
		return false
	}
	return standRank >= aircraftRank
}
