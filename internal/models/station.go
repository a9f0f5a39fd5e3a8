package models

// LineID identifies a metro line. The line set is fixed; adding a line is a
// code change (schedule data plus a new constant here).
type LineID string

const (
	LineM1 LineID = "M1"
	LineM2 LineID = "M2"
)

// AllLines returns every known line id in display order.
func AllLines() []LineID {
	return []LineID{LineM1, LineM2}
}

// Valid reports whether id is a known line.
func (id LineID) Valid() bool {
	switch id {
	case LineM1, LineM2:
		return true
	}
	return false
}

// Line is a hand-curated metro line: metadata plus the canonical station names
// in physical order along the line. The station order is semantically
// meaningful and must survive every filtering/resolution step.
type Line struct {
	ID       LineID   `json:"id"`
	Color    string   `json:"color"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Stations []string `json:"stations"`
}

// GeocodedStation is a point record fetched once from the external mapping
// data provider. Read-only for the session; never refetched.
type GeocodedStation struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	// LineID is the provider's guess (from name/description tags) and may be
	// empty. The schedule is authoritative for line membership.
	LineID LineID `json:"lineId,omitempty"`
}

// StationItem is a schedule entry joined against the geocoded dataset.
// Invariant: Disabled is true exactly when Lat/Lng are nil.
type StationItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	LineID   LineID   `json:"lineId"`
	Disabled bool     `json:"disabled"`

	// Position is the station's index in the line schedule, used to keep
	// filtered lists in physical order. Not part of the API payload.
	Position int `json:"-"`
}

// Suggestion is one autocomplete entry for the search box.
type Suggestion struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Metro line colors (HCMC official branding)
var LineColors = map[LineID]string{
	LineM1: "#1A5FA8", // Blue
	LineM2: "#D71920", // Red
}

// GetLineColor returns the branding color for a line.
func GetLineColor(id LineID) string {
	if color, ok := LineColors[id]; ok {
		return color
	}
	return "#888888" // Default gray for unknown lines
}
