// Package resolver joins the static line schedule against the fetched
// geocoded dataset, producing per-line station lists in schedule order.
package resolver

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lpnguyen0310/metro-search/internal/models"
	"github.com/lpnguyen0310/metro-search/internal/normalize"
)

// dedupeDistanceDeg is the planar lat/lng distance (in degrees, ~50m) under
// which two same-named records are considered the same physical station.
// Euclidean on degrees is a cheap proxy, good enough at city scale.
const dedupeDistanceDeg = 0.0005

// Dedupe collapses duplicate geocoded records: two records are duplicates if
// their normalized names are equal and they sit within ~50m of each other.
// The first-seen record wins.
func Dedupe(stations []models.GeocodedStation) []models.GeocodedStation {
	type kept struct {
		key string
		rec models.GeocodedStation
	}
	var out []kept
	for _, s := range stations {
		key := normalize.Key(s.Name)
		dup := false
		for _, k := range out {
			if k.key == key && planarDistance(k.rec, s) < dedupeDistanceDeg {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, kept{key: key, rec: s})
		}
	}
	result := make([]models.GeocodedStation, 0, len(out))
	for _, k := range out {
		result = append(result, k.rec)
	}
	return result
}

func planarDistance(a, b models.GeocodedStation) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng)
}

// Lookup indexes deduplicated geocoded records by normalized name.
type Lookup struct {
	byKey map[string]models.GeocodedStation
	keys  []string // sorted, for deterministic fallback scans
}

// BuildLookup deduplicates the records and indexes them by normalized name.
// On a key collision between non-duplicate records the first-seen one wins.
func BuildLookup(stations []models.GeocodedStation) *Lookup {
	lk := &Lookup{byKey: make(map[string]models.GeocodedStation)}
	for _, s := range Dedupe(stations) {
		key := normalize.Key(s.Name)
		if key == "" {
			continue
		}
		if _, exists := lk.byKey[key]; !exists {
			lk.byKey[key] = s
			lk.keys = append(lk.keys, key)
		}
	}
	sort.Strings(lk.keys)
	return lk
}

// Size returns the number of indexed records.
func (lk *Lookup) Size() int {
	return len(lk.byKey)
}

// Find resolves a normalized key to a geocoded record. It tries an exact
// match first, then falls back to the record whose normalized name contains
// the key as a substring, which absorbs naming variants in the live data.
// When several records contain the key, the shortest normalized name wins,
// with lexicographic order breaking length ties, so the result does not
// depend on dataset iteration order.
func (lk *Lookup) Find(key string) (models.GeocodedStation, bool) {
	if key == "" {
		return models.GeocodedStation{}, false
	}
	if rec, ok := lk.byKey[key]; ok {
		return rec, true
	}

	best := ""
	for _, candidate := range lk.keys {
		if !strings.Contains(candidate, key) {
			continue
		}
		if best == "" || len(candidate) < len(best) {
			best = candidate
		}
	}
	if best == "" {
		return models.GeocodedStation{}, false
	}
	return lk.byKey[best], true
}

// ResolveLine joins one line's canonical station list against the lookup,
// emitting one item per schedule entry in schedule order. Entries with no
// geocode match become disabled placeholders. The schedule is authoritative
// for line membership: a matched record's own line guess is overridden.
func ResolveLine(line models.Line, lk *Lookup) []models.StationItem {
	items := make([]models.StationItem, 0, len(line.Stations))
	for i, name := range line.Stations {
		key := normalize.Key(name)
		display := normalize.DisplayName(name)

		if rec, ok := lk.Find(key); ok {
			lat, lng := rec.Lat, rec.Lng
			items = append(items, models.StationItem{
				ID:       rec.ID,
				Name:     display,
				Address:  rec.Address,
				Lat:      &lat,
				Lng:      &lng,
				LineID:   line.ID,
				Disabled: false,
				Position: i,
			})
			continue
		}

		items = append(items, models.StationItem{
			ID:       fmt.Sprintf("%s-placeholder-%d", line.ID, i),
			Name:     display,
			Address:  "",
			Lat:      nil,
			Lng:      nil,
			LineID:   line.ID,
			Disabled: true,
			Position: i,
		})
	}
	return items
}

// Filter keeps items whose normalized name or address contains the normalized
// keyword. An empty keyword keeps everything. The result is ordered by
// schedule position with a stable alphabetical tie-break on normalized name;
// items without a schedule position sort last.
func Filter(items []models.StationItem, keyword string) []models.StationItem {
	key := normalize.Key(keyword)

	out := make([]models.StationItem, 0, len(items))
	for _, it := range items {
		if key == "" ||
			strings.Contains(normalize.Key(it.Name), key) ||
			strings.Contains(normalize.Key(it.Address), key) {
			out = append(out, it)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Position, out[j].Position
		if pi < 0 && pj < 0 {
			return normalize.Key(out[i].Name) < normalize.Key(out[j].Name)
		}
		if pi < 0 {
			return false
		}
		if pj < 0 {
			return true
		}
		if pi != pj {
			return pi < pj
		}
		return normalize.Key(out[i].Name) < normalize.Key(out[j].Name)
	})
	return out
}
