// Package stations owns the mutable state of the metro search screen: the
// geocoded dataset, the search keyword, per-line selections, expand flags and
// the recent-search list. All mutation goes through the Store's methods.
package stations

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lpnguyen0310/metro-search/internal/models"
	"github.com/lpnguyen0310/metro-search/internal/normalize"
	"github.com/lpnguyen0310/metro-search/internal/repository"
	"github.com/lpnguyen0310/metro-search/internal/resolver"
)

// InitState is the dataset initialization state machine. The one-shot fetch
// drives Uninitialized -> Loading -> Ready | Failed; Failed is a degraded
// mode where every station resolves to a disabled placeholder.
type InitState string

const (
	StateUninitialized InitState = "uninitialized"
	StateLoading       InitState = "loading"
	StateReady         InitState = "ready"
	StateFailed        InitState = "failed"
)

const (
	maxRecents     = 8
	maxSuggestions = 12

	persistTimeout = 3 * time.Second
)

// Fetcher is the one-shot geocoded station source.
type Fetcher interface {
	FetchStations(ctx context.Context) ([]models.GeocodedStation, error)
}

// Store holds all screen state. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	lines       []models.Line
	recentsRepo repository.RecentsRepository

	state      InitState
	snapshotID uuid.UUID
	geocoded   []models.GeocodedStation
	lookup     *resolver.Lookup

	search    string
	selected  map[models.LineID]map[string]struct{}
	collapsed map[models.LineID]bool
	recents   []string

	initOnce sync.Once
}

// New creates a Store over the given schedule. Recents are loaded from the
// repository; a failed load degrades to an empty list.
func New(lines []models.Line, recentsRepo repository.RecentsRepository) *Store {
	s := &Store{
		lines:       lines,
		recentsRepo: recentsRepo,
		state:       StateUninitialized,
		lookup:      resolver.BuildLookup(nil),
		selected:    make(map[models.LineID]map[string]struct{}),
		collapsed:   make(map[models.LineID]bool),
	}
	for _, l := range lines {
		s.selected[l.ID] = make(map[string]struct{})
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	recents, err := recentsRepo.Load(ctx)
	if err != nil {
		log.Printf("Recents: load failed, starting empty: %v", err)
		recents = nil
	}
	if len(recents) > maxRecents {
		recents = recents[:maxRecents]
	}
	s.recents = recents

	return s
}

// Init performs the one-time geocoded dataset fetch. Subsequent calls are
// no-ops. On failure the store stays usable with an empty dataset.
func (s *Store) Init(ctx context.Context, fetcher Fetcher) {
	s.initOnce.Do(func() {
		s.mu.Lock()
		s.state = StateLoading
		s.mu.Unlock()

		stations, err := fetcher.FetchStations(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			log.Printf("Stations: geocoded fetch failed, continuing with placeholders: %v", err)
			s.state = StateFailed
			return
		}

		s.geocoded = resolver.Dedupe(stations)
		s.lookup = resolver.BuildLookup(s.geocoded)
		s.snapshotID = uuid.New()
		s.state = StateReady
		log.Printf("Stations: loaded %d geocoded records (%d after dedupe), snapshot %s",
			len(stations), len(s.geocoded), s.snapshotID)
	})
}

// State returns the current initialization state.
func (s *Store) State() InitState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SnapshotID identifies the loaded dataset; zero until Ready.
func (s *Store) SnapshotID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotID
}

// DatasetSize returns the number of geocoded records after dedupe.
func (s *Store) DatasetSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.geocoded)
}

// Lines returns the static schedule.
func (s *Store) Lines() []models.Line {
	return s.lines
}

// SetSearch sets the current filter keyword.
func (s *Store) SetSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = q
}

// Search returns the current filter keyword.
func (s *Store) Search() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search
}

// FilteredByLine resolves every line against the current dataset and applies
// the current search keyword. Order within a line follows the schedule.
func (s *Store) FilteredByLine() map[models.LineID][]models.StationItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredByLineLocked()
}

// filteredByLineLocked - caller must hold at least a read lock.
func (s *Store) filteredByLineLocked() map[models.LineID][]models.StationItem {
	out := make(map[models.LineID][]models.StationItem, len(s.lines))
	for _, l := range s.lines {
		out[l.ID] = resolver.Filter(resolver.ResolveLine(l, s.lookup), s.search)
	}
	return out
}

// ToggleStation flips a station's membership in its line's selection set.
// Disabled or unknown stations are a no-op. Reports whether the toggle was
// applied.
func (s *Store) ToggleStation(lineID models.LineID, stationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.selected[lineID]
	if !ok {
		return false
	}

	line, found := lineByID(s.lines, lineID)
	if !found {
		return false
	}
	var target *models.StationItem
	for _, it := range resolver.ResolveLine(line, s.lookup) {
		if it.ID == stationID {
			item := it
			target = &item
			break
		}
	}
	if target == nil || target.Disabled {
		return false
	}

	if _, selected := sel[stationID]; selected {
		delete(sel, stationID)
	} else {
		sel[stationID] = struct{}{}
	}
	return true
}

// SelectedByLine returns the selected station ids per line, sorted for
// deterministic output.
func (s *Store) SelectedByLine() map[models.LineID][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.LineID][]string, len(s.selected))
	for lineID, set := range s.selected {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[lineID] = ids
	}
	return out
}

// ClearSelection empties every line's selection set. Idempotent.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for lineID := range s.selected {
		s.selected[lineID] = make(map[string]struct{})
	}
}

// ToggleExpand flips a line's expanded flag. Lines start expanded.
func (s *Store) ToggleExpand(lineID models.LineID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collapsed[lineID] = !s.collapsed[lineID]
}

// Expanded reports the expanded flag per line.
func (s *Store) Expanded() map[models.LineID]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.LineID]bool, len(s.lines))
	for _, l := range s.lines {
		out[l.ID] = !s.collapsed[l.ID]
	}
	return out
}

// Markers derives the map marker list: selected stations from the current
// (search-filtered) lists that carry coordinates. Selections referencing
// stations no longer present simply drop out.
func (s *Store) Markers() []models.StationItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := s.filteredByLineLocked()
	var markers []models.StationItem
	for _, l := range s.lines {
		sel := s.selected[l.ID]
		for _, it := range filtered[l.ID] {
			if it.Lat == nil || it.Lng == nil {
				continue
			}
			if _, ok := sel[it.ID]; ok {
				markers = append(markers, it)
			}
		}
	}
	return markers
}

// GetSelectedMarkers is an alias of Markers.
func (s *Store) GetSelectedMarkers() []models.StationItem {
	return s.Markers()
}

// Suggestions merges canonical station names, live geocoded names and recent
// searches into one deduplicated autocomplete list, filtered by the current
// keyword and capped at 12 entries.
func (s *Store) Suggestions() []models.Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := normalize.Key(s.search)
	seen := make(map[string]struct{})
	var out []models.Suggestion

	add := func(name string) {
		if len(out) >= maxSuggestions {
			return
		}
		display := normalize.DisplayName(name)
		k := normalize.Key(display)
		if k == "" {
			return
		}
		if key != "" && !strings.Contains(k, key) {
			return
		}
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		out = append(out, models.Suggestion{Value: display, Label: display})
	}

	for _, l := range s.lines {
		for _, name := range l.Stations {
			add(name)
		}
	}
	for _, g := range s.geocoded {
		add(g.Name)
	}
	for _, r := range s.recents {
		add(r)
	}

	return out
}

// Recents returns the recent-search list, newest first.
func (s *Store) Recents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.recents))
	copy(out, s.recents)
	return out
}

// AddRecent records a search term: trimmed, deduplicated (case and diacritic
// sensitive), prepended, capped at 8, persisted best-effort.
func (s *Store) AddRecent(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	s.mu.Lock()
	next := make([]string, 0, maxRecents)
	next = append(next, term)
	for _, r := range s.recents {
		if r == term {
			continue
		}
		next = append(next, r)
		if len(next) == maxRecents {
			break
		}
	}
	s.recents = next
	snapshot := make([]string, len(next))
	copy(snapshot, next)
	s.mu.Unlock()

	s.persistRecents(snapshot)
}

// ClearRecents empties the list and removes the persisted value.
func (s *Store) ClearRecents() {
	s.mu.Lock()
	s.recents = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.recentsRepo.Clear(ctx); err != nil {
		log.Printf("Recents: clear failed: %v", err)
	}
}

// persistRecents writes the list to durable storage. Failures are logged and
// swallowed; in-memory state is already correct.
func (s *Store) persistRecents(terms []string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.recentsRepo.Save(ctx, terms); err != nil {
		log.Printf("Recents: save failed: %v", err)
	}
}

func lineByID(lines []models.Line, id models.LineID) (models.Line, bool) {
	for _, l := range lines {
		if l.ID == id {
			return l, true
		}
	}
	return models.Line{}, false
}
