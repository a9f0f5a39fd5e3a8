package resolver

import (
	"testing"

	"github.com/lpnguyen0310/metro-search/internal/models"
	"github.com/lpnguyen0310/metro-search/internal/schedule"
)

func geocoded(id, name string, lat, lng float64) models.GeocodedStation {
	return models.GeocodedStation{ID: id, Name: name, Address: "", Lat: lat, Lng: lng}
}

func TestDedupeCollapsesNearbySameName(t *testing.T) {
	in := []models.GeocodedStation{
		geocoded("a", "Ga Bến Thành", 10.7700, 106.6980),
		geocoded("b", "Ben Thanh Station", 10.7701, 106.6981), // same key, ~15m away
		geocoded("c", "Ga Suối Tiên", 10.8780, 106.8020),
	}
	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 records after dedupe, got %d", len(out))
	}
	if out[0].ID != "a" {
		t.Errorf("first-seen record should win, got %q", out[0].ID)
	}
}

func TestDedupeKeepsDistantSameName(t *testing.T) {
	// Same normalized name but ~1km apart: not duplicates.
	in := []models.GeocodedStation{
		geocoded("a", "Bến Thành", 10.7700, 106.6980),
		geocoded("b", "Bến Thành", 10.7790, 106.6980),
	}
	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("distant same-name records should both survive, got %d", len(out))
	}
}

func TestFindExactMatch(t *testing.T) {
	lk := BuildLookup([]models.GeocodedStation{
		geocoded("a", "Ga Bến Thành", 10.77, 106.69),
	})
	rec, ok := lk.Find("ben thanh")
	if !ok {
		t.Fatal("expected exact match")
	}
	if rec.ID != "a" {
		t.Errorf("got %q, want a", rec.ID)
	}
}

func TestFindSubstringFallbackDeterministic(t *testing.T) {
	// No exact "an phu" key; several records contain it. The shortest
	// normalized name must win regardless of input order.
	records := []models.GeocodedStation{
		geocoded("long", "Ga An Phú Đông Mới", 10.80, 106.74),
		geocoded("short", "An Phú Hưng", 10.79, 106.75),
	}
	for _, in := range [][]models.GeocodedStation{records, {records[1], records[0]}} {
		lk := BuildLookup(in)
		rec, ok := lk.Find("an phu")
		if !ok {
			t.Fatal("expected substring fallback match")
		}
		if rec.ID != "short" {
			t.Errorf("fallback should pick shortest candidate, got %q", rec.ID)
		}
	}
}

func TestFindMiss(t *testing.T) {
	lk := BuildLookup(nil)
	if _, ok := lk.Find("ben thanh"); ok {
		t.Error("empty lookup should not match")
	}
	if _, ok := lk.Find(""); ok {
		t.Error("empty key should not match")
	}
}

func TestResolveLineMatched(t *testing.T) {
	line, _ := schedule.LineByID(models.LineM1)
	lk := BuildLookup([]models.GeocodedStation{
		{ID: "n1", Name: "Ga Bến Thành", Address: "Quận 1", Lat: 10.77, Lng: 106.69, LineID: models.LineM2},
	})

	items := ResolveLine(line, lk)
	if len(items) != len(line.Stations) {
		t.Fatalf("resolved list length %d != schedule length %d", len(items), len(line.Stations))
	}

	first := items[0]
	if first.Disabled {
		t.Error("matched station should not be disabled")
	}
	if first.Lat == nil || *first.Lat != 10.77 || first.Lng == nil || *first.Lng != 106.69 {
		t.Errorf("matched station has wrong coordinates: %v, %v", first.Lat, first.Lng)
	}
	if first.LineID != models.LineM1 {
		t.Errorf("schedule line must override the record's guess, got %s", first.LineID)
	}
	if first.Name != "Bến Thành" {
		t.Errorf("display name should drop the Ga prefix, got %q", first.Name)
	}
	if first.Address != "Quận 1" {
		t.Errorf("address not carried over: %q", first.Address)
	}
}

func TestResolveLineEmptyDataset(t *testing.T) {
	line, _ := schedule.LineByID(models.LineM1)
	items := ResolveLine(line, BuildLookup(nil))

	if len(items) != len(line.Stations) {
		t.Fatalf("resolved list length %d != schedule length %d", len(items), len(line.Stations))
	}
	for i, it := range items {
		if !it.Disabled {
			t.Errorf("station %d should be a disabled placeholder", i)
		}
		if it.Lat != nil || it.Lng != nil {
			t.Errorf("placeholder %d should have nil coordinates", i)
		}
		if it.ID == "" {
			t.Errorf("placeholder %d missing synthetic id", i)
		}
		if it.Position != i {
			t.Errorf("placeholder %d has position %d", i, it.Position)
		}
	}
	// Synthetic ids are scoped per line and unique.
	seen := make(map[string]bool)
	for _, it := range items {
		if seen[it.ID] {
			t.Errorf("duplicate placeholder id %q", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestResolveLinePreservesScheduleOrder(t *testing.T) {
	line, _ := schedule.LineByID(models.LineM2)
	items := ResolveLine(line, BuildLookup(nil))
	for i, it := range items {
		if it.Position != i {
			t.Fatalf("item %d out of order (position %d)", i, it.Position)
		}
	}
}

func TestFilterPreservesScheduleOrder(t *testing.T) {
	line, _ := schedule.LineByID(models.LineM1)
	items := ResolveLine(line, BuildLookup(nil))

	// "phu" matches An Phú (index 6) and Phước Long (index 8); they must
	// come out in schedule order.
	got := Filter(items, "Phú")
	if len(got) < 2 {
		t.Fatalf("expected at least 2 matches, got %d", len(got))
	}
	last := -1
	for _, it := range got {
		if it.Position <= last {
			t.Fatalf("filter reordered items: position %d after %d", it.Position, last)
		}
		last = it.Position
	}
	if got[0].Name != "An Phú" {
		t.Errorf("first match should be An Phú, got %q", got[0].Name)
	}
}

func TestFilterEmptyKeywordKeepsAll(t *testing.T) {
	line, _ := schedule.LineByID(models.LineM1)
	items := ResolveLine(line, BuildLookup(nil))
	if got := Filter(items, ""); len(got) != len(items) {
		t.Errorf("empty keyword should keep all %d items, got %d", len(items), len(got))
	}
}

func TestFilterMatchesAddress(t *testing.T) {
	line, _ := schedule.LineByID(models.LineM1)
	lk := BuildLookup([]models.GeocodedStation{
		{ID: "n1", Name: "Ga Thảo Điền", Address: "Xa lộ Hà Nội, Thủ Đức", Lat: 10.80, Lng: 106.73},
	})
	items := ResolveLine(line, lk)

	got := Filter(items, "xa lộ hà nội")
	if len(got) != 1 {
		t.Fatalf("expected 1 address match, got %d", len(got))
	}
	if got[0].Name != "Thảo Điền" {
		t.Errorf("address filter matched wrong station: %q", got[0].Name)
	}
}
