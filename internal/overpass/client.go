// Package overpass fetches metro station nodes from an Overpass-style
// point-data endpoint. The fetch happens once per store lifetime; there is no
// polling and no refetch trigger.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lpnguyen0310/metro-search/internal/config"
	"github.com/lpnguyen0310/metro-search/internal/models"
	"github.com/lpnguyen0310/metro-search/internal/normalize"
)

// nameTagPriority and addressTagPriority fix the order in which tags are
// consulted when extracting display fields from a node.
var nameTagPriority = []string{"name", "name:vi", "name:en"}
var addressTagPriority = []string{"addr:full", "addr:street", "description"}

// Client talks to the Overpass endpoint.
type Client struct {
	cfg    *config.Config
	client *http.Client
}

// NewClient creates a new Overpass client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
	}
}

// FetchStations performs the one-shot station fetch. It returns every named
// point entity that looks like a railway/metro station inside the configured
// bounding box. HCMC metro stations spent years tagged as under construction,
// so construction/proposed station tags are accepted too.
func (c *Client) FetchStations(ctx context.Context) ([]models.GeocodedStation, error) {
	query := c.buildQuery()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OverpassURL,
		strings.NewReader(url.Values{"data": {query}}.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	stations := make([]models.GeocodedStation, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		if el.Type != "node" || el.Lat == 0 || el.Lon == 0 {
			continue
		}
		if !isStationNode(el.Tags) {
			continue
		}
		name := firstTag(el.Tags, nameTagPriority)
		if name == "" {
			continue
		}
		stations = append(stations, models.GeocodedStation{
			ID:      strconv.FormatInt(el.ID, 10),
			Name:    name,
			Address: firstTag(el.Tags, addressTagPriority),
			Lat:     el.Lat,
			Lng:     el.Lon,
			LineID:  guessLine(name, el.Tags["description"]),
		})
	}

	return stations, nil
}

// buildQuery assembles the Overpass QL query for station nodes in the
// configured bounding box (south,west,north,east).
func (c *Client) buildQuery() string {
	bbox := c.cfg.OverpassBBox
	return fmt.Sprintf(`[out:json][timeout:25];
(
  node["railway"="station"](%[1]s);
  node["railway"="halt"](%[1]s);
  node["station"="subway"](%[1]s);
  node["subway"="yes"](%[1]s);
  node["construction"="station"](%[1]s);
  node["proposed"="station"](%[1]s);
);
out body;`, bbox)
}

// isStationNode reports whether the node's tags mark it as a (possibly future)
// railway or metro station.
func isStationNode(tags map[string]string) bool {
	switch tags["railway"] {
	case "station", "halt":
		return true
	}
	if tags["station"] == "subway" || tags["subway"] == "yes" {
		return true
	}
	switch tags["construction"] {
	case "station", "subway":
		return true
	}
	switch tags["proposed"] {
	case "station", "subway":
		return true
	}
	return false
}

func firstTag(tags map[string]string, priority []string) string {
	for _, key := range priority {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
	}
	return ""
}

// guessLine infers a line id from the node's name and description. The
// resolver overrides this with the schedule's line anyway, so a miss is fine.
func guessLine(name, description string) models.LineID {
	text := normalize.Key(name + " " + description)
	for _, candidate := range []struct {
		id       models.LineID
		patterns []string
	}{
		{models.LineM1, []string{"tuyen metro so 1", "tuyen so 1", "tuyen 1", "metro 1", "line 1"}},
		{models.LineM2, []string{"tuyen metro so 2", "tuyen so 2", "tuyen 2", "metro 2", "line 2"}},
	} {
		for _, p := range candidate.patterns {
			if strings.Contains(text, p) {
				return candidate.id
			}
		}
	}
	return ""
}
