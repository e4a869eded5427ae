package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/configs"
	"github.com/crisisnet/disasterhub/internal/core/domain/geo"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

// Geocoder resolves place names against a Nominatim-compatible endpoint,
// with deterministic mock coordinates as fallback.
type Geocoder struct {
	cfg    configs.GeocoderConfig
	client *http.Client
	live   bool
	logger *logrus.Logger
}

func NewGeocoder(cfg configs.UpstreamsConfig, live bool, logger *logrus.Logger) *Geocoder {
	return &Geocoder{
		cfg:    cfg.Geocoder,
		client: newHTTPClient(cfg.Timeout),
		live:   live,
		logger: logger,
	}
}

type geocodeResult struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (g *Geocoder) Geocode(ctx context.Context, name string) (*geo.Location, ports.Provenance, error) {
	if g.live {
		loc, err := g.geocodeLive(ctx, name)
		if err == nil {
			return loc, ports.ProvenanceLive, nil
		}
		g.logger.WithError(err).WithField("adapter", "geocoder").Warn("Live geocode failed, serving mock result")
	}
	return mockGeocode(name), ports.ProvenanceMock, nil
}

func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (*geo.Location, ports.Provenance, error) {
	if g.live {
		loc, err := g.reverseLive(ctx, lat, lon)
		if err == nil {
			return loc, ports.ProvenanceLive, nil
		}
		g.logger.WithError(err).WithField("adapter", "geocoder").Warn("Live reverse geocode failed, serving mock result")
	}
	return mockReverseGeocode(lat, lon), ports.ProvenanceMock, nil
}

func (g *Geocoder) geocodeLive(ctx context.Context, name string) (*geo.Location, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("format", "json")
	q.Set("limit", "1")
	var results []geocodeResult
	if err := g.get(ctx, "/search", q, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errEmptyUpstream
	}
	return results[0].toLocation(name)
}

func (g *Geocoder) reverseLive(ctx context.Context, lat, lon float64) (*geo.Location, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("format", "json")
	var result geocodeResult
	if err := g.get(ctx, "/reverse", q, &result); err != nil {
		return nil, err
	}
	if result.DisplayName == "" {
		return nil, errEmptyUpstream
	}
	return result.toLocation(result.DisplayName)
}

func (g *Geocoder) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	endpoint := strings.TrimSuffix(g.cfg.Endpoint, "/") + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (r geocodeResult) toLocation(fallbackName string) (*geo.Location, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", r.Lon, err)
	}
	name := r.Name
	if name == "" {
		name = fallbackName
	}
	return &geo.Location{
		Name:        name,
		DisplayName: r.DisplayName,
		Latitude:    lat,
		Longitude:   lon,
	}, nil
}

// mockGeocode maps a place name to stable coordinates inside the populated
// latitude band, so the same name always resolves to the same point.
func mockGeocode(name string) *geo.Location {
	seed := hash32(strings.ToLower(strings.TrimSpace(name)))
	lat := -60.0 + float64(seed%120000)/1000.0
	lon := -180.0 + float64((seed/7)%360000)/1000.0
	return &geo.Location{
		Name:        name,
		DisplayName: name + " (approximate)",
		Latitude:    lat,
		Longitude:   lon,
	}
}

func mockReverseGeocode(lat, lon float64) *geo.Location {
	name := fmt.Sprintf("Grid %.2f, %.2f", lat, lon)
	return &geo.Location{
		Name:        name,
		DisplayName: name + " (approximate)",
		Latitude:    lat,
		Longitude:   lon,
	}
}
