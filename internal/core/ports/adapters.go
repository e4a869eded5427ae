package ports

import (
	"context"

	"github.com/crisisnet/disasterhub/internal/core/domain/feed"
	"github.com/crisisnet/disasterhub/internal/core/domain/geo"
	"github.com/crisisnet/disasterhub/internal/core/domain/report"
)

// Provenance tags an adapter result with the code path that produced it.
// Adapters fall back from live to mock on any upstream failure, so callers
// always receive a result; the tag is collapsed away at the HTTP boundary
// but preserved in logs, metrics and tests.
type Provenance string

const (
	ProvenanceLive Provenance = "live"
	ProvenanceMock Provenance = "mock"
)

// LocationExtractor pulls the most specific place name out of free text.
type LocationExtractor interface {
	ExtractLocation(ctx context.Context, text string) (string, Provenance, error)
}

// Geocoder resolves place names to coordinates and back.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (*geo.Location, Provenance, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*geo.Location, Provenance, error)
}

// SocialFeed searches recent social posts for a query.
type SocialFeed interface {
	Search(ctx context.Context, query string) ([]feed.SocialPost, Provenance, error)
}

// UpdateScraper fetches a source page and extracts official updates from it.
// Zero extracted items is treated as an extraction failure, not as a valid
// empty answer, and yields the mock payload.
type UpdateScraper interface {
	Scrape(ctx context.Context, source string) ([]feed.OfficialUpdate, Provenance, error)
}

// Verifier runs AI-backed credibility checks on report content and images.
type Verifier interface {
	VerifyImage(ctx context.Context, imageURL string) (*report.ImageCheck, Provenance, error)
	VerifyPost(ctx context.Context, text, imageURL string) (*report.Verification, Provenance, error)
}
