package ports

import (
	"context"

	"github.com/crisisnet/disasterhub/internal/core/domain/feed"
	"github.com/crisisnet/disasterhub/internal/core/domain/geo"
)

// FeedService serves cached social chatter and official updates.
type FeedService interface {
	SocialPosts(ctx context.Context, query string) ([]feed.SocialPost, error)
	OfficialUpdates(ctx context.Context, source string) ([]feed.OfficialUpdate, error)
}

// GeoService resolves locations through the cached extract+geocode pipeline.
type GeoService interface {
	// Locate extracts a place name from free text and geocodes it. The cache
	// key covers the original text, never the intermediate place name.
	Locate(ctx context.Context, text string) (*geo.Location, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*geo.Location, error)
}
