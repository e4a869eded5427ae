package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/domain/geo"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

// GeoService composes the location extractor and the geocoder behind the
// cache-through wrapper.
type GeoService struct {
	cache     ports.CacheService
	extractor ports.LocationExtractor
	geocoder  ports.Geocoder
	ttl       time.Duration
	logger    *logrus.Logger
}

func NewGeoService(cache ports.CacheService, extractor ports.LocationExtractor, geocoder ports.Geocoder, ttl time.Duration, logger *logrus.Logger) ports.GeoService {
	return &GeoService{
		cache:     cache,
		extractor: extractor,
		geocoder:  geocoder,
		ttl:       ttl,
		logger:    logger,
	}
}

// Locate extracts a place name from free text and resolves it to
// coordinates. Extraction is non-deterministic, so the cache key covers the
// original text rather than the intermediate place name.
func (s *GeoService) Locate(ctx context.Context, text string) (*geo.Location, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.Validation("text must not be empty")
	}

	raw, err := s.cache.GetOrCompute(ctx, CacheKey("extract-geocode", text), s.ttl, func(ctx context.Context) (json.RawMessage, error) {
		name, extractProv, err := s.extractor.ExtractLocation(ctx, text)
		if err != nil {
			return nil, err
		}
		ObserveAdapterResult("location_extractor", string(extractProv))

		loc, geocodeProv, err := s.geocoder.Geocode(ctx, name)
		if err != nil {
			return nil, err
		}
		ObserveAdapterResult("geocoder", string(geocodeProv))
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"place":              name,
				"extract_provenance": extractProv,
				"geocode_provenance": geocodeProv,
			}).Debug("located free text")
		}
		return json.Marshal(loc)
	})
	if err != nil {
		return nil, err
	}

	var loc geo.Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, fmt.Errorf("decode cached location: %w", err)
	}
	return &loc, nil
}

func (s *GeoService) ReverseGeocode(ctx context.Context, lat, lon float64) (*geo.Location, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, apperror.Validation("coordinates out of range")
	}

	key := CacheKey("revgeocode", fmt.Sprintf("%.6f,%.6f", lat, lon))
	raw, err := s.cache.GetOrCompute(ctx, key, s.ttl, func(ctx context.Context) (json.RawMessage, error) {
		loc, prov, err := s.geocoder.ReverseGeocode(ctx, lat, lon)
		if err != nil {
			return nil, err
		}
		ObserveAdapterResult("geocoder", string(prov))
		return json.Marshal(loc)
	})
	if err != nil {
		return nil, err
	}

	var loc geo.Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, fmt.Errorf("decode cached location: %w", err)
	}
	return &loc, nil
}
