package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/domain/feed"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

// FeedService serves social chatter and official updates through the cache.
type FeedService struct {
	cache         ports.CacheService
	social        ports.SocialFeed
	scraper       ports.UpdateScraper
	ttl           time.Duration
	defaultSource string
	logger        *logrus.Logger
}

func NewFeedService(cache ports.CacheService, social ports.SocialFeed, scraper ports.UpdateScraper, ttl time.Duration, defaultSource string, logger *logrus.Logger) ports.FeedService {
	return &FeedService{
		cache:         cache,
		social:        social,
		scraper:       scraper,
		ttl:           ttl,
		defaultSource: defaultSource,
		logger:        logger,
	}
}

func (s *FeedService) SocialPosts(ctx context.Context, query string) ([]feed.SocialPost, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Validation("query must not be empty")
	}

	raw, err := s.cache.GetOrCompute(ctx, CacheKey("social", query), s.ttl, func(ctx context.Context) (json.RawMessage, error) {
		posts, prov, err := s.social.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		s.observe("social_feed", prov, logrus.Fields{"query": query, "posts": len(posts)})
		return json.Marshal(posts)
	})
	if err != nil {
		return nil, err
	}

	var posts []feed.SocialPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("decode cached social posts: %w", err)
	}
	return posts, nil
}

func (s *FeedService) OfficialUpdates(ctx context.Context, source string) ([]feed.OfficialUpdate, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		source = s.defaultSource
	}
	if source == "" {
		return nil, apperror.Validation("no update source configured or provided")
	}

	raw, err := s.cache.GetOrCompute(ctx, CacheKey("updates", source), s.ttl, func(ctx context.Context) (json.RawMessage, error) {
		updates, prov, err := s.scraper.Scrape(ctx, source)
		if err != nil {
			return nil, err
		}
		s.observe("update_scraper", prov, logrus.Fields{"source": source, "updates": len(updates)})
		return json.Marshal(updates)
	})
	if err != nil {
		return nil, err
	}

	var updates []feed.OfficialUpdate
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("decode cached official updates: %w", err)
	}
	return updates, nil
}

func (s *FeedService) observe(adapter string, prov ports.Provenance, fields logrus.Fields) {
	ObserveAdapterResult(adapter, string(prov))
	if s.logger != nil {
		s.logger.WithFields(fields).WithField("provenance", prov).Debug(adapter + " result")
	}
}
