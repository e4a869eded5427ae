package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/configs"
	"github.com/crisisnet/disasterhub/internal/core/domain/feed"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

// mockFeedBase anchors mock post timestamps so identical queries produce
// identical payloads across runs.
var mockFeedBase = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

var mockAuthors = []string{"citizen_watch", "field_reporter", "local_updates", "storm_tracker", "relief_ops"}

var mockTemplates = []string{
	"Situation near %s is developing, stay away from low-lying roads.",
	"Volunteers needed around %s, supplies are running low.",
	"Power is back in parts of %s, crews still working.",
	"Road access to %s partially restored this morning.",
	"Evacuation center near %s has open capacity.",
}

// SocialFeedClient searches recent posts via a bearer-token search API,
// with a deterministic mock feed as fallback.
type SocialFeedClient struct {
	cfg    configs.SocialFeedConfig
	client *http.Client
	live   bool
	logger *logrus.Logger
}

func NewSocialFeedClient(cfg configs.UpstreamsConfig, live bool, logger *logrus.Logger) *SocialFeedClient {
	return &SocialFeedClient{
		cfg:    cfg.SocialFeed,
		client: newHTTPClient(cfg.Timeout),
		live:   live,
		logger: logger,
	}
}

func (s *SocialFeedClient) Search(ctx context.Context, query string) ([]feed.SocialPost, ports.Provenance, error) {
	if s.live {
		posts, err := s.searchLive(ctx, query)
		if err == nil {
			return posts, ports.ProvenanceLive, nil
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"adapter": "social_feed",
			"query":   query,
		}).Warn("Live feed search failed, serving mock result")
	}
	return mockSocialPosts(query), ports.ProvenanceMock, nil
}

type feedSearchResponse struct {
	Data []struct {
		ID        string    `json:"id"`
		Author    string    `json:"author"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
		Likes     int       `json:"likes"`
		Reposts   int       `json:"reposts"`
	} `json:"data"`
}

func (s *SocialFeedClient) searchLive(ctx context.Context, query string) ([]feed.SocialPost, error) {
	endpoint := strings.TrimSuffix(s.cfg.Endpoint, "/") + "/search?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.BearerToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	var decoded feedSearchResponse
	if err := decodeResponse(resp, &decoded); err != nil {
		return nil, err
	}
	posts := make([]feed.SocialPost, 0, len(decoded.Data))
	for _, d := range decoded.Data {
		posts = append(posts, feed.SocialPost{
			ID:       d.ID,
			Author:   d.Author,
			Content:  d.Text,
			PostedAt: d.CreatedAt,
			Likes:    d.Likes,
			Reposts:  d.Reposts,
		})
	}
	return posts, nil
}

func mockSocialPosts(query string) []feed.SocialPost {
	seed := hash32(strings.ToLower(strings.TrimSpace(query)))
	posts := make([]feed.SocialPost, 0, len(mockTemplates))
	for i, tmpl := range mockTemplates {
		n := seed + uint32(i)*2654435761
		posts = append(posts, feed.SocialPost{
			ID:       fmt.Sprintf("mock-%08x-%d", seed, i),
			Author:   mockAuthors[n%uint32(len(mockAuthors))],
			Content:  fmt.Sprintf(tmpl, query),
			PostedAt: mockFeedBase.Add(-time.Duration(i*17) * time.Minute),
			Likes:    int(n % 500),
			Reposts:  int(n % 120),
		})
	}
	return posts
}
