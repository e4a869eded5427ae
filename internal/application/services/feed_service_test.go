package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/crisisnet/disasterhub/internal/application/services"
	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/domain/feed"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

type socialFeedMock struct {
	searchFn func(ctx context.Context, query string) ([]feed.SocialPost, ports.Provenance, error)
}

func (m *socialFeedMock) Search(ctx context.Context, query string) ([]feed.SocialPost, ports.Provenance, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, ports.ProvenanceMock, nil
}

type scraperMock struct {
	scrapeFn func(ctx context.Context, source string) ([]feed.OfficialUpdate, ports.Provenance, error)
}

func (m *scraperMock) Scrape(ctx context.Context, source string) ([]feed.OfficialUpdate, ports.Provenance, error) {
	if m.scrapeFn != nil {
		return m.scrapeFn(ctx, source)
	}
	return nil, ports.ProvenanceMock, nil
}

func TestSocialPosts_RoundTripsThroughCache(t *testing.T) {
	cache := &passthroughCache{}
	social := &socialFeedMock{searchFn: func(ctx context.Context, query string) ([]feed.SocialPost, ports.Provenance, error) {
		return []feed.SocialPost{{ID: "p1", Author: "citizen_watch", Content: "road closed"}}, ports.ProvenanceLive, nil
	}}
	svc := services.NewFeedService(cache, social, &scraperMock{}, time.Hour, "", nil)

	posts, err := svc.SocialPosts(context.Background(), "manila flood")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
	if len(cache.keys) != 1 || cache.keys[0] != services.CacheKey("social", "manila flood") {
		t.Fatalf("unexpected cache key: %v", cache.keys)
	}
}

func TestSocialPosts_EmptyQueryRejected(t *testing.T) {
	svc := services.NewFeedService(&passthroughCache{}, &socialFeedMock{}, &scraperMock{}, time.Hour, "", nil)
	if _, err := svc.SocialPosts(context.Background(), "  "); !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOfficialUpdates_DefaultSource(t *testing.T) {
	var gotSource string
	scraper := &scraperMock{scrapeFn: func(ctx context.Context, source string) ([]feed.OfficialUpdate, ports.Provenance, error) {
		gotSource = source
		return []feed.OfficialUpdate{{Title: "Advisory"}}, ports.ProvenanceMock, nil
	}}
	svc := services.NewFeedService(&passthroughCache{}, &socialFeedMock{}, scraper, time.Hour, "https://agency.example/news", nil)

	updates, err := svc.OfficialUpdates(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSource != "https://agency.example/news" {
		t.Fatalf("expected default source, got %q", gotSource)
	}
	if len(updates) != 1 {
		t.Fatalf("unexpected updates: %+v", updates)
	}
}

func TestOfficialUpdates_NoSourceAnywhere(t *testing.T) {
	svc := services.NewFeedService(&passthroughCache{}, &socialFeedMock{}, &scraperMock{}, time.Hour, "", nil)
	if _, err := svc.OfficialUpdates(context.Background(), ""); !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
