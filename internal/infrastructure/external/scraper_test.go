package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/configs"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func upstreamsConfig() configs.UpstreamsConfig {
	return configs.UpstreamsConfig{Timeout: 2 * time.Second}
}

func TestScrape_ArticleSelector(t *testing.T) {
	page := `<html><body>
		<article><h2>Evacuation ordered</h2><p>Residents of zone 3 must leave by noon.</p></article>
		<article><h3>Bridge closed</h3><p>The north bridge is closed to all traffic.</p></article>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	scraper := NewScraper(upstreamsConfig(), true, testLogger())
	updates, prov, err := scraper.Scrape(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prov != ports.ProvenanceLive {
		t.Fatalf("expected live provenance, got %s", prov)
	}
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].Title != "Evacuation ordered" || updates[0].Body != "Residents of zone 3 must leave by noon." {
		t.Fatalf("unexpected first update: %+v", updates[0])
	}
	if updates[1].Source != srv.URL {
		t.Fatalf("source not attached: %+v", updates[1])
	}
}

func TestScrape_NewsItemClassFallback(t *testing.T) {
	page := `<html><body>
		<div class="card news-item"><h3>Water advisory</h3><p>Boil water before drinking.</p></div>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	scraper := NewScraper(upstreamsConfig(), true, testLogger())
	updates, prov, err := scraper.Scrape(context.Background(), srv.URL)
	if err != nil || prov != ports.ProvenanceLive {
		t.Fatalf("prov=%s err=%v", prov, err)
	}
	if len(updates) != 1 || updates[0].Title != "Water advisory" {
		t.Fatalf("unexpected updates: %+v", updates)
	}
}

func TestScrape_HeadingPairFallback(t *testing.T) {
	page := `<html><body>
		<h2>Relief schedule</h2>
		<p>Distribution starts at 08:00.</p>
		<h2>No body heading</h2>
		<h3>Road status</h3><span>x</span><p>Two lanes open.</p>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	scraper := NewScraper(upstreamsConfig(), true, testLogger())
	updates, _, err := scraper.Scrape(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d: %+v", len(updates), updates)
	}
}

func TestScrape_ZeroItemsYieldsMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div>nothing recognizable</div></body></html>`))
	}))
	defer srv.Close()

	scraper := NewScraper(upstreamsConfig(), true, testLogger())
	updates, prov, err := scraper.Scrape(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if prov != ports.ProvenanceMock {
		t.Fatalf("zero extracted items must yield the mock payload, got %s", prov)
	}
	if len(updates) != 3 {
		t.Fatalf("mock payload must have exactly 3 entries, got %d", len(updates))
	}
	for _, u := range updates {
		if u.Title == "" || u.Body == "" || u.Source != srv.URL {
			t.Fatalf("malformed mock entry: %+v", u)
		}
	}
}

func TestScrape_HTTPErrorYieldsMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	scraper := NewScraper(upstreamsConfig(), true, testLogger())
	updates, prov, err := scraper.Scrape(context.Background(), srv.URL)
	if err != nil || prov != ports.ProvenanceMock || len(updates) != 3 {
		t.Fatalf("expected mock fallback: prov=%s len=%d err=%v", prov, len(updates), err)
	}
}

func TestScrape_MockModeSkipsNetwork(t *testing.T) {
	scraper := NewScraper(upstreamsConfig(), false, testLogger())
	updates, prov, err := scraper.Scrape(context.Background(), "https://unreachable.invalid/news")
	if err != nil || prov != ports.ProvenanceMock || len(updates) != 3 {
		t.Fatalf("expected mock payload: prov=%s len=%d err=%v", prov, len(updates), err)
	}
}

func TestMockOfficialUpdates_Deterministic(t *testing.T) {
	a := mockOfficialUpdates("https://agency.example/news")
	b := mockOfficialUpdates("https://agency.example/news")
	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("mock payload must have 3 entries: %d/%d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("mock payload must be deterministic, entry %d differs", i)
		}
	}
}
