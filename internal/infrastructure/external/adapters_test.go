package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crisisnet/disasterhub/configs"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

func TestExtractLocation_LivePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[1].Content != "Flooding reported near Marikina River" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(chatResponse{Choices: []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Role: "assistant", Content: " Marikina \n"}}}})
	}))
	defer srv.Close()

	cfg := upstreamsConfig()
	cfg.Extractor = configs.ExtractorConfig{Endpoint: srv.URL, APIKey: "test-key", Model: "gpt-4o-mini"}
	extractor := NewExtractor(cfg, true, testLogger())

	name, prov, err := extractor.ExtractLocation(context.Background(), "Flooding reported near Marikina River")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prov != ports.ProvenanceLive || name != "Marikina" {
		t.Fatalf("got %q (%s)", name, prov)
	}
}

func TestExtractLocation_NoneAnswerYieldsMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{Choices: []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Role: "assistant", Content: "NONE"}}}})
	}))
	defer srv.Close()

	cfg := upstreamsConfig()
	cfg.Extractor = configs.ExtractorConfig{Endpoint: srv.URL, APIKey: "test-key"}
	extractor := NewExtractor(cfg, true, testLogger())

	name, prov, err := extractor.ExtractLocation(context.Background(), "water is rising near Pasig City today")
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if prov != ports.ProvenanceMock {
		t.Fatalf("expected mock provenance, got %s", prov)
	}
	if name != "Pasig City" {
		t.Fatalf("heuristic picked %q", name)
	}
}

func TestMockExtractLocation(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"severe flooding in Quezon City after the storm", "Quezon City"},
		{"Landslide warning. Roads to Baguio are closed.", "Baguio"},
		// A capitalized sentence opener on its own is not a place.
		{"Everything is under water here.", "Unknown"},
		{"no location mentioned at all", "Unknown"},
		{"", "Unknown"},
	}
	for _, tc := range cases {
		if got := mockExtractLocation(tc.text); got != tc.want {
			t.Errorf("mockExtractLocation(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestGeocode_LivePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "Cebu City" || r.URL.Query().Get("limit") != "1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"name":"Cebu City","display_name":"Cebu City, Philippines","lat":"10.3157","lon":"123.8854"}]`))
	}))
	defer srv.Close()

	cfg := upstreamsConfig()
	cfg.Geocoder = configs.GeocoderConfig{Endpoint: srv.URL}
	geocoder := NewGeocoder(cfg, true, testLogger())

	loc, prov, err := geocoder.Geocode(context.Background(), "Cebu City")
	if err != nil || prov != ports.ProvenanceLive {
		t.Fatalf("prov=%s err=%v", prov, err)
	}
	if loc.Latitude != 10.3157 || loc.Longitude != 123.8854 || loc.DisplayName != "Cebu City, Philippines" {
		t.Fatalf("unexpected location: %+v", loc)
	}
}

func TestGeocode_UpstreamFailureYieldsMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := upstreamsConfig()
	cfg.Geocoder = configs.GeocoderConfig{Endpoint: srv.URL}
	geocoder := NewGeocoder(cfg, true, testLogger())

	loc, prov, err := geocoder.Geocode(context.Background(), "Cebu City")
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if prov != ports.ProvenanceMock {
		t.Fatalf("expected mock provenance, got %s", prov)
	}
	if loc.DisplayName != "Cebu City (approximate)" {
		t.Fatalf("unexpected display name %q", loc.DisplayName)
	}
}

func TestMockGeocode_DeterministicAndInRange(t *testing.T) {
	a := mockGeocode("Tacloban")
	b := mockGeocode("  TACLOBAN ")
	if a.Latitude != b.Latitude || a.Longitude != b.Longitude {
		t.Fatalf("case and whitespace must not change coordinates: %+v vs %+v", a, b)
	}
	for _, name := range []string{"Tacloban", "Cebu City", "Grid 14.60, 121.00", "x"} {
		loc := mockGeocode(name)
		if loc.Latitude < -60 || loc.Latitude >= 60 {
			t.Errorf("latitude out of band for %q: %f", name, loc.Latitude)
		}
		if loc.Longitude < -180 || loc.Longitude >= 180 {
			t.Errorf("longitude out of range for %q: %f", name, loc.Longitude)
		}
	}
}

func TestReverseGeocode_MockMode(t *testing.T) {
	geocoder := NewGeocoder(upstreamsConfig(), false, testLogger())
	loc, prov, err := geocoder.ReverseGeocode(context.Background(), 14.5995, 120.9842)
	if err != nil || prov != ports.ProvenanceMock {
		t.Fatalf("prov=%s err=%v", prov, err)
	}
	if loc.Name != "Grid 14.60, 120.98" {
		t.Fatalf("unexpected grid name %q", loc.Name)
	}
	if loc.Latitude != 14.5995 || loc.Longitude != 120.9842 {
		t.Fatalf("mock must echo the query coordinates: %+v", loc)
	}
}

func TestSocialSearch_LivePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer feed-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		if r.URL.Query().Get("q") != "manila flood" {
			t.Errorf("unexpected query %q", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`{"data":[{"id":"p1","author":"@resident","text":"Knee-deep water on Taft Avenue","created_at":"2026-08-26T04:10:00Z","likes":12,"reposts":3}]}`))
	}))
	defer srv.Close()

	cfg := upstreamsConfig()
	cfg.SocialFeed = configs.SocialFeedConfig{Endpoint: srv.URL, BearerToken: "feed-token"}
	client := NewSocialFeedClient(cfg, true, testLogger())

	posts, prov, err := client.Search(context.Background(), "manila flood")
	if err != nil || prov != ports.ProvenanceLive {
		t.Fatalf("prov=%s err=%v", prov, err)
	}
	if len(posts) != 1 || posts[0].ID != "p1" || posts[0].Likes != 12 {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}

func TestMockSocialPosts_Deterministic(t *testing.T) {
	a := mockSocialPosts("manila flood")
	b := mockSocialPosts("Manila Flood")
	if len(a) != len(b) || len(a) == 0 {
		t.Fatalf("unexpected lengths %d/%d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Author != b[i].Author || a[i].Likes != b[i].Likes {
			t.Fatalf("mock feed must be case-insensitive deterministic, post %d differs", i)
		}
		if !strings.HasPrefix(a[i].ID, "mock-") {
			t.Fatalf("mock IDs must be marked as such: %q", a[i].ID)
		}
	}
	if c := mockSocialPosts("different query"); c[0].ID == a[0].ID {
		t.Fatal("distinct queries must not share post IDs")
	}
}

func TestVerifyPost_LivePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload["text"] == "" || payload["image_url"] == "" {
			t.Errorf("payload missing fields: %v", payload)
		}
		w.Write([]byte(`{"credible":true,"score":0.87,"summary":"Consistent with other reports.","image":{"manipulated":false,"confidence":0.91,"details":"ok"}}`))
	}))
	defer srv.Close()

	cfg := upstreamsConfig()
	cfg.Verifier = configs.VerifierConfig{Endpoint: srv.URL, APIKey: "vk"}
	verifier := NewVerifierClient(cfg, true, testLogger())

	verdict, prov, err := verifier.VerifyPost(context.Background(), "water rising", "https://example.com/a.jpg")
	if err != nil || prov != ports.ProvenanceLive {
		t.Fatalf("prov=%s err=%v", prov, err)
	}
	if !verdict.Credible || verdict.Score != 0.87 || verdict.Image == nil || verdict.Image.Confidence != 0.91 {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
}

func TestMockVerification_ImageOnlyWhenProvided(t *testing.T) {
	withImage := mockVerification("water rising", "https://example.com/a.jpg")
	if withImage.Image == nil {
		t.Fatal("image check missing when an image URL was given")
	}
	withoutImage := mockVerification("water rising", "")
	if withoutImage.Image != nil {
		t.Fatal("image check present without an image URL")
	}
	if withImage.Score < 0.30 || withImage.Score >= 0.90 {
		t.Fatalf("score out of range: %f", withImage.Score)
	}
	again := mockVerification("water rising", "https://example.com/a.jpg")
	if again.Score != withImage.Score || again.Credible != withImage.Credible {
		t.Fatal("mock verdict must be deterministic")
	}
}
