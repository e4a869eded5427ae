package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/crisisnet/disasterhub/configs"
	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/domain/disaster"
	"github.com/crisisnet/disasterhub/internal/core/domain/feed"
	"github.com/crisisnet/disasterhub/internal/core/ports"
	"github.com/crisisnet/disasterhub/internal/infrastructure/realtime"
)

type disasterServiceMock struct {
	createFn func(ctx context.Context, ownerID uuid.UUID, req *disaster.CreateDisasterRequest) (*disaster.Disaster, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error)
	updateFn func(ctx context.Context, id, callerID uuid.UUID, req *disaster.UpdateDisasterRequest) (*disaster.Disaster, error)
	deleteFn func(ctx context.Context, id, callerID uuid.UUID) error
	listFn   func(ctx context.Context, filter disaster.Filter) ([]*disaster.Disaster, int, error)
	nearbyFn func(ctx context.Context, lat, lon, radiusKm float64) ([]*disaster.Disaster, error)
	socialFn func(ctx context.Context, id uuid.UUID) ([]feed.SocialPost, error)
}

func (m *disasterServiceMock) CreateDisaster(ctx context.Context, ownerID uuid.UUID, req *disaster.CreateDisasterRequest) (*disaster.Disaster, error) {
	return m.createFn(ctx, ownerID, req)
}

func (m *disasterServiceMock) GetDisaster(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error) {
	return m.getFn(ctx, id)
}

func (m *disasterServiceMock) UpdateDisaster(ctx context.Context, id, callerID uuid.UUID, req *disaster.UpdateDisasterRequest) (*disaster.Disaster, error) {
	return m.updateFn(ctx, id, callerID, req)
}

func (m *disasterServiceMock) DeleteDisaster(ctx context.Context, id, callerID uuid.UUID) error {
	return m.deleteFn(ctx, id, callerID)
}

func (m *disasterServiceMock) ListDisasters(ctx context.Context, filter disaster.Filter) ([]*disaster.Disaster, int, error) {
	return m.listFn(ctx, filter)
}

func (m *disasterServiceMock) NearbyDisasters(ctx context.Context, lat, lon, radiusKm float64) ([]*disaster.Disaster, error) {
	return m.nearbyFn(ctx, lat, lon, radiusKm)
}

func (m *disasterServiceMock) SocialPosts(ctx context.Context, id uuid.UUID) ([]feed.SocialPost, error) {
	return m.socialFn(ctx, id)
}

type healthCheckerFake struct {
	name string
	err  error
}

func (f *healthCheckerFake) Name() string                    { return f.name }
func (f *healthCheckerFake) Check(ctx context.Context) error { return f.err }

func newTestServer(t *testing.T, deps ServerDeps) *Server {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	if deps.Hub == nil {
		deps.Hub = realtime.NewHub(logger)
	}
	return NewServer(&ServerConfig{Host: "127.0.0.1", Port: "0"}, logger, deps)
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestListDisasters_OK(t *testing.T) {
	svc := &disasterServiceMock{
		listFn: func(ctx context.Context, filter disaster.Filter) ([]*disaster.Disaster, int, error) {
			require.Equal(t, disaster.TypeFlood, filter.Type)
			require.Equal(t, 20, filter.Limit)
			return []*disaster.Disaster{{ID: uuid.New(), Title: "River overflow"}}, 1, nil
		},
	}
	server := newTestServer(t, ServerDeps{DisasterService: svc})

	rec := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/v1/disasters?type=flood", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Disasters []disaster.Disaster `json:"disasters"`
		Total     int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	require.Len(t, body.Disasters, 1)
}

func TestCreateDisaster_RequiresIdentity(t *testing.T) {
	server := newTestServer(t, ServerDeps{DisasterService: &disasterServiceMock{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/disasters",
		strings.NewReader(`{"title":"Flood","type":"flood","severity":"high"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := doRequest(server, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateDisaster_RejectsMalformedUserID(t *testing.T) {
	server := newTestServer(t, ServerDeps{DisasterService: &disasterServiceMock{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/disasters", nil)
	req.Header.Set("X-User-ID", "not-a-uuid")
	rec := doRequest(server, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDisaster_ValidationFailure(t *testing.T) {
	called := false
	svc := &disasterServiceMock{
		createFn: func(ctx context.Context, ownerID uuid.UUID, req *disaster.CreateDisasterRequest) (*disaster.Disaster, error) {
			called = true
			return nil, nil
		},
	}
	server := newTestServer(t, ServerDeps{DisasterService: svc})

	// Missing title and an unknown severity must both fail validation.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/disasters",
		strings.NewReader(`{"type":"flood","severity":"apocalyptic"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-User-ID", uuid.New().String())
	rec := doRequest(server, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, called, "service must not run on invalid input")
}

func TestCreateDisaster_Created(t *testing.T) {
	ownerID := uuid.New()
	svc := &disasterServiceMock{
		createFn: func(ctx context.Context, owner uuid.UUID, req *disaster.CreateDisasterRequest) (*disaster.Disaster, error) {
			require.Equal(t, ownerID, owner)
			return &disaster.Disaster{
				ID:       uuid.New(),
				Title:    req.Title,
				Type:     req.Type,
				Severity: req.Severity,
				Status:   disaster.StatusActive,
				OwnerID:  owner,
			}, nil
		},
	}
	server := newTestServer(t, ServerDeps{DisasterService: svc})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/disasters",
		strings.NewReader(`{"title":"River overflow","type":"flood","severity":"high","location_name":"Marikina"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-User-ID", ownerID.String())
	rec := doRequest(server, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created disaster.Disaster
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, disaster.StatusActive, created.Status)
}

func TestUpdateDisaster_ForbiddenMapsTo403(t *testing.T) {
	svc := &disasterServiceMock{
		updateFn: func(ctx context.Context, id, callerID uuid.UUID, req *disaster.UpdateDisasterRequest) (*disaster.Disaster, error) {
			return nil, apperror.Forbidden("only the owner can modify this disaster")
		},
	}
	server := newTestServer(t, ServerDeps{DisasterService: svc})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/disasters/"+uuid.New().String(),
		strings.NewReader(`{"severity":"critical"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-User-ID", uuid.New().String())
	rec := doRequest(server, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetDisaster_NotFoundMapsTo404(t *testing.T) {
	svc := &disasterServiceMock{
		getFn: func(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error) {
			return nil, apperror.NotFound("disaster not found")
		},
	}
	server := newTestServer(t, ServerDeps{DisasterService: svc})

	rec := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/v1/disasters/"+uuid.New().String(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorageErrorIsOpaque(t *testing.T) {
	svc := &disasterServiceMock{
		listFn: func(ctx context.Context, filter disaster.Filter) ([]*disaster.Disaster, int, error) {
			return nil, 0, apperror.Storage("select disasters", context.DeadlineExceeded)
		},
	}
	server := newTestServer(t, ServerDeps{DisasterService: svc})

	rec := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/v1/disasters", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "select disasters")
}

func TestNearbyDisasters_RequiresCoordinates(t *testing.T) {
	server := newTestServer(t, ServerDeps{DisasterService: &disasterServiceMock{}})

	rec := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/v1/disasters/nearby?lat=14.6", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSocialFeed_RequiresQuery(t *testing.T) {
	server := newTestServer(t, ServerDeps{})

	rec := doRequest(server, httptest.NewRequest(http.MethodGet, "/api/v1/feeds/social", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth_ReportsCapabilities(t *testing.T) {
	server := newTestServer(t, ServerDeps{
		HealthCheckers: []ports.HealthChecker{&healthCheckerFake{name: "database"}},
		Capabilities:   configs.Capabilities{CacheStore: true, Geocoder: true},
	})
	rec := doRequest(server, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
		Capabilities map[string]string `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body.Status)
	require.Equal(t, "healthy", body.Dependencies["database"])
	require.Equal(t, "enabled", body.Capabilities["cache_store"])
	require.Equal(t, "live", body.Capabilities["geocoder"])
	require.Equal(t, "mock", body.Capabilities["extractor"])
}

func TestHealth_FailingDependencyDegrades(t *testing.T) {
	server := newTestServer(t, ServerDeps{
		HealthCheckers: []ports.HealthChecker{
			&healthCheckerFake{name: "database"},
			&healthCheckerFake{name: "redis", err: context.DeadlineExceeded},
		},
	})
	rec := doRequest(server, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "degraded", body.Status)
	require.Equal(t, "unhealthy", body.Dependencies["redis"])
	require.Equal(t, "healthy", body.Dependencies["database"])
}
