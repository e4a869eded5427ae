package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/crisisnet/disasterhub/internal/application/services"
	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/domain/disaster"
	"github.com/crisisnet/disasterhub/internal/core/domain/feed"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

type disasterRepoMock struct {
	createFn func(ctx context.Context, d *disaster.Disaster) error
	getFn    func(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error)
	updateFn func(ctx context.Context, d *disaster.Disaster) error
	deleteFn func(ctx context.Context, id uuid.UUID) error
	listFn   func(ctx context.Context, f disaster.Filter) ([]*disaster.Disaster, error)
	countFn  func(ctx context.Context, f disaster.Filter) (int, error)
	nearbyFn func(ctx context.Context, lat, lon, radiusKm float64) ([]*disaster.Disaster, error)
}

func (m *disasterRepoMock) Create(ctx context.Context, d *disaster.Disaster) error {
	if m.createFn != nil {
		return m.createFn(ctx, d)
	}
	return nil
}
func (m *disasterRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, apperror.NotFound("not found")
}
func (m *disasterRepoMock) Update(ctx context.Context, d *disaster.Disaster) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, d)
	}
	return nil
}
func (m *disasterRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
func (m *disasterRepoMock) List(ctx context.Context, f disaster.Filter) ([]*disaster.Disaster, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return nil, nil
}
func (m *disasterRepoMock) Count(ctx context.Context, f disaster.Filter) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, f)
	}
	return 0, nil
}
func (m *disasterRepoMock) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]*disaster.Disaster, error) {
	if m.nearbyFn != nil {
		return m.nearbyFn(ctx, lat, lon, radiusKm)
	}
	return nil, nil
}

type eventRecorder struct {
	events []ports.Event
}

func (r *eventRecorder) Publish(event ports.Event) { r.events = append(r.events, event) }

type feedServiceMock struct {
	socialFn func(ctx context.Context, query string) ([]feed.SocialPost, error)
}

func (m *feedServiceMock) SocialPosts(ctx context.Context, query string) ([]feed.SocialPost, error) {
	if m.socialFn != nil {
		return m.socialFn(ctx, query)
	}
	return nil, nil
}
func (m *feedServiceMock) OfficialUpdates(ctx context.Context, source string) ([]feed.OfficialUpdate, error) {
	return nil, nil
}

type alertRecorder struct {
	sent []*disaster.Disaster
}

func (r *alertRecorder) SendDisasterAlert(ctx context.Context, d *disaster.Disaster) error {
	r.sent = append(r.sent, d)
	return nil
}

func TestCreateDisaster_PublishesEvent(t *testing.T) {
	events := &eventRecorder{}
	svc := services.NewDisasterService(&disasterRepoMock{}, &feedServiceMock{}, events, nil, nil)

	d, err := svc.CreateDisaster(context.Background(), uuid.New(), &disaster.CreateDisasterRequest{
		Title:    "River overflow",
		Type:     disaster.TypeFlood,
		Severity: disaster.SeverityMedium,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status != disaster.StatusActive {
		t.Fatalf("new disasters must start active, got %s", d.Status)
	}
	if len(events.events) != 1 {
		t.Fatalf("expected one event, got %d", len(events.events))
	}
	ev := events.events[0]
	if ev.Stream != ports.StreamDisasters || ev.Name != ports.EventDisasterUpdated || ev.Type != ports.ChangeCreated {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestCreateDisaster_CriticalSeverityAlerts(t *testing.T) {
	alerts := &alertRecorder{}
	svc := services.NewDisasterService(&disasterRepoMock{}, &feedServiceMock{}, &eventRecorder{}, alerts, nil)

	_, err := svc.CreateDisaster(context.Background(), uuid.New(), &disaster.CreateDisasterRequest{
		Title:    "Dam breach",
		Type:     disaster.TypeFlood,
		Severity: disaster.SeverityCritical,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts.sent) != 1 {
		t.Fatalf("critical disaster must trigger an alert, got %d sends", len(alerts.sent))
	}

	_, err = svc.CreateDisaster(context.Background(), uuid.New(), &disaster.CreateDisasterRequest{
		Title:    "Small brush fire",
		Type:     disaster.TypeWildfire,
		Severity: disaster.SeverityLow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts.sent) != 1 {
		t.Fatal("non-critical disasters must not alert")
	}
}

func TestUpdateDisaster_OwnershipEnforced(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	repo := &disasterRepoMock{getFn: func(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error) {
		return &disaster.Disaster{ID: id, OwnerID: owner}, nil
	}}
	svc := services.NewDisasterService(repo, &feedServiceMock{}, &eventRecorder{}, nil, nil)

	title := "renamed"
	_, err := svc.UpdateDisaster(context.Background(), uuid.New(), stranger, &disaster.UpdateDisasterRequest{Title: &title})
	if !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	if err := svc.DeleteDisaster(context.Background(), uuid.New(), stranger); !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("expected forbidden on delete, got %v", err)
	}
}

func TestNearbyDisasters_Validation(t *testing.T) {
	svc := services.NewDisasterService(&disasterRepoMock{}, &feedServiceMock{}, nil, nil, nil)

	if _, err := svc.NearbyDisasters(context.Background(), 120, 0, 10); !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("expected validation error for bad latitude, got %v", err)
	}
	if _, err := svc.NearbyDisasters(context.Background(), 0, 0, -1); !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("expected validation error for bad radius, got %v", err)
	}
}

func TestSocialPosts_FallsBackToTitleQuery(t *testing.T) {
	repo := &disasterRepoMock{getFn: func(ctx context.Context, id uuid.UUID) (*disaster.Disaster, error) {
		return &disaster.Disaster{ID: id, Title: "Typhoon Odette", LocationName: ""}, nil
	}}
	var gotQuery string
	feeds := &feedServiceMock{socialFn: func(ctx context.Context, query string) ([]feed.SocialPost, error) {
		gotQuery = query
		return []feed.SocialPost{{ID: "1"}}, nil
	}}
	svc := services.NewDisasterService(repo, feeds, nil, nil, nil)

	posts, err := svc.SocialPosts(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "Typhoon Odette" {
		t.Fatalf("expected title as fallback query, got %q", gotQuery)
	}
	if len(posts) != 1 {
		t.Fatalf("expected posts passthrough, got %d", len(posts))
	}
}
