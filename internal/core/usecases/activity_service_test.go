package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/usecases"
)

func seededRepo() *mockActivityRepo {
	return &mockActivityRepo{
		listInBoundsFn: func(ctx context.Context, b domain.Bounds) ([]domain.Activity, error) {
			var out []domain.Activity
			for _, a := range seededActivities() {
				if a.Point != nil && b.Contains(*a.Point) {
					out = append(out, a)
				}
			}
			return out, nil
		},
	}
}

func TestActivityService_Nearby(t *testing.T) {
	svc := usecases.NewActivityService(seededRepo(), nil, nil, usecases.ActivityOptions{})

	got, err := svc.Nearby(context.Background(), usecases.NearbyQuery{Reference: seattle, RadiusMiles: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{2, 3, 4, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("result %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
}

func TestActivityService_Nearby_DefaultBudgetMode(t *testing.T) {
	exact := usecases.NewActivityService(seededRepo(), nil, nil, usecases.ActivityOptions{DefaultBudgetMode: usecases.BudgetExact})
	q := usecases.NearbyQuery{Reference: seattle, RadiusMiles: 25, Filter: usecases.ActivityFilter{Budget: domain.BudgetMedium}}

	got, err := exact.Nearby(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("exact mode: expected 2 results, got %d", len(got))
	}

	q.Filter.BudgetMode = usecases.BudgetCeiling
	got, _ = exact.Nearby(context.Background(), q)
	if len(got) != 4 {
		t.Fatalf("per-request ceiling override: expected 4 results, got %d", len(got))
	}
}

func TestActivityService_Nearby_RejectsInvalidInput(t *testing.T) {
	svc := usecases.NewActivityService(seededRepo(), nil, nil, usecases.ActivityOptions{MaxRadiusMiles: 500})

	tests := []struct {
		name string
		q    usecases.NearbyQuery
	}{
		{"latitude out of range", usecases.NearbyQuery{Reference: domain.GeoPoint{Lat: 91, Lon: 0}, RadiusMiles: 5}},
		{"longitude out of range", usecases.NearbyQuery{Reference: domain.GeoPoint{Lat: 0, Lon: -181}, RadiusMiles: 5}},
		{"NaN latitude", usecases.NearbyQuery{Reference: domain.GeoPoint{Lat: math.NaN(), Lon: 0}, RadiusMiles: 5}},
		{"negative radius", usecases.NearbyQuery{Reference: seattle, RadiusMiles: -1}},
		{"infinite radius", usecases.NearbyQuery{Reference: seattle, RadiusMiles: math.Inf(1)}},
		{"radius above max", usecases.NearbyQuery{Reference: seattle, RadiusMiles: 501}},
		{"budget out of range", usecases.NearbyQuery{Reference: seattle, RadiusMiles: 5, Filter: usecases.ActivityFilter{Budget: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Nearby(context.Background(), tt.q)
			if !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestActivityService_Nearby_CacheAside(t *testing.T) {
	calls := 0
	repo := seededRepo()
	inner := repo.listInBoundsFn
	repo.listInBoundsFn = func(ctx context.Context, b domain.Bounds) ([]domain.Activity, error) {
		calls++
		return inner(ctx, b)
	}
	cache := newMockCache()
	svc := usecases.NewActivityService(repo, cache, nil, usecases.ActivityOptions{})
	q := usecases.NearbyQuery{Reference: seattle, RadiusMiles: 10}

	first, err := svc.Nearby(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Nearby(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected repository to be hit once, got %d", calls)
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache write, got %d", cache.sets)
	}
	if len(first) != len(second) || *second[0].DistanceInMiles != 3.9 {
		t.Errorf("cached result differs from computed result")
	}
}

func TestActivityService_Nearby_CacheKeyedOnExactReference(t *testing.T) {
	// One activity due north of both references: 1.049 miles from a, 1.051 from b.
	point := domain.GeoPoint{Lat: 0.0152222, Lon: 0}
	repo := &mockActivityRepo{
		listInBoundsFn: func(ctx context.Context, b domain.Bounds) ([]domain.Activity, error) {
			return []domain.Activity{{ID: 1, Title: "Marker", Point: &point, BudgetLevel: domain.BudgetLow}}, nil
		},
	}
	svc := usecases.NewActivityService(repo, newMockCache(), nil, usecases.ActivityOptions{})
	a := usecases.NearbyQuery{Reference: domain.GeoPoint{Lat: 0.00004, Lon: 0}, RadiusMiles: 1}
	b := usecases.NearbyQuery{Reference: domain.GeoPoint{Lat: 0.00001, Lon: 0}, RadiusMiles: 1}

	got, err := svc.Nearby(context.Background(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || *got[0].DistanceInMiles != 1.0 {
		t.Fatalf("expected one result at 1.0 miles, got %+v", got)
	}

	got, err = svc.Nearby(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results within 1 mile of the second reference, got %d at %.1f miles",
			len(got), *got[0].DistanceInMiles)
	}
}

func TestActivityService_ListByBudget_Invalid(t *testing.T) {
	svc := usecases.NewActivityService(&mockActivityRepo{}, nil, nil, usecases.ActivityOptions{})
	for _, level := range []domain.BudgetLevel{0, 4, -1} {
		if _, err := svc.ListByBudget(context.Background(), level); !errors.Is(err, domain.ErrInvalid) {
			t.Errorf("level %d: expected ErrInvalid, got %v", level, err)
		}
	}
}

func TestActivityService_Create(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewActivityService(&mockActivityRepo{}, nil, pub, usecases.ActivityOptions{})
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	a, err := svc.Create(context.Background(), &domain.Activity{
		Title: "Lake Swim", Category: "Swimming", Location: "Green Lake",
		BudgetLevel: domain.BudgetLow, StartDate: start, EndDate: start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != 99 {
		t.Errorf("expected id from repository, got %d", a.ID)
	}
	if len(pub.created) != 1 || pub.created[0] != 99 {
		t.Errorf("expected activity.created for 99, got %v", pub.created)
	}
}

func TestActivityService_Create_PublishFailureIsNotFatal(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats down")}
	svc := usecases.NewActivityService(&mockActivityRepo{}, nil, pub, usecases.ActivityOptions{})
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), &domain.Activity{
		Title: "Lake Swim", Category: "Swimming", Location: "Green Lake",
		BudgetLevel: domain.BudgetLow, StartDate: start, EndDate: start,
	})
	if err != nil {
		t.Fatalf("publish failure should not fail create: %v", err)
	}
}

func TestActivityService_Create_Invalid(t *testing.T) {
	svc := usecases.NewActivityService(&mockActivityRepo{}, nil, nil, usecases.ActivityOptions{})
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), &domain.Activity{
		Title: "Backwards", Category: "Hiking", Location: "Somewhere",
		BudgetLevel: 5, StartDate: start, EndDate: start.Add(-time.Hour),
	})
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestActivityService_Annotate(t *testing.T) {
	acts := seededActivities()
	acts = append(acts, domain.Activity{ID: 7, Title: "Online"})
	repo := &mockActivityRepo{listFn: func(ctx context.Context) ([]domain.Activity, error) { return acts, nil }}
	svc := usecases.NewActivityService(repo, nil, nil, usecases.ActivityOptions{})

	got, err := svc.Annotate(context.Background(), seattle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("expected the whole catalog, got %d", len(got))
	}
	if got[0].ID != 2 || got[6].ID != 7 || got[6].DistanceInMiles != nil {
		t.Errorf("expected Alki first and the online activity last, got %d..%d", got[0].ID, got[6].ID)
	}
}
