package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
	"github.com/samirrijal/trailhead/internal/pkg/geospatial"
	"github.com/samirrijal/trailhead/internal/pkg/metrics"
	"github.com/samirrijal/trailhead/internal/pkg/telemetry"
)

// NearbyQuery is a validated nearby-activity request.
type NearbyQuery struct {
	Reference   domain.GeoPoint
	RadiusMiles float64
	Filter      ActivityFilter
}

// ActivityOptions tunes ActivityService.
type ActivityOptions struct {
	DefaultBudgetMode BudgetMode
	MaxRadiusMiles    float64
	CacheTTLSeconds   int
}

// ActivityService handles activity catalog and discovery logic.
type ActivityService struct {
	activities ports.ActivityRepository
	cache      ports.CacheService
	events     ports.EventPublisher
	opts       ActivityOptions
}

// NewActivityService creates a new ActivityService. cache and events may be nil.
func NewActivityService(activities ports.ActivityRepository, cache ports.CacheService, events ports.EventPublisher, opts ActivityOptions) *ActivityService {
	if opts.DefaultBudgetMode == "" {
		opts.DefaultBudgetMode = BudgetCeiling
	}
	if opts.MaxRadiusMiles <= 0 {
		opts.MaxRadiusMiles = 500
	}
	if opts.CacheTTLSeconds <= 0 {
		opts.CacheTTLSeconds = 300
	}
	return &ActivityService{activities: activities, cache: cache, events: events, opts: opts}
}

// DefaultBudgetMode is the mode applied when a request does not choose one.
func (s *ActivityService) DefaultBudgetMode() BudgetMode {
	return s.opts.DefaultBudgetMode
}

// List returns every activity.
func (s *ActivityService) List(ctx context.Context) ([]domain.Activity, error) {
	return s.activities.List(ctx)
}

// GetByID returns a single activity.
func (s *ActivityService) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

// ListByCategory returns activities in category, compared case-insensitively.
func (s *ActivityService) ListByCategory(ctx context.Context, category string) ([]domain.Activity, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: category must not be empty", domain.ErrInvalid)
	}
	return s.activities.ListByCategory(ctx, category)
}

// ListByBudget returns activities at exactly level.
func (s *ActivityService) ListByBudget(ctx context.Context, level domain.BudgetLevel) ([]domain.Activity, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: invalid budget level, must be 1, 2, or 3", domain.ErrInvalid)
	}
	return s.activities.ListByBudget(ctx, level)
}

// Create validates and stores a new activity, then announces it.
func (s *ActivityService) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	if s.events != nil {
		// Best-effort; the activity is already stored.
		if err := s.events.PublishActivityCreated(ctx, a); err != nil {
			slog.WarnContext(ctx, "publish activity.created failed", "activity_id", a.ID, "error", err)
		}
	}
	return a, nil
}

// Validate rejects queries the ranking pipeline must never see.
func (q NearbyQuery) Validate(maxRadius float64) error {
	if err := q.Reference.Validate(); err != nil {
		return err
	}
	if math.IsNaN(q.RadiusMiles) || math.IsInf(q.RadiusMiles, 0) || q.RadiusMiles < 0 {
		return fmt.Errorf("%w: maxDistance must be a non-negative number", domain.ErrInvalid)
	}
	if q.RadiusMiles > maxRadius {
		return fmt.Errorf("%w: maxDistance must be at most %g miles", domain.ErrInvalid, maxRadius)
	}
	if q.Filter.Budget != 0 && !q.Filter.Budget.Valid() {
		return fmt.Errorf("%w: budget must be 1, 2, or 3", domain.ErrInvalid)
	}
	return nil
}

// Nearby returns activities within the query radius, nearest first.
func (s *ActivityService) Nearby(ctx context.Context, q NearbyQuery) ([]domain.NearbyActivity, error) {
	if q.Filter.BudgetMode == "" {
		q.Filter.BudgetMode = s.opts.DefaultBudgetMode
	}
	if err := q.Validate(s.opts.MaxRadiusMiles); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanNearby)
	defer span.End()
	span.SetAttributes(
		attribute.Float64("nearby.radius_miles", q.RadiusMiles),
		attribute.String("nearby.budget_mode", string(q.Filter.BudgetMode)),
	)
	metrics.NearbyQueries.WithLabelValues(string(q.Filter.BudgetMode)).Inc()

	// Try cache
	cacheKey := nearbyCacheKey(q)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var results []domain.NearbyActivity
			if err := json.Unmarshal(data, &results); err == nil {
				metrics.CacheHits.WithLabelValues("activities.nearby").Inc()
				return results, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("activities.nearby").Inc()
	}

	candidates, err := s.activities.ListInBounds(ctx, geospatial.BoundingBox(q.Reference, q.RadiusMiles))
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	results := RankNearby(candidates, q.Reference, q.RadiusMiles, q.Filter)
	metrics.NearbyResults.Observe(float64(len(results)))
	span.SetAttributes(attribute.Int("nearby.results", len(results)))

	if s.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.opts.CacheTTLSeconds)
		}
	}

	return results, nil
}

// Annotate ranks the whole catalog by distance from ref without a radius or filters.
func (s *ActivityService) Annotate(ctx context.Context, ref domain.GeoPoint) ([]domain.NearbyActivity, error) {
	all, err := s.activities.List(ctx)
	if err != nil {
		return nil, err
	}
	return RankNearby(all, ref, math.Inf(1), ActivityFilter{}), nil
}

// nearbyCacheKey keys on the exact reference; cached distances are only valid for it.
func nearbyCacheKey(q NearbyQuery) string {
	return fmt.Sprintf("activities:nearby:%s:%s:%g:%d:%s:%s:%s",
		strconv.FormatFloat(q.Reference.Lat, 'g', -1, 64),
		strconv.FormatFloat(q.Reference.Lon, 'g', -1, 64),
		q.RadiusMiles,
		q.Filter.Budget, q.Filter.BudgetMode,
		strings.ToLower(q.Filter.Category), strings.ToLower(q.Filter.Query))
}
