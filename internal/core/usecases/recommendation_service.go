package usecases

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
	"github.com/samirrijal/trailhead/internal/pkg/metrics"
	"github.com/samirrijal/trailhead/internal/pkg/telemetry"
)

const defaultReasoning = "Based on your preferences"

// RecommendationInput is a user's request for activity suggestions.
type RecommendationInput struct {
	Location           string
	Interests          []string
	BudgetLevel        domain.BudgetLevel
	PreviousActivities []string
	Coordinates        *domain.GeoPoint
}

// RecommendationService asks a language model to pick activities from the catalog.
type RecommendationService struct {
	activities  ports.ActivityRepository
	recommender ports.Recommender
}

// NewRecommendationService creates a new RecommendationService. A nil recommender makes
// every call fail with domain.ErrUnavailable.
func NewRecommendationService(activities ports.ActivityRepository, recommender ports.Recommender) *RecommendationService {
	return &RecommendationService{activities: activities, recommender: recommender}
}

// Recommend returns the activities the recommender picked, in its order.
func (s *RecommendationService) Recommend(ctx context.Context, in RecommendationInput) (*domain.Recommendation, error) {
	if strings.TrimSpace(in.Location) == "" {
		return nil, fmt.Errorf("%w: location is required", domain.ErrInvalid)
	}
	if in.BudgetLevel == 0 {
		in.BudgetLevel = domain.BudgetMedium
	}
	if !in.BudgetLevel.Valid() {
		return nil, fmt.Errorf("%w: budgetLevel must be 1, 2, or 3", domain.ErrInvalid)
	}
	if in.Coordinates != nil {
		if err := in.Coordinates.Validate(); err != nil {
			return nil, err
		}
	}
	if s.recommender == nil {
		metrics.RecommendationCalls.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("%w: recommendations are not configured", domain.ErrUnavailable)
	}

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRecommend)
	defer span.End()

	all, err := s.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	candidates := buildCandidates(all, in.Coordinates)

	req := ports.RecommendationRequest{
		Location:           in.Location,
		Interests:          nonNil(in.Interests),
		BudgetLevel:        in.BudgetLevel,
		PreviousActivities: nonNil(in.PreviousActivities),
	}

	start := time.Now()
	res, err := s.recommender.Recommend(ctx, req, candidates)
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecommendationCalls.WithLabelValues("error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("%w: failed to generate recommendations: %v", domain.ErrUnavailable, err)
	}
	metrics.RecommendationCalls.WithLabelValues("ok").Inc()

	byID := make(map[int64]domain.Activity, len(all))
	for _, a := range all {
		byID[a.ID] = a
	}
	picked := make([]domain.Activity, 0, len(res.ActivityIDs))
	seen := make(map[int64]bool, len(res.ActivityIDs))
	for _, id := range res.ActivityIDs {
		a, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		picked = append(picked, a)
	}

	reasoning := strings.TrimSpace(res.Reasoning)
	if reasoning == "" {
		reasoning = defaultReasoning
	}
	return &domain.Recommendation{Activities: picked, Reasoning: reasoning}, nil
}

// buildCandidates summarises the catalog for the recommender. With a reference point every
// candidate carries a freshly computed distance, nearest first; otherwise distances are nil.
func buildCandidates(all []domain.Activity, ref *domain.GeoPoint) []ports.CandidateActivity {
	out := make([]ports.CandidateActivity, 0, len(all))
	if ref != nil {
		for _, n := range RankNearby(all, *ref, math.Inf(1), ActivityFilter{}) {
			out = append(out, candidate(&n.Activity, n.DistanceInMiles))
		}
		return out
	}
	for i := range all {
		out = append(out, candidate(&all[i], nil))
	}
	return out
}

func candidate(a *domain.Activity, dist *float64) ports.CandidateActivity {
	return ports.CandidateActivity{
		ID:              a.ID,
		Title:           a.Title,
		Category:        a.Category,
		BudgetLevel:     a.BudgetLevel,
		Location:        a.Location,
		DistanceInMiles: dist,
		Tags:            nonNil(a.Tags),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
