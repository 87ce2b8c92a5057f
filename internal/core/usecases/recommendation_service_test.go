package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
	"github.com/samirrijal/trailhead/internal/core/usecases"
)

func catalogRepo() *mockActivityRepo {
	return &mockActivityRepo{listFn: func(ctx context.Context) ([]domain.Activity, error) {
		return seededActivities(), nil
	}}
}

func TestRecommendationService_KeepsKnownIDsInOrder(t *testing.T) {
	rec := &mockRecommender{recommendFn: func(ctx context.Context, req ports.RecommendationRequest, c []ports.CandidateActivity) (*ports.RecommendationResult, error) {
		return &ports.RecommendationResult{ActivityIDs: []int64{5, 42, 1, 5}, Reasoning: "Close and cheap"}, nil
	}}
	svc := usecases.NewRecommendationService(catalogRepo(), rec)

	got, err := svc.Recommend(context.Background(), usecases.RecommendationInput{Location: "Seattle"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Activities) != 2 || got.Activities[0].ID != 5 || got.Activities[1].ID != 1 {
		t.Errorf("unexpected picks: %+v", got.Activities)
	}
	if got.Reasoning != "Close and cheap" {
		t.Errorf("unexpected reasoning %q", got.Reasoning)
	}
}

func TestRecommendationService_DefaultsAndCandidates(t *testing.T) {
	var gotReq ports.RecommendationRequest
	var gotCandidates []ports.CandidateActivity
	rec := &mockRecommender{recommendFn: func(ctx context.Context, req ports.RecommendationRequest, c []ports.CandidateActivity) (*ports.RecommendationResult, error) {
		gotReq, gotCandidates = req, c
		return &ports.RecommendationResult{}, nil
	}}
	svc := usecases.NewRecommendationService(catalogRepo(), rec)

	got, err := svc.Recommend(context.Background(), usecases.RecommendationInput{Location: "Seattle"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Reasoning != "Based on your preferences" {
		t.Errorf("expected default reasoning, got %q", got.Reasoning)
	}
	if gotReq.BudgetLevel != domain.BudgetMedium || gotReq.Interests == nil {
		t.Errorf("expected medium budget and non-nil interests, got %+v", gotReq)
	}
	if len(gotCandidates) != 6 || gotCandidates[0].DistanceInMiles != nil {
		t.Errorf("without coordinates candidates carry no distance")
	}
}

func TestRecommendationService_CoordinatesAnnotateCandidates(t *testing.T) {
	var gotCandidates []ports.CandidateActivity
	rec := &mockRecommender{recommendFn: func(ctx context.Context, req ports.RecommendationRequest, c []ports.CandidateActivity) (*ports.RecommendationResult, error) {
		gotCandidates = c
		return &ports.RecommendationResult{}, nil
	}}
	svc := usecases.NewRecommendationService(catalogRepo(), rec)

	ref := seattle
	_, err := svc.Recommend(context.Background(), usecases.RecommendationInput{Location: "Seattle", Coordinates: &ref})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotCandidates) != 6 {
		t.Fatalf("expected 6 candidates, got %d", len(gotCandidates))
	}
	if gotCandidates[0].ID != 2 || gotCandidates[0].DistanceInMiles == nil || *gotCandidates[0].DistanceInMiles != 3.9 {
		t.Errorf("expected Alki first at 3.9 miles, got %+v", gotCandidates[0])
	}
}

func TestRecommendationService_Errors(t *testing.T) {
	ctx := context.Background()

	unconfigured := usecases.NewRecommendationService(catalogRepo(), nil)
	if _, err := unconfigured.Recommend(ctx, usecases.RecommendationInput{Location: "Seattle"}); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("no recommender: expected ErrUnavailable, got %v", err)
	}
	if _, err := unconfigured.Recommend(ctx, usecases.RecommendationInput{}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("missing location: expected ErrInvalid, got %v", err)
	}
	if _, err := unconfigured.Recommend(ctx, usecases.RecommendationInput{Location: "x", BudgetLevel: 4}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("bad budget: expected ErrInvalid, got %v", err)
	}

	failing := usecases.NewRecommendationService(catalogRepo(), &mockRecommender{
		recommendFn: func(ctx context.Context, req ports.RecommendationRequest, c []ports.CandidateActivity) (*ports.RecommendationResult, error) {
			return nil, errors.New("rate limited")
		},
	})
	if _, err := failing.Recommend(ctx, usecases.RecommendationInput{Location: "Seattle"}); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("backend failure: expected ErrUnavailable, got %v", err)
	}
}
