package ports

import (
	"context"
	"time"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishActivityCreated(ctx context.Context, a *domain.Activity) error
	PublishOrderPlaced(ctx context.Context, o *domain.Order) error
	PublishOrderStatus(ctx context.Context, o *domain.Order) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeActivityCreated(ctx context.Context, handler func(ctx context.Context, a *domain.Activity) error) error
	SubscribeOrderEvents(ctx context.Context, handler func(ctx context.Context, subject string, o *domain.Order) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// TokenRevoker records session tokens that were logged out before they expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RecommendationRequest carries the user context sent to the recommender.
type RecommendationRequest struct {
	Location           string             `json:"location"`
	Interests          []string           `json:"interests"`
	BudgetLevel        domain.BudgetLevel `json:"budgetLevel"`
	PreviousActivities []string           `json:"previousActivities"`
}

// CandidateActivity is the compact activity summary a recommender ranks.
type CandidateActivity struct {
	ID              int64              `json:"id"`
	Title           string             `json:"title"`
	Category        string             `json:"category"`
	BudgetLevel     domain.BudgetLevel `json:"budgetLevel"`
	Location        string             `json:"location"`
	DistanceInMiles *float64           `json:"distanceInMiles"`
	Tags            []string           `json:"tags"`
}

// RecommendationResult is the recommender's raw answer.
type RecommendationResult struct {
	ActivityIDs []int64
	Reasoning   string
}

// Recommender is a language-model backed ranking service treated as a black box.
type Recommender interface {
	Recommend(ctx context.Context, req RecommendationRequest, candidates []CandidateActivity) (*RecommendationResult, error)
}

// FulfillmentStarter kicks off asynchronous order fulfillment.
type FulfillmentStarter interface {
	StartFulfillment(ctx context.Context, orderID, userID int64) error
}
