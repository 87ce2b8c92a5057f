package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/samirrijal/trailhead/internal/core/ports"
)

const systemPrompt = `You are an outdoor adventure recommendation system.
Based on the user's location, interests, budget level, and previous activities,
recommend 2-3 outdoor activities or events from the provided list.
Format your response as JSON with an array of event IDs under "recommendedEvents"
and a short explanation under "reasoning".
Consider the user's budget constraints and proximity to activities.`

// Options configures the chat completion client.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Recommender implements ports.Recommender with OpenAI chat completions in JSON mode.
type Recommender struct {
	client  *goopenai.Client
	model   string
	timeout time.Duration
}

// New builds a recommender. An empty model selects gpt-4o.
func New(opts Options) *Recommender {
	cfg := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Model == "" {
		opts.Model = goopenai.GPT4o
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Recommender{
		client:  goopenai.NewClientWithConfig(cfg),
		model:   opts.Model,
		timeout: opts.Timeout,
	}
}

type userPreferences struct {
	Location           string   `json:"location"`
	Interests          []string `json:"interests"`
	BudgetLevel        int      `json:"budgetLevel"`
	PreviousActivities []string `json:"previousActivities"`
}

type promptPayload struct {
	UserPreferences userPreferences           `json:"userPreferences"`
	AvailableEvents []ports.CandidateActivity `json:"availableEvents"`
}

type answer struct {
	RecommendedEvents []json.RawMessage `json:"recommendedEvents"`
	Reasoning         string            `json:"reasoning"`
}

func (r *Recommender) Recommend(ctx context.Context, req ports.RecommendationRequest, candidates []ports.CandidateActivity) (*ports.RecommendationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	payload := promptPayload{
		UserPreferences: userPreferences{
			Location:           req.Location,
			Interests:          orEmpty(req.Interests),
			BudgetLevel:        int(req.BudgetLevel),
			PreviousActivities: orEmpty(req.PreviousActivities),
		},
		AvailableEvents: candidates,
	}
	user, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode prompt: %w", err)
	}

	resp, err := r.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: r.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: string(user)},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion: no choices returned")
	}
	return parseAnswer(resp.Choices[0].Message.Content)
}

// parseAnswer accepts ids as numbers, numeric strings or objects carrying an "id".
func parseAnswer(content string) (*ports.RecommendationResult, error) {
	var a answer
	if err := json.Unmarshal([]byte(content), &a); err != nil {
		return nil, fmt.Errorf("decode recommendation: %w", err)
	}

	out := &ports.RecommendationResult{Reasoning: a.Reasoning}
	for _, raw := range a.RecommendedEvents {
		if id, ok := parseID(raw); ok {
			out.ActivityIDs = append(out.ActivityIDs, id)
		}
	}
	return out, nil
}

func parseID(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}
	var obj struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && len(obj.ID) > 0 && obj.ID[0] != '{' {
		return parseID(obj.ID)
	}
	return 0, false
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
