package usecases

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/pkg/geospatial"
)

// BudgetMode selects how the budget filter compares activity tiers to the requested tier.
type BudgetMode string

const (
	// BudgetCeiling keeps activities at or below the requested tier.
	BudgetCeiling BudgetMode = "ceiling"
	// BudgetExact keeps activities whose tier equals the requested tier.
	BudgetExact BudgetMode = "exact"
)

// ParseBudgetMode maps a config or query value to a BudgetMode.
// An empty string yields fallback.
func ParseBudgetMode(s string, fallback BudgetMode) (BudgetMode, error) {
	switch BudgetMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return fallback, nil
	case BudgetCeiling:
		return BudgetCeiling, nil
	case BudgetExact:
		return BudgetExact, nil
	}
	return "", fmt.Errorf("%w: budget mode %q must be %q or %q", domain.ErrInvalid, s, BudgetCeiling, BudgetExact)
}

// ActivityFilter narrows a nearby query. Zero-valued fields admit everything.
type ActivityFilter struct {
	Budget     domain.BudgetLevel
	BudgetMode BudgetMode
	Category   string
	Query      string
}

func (f ActivityFilter) admits(a *domain.Activity) bool {
	if f.Budget != 0 {
		if f.BudgetMode == BudgetExact {
			if a.BudgetLevel != f.Budget {
				return false
			}
		} else if a.BudgetLevel > f.Budget {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(a.Category, f.Category) {
		return false
	}
	if f.Query != "" && !matchesText(a, strings.ToLower(f.Query)) {
		return false
	}
	return true
}

func matchesText(a *domain.Activity, needle string) bool {
	if strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Description), needle) ||
		strings.Contains(strings.ToLower(a.Location), needle) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// RankNearby annotates each candidate with its distance from ref, keeps those within
// maxMiles that pass f, and returns them nearest first. Candidates without coordinates
// sort as infinitely far away, so they only survive an infinite radius.
// Candidates are copied; the input slice is neither reordered nor modified.
func RankNearby(candidates []domain.Activity, ref domain.GeoPoint, maxMiles float64, f ActivityFilter) []domain.NearbyActivity {
	out := make([]domain.NearbyActivity, 0, len(candidates))
	for i := range candidates {
		a := &candidates[i]
		var dist *float64
		if a.Point != nil {
			d := geospatial.DistanceMiles(ref, *a.Point)
			dist = &d
		}
		if !(effectiveDistance(dist) <= maxMiles) {
			continue
		}
		if !f.admits(a) {
			continue
		}
		out = append(out, domain.NearbyActivity{Activity: *a, DistanceInMiles: dist})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return effectiveDistance(out[i].DistanceInMiles) < effectiveDistance(out[j].DistanceInMiles)
	})
	return out
}

func effectiveDistance(d *float64) float64 {
	if d == nil {
		return math.Inf(1)
	}
	return *d
}

// Page returns the [offset, offset+limit) window of items. limit <= 0 means no limit.
func Page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
