package domain

import (
	"fmt"
	"strings"
	"time"
)

// BudgetLevel is the affordability tier of an activity.
type BudgetLevel int

const (
	BudgetLow    BudgetLevel = 1
	BudgetMedium BudgetLevel = 2
	BudgetHigh   BudgetLevel = 3
)

// Valid reports whether b is one of the three defined tiers.
func (b BudgetLevel) Valid() bool {
	return b >= BudgetLow && b <= BudgetHigh
}

func (b BudgetLevel) String() string {
	switch b {
	case BudgetLow:
		return "low"
	case BudgetMedium:
		return "medium"
	case BudgetHigh:
		return "high"
	default:
		return fmt.Sprintf("BudgetLevel(%d)", int(b))
	}
}

// Activity is a discoverable outdoor event or listing.
type Activity struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	Location     string      `json:"location"`
	Point        *GeoPoint   `json:"point,omitempty"` // nil for online-only or unmapped activities
	StartDate    time.Time   `json:"startDate"`
	EndDate      time.Time   `json:"endDate"`
	BudgetLevel  BudgetLevel `json:"budgetLevel"`
	Price        string      `json:"price,omitempty"`
	Category     string      `json:"category"`
	Tags         []string    `json:"tags,omitempty"`
	HostName     string      `json:"hostName,omitempty"`
	HostTitle    string      `json:"hostTitle,omitempty"`
	HostImageURL string      `json:"hostImageUrl,omitempty"`
	Requirements []string    `json:"requirements,omitempty"`
	IsFeatured   bool        `json:"isFeatured"`
}

// Validate checks the fields an administrative create must carry.
func (a *Activity) Validate() error {
	var problems []string
	if strings.TrimSpace(a.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(a.Category) == "" {
		problems = append(problems, "category is required")
	}
	if strings.TrimSpace(a.Location) == "" {
		problems = append(problems, "location is required")
	}
	if !a.BudgetLevel.Valid() {
		problems = append(problems, "budgetLevel must be 1, 2, or 3")
	}
	if a.StartDate.IsZero() || a.EndDate.IsZero() {
		problems = append(problems, "startDate and endDate are required")
	} else if a.EndDate.Before(a.StartDate) {
		problems = append(problems, "endDate must not be before startDate")
	}
	if a.Point != nil {
		if err := a.Point.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// NearbyActivity is a query-scoped view of an Activity annotated with its distance from
// the caller's reference point. It is never persisted.
type NearbyActivity struct {
	Activity
	DistanceInMiles *float64 `json:"distanceInMiles"` // nil when the activity has no coordinates
}

// Category groups activities (Hiking, Kayaking, ...).
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Recommendation is the outcome of an AI-assisted recommendation request.
type Recommendation struct {
	Activities []Activity `json:"recommendations"`
	Reasoning  string     `json:"reasoning"`
}
