package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/usecases"
)

// paramID parses a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListActivitiesHandler returns every activity, paginated.
func ListActivitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		activities, err := deps.Activities.List(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(paginate(c, activities))
	}
}

// GetActivityHandler returns a single activity by ID.
func GetActivityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid activity id")
		}
		a, err := deps.Activities.GetByID(c.UserContext(), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(a)
	}
}

// ActivitiesByCategoryHandler lists activities in a category.
func ActivitiesByCategoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		activities, err := deps.Activities.ListByCategory(c.UserContext(), c.Params("category"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(paginate(c, activities))
	}
}

// ActivitiesByBudgetHandler lists activities at exactly the given budget tier.
func ActivitiesByBudgetHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		level, err := strconv.Atoi(c.Params("level"))
		if err != nil {
			return errBadRequest(c, "invalid budget level, must be 1, 2, or 3")
		}
		activities, err := deps.Activities.ListByBudget(c.UserContext(), domain.BudgetLevel(level))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(paginate(c, activities))
	}
}

// CreateActivityHandler stores a new activity.
func CreateActivityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var a domain.Activity
		if err := c.BodyParser(&a); err != nil {
			return errBadRequest(c, "invalid activity payload")
		}
		a.ID = 0
		created, err := deps.Activities.Create(c.UserContext(), &a)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// queryFloat parses an optional float query parameter.
func queryFloat(c *fiber.Ctx, name string, def float64) (float64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	return v, err == nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalid, msg)
}

// parseNearbyQuery turns query parameters into a nearby query. Range checks happen in the
// service; this only rejects what cannot be parsed.
func parseNearbyQuery(c *fiber.Ctx, deps *Dependencies) (usecases.NearbyQuery, error) {
	var q usecases.NearbyQuery
	if c.Query("latitude") == "" || c.Query("longitude") == "" {
		return q, invalid("latitude and longitude are required")
	}
	lat, ok := queryFloat(c, "latitude", 0)
	if !ok {
		return q, invalid("latitude must be a number")
	}
	lon, ok := queryFloat(c, "longitude", 0)
	if !ok {
		return q, invalid("longitude must be a number")
	}
	radius, ok := queryFloat(c, "maxDistance", deps.defaultRadius())
	if !ok {
		return q, invalid("maxDistance must be a number")
	}

	var budget int
	if raw := c.Query("budget"); raw != "" {
		b, err := strconv.Atoi(raw)
		if err != nil {
			return q, invalid("budget must be 1, 2, or 3")
		}
		budget = b
	}
	mode, err := usecases.ParseBudgetMode(c.Query("budgetMatch"), deps.Activities.DefaultBudgetMode())
	if err != nil {
		return q, err
	}

	q.Reference = domain.GeoPoint{Lat: lat, Lon: lon}
	q.RadiusMiles = radius
	q.Filter = usecases.ActivityFilter{
		Budget:     domain.BudgetLevel(budget),
		BudgetMode: mode,
		Category:   strings.TrimSpace(c.Query("category")),
		Query:      strings.TrimSpace(c.Query("q")),
	}
	return q, nil
}

// NearbyActivitiesHandler returns activities within maxDistance miles, nearest first,
// each annotated with distanceInMiles.
func NearbyActivitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := parseNearbyQuery(c, deps)
		if err != nil {
			return fail(c, err)
		}
		results, err := deps.Activities.Nearby(c.UserContext(), q)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(paginate(c, results))
	}
}

// ListCategoriesHandler returns every category.
func ListCategoriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := deps.Categories.List(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(categories)
	}
}

// GetCategoryHandler returns a category by ID.
func GetCategoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid category id")
		}
		cat, err := deps.Categories.GetByID(c.UserContext(), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(cat)
	}
}

type recommendationRequest struct {
	Location           string           `json:"location"`
	Interests          []string         `json:"interests"`
	BudgetLevel        int              `json:"budgetLevel"`
	PreviousActivities []string         `json:"previousActivities"`
	Coordinates        *domain.GeoPoint `json:"coordinates"`
}

// RecommendationsHandler asks the recommender for activities that suit the caller.
func RecommendationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req recommendationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request data")
		}
		rec, err := deps.Recommendations.Recommend(c.UserContext(), usecases.RecommendationInput{
			Location:           req.Location,
			Interests:          req.Interests,
			BudgetLevel:        domain.BudgetLevel(req.BudgetLevel),
			PreviousActivities: req.PreviousActivities,
			Coordinates:        req.Coordinates,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(rec)
	}
}
