package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/usecases"
)

// activityFields flattens an activity (and optional distance) for the GraphQL resolvers.
func activityFields(a *domain.Activity, distance *float64) map[string]interface{} {
	m := map[string]interface{}{
		"id":          a.ID,
		"title":       a.Title,
		"description": a.Description,
		"imageUrl":    a.ImageURL,
		"location":    a.Location,
		"startDate":   a.StartDate.Format(time.RFC3339),
		"endDate":     a.EndDate.Format(time.RFC3339),
		"budgetLevel": int(a.BudgetLevel),
		"price":       a.Price,
		"category":    a.Category,
		"tags":        a.Tags,
		"hostName":    a.HostName,
		"isFeatured":  a.IsFeatured,
	}
	if a.Point != nil {
		m["latitude"] = a.Point.Lat
		m["longitude"] = a.Point.Lon
	}
	if distance != nil {
		m["distanceInMiles"] = *distance
	}
	return m
}

func activityList(as []domain.Activity) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(as))
	for i := range as {
		out = append(out, activityFields(&as[i], nil))
	}
	return out
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	activityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Activity",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.Int},
			"title":           &graphql.Field{Type: graphql.String},
			"description":     &graphql.Field{Type: graphql.String},
			"imageUrl":        &graphql.Field{Type: graphql.String},
			"location":        &graphql.Field{Type: graphql.String},
			"latitude":        &graphql.Field{Type: graphql.Float},
			"longitude":       &graphql.Field{Type: graphql.Float},
			"startDate":       &graphql.Field{Type: graphql.String},
			"endDate":         &graphql.Field{Type: graphql.String},
			"budgetLevel":     &graphql.Field{Type: graphql.Int},
			"price":           &graphql.Field{Type: graphql.String},
			"category":        &graphql.Field{Type: graphql.String},
			"tags":            &graphql.Field{Type: graphql.NewList(graphql.String)},
			"hostName":        &graphql.Field{Type: graphql.String},
			"isFeatured":      &graphql.Field{Type: graphql.Boolean},
			"distanceInMiles": &graphql.Field{Type: graphql.Float},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.Int},
			"name": &graphql.Field{Type: graphql.String},
			"icon": &graphql.Field{Type: graphql.String},
		},
	})

	bookType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.Int},
			"title":         &graphql.Field{Type: graphql.String},
			"author":        &graphql.Field{Type: graphql.String},
			"description":   &graphql.Field{Type: graphql.String},
			"price":         &graphql.Field{Type: graphql.String},
			"isbn":          &graphql.Field{Type: graphql.String},
			"category":      &graphql.Field{Type: graphql.String},
			"stockQuantity": &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"activities": &graphql.Field{
				Type:        graphql.NewList(activityType),
				Description: "List activities, optionally by category or exact budget tier",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"budget":   &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var (
						as  []domain.Activity
						err error
					)
					switch {
					case p.Args["category"] != nil:
						as, err = deps.Activities.ListByCategory(p.Context, p.Args["category"].(string))
					case p.Args["budget"] != nil:
						as, err = deps.Activities.ListByBudget(p.Context, domain.BudgetLevel(p.Args["budget"].(int)))
					default:
						as, err = deps.Activities.List(p.Context)
					}
					if err != nil {
						return nil, err
					}
					return activityList(as), nil
				},
			},
			"activity": &graphql.Field{
				Type:        activityType,
				Description: "Get an activity by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					a, err := deps.Activities.GetByID(p.Context, int64(p.Args["id"].(int)))
					if err != nil {
						return nil, err
					}
					return activityFields(a, nil), nil
				},
			},
			"nearbyActivities": &graphql.Field{
				Type:        graphql.NewList(activityType),
				Description: "Activities within maxDistance miles of a point, nearest first",
				Args: graphql.FieldConfigArgument{
					"latitude":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"maxDistance": &graphql.ArgumentConfig{Type: graphql.Float},
					"budget":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"budgetMatch": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"category":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"q":           &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"offset":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultPageLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					radius := deps.defaultRadius()
					if v, ok := p.Args["maxDistance"].(float64); ok {
						radius = v
					}
					mode, err := usecases.ParseBudgetMode(p.Args["budgetMatch"].(string), deps.Activities.DefaultBudgetMode())
					if err != nil {
						return nil, err
					}
					results, err := deps.Activities.Nearby(p.Context, usecases.NearbyQuery{
						Reference:   domain.GeoPoint{Lat: p.Args["latitude"].(float64), Lon: p.Args["longitude"].(float64)},
						RadiusMiles: radius,
						Filter: usecases.ActivityFilter{
							Budget:     domain.BudgetLevel(p.Args["budget"].(int)),
							BudgetMode: mode,
							Category:   p.Args["category"].(string),
							Query:      p.Args["q"].(string),
						},
					})
					if err != nil {
						return nil, err
					}
					page := clampPagination(p.Args["offset"].(int), p.Args["limit"].(int))
					results = usecases.Page(results, page.Offset, page.Limit)
					out := make([]map[string]interface{}, 0, len(results))
					for i := range results {
						out = append(out, activityFields(&results[i].Activity, results[i].DistanceInMiles))
					}
					return out, nil
				},
			},
			"categories": &graphql.Field{
				Type:        graphql.NewList(categoryType),
				Description: "List all categories",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Categories.List(p.Context)
				},
			},
			"books": &graphql.Field{
				Type:        graphql.NewList(bookType),
				Description: "List books, optionally by category",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if cat, ok := p.Args["category"].(string); ok {
						return deps.Books.ListByCategory(p.Context, cat)
					}
					return deps.Books.List(p.Context)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
