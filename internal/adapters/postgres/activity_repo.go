package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

const activityColumns = `
	id, title, description, image_url, location, latitude, longitude,
	start_date, end_date, budget_level, price, category, tags,
	host_name, host_title, host_image_url, requirements, is_featured`

// ActivityRepo implements ports.ActivityRepository with pgx.
type ActivityRepo struct {
	db *DB
}

// NewActivityRepo creates a new ActivityRepo.
func NewActivityRepo(db *DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func scanActivity(row pgx.Row) (domain.Activity, error) {
	var (
		a        domain.Activity
		lat, lon *float64
		level    int16
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.ImageURL, &a.Location, &lat, &lon,
		&a.StartDate, &a.EndDate, &level, &a.Price, &a.Category, &a.Tags,
		&a.HostName, &a.HostTitle, &a.HostImageURL, &a.Requirements, &a.IsFeatured,
	)
	if err != nil {
		return a, err
	}
	a.BudgetLevel = domain.BudgetLevel(level)
	if lat != nil && lon != nil {
		a.Point = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return a, nil
}

func (r *ActivityRepo) query(ctx context.Context, sql string, args ...any) ([]domain.Activity, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts a new activity and sets its ID.
func (r *ActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	var lat, lon *float64
	if a.Point != nil {
		lat, lon = &a.Point.Lat, &a.Point.Lon
	}
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO activities (title, description, image_url, location, latitude, longitude,
		                        start_date, end_date, budget_level, price, category, tags,
		                        host_name, host_title, host_image_url, requirements, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`, a.Title, a.Description, a.ImageURL, a.Location, lat, lon,
		a.StartDate, a.EndDate, int16(a.BudgetLevel), a.Price, a.Category, nonNilStrings(a.Tags),
		a.HostName, a.HostTitle, a.HostImageURL, nonNilStrings(a.Requirements), a.IsFeatured,
	).Scan(&a.ID)
	return mapErr(err, "insert activity")
}

// GetByID returns a single activity.
func (r *ActivityRepo) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	a, err := scanActivity(r.db.Pool.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("activity %d", id))
	}
	return &a, nil
}

// GetByIDs returns the activities with the given IDs, ordered by id.
func (r *ActivityRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Activity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.query(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ANY($1) ORDER BY id`, ids)
}

// List returns every activity ordered by id.
func (r *ActivityRepo) List(ctx context.Context) ([]domain.Activity, error) {
	return r.query(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY id`)
}

// ListByCategory matches category case-insensitively.
func (r *ActivityRepo) ListByCategory(ctx context.Context, category string) ([]domain.Activity, error) {
	return r.query(ctx, `SELECT `+activityColumns+` FROM activities WHERE lower(category) = lower($1) ORDER BY id`, category)
}

// ListByBudget returns activities at exactly level.
func (r *ActivityRepo) ListByBudget(ctx context.Context, level domain.BudgetLevel) ([]domain.Activity, error) {
	return r.query(ctx, `SELECT `+activityColumns+` FROM activities WHERE budget_level = $1 ORDER BY id`, int16(level))
}

// ListInBounds returns located activities inside b, edges included.
func (r *ActivityRepo) ListInBounds(ctx context.Context, b domain.Bounds) ([]domain.Activity, error) {
	return r.query(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY id
	`, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
