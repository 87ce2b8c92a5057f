package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

const userColumns = `id, username, password_hash, display_name, preferences, location, latitude, longitude`

// UserRepo implements ports.UserRepository with pgx.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u        domain.User
		lat, lon *float64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.Preferences, &u.Location, &lat, &lon); err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		u.Point = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, display_name, preferences)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Username, u.PasswordHash, u.DisplayName, nonNilStrings(u.Preferences)).Scan(&u.ID)
	return mapErr(err, fmt.Sprintf("insert user %q", u.Username))
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("user %d", id))
	}
	return u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("user %q", username))
	}
	return u, nil
}

func (r *UserRepo) UpdateLocation(ctx context.Context, id int64, label string, point domain.GeoPoint) (*domain.User, error) {
	u, err := scanUser(r.db.Pool.QueryRow(ctx, `
		UPDATE users SET location = $2, latitude = $3, longitude = $4
		WHERE id = $1
		RETURNING `+userColumns, id, label, point.Lat, point.Lon))
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("user %d", id))
	}
	return u, nil
}

func (r *UserRepo) ListPreferences(ctx context.Context, userID int64) ([]domain.UserPreference, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, user_id, category_id, budget_level
		FROM user_preferences WHERE user_id = $1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	out := make([]domain.UserPreference, 0)
	for rows.Next() {
		var (
			p     domain.UserPreference
			level int16
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.CategoryID, &level); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		p.BudgetLevel = domain.BudgetLevel(level)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *UserRepo) AddPreference(ctx context.Context, p *domain.UserPreference) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO user_preferences (user_id, category_id, budget_level)
		VALUES ($1, $2, $3) RETURNING id
	`, p.UserID, p.CategoryID, int16(p.BudgetLevel)).Scan(&p.ID)
	return mapErr(err, "insert preference")
}
