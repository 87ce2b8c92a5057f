package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
)

const (
	tokenIssuer       = "trailhead"
	minPasswordLength = 6
)

// AuthOptions configures session signing and password hashing.
type AuthOptions struct {
	Secret     []byte
	TTL        time.Duration
	BcryptCost int
	Now        func() time.Time
}

// Session is a signed session token for a user.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Principal identifies the caller behind a verified token.
type Principal struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

// AuthService handles registration, login, and session tokens.
type AuthService struct {
	users      ports.UserRepository
	categories ports.CategoryRepository
	revoked    ports.TokenRevoker
	opts       AuthOptions
}

// NewAuthService creates a new AuthService.
func NewAuthService(users ports.UserRepository, categories ports.CategoryRepository, revoked ports.TokenRevoker, opts AuthOptions) *AuthService {
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AuthService{users: users, categories: categories, revoked: revoked, opts: opts}
}

// Register creates an account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, username, password, displayName string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalid)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalid, minPasswordLength)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{Username: username, PasswordHash: string(hash), DisplayName: displayName}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.issue(u)
}

// Login verifies credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalid)
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *domain.User) (*Session, error) {
	now := s.opts.Now()
	exp := now.Add(s.opts.TTL)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatInt(u.ID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.opts.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authenticate verifies a session token and reports who it belongs to.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.opts.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.opts.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid or expired session", domain.ErrUnauthorized)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return nil, fmt.Errorf("%w: malformed session", domain.ErrUnauthorized)
	}
	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: session has been logged out", domain.ErrUnauthorized)
		}
	}
	return &Principal{UserID: id, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Logout revokes the session until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, p *Principal) error {
	if s.revoked == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, p.TokenID, p.ExpiresAt)
}

// Me returns the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
	}
	return u, err
}

// UpdateLocation stores the user's home location.
func (s *AuthService) UpdateLocation(ctx context.Context, userID int64, label string, point domain.GeoPoint) (*domain.User, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	return s.users.UpdateLocation(ctx, userID, strings.TrimSpace(label), point)
}

// Preferences lists the user's saved category preferences.
func (s *AuthService) Preferences(ctx context.Context, userID int64) ([]domain.UserPreference, error) {
	return s.users.ListPreferences(ctx, userID)
}

// AddPreference saves a category and budget preference for the user.
func (s *AuthService) AddPreference(ctx context.Context, userID, categoryID int64, level domain.BudgetLevel) (*domain.UserPreference, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: budgetLevel must be 1, 2, or 3", domain.ErrInvalid)
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("category %d: %w", categoryID, err)
	}
	p := &domain.UserPreference{UserID: userID, CategoryID: categoryID, BudgetLevel: level}
	if err := s.users.AddPreference(ctx, p); err != nil {
		return nil, fmt.Errorf("add preference: %w", err)
	}
	return p, nil
}
