package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/samirrijal/trailhead/internal/adapters/memory"
	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/usecases"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newAuth(store *memory.Store, now func() time.Time) *usecases.AuthService {
	return usecases.NewAuthService(store.Users(), store.Categories(), memory.NewRevocations(), usecases.AuthOptions{
		Secret:     testSecret,
		TTL:        time.Hour,
		BcryptCost: bcrypt.MinCost,
		Now:        now,
	})
}

func TestAuthService_RegisterLoginAuthenticate(t *testing.T) {
	store := memory.NewSeeded()
	auth := newAuth(store, time.Now)
	ctx := context.Background()

	reg, err := auth.Register(ctx, "hiker", "secret1", "Happy Hiker")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.User.PasswordHash == "secret1" || reg.User.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	login, err := auth.Login(ctx, "hiker", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	p, err := auth.Authenticate(ctx, login.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.UserID != reg.User.ID {
		t.Errorf("expected user %d, got %d", reg.User.ID, p.UserID)
	}

	me, err := auth.Me(ctx, p.UserID)
	if err != nil || me.Username != "hiker" {
		t.Fatalf("me: %v %+v", err, me)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	auth := newAuth(memory.NewSeeded(), time.Now)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "", "secret1", ""); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("empty username: expected ErrInvalid, got %v", err)
	}
	if _, err := auth.Register(ctx, "shorty", "12345", ""); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("short password: expected ErrInvalid, got %v", err)
	}
	if _, err := auth.Register(ctx, "taken", "secret1", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := auth.Register(ctx, "taken", "secret2", ""); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate: expected ErrConflict, got %v", err)
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	auth := newAuth(memory.NewSeeded(), time.Now)
	ctx := context.Background()
	_, _ = auth.Register(ctx, "hiker", "secret1", "")

	if _, err := auth.Login(ctx, "hiker", "wrong!"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("wrong password: expected ErrUnauthorized, got %v", err)
	}
	if _, err := auth.Login(ctx, "nobody", "secret1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("unknown user: expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsBadTokens(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewSeeded()
	auth := newAuth(store, func() time.Time { return now })
	ctx := context.Background()
	sess, _ := auth.Register(ctx, "hiker", "secret1", "")

	other := usecases.NewAuthService(store.Users(), store.Categories(), nil, usecases.AuthOptions{
		Secret: []byte("ffffffffffffffffffffffffffffffff"), BcryptCost: bcrypt.MinCost, Now: func() time.Time { return now },
	})
	if _, err := other.Authenticate(ctx, sess.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("foreign signature: expected ErrUnauthorized, got %v", err)
	}
	if _, err := auth.Authenticate(ctx, "not-a-jwt"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("garbage: expected ErrUnauthorized, got %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := auth.Authenticate(ctx, sess.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expired: expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	auth := newAuth(memory.NewSeeded(), time.Now)
	ctx := context.Background()
	sess, _ := auth.Register(ctx, "hiker", "secret1", "")

	p, err := auth.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := auth.Logout(ctx, p); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, err = auth.Authenticate(ctx, sess.Token)
	if !errors.Is(err, domain.ErrUnauthorized) || !strings.Contains(err.Error(), "logged out") {
		t.Fatalf("expected logged-out error, got %v", err)
	}
}

func TestAuthService_UpdateLocation(t *testing.T) {
	auth := newAuth(memory.NewSeeded(), time.Now)
	ctx := context.Background()
	sess, _ := auth.Register(ctx, "hiker", "secret1", "")

	if _, err := auth.UpdateLocation(ctx, sess.User.ID, "Nowhere", domain.GeoPoint{Lat: 100, Lon: 0}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	u, err := auth.UpdateLocation(ctx, sess.User.ID, " Seattle, WA ", seattle)
	if err != nil {
		t.Fatalf("update location: %v", err)
	}
	if u.Location != "Seattle, WA" || u.Point == nil || *u.Point != seattle {
		t.Errorf("unexpected user location: %+v", u)
	}
}

func TestAuthService_Preferences(t *testing.T) {
	auth := newAuth(memory.NewSeeded(), time.Now)
	ctx := context.Background()
	sess, _ := auth.Register(ctx, "hiker", "secret1", "")

	if _, err := auth.AddPreference(ctx, sess.User.ID, 42, domain.BudgetLow); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown category: expected ErrNotFound, got %v", err)
	}
	if _, err := auth.AddPreference(ctx, sess.User.ID, 1, 0); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("bad budget: expected ErrInvalid, got %v", err)
	}
	if _, err := auth.AddPreference(ctx, sess.User.ID, 1, domain.BudgetLow); err != nil {
		t.Fatalf("add preference: %v", err)
	}
	prefs, _ := auth.Preferences(ctx, sess.User.ID)
	if len(prefs) != 1 || prefs[0].CategoryID != 1 {
		t.Errorf("unexpected preferences: %+v", prefs)
	}
}
