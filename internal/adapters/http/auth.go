package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/usecases"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "trailhead_session"

const principalKey = "principal"

// bearerToken reads the session from the cookie, falling back to an Authorization header.
func bearerToken(c *fiber.Ctx) string {
	if tok := c.Cookies(SessionCookie); tok != "" {
		return tok
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// RequireAuth rejects requests without a valid session and stores the caller's
// *usecases.Principal in Locals.
func RequireAuth(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return errUnauthorized(c, "not authenticated")
		}
		p, err := deps.Auth.Authenticate(c.UserContext(), tok)
		if err != nil {
			return fail(c, err)
		}
		c.Locals(principalKey, p)
		return c.Next()
	}
}

func principal(c *fiber.Ctx) *usecases.Principal {
	p, _ := c.Locals(principalKey).(*usecases.Principal)
	return p
}

func setSessionCookie(c *fiber.Ctx, deps *Dependencies, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   deps.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

type credentials struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type sessionResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func writeSession(c *fiber.Ctx, deps *Dependencies, status int, s *usecases.Session) error {
	setSessionCookie(c, deps, s.Token, s.ExpiresAt)
	return c.Status(status).JSON(sessionResponse{User: s.User, Token: s.Token, ExpiresAt: s.ExpiresAt})
}

// RegisterHandler creates an account and logs it in.
func RegisterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentials
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid user data")
		}
		s, err := deps.Auth.Register(c.UserContext(), req.Username, req.Password, req.DisplayName)
		if err != nil {
			return fail(c, err)
		}
		return writeSession(c, deps, fiber.StatusCreated, s)
	}
}

// LoginHandler exchanges credentials for a session.
func LoginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentials
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid login data")
		}
		s, err := deps.Auth.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return fail(c, err)
		}
		return writeSession(c, deps, fiber.StatusOK, s)
	}
}

// LogoutHandler revokes the current session and clears the cookie.
func LogoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Auth.Logout(c.UserContext(), principal(c)); err != nil {
			return fail(c, err)
		}
		setSessionCookie(c, deps, "", time.Unix(0, 0))
		return c.JSON(fiber.Map{"message": "Logged out successfully"})
	}
}

// MeHandler returns the authenticated user.
func MeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := deps.Auth.Me(c.UserContext(), principal(c).UserID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(u)
	}
}

type locationRequest struct {
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateLocationHandler stores the user's home location.
func UpdateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid location data")
		}
		if req.Latitude == nil || req.Longitude == nil {
			return errBadRequest(c, "latitude and longitude are required")
		}
		u, err := deps.Auth.UpdateLocation(c.UserContext(), principal(c).UserID, req.Location,
			domain.GeoPoint{Lat: *req.Latitude, Lon: *req.Longitude})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(u)
	}
}

// ListPreferencesHandler returns the user's saved preferences.
func ListPreferencesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		prefs, err := deps.Auth.Preferences(c.UserContext(), principal(c).UserID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(prefs)
	}
}

type preferenceRequest struct {
	CategoryID  int64 `json:"categoryId"`
	BudgetLevel int   `json:"budgetLevel"`
}

// AddPreferenceHandler saves a category/budget preference.
func AddPreferenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req preferenceRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid preference data")
		}
		p, err := deps.Auth.AddPreference(c.UserContext(), principal(c).UserID, req.CategoryID, domain.BudgetLevel(req.BudgetLevel))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}
