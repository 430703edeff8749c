package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Refresher rotates a refresh token into a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error)
}

type Middleware struct {
	JWTSecret     []byte
	Refresher     Refresher
	SecureCookies bool
}

func New(secret []byte, refresher Refresher, secureCookies bool) *Middleware {
	return &Middleware{
		JWTSecret:     secret,
		Refresher:     refresher,
		SecureCookies: secureCookies,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireWithValidator(next, nil)
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireRole(models.RoleAdmin)(next)
}

// RequireRole admits callers holding any of roles. A missing or wrong role is a 401.
func (m *Middleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return m.requireWithValidator(next, func(claims *tokens.AccessClaims) error {
			if !slices.Contains(roles, claims.Role) {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			return nil
		})
	}
}

// Optional attaches the caller identity when a valid session exists and never rejects.
func (m *Middleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, err := m.resolve(c); err == nil {
			setUserContext(c, claims)
		}
		return next(c)
	}
}

func (m *Middleware) requireWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.resolve(c)
		if err != nil {
			return err
		}
		if validator != nil {
			if vErr := validator(claims); vErr != nil {
				l := logging.FromContext(c.Request().Context())
				l.Warn("auth_role_rejected", "status", http.StatusUnauthorized, "role", claims.Role)
				return vErr
			}
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// resolve returns the caller claims, rotating an expired session through the refresh cookie.
func (m *Middleware) resolve(c echo.Context) (*tokens.AccessClaims, error) {
	if ck, err := c.Cookie(tokens.AccessCookie); err == nil && ck.Value != "" {
		claims, err := tokens.AccessClaimsFromToken(ck.Value, m.JWTSecret)
		if err == nil {
			return claims, nil
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			m.clearAuthCookies(c)
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
	}

	refreshCookie, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || refreshCookie.Value == "" || m.Refresher == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	pair, err := m.Refresher.Refresh(c.Request().Context(), refreshCookie.Value)
	if err != nil {
		m.clearAuthCookies(c)
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}
	for _, ck := range tokens.PairCookies(pair, m.SecureCookies) {
		c.SetCookie(ck)
	}

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
	if err != nil {
		m.clearAuthCookies(c)
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
	}
	return claims, nil
}

func (m *Middleware) clearAuthCookies(c echo.Context) {
	for _, ck := range tokens.ClearCookies(m.SecureCookies) {
		c.SetCookie(ck)
	}
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(CtxUserID, claims.Subject)
	c.Set(CtxRole, claims.Role)
}

// Identity returns the authenticated caller, if any.
func Identity(c echo.Context) (uuid.UUID, string, bool) {
	s, _ := c.Get(CtxUserID).(string)
	if s == "" {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, "", false
	}
	role, _ := c.Get(CtxRole).(string)
	return id, role, true
}
