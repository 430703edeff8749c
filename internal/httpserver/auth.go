package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/service"
	"github.com/Skotchmaster/med_clinic/internal/tokens"
	"github.com/Skotchmaster/med_clinic/internal/transport"
)

type AuthHTTP struct {
	Svc           *service.AuthService
	SecureCookies bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register_error", "invalid body", err)
	}

	u, err := h.Svc.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "user_id", u.ID)
	return c.JSON(http.StatusCreated, transport.OK(u))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_error", "invalid body", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}
	h.setCookies(c, res.Tokens)

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.OK(transport.LoginResponse{User: res.User, IsAdmin: res.IsAdmin}))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	ck, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || ck.Value == "" {
		l.Warn("refresh_error", "status", 401, "reason", "no refresh token")
		return echo.NewHTTPError(http.StatusUnauthorized, "no refresh token")
	}

	pair, err := h.Svc.Refresh(ctx, ck.Value)
	if err != nil {
		for _, ck := range tokens.ClearCookies(h.SecureCookies) {
			c.SetCookie(ck)
		}
		return fail(l, "refresh_error", err)
	}
	h.setCookies(c, pair)

	l.Info("refresh_success")
	return c.JSON(http.StatusOK, transport.Done("tokens refreshed"))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil && ck.Value != "" {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			l.Error("logout_revoke_error", "error", err)
		}
	}
	for _, ck := range tokens.ClearCookies(h.SecureCookies) {
		c.SetCookie(ck)
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, transport.Done("logged out"))
}

func (h *AuthHTTP) Session(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.session")

	a := actorOf(c)
	u, err := h.Svc.Session(ctx, a.ID)
	if err != nil {
		return fail(l, "session_error", err)
	}

	return c.JSON(http.StatusOK, transport.OK(sessionOf(u)))
}

// reissue replaces the caller's cookies after their role changed.
func (h *AuthHTTP) reissue(c echo.Context, userID uuid.UUID) error {
	pair, err := h.Svc.Reissue(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	h.setCookies(c, pair)
	return nil
}

func (h *AuthHTTP) setCookies(c echo.Context, p *tokens.Pair) {
	for _, ck := range tokens.PairCookies(p, h.SecureCookies) {
		c.SetCookie(ck)
	}
}

func sessionOf(u *models.User) transport.SessionResponse {
	return transport.SessionResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Image: u.Image}
}
