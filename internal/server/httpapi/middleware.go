package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/google/uuid"

	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/session"
)

const (
	contextUserKey      = "current_user"
	contextSessionKey   = "current_session"
	contextRequestIDKey = "request_id"
	contextCSRFKey      = "csrf"
)

const (
	csrfCookieName = "bv_csrf"
	csrfHeader     = "X-CSRF-Token"
	csrfFormField  = "csrf_token"
	csrfTTL        = 2 * time.Hour
)

var errMissingCSRFToken = errors.New("missing csrf token")

func currentUser(c *fiber.Ctx) *models.PublicUser {
	u, _ := c.Locals(contextUserKey).(*models.PublicUser)
	return u
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(contextRequestIDKey).(string)
	return id
}

// RequestLog tags the request with an id (X-Request-ID or a fresh uuid) and
// logs one line once the response status is known.
func (h *Handler) RequestLog(c *fiber.Ctx) error {
	start := time.Now()
	id := strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
	if id == "" || len(id) > 128 {
		id = uuid.NewString()
	}
	c.Locals(contextRequestIDKey, id)
	c.Set(fiber.HeaderXRequestID, id)

	if chainErr := c.Next(); chainErr != nil {
		if err := c.App().ErrorHandler(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	args := []any{
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start).String(),
		"request_id", id,
	}
	if u := currentUser(c); u != nil {
		args = append(args, "user_id", u.ID)
	}
	h.log.Info(c.UserContext(), "request", args...)
	return nil
}

func isSignOutPath(path string) bool {
	return path == "/sign-out" || path == "/logout"
}

// Authenticate resolves the session cookie once per request. It never
// rejects: an invalid cookie is cleared and the request continues
// anonymously, and a storage failure leaves the cookie in place.
func (h *Handler) Authenticate(c *fiber.Ctx) error {
	if isSignOutPath(c.Path()) {
		return c.Next()
	}
	raw := c.Cookies(h.sessions.CookieName())
	if raw == "" {
		return c.Next()
	}

	res := h.sessions.ResolveSession(c.UserContext(), raw)
	switch res.Status {
	case session.StatusAuthenticated:
		c.Locals(contextUserKey, res.User)
		c.Locals(contextSessionKey, res.Session)
	case session.StatusInvalid:
		h.log.Debug(c.UserContext(), "clearing session cookie", "reason", string(res.Reason))
		setCookie(c, h.sessions.BlankCookie())
	}
	return c.Next()
}

// RequireUser lets signed-in users through. Anonymous API calls get 401;
// page requests are redirected to /sign-in.
func (h *Handler) RequireUser(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Next()
	}
	if isAPIPath(c.Path()) {
		return apiError(c, fiber.StatusUnauthorized, CodeAuthentication, "Authentication required")
	}
	return c.Redirect("/sign-in", fiber.StatusFound)
}

// RequireAdmin sends anonymous visitors to sign-in and signed-in non-admins
// to their dashboard.
func (h *Handler) RequireAdmin(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return h.RequireUser(c)
	}
	if u.IsAdmin() {
		return c.Next()
	}
	if isAPIPath(c.Path()) {
		return apiError(c, fiber.StatusForbidden, CodeAuthorization, "Admin access required")
	}
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// CheckOrigin rejects state-changing requests whose Origin header names a
// different site than the configured app URL. It runs ahead of CSRF and also
// covers the API routes, which CSRF skips.
func (h *Handler) CheckOrigin(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return c.Next()
	}
	origin := c.Get(fiber.HeaderOrigin)
	if origin == "" || h.appOrigin == "" || originOf(origin) == h.appOrigin {
		return c.Next()
	}
	h.log.Warn(c.UserContext(), "cross-site request rejected", "origin", origin, "path", c.Path())
	return apiError(c, fiber.StatusForbidden, CodeCSRF, "Cross-site request rejected")
}

// CSRF guards every non-API route with fiber's csrf middleware. Safe requests
// get a token cookie; unsafe ones must echo it in the X-CSRF-Token header or
// the csrf_token form field.
func (h *Handler) CSRF() fiber.Handler {
	return csrf.New(csrf.Config{
		Next:           func(c *fiber.Ctx) bool { return isAPIPath(c.Path()) },
		CookieName:     csrfCookieName,
		CookieDomain:   h.cookieDomain,
		CookieSameSite: "Lax",
		CookieSecure:   h.cookieSecure,
		CookieHTTPOnly: false,
		Expiration:     csrfTTL,
		ContextKey:     contextCSRFKey,
		Storage:        h.csrfStorage,
		Extractor:      csrfTokenFromRequest,
		ErrorHandler:   h.csrfRejected,
	})
}

func csrfTokenFromRequest(c *fiber.Ctx) (string, error) {
	if token := c.Get(csrfHeader); token != "" {
		return token, nil
	}
	if token := c.FormValue(csrfFormField); token != "" {
		return token, nil
	}
	return "", errMissingCSRFToken
}

func (h *Handler) csrfRejected(c *fiber.Ctx, err error) error {
	h.log.Warn(c.UserContext(), "csrf check failed", "error", err, "path", c.Path())
	return apiError(c, fiber.StatusForbidden, CodeCSRF, "Invalid or missing CSRF token")
}

// ExposeCSRFToken copies the current token into the X-CSRF-Token response
// header so JSON clients can read it from any page load.
func (h *Handler) ExposeCSRFToken(c *fiber.Ctx) error {
	if token, ok := c.Locals(contextCSRFKey).(string); ok && token != "" {
		c.Set(csrfHeader, token)
	}
	return c.Next()
}
