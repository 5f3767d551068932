package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/janusipm/brandvigilante/internal/server/oauth"
)

const (
	oauthStateCookie    = "google_oauth_state"
	oauthVerifierCookie = "google_code_verifier"
)

func signInError(code oauth.ErrorCode) string {
	return "/sign-in?error=" + string(code)
}

// GoogleLogin parks a fresh state and PKCE verifier in signed cookies and
// sends the browser to Google.
func (h *Handler) GoogleLogin(c *fiber.Ctx) error {
	if h.oauth == nil {
		return fiber.ErrNotFound
	}
	req := h.oauth.Begin()
	if err := h.setTransient(c, oauthStateCookie, req.State); err != nil {
		h.log.Error(c.UserContext(), "oauth state cookie failed", "error", err)
		return c.Redirect(signInError(oauth.CodeFlowFailed), fiber.StatusFound)
	}
	if err := h.setTransient(c, oauthVerifierCookie, req.Verifier); err != nil {
		h.log.Error(c.UserContext(), "oauth verifier cookie failed", "error", err)
		return c.Redirect(signInError(oauth.CodeFlowFailed), fiber.StatusFound)
	}
	return c.Redirect(req.URL, fiber.StatusFound)
}

// GoogleCallback finishes the flow. Every failure lands on the sign-in page
// with an error code; the transient cookies are dropped either way.
func (h *Handler) GoogleCallback(c *fiber.Ctx) error {
	if h.oauth == nil {
		return fiber.ErrNotFound
	}
	in := oauth.CallbackInput{
		Code:        c.Query("code"),
		State:       c.Query("state"),
		StoredState: h.readTransient(c, oauthStateCookie),
		Verifier:    h.readTransient(c, oauthVerifierCookie),
	}
	h.clearTransient(c, oauthStateCookie)
	h.clearTransient(c, oauthVerifierCookie)

	user, code := h.oauth.Complete(c.UserContext(), in)
	if code != oauth.CodeNone {
		return c.Redirect(signInError(code), fiber.StatusFound)
	}

	_, cookie, err := h.sessions.CreateSession(c.UserContext(), user.ID)
	if err != nil {
		h.log.Error(c.UserContext(), "oauth session creation failed", "error", err, "user_id", user.ID)
		return c.Redirect(signInError(oauth.CodeSessionCreationFailed), fiber.StatusFound)
	}
	setCookie(c, cookie)
	return c.Redirect("/dashboard", fiber.StatusFound)
}
