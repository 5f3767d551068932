package httpapi

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/janusipm/brandvigilante/internal/server/services"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

const msgResetRequested = "If an account exists for that email, a password reset link has been sent."

// ShowSignIn and ShowSignUp bounce signed-in users to the dashboard.
func (h *Handler) ShowSignIn(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return c.JSON(fiber.Map{
		"error":         c.Query("error"),
		"googleEnabled": h.oauth != nil,
	})
}

func (h *Handler) ShowSignUp(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return c.JSON(fiber.Map{"googleEnabled": h.oauth != nil})
}

func (h *Handler) SignIn(c *fiber.Ctx) error {
	var in validation.SignInInput
	if err := bind(c, &in); err != nil {
		return err
	}
	user, cookie, err := h.auth.SignIn(c.UserContext(), c.IP(), &in)
	if err != nil {
		return err
	}
	setCookie(c, cookie)
	return redirectOrJSON(c, "/dashboard", fiber.StatusOK, fiber.Map{"user": user.Public()})
}

func (h *Handler) SignUp(c *fiber.Ctx) error {
	var in validation.SignUpInput
	if err := bind(c, &in); err != nil {
		return err
	}
	user, cookie, err := h.auth.SignUp(c.UserContext(), &in)
	if err != nil {
		return err
	}
	setCookie(c, cookie)
	return redirectOrJSON(c, "/dashboard", fiber.StatusCreated, fiber.Map{"user": user.Public()})
}

// SignOut always succeeds from the client's point of view; the cookie is
// cleared even when the session row could not be deleted.
func (h *Handler) SignOut(c *fiber.Ctx) error {
	if err := h.auth.SignOut(c.UserContext(), c.Cookies(h.sessions.CookieName())); err != nil {
		h.log.Error(c.UserContext(), "session delete failed", "error", err, "request_id", requestID(c))
	}
	setCookie(c, h.sessions.BlankCookie())
	return redirectOrJSON(c, "/sign-in", fiber.StatusOK, nil)
}

func (h *Handler) ShowForgotPassword(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"sent": c.Query("sent") != ""})
}

func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var in validation.ForgotPasswordInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := h.passwordReset.Request(c.UserContext(), &in); err != nil {
		return err
	}
	return redirectOrJSON(c, "/forgot-password?sent=1", fiber.StatusOK, fiber.Map{"ok": true, "message": msgResetRequested})
}

func (h *Handler) ShowResetPassword(c *fiber.Ctx) error {
	token := c.Query("token")
	if _, err := h.passwordReset.Validate(c.UserContext(), token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"valid": true, "token": token})
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var in validation.ResetPasswordInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := h.passwordReset.Reset(c.UserContext(), &in); err != nil {
		return err
	}
	return redirectOrJSON(c, "/sign-in?reset=success", fiber.StatusOK, nil)
}

// VerifyEmail consumes ?token=. Without a token it reports the signed-in
// user's verification state.
func (h *Handler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		u := currentUser(c)
		if u == nil {
			return c.Redirect("/sign-in", fiber.StatusFound)
		}
		return c.JSON(fiber.Map{
			"email":         u.Email,
			"emailVerified": u.EmailVerified,
			"status":        c.Query("status"),
			"error":         c.Query("error"),
		})
	}

	outcome, err := h.verification.Verify(c.UserContext(), token)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	switch outcome {
	case services.VerifyInvalid, services.VerifyExpired:
		status = fiber.StatusBadRequest
	case services.VerifyUserNotFound:
		status = fiber.StatusNotFound
	}
	if wantsRedirect(c) {
		if status == fiber.StatusOK {
			return c.Redirect("/dashboard?verified=1", fiber.StatusSeeOther)
		}
		return c.Redirect("/sign-in?error="+url.QueryEscape(string(outcome)), fiber.StatusSeeOther)
	}
	return c.Status(status).JSON(fiber.Map{"status": outcome})
}

func (h *Handler) ResendVerification(c *fiber.Ctx) error {
	u := currentUser(c)
	outcome, err := h.verification.Resend(c.UserContext(), u.ID)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	switch outcome {
	case services.ResendTooManyAttempts, services.ResendMaxAttempts:
		status = fiber.StatusTooManyRequests
	case services.ResendSendFailed:
		status = fiber.StatusServiceUnavailable
	}
	if wantsRedirect(c) {
		key := "error"
		if status == fiber.StatusOK {
			key = "status"
		}
		return c.Redirect("/verify-email?"+key+"="+url.QueryEscape(string(outcome)), fiber.StatusSeeOther)
	}
	return c.Status(status).JSON(fiber.Map{"status": outcome})
}
