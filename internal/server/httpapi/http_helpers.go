package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/auth"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/session"
)

const transientTTL = 10 * time.Minute

func acceptsJSON(c *fiber.Ctx) bool {
	return strings.Contains(strings.ToLower(c.Get(fiber.HeaderAccept)), fiber.MIMEApplicationJSON)
}

// wantsRedirect is true for browser form posts: HTML is acceptable and JSON
// was not asked for.
func wantsRedirect(c *fiber.Ctx) bool {
	accept := strings.ToLower(c.Get(fiber.HeaderAccept))
	return strings.Contains(accept, fiber.MIMETextHTML) && !strings.Contains(accept, fiber.MIMEApplicationJSON)
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// redirectOrJSON finishes a successful form action: browsers follow a 303,
// API clients get payload with status.
func redirectOrJSON(c *fiber.Ctx, path string, status int, payload fiber.Map) error {
	if wantsRedirect(c) {
		return c.Redirect(path, fiber.StatusSeeOther)
	}
	if payload == nil {
		payload = fiber.Map{"ok": true}
	}
	return c.Status(status).JSON(payload)
}

func apiError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message, "code": code})
}

// bind parses a JSON or form body into in. Validation happens in the
// services.
func bind(c *fiber.Ctx, in any) error {
	if err := c.BodyParser(in); err != nil {
		return common.Public(common.ErrorValidation, "Invalid request body")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.Public(common.ErrorValidation, "Invalid ID")
	}
	return id, nil
}

func queryInt64(c *fiber.Ctx, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func listingFilter(c *fiber.Ctx) models.ListingFilter {
	return models.ListingFilter{
		Page:          c.QueryInt("page", 1),
		PerPage:       c.QueryInt("perPage", models.DefaultPerPage),
		Search:        strings.TrimSpace(c.Query("search")),
		MarketplaceID: queryInt64(c, "marketplace_id"),
		ProductID:     queryInt64(c, "product_id"),
	}
}

func catalogFilter(c *fiber.Ctx) models.CatalogFilter {
	return models.CatalogFilter{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("perPage", models.DefaultPerPage),
		Search:  strings.TrimSpace(c.Query("search")),
	}
}

func setCookie(c *fiber.Ctx, ck session.Cookie) {
	c.Cookie(&fiber.Cookie{
		Name:     ck.Name,
		Value:    ck.Value,
		Path:     ck.Path,
		Domain:   ck.Domain,
		Expires:  ck.Expires,
		MaxAge:   ck.MaxAge,
		HTTPOnly: ck.HTTPOnly,
		Secure:   ck.Secure,
		SameSite: ck.SameSite,
	})
}

// setTransient stores value in a signed, short-lived cookie named name.
func (h *Handler) setTransient(c *fiber.Ctx, name, value string) error {
	signed, err := auth.SignTransient(name, value, h.secretKey, transientTTL)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    signed,
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   int(transientTTL.Seconds()),
		Expires:  time.Now().Add(transientTTL),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// readTransient returns "" for a missing, tampered or expired cookie.
func (h *Handler) readTransient(c *fiber.Ctx, name string) string {
	raw := c.Cookies(name)
	if raw == "" {
		return ""
	}
	v, err := auth.ParseTransient(raw, name, h.secretKey)
	if err != nil {
		return ""
	}
	return v
}

func (h *Handler) clearTransient(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
