package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	u := currentUser(c)
	brands, err := h.brands.ForUser(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": u, "brands": brands})
}

func (h *Handler) ShowProfile(c *fiber.Ctx) error {
	u, err := h.auth.CurrentUser(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": u, "updated": c.Query("updated")})
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var in validation.ProfileInput
	if err := bind(c, &in); err != nil {
		return err
	}
	u, err := h.auth.UpdateProfile(c.UserContext(), currentUser(c).ID, &in)
	if err != nil {
		return err
	}
	return redirectOrJSON(c, "/profile?updated=profile", fiber.StatusOK, fiber.Map{"user": u.Public()})
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var in validation.ChangePasswordInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), currentUser(c).ID, &in); err != nil {
		return err
	}
	return redirectOrJSON(c, "/profile?updated=password", fiber.StatusOK, nil)
}

func (h *Handler) ShowListings(c *fiber.Ctx) error {
	page, err := h.listings.List(c.UserContext(), listingFilter(c))
	if err != nil {
		return err
	}
	marketplaces, err := h.marketplaces.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"listings": page, "marketplaces": marketplaces})
}

// Health pings the database; a failed ping is 503.
func (h *Handler) Health(c *fiber.Ctx) error {
	if h.db != nil {
		if err := h.db.PingContext(c.UserContext()); err != nil {
			h.log.Warn(c.UserContext(), "health check failed", "error", err)
			return apiError(c, fiber.StatusServiceUnavailable, CodeUnavailable, "Database unavailable")
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) SubmitLead(c *fiber.Ctx) error {
	var in validation.LeadInput
	if err := bind(c, &in); err != nil {
		return err
	}
	res, err := h.leads.Submit(c.UserContext(), &in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Admin pages.

func (h *Handler) AdminDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	recent, err := h.activity.Recent(ctx, 10)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"stats": h.admin.Stats(ctx), "recentActivity": recent})
}

func (h *Handler) AdminBrands(c *fiber.Ctx) error {
	brands, err := h.brands.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"brands": brands})
}

func (h *Handler) AdminBrand(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	brand, err := h.brands.Get(ctx, id)
	if err != nil {
		return err
	}
	users, err := h.brands.Users(ctx, id)
	if err != nil {
		return err
	}
	marketplaces, err := h.brands.Marketplaces(ctx, id)
	if err != nil {
		return err
	}
	terms, err := h.terms.ForBrand(ctx, id)
	if err != nil {
		return err
	}
	activity, err := h.activity.ForEntity(ctx, models.EntityBrand, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"brand":        brand,
		"users":        users,
		"marketplaces": marketplaces,
		"terms":        terms,
		"activity":     activity,
	})
}

func (h *Handler) AdminTerms(c *fiber.Ctx) error {
	terms, err := h.terms.List(c.UserContext())
	if err != nil {
		return err
	}
	brands, err := h.brands.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"terms": terms, "brands": brands})
}

func (h *Handler) AdminMarketplaces(c *fiber.Ctx) error {
	marketplaces, err := h.marketplaces.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"marketplaces": marketplaces})
}

func (h *Handler) AdminUsers(c *fiber.Ctx) error {
	page, err := h.admin.ListUsers(c.UserContext(), models.UserFilter{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("perPage", models.DefaultPerPage),
		Search:  c.Query("search"),
		Role:    models.Role(c.Query("role")),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": page})
}

func (h *Handler) AdminCreateUser(c *fiber.Ctx) error {
	var in validation.NewUserInput
	if err := bind(c, &in); err != nil {
		return err
	}
	u, err := h.admin.CreateUser(c.UserContext(), currentUser(c).ID, &in)
	if err != nil {
		return err
	}
	return redirectOrJSON(c, "/admin/users", fiber.StatusCreated, fiber.Map{"user": u})
}
