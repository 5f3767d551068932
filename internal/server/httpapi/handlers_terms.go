package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/janusipm/brandvigilante/internal/server/validation"
)

func (h *Handler) ListTerms(c *fiber.Ctx) error {
	if brandID := queryInt64(c, "brand_id"); brandID > 0 {
		terms, err := h.terms.ForBrand(c.UserContext(), brandID)
		if err != nil {
			return err
		}
		return c.JSON(terms)
	}
	terms, err := h.terms.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(terms)
}

func (h *Handler) GetTerm(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.terms.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (h *Handler) TermListings(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	listings, err := h.listings.ForTerm(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(listings)
}

func (h *Handler) CreateTerm(c *fiber.Ctx) error {
	var in validation.TermInput
	if err := bind(c, &in); err != nil {
		return err
	}
	t, err := h.terms.Create(c.UserContext(), currentUser(c).ID, &in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *Handler) UpdateTerm(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.TermInput
	if err := bind(c, &in); err != nil {
		return err
	}
	t, err := h.terms.Update(c.UserContext(), currentUser(c).ID, id, &in)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (h *Handler) DeleteTerm(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.terms.Delete(c.UserContext(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListMarketplaces(c *fiber.Ctx) error {
	marketplaces, err := h.marketplaces.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(marketplaces)
}

func (h *Handler) GetMarketplace(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.marketplaces.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(m)
}

func (h *Handler) CreateMarketplace(c *fiber.Ctx) error {
	var in validation.MarketplaceInput
	if err := bind(c, &in); err != nil {
		return err
	}
	m, err := h.marketplaces.Create(c.UserContext(), currentUser(c).ID, &in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *Handler) UpdateMarketplace(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.MarketplaceInput
	if err := bind(c, &in); err != nil {
		return err
	}
	m, err := h.marketplaces.Update(c.UserContext(), currentUser(c).ID, id, &in)
	if err != nil {
		return err
	}
	return c.JSON(m)
}

func (h *Handler) DeleteMarketplace(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.marketplaces.Delete(c.UserContext(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
