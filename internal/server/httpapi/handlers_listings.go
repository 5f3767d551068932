package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/janusipm/brandvigilante/internal/server/validation"
)

func (h *Handler) ListListings(c *fiber.Ctx) error {
	page, err := h.listings.List(c.UserContext(), listingFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *Handler) GetListing(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	l, err := h.listings.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(l)
}

func (h *Handler) CreateListing(c *fiber.Ctx) error {
	var in validation.ListingInput
	if err := bind(c, &in); err != nil {
		return err
	}
	l, err := h.listings.Create(c.UserContext(), currentUser(c).ID, &in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(l)
}

func (h *Handler) UpdateListing(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.ListingPatchInput
	if err := bind(c, &in); err != nil {
		return err
	}
	l, err := h.listings.Update(c.UserContext(), currentUser(c).ID, id, &in)
	if err != nil {
		return err
	}
	return c.JSON(l)
}

func (h *Handler) DeleteListing(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.listings.Delete(c.UserContext(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportListings writes the filtered listings to object storage and returns
// a short-lived download link.
func (h *Handler) ExportListings(c *fiber.Ctx) error {
	res, err := h.export.ExportListings(c.UserContext(), listingFilter(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *Handler) ListingOffers(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	offers, err := h.catalog.ListingOffers(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(offers)
}
