package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/janusipm/brandvigilante/internal/server/validation"
)

// ListBrands returns every brand to admins and only the linked brands to
// everyone else.
func (h *Handler) ListBrands(c *fiber.Ctx) error {
	u := currentUser(c)
	if u.IsAdmin() {
		brands, err := h.brands.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(brands)
	}
	brands, err := h.brands.ForUser(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	return c.JSON(brands)
}

func (h *Handler) GetBrand(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.brands.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *Handler) CreateBrand(c *fiber.Ctx) error {
	var in validation.BrandInput
	if err := bind(c, &in); err != nil {
		return err
	}
	b, err := h.brands.Create(c.UserContext(), currentUser(c).ID, &in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *Handler) UpdateBrand(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.BrandInput
	if err := bind(c, &in); err != nil {
		return err
	}
	b, err := h.brands.Update(c.UserContext(), currentUser(c).ID, id, &in)
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *Handler) DeleteBrand(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.brands.Delete(c.UserContext(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) BrandUsers(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	users, err := h.brands.Users(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *Handler) AddBrandUsers(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.BrandUsersInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := h.brands.AddUsers(c.UserContext(), currentUser(c).ID, id, &in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *Handler) RemoveBrandUsers(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.BrandUsersInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := h.brands.RemoveUsers(c.UserContext(), currentUser(c).ID, id, &in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *Handler) BrandMarketplaces(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	links, err := h.brands.Marketplaces(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(links)
}

func (h *Handler) AddBrandMarketplaces(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.BrandMarketplacesInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := h.brands.AddMarketplaces(c.UserContext(), currentUser(c).ID, id, &in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *Handler) RemoveBrandMarketplaces(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.BrandMarketplacesInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := h.brands.RemoveMarketplaces(c.UserContext(), currentUser(c).ID, id, &in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *Handler) SetBrandMarketplaceStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	mid, err := paramID(c, "mid")
	if err != nil {
		return err
	}
	var in validation.StatusInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := h.brands.SetMarketplaceStatus(c.UserContext(), currentUser(c).ID, id, mid, &in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}
