package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

// Sellers.

func (h *Handler) ListSellers(c *fiber.Ctx) error {
	page, err := h.catalog.ListSellers(c.UserContext(), catalogFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *Handler) GetSeller(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.catalog.GetSeller(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *Handler) CreateSeller(c *fiber.Ctx) error {
	var in validation.SellerInput
	if err := bind(c, &in); err != nil {
		return err
	}
	s, err := h.catalog.CreateSeller(c.UserContext(), &in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

func (h *Handler) UpdateSeller(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.SellerInput
	if err := bind(c, &in); err != nil {
		return err
	}
	s, err := h.catalog.UpdateSeller(c.UserContext(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *Handler) SellerOffers(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	offers, err := h.catalog.SellerOffers(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(offers)
}

func (h *Handler) SellerListings(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	listings, err := h.listings.ForSeller(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(listings)
}

// Seller listings ("offers").

func (h *Handler) CreateOffer(c *fiber.Ctx) error {
	var in validation.SellerListingInput
	if err := bind(c, &in); err != nil {
		return err
	}
	o, err := h.catalog.CreateOffer(c.UserContext(), &in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *Handler) UpdateOffer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.SellerListingInput
	if err := bind(c, &in); err != nil {
		return err
	}
	o, err := h.catalog.UpdateOffer(c.UserContext(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(o)
}

// Products.

// ListProducts doubles as a UPC/EAN lookup when ?code= is given.
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	if code := c.Query("code"); code != "" {
		p, err := h.catalog.FindProductByCode(c.UserContext(), code)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
	page, err := h.catalog.ListProducts(c.UserContext(), catalogFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *Handler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) ProductListings(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	listings, err := h.listings.ForProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(listings)
}

func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	var in validation.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.catalog.CreateProduct(c.UserContext(), &in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.catalog.UpdateProduct(c.UserContext(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// Keywords.

func (h *Handler) ListKeywords(c *fiber.Ctx) error {
	keywords, err := h.catalog.ListKeywords(c.UserContext(), queryInt64(c, "brand_id"))
	if err != nil {
		return err
	}
	return c.JSON(keywords)
}

func (h *Handler) GetKeyword(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	k, err := h.catalog.GetKeyword(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(k)
}

func (h *Handler) CreateKeyword(c *fiber.Ctx) error {
	var in validation.KeywordInput
	if err := bind(c, &in); err != nil {
		return err
	}
	k, err := h.catalog.CreateKeyword(c.UserContext(), &in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(k)
}

func (h *Handler) UpdateKeyword(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in validation.KeywordInput
	if err := bind(c, &in); err != nil {
		return err
	}
	k, err := h.catalog.UpdateKeyword(c.UserContext(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(k)
}

func (h *Handler) DeleteKeyword(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteKeyword(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Users and activity.

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.admin.DeleteUser(c.UserContext(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListActivity filters by ?entity=&id=, by ?user_id=, or returns the most
// recent ?limit= entries.
func (h *Handler) ListActivity(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if entity := c.Query("entity"); entity != "" {
		id, err := strconv.ParseInt(c.Query("id"), 10, 64)
		if err != nil || id <= 0 {
			return common.Public(common.ErrorValidation, "Invalid ID")
		}
		logs, err := h.activity.ForEntity(ctx, models.EntityType(entity), id)
		if err != nil {
			return err
		}
		return c.JSON(logs)
	}
	if userID := queryInt64(c, "user_id"); userID > 0 {
		logs, err := h.activity.ForUser(ctx, userID)
		if err != nil {
			return err
		}
		return c.JSON(logs)
	}
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > models.MaxPerPage {
		limit = 50
	}
	logs, err := h.activity.Recent(ctx, limit)
	if err != nil {
		return err
	}
	return c.JSON(logs)
}
