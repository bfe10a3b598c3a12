package handlers

import (
	"balalaika/internal/catalog"
	"balalaika/internal/domain"
	"balalaika/internal/log"
	"balalaika/internal/services"
	"balalaika/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type APIHandler struct {
	Catalog *services.CatalogService
}

type productJSON struct {
	domain.Product
	Origin            string `json:"origin"`
	SalePrice         string `json:"salePrice"`
	SalePriceCordobas string `json:"salePriceCordobas,omitempty"`
	PurchaseLink      string `json:"purchaseLink,omitempty"`
}

// GET /api/v1/catalog
func (h *APIHandler) List(c *fiber.Ctx) error {
	sel, err := selection(c)
	if err != nil {
		log.Security(c, "validation.fail", map[string]any{"field": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + err.Error()})
	}
	l := h.Catalog.Browse(sel)
	out := make([]productJSON, 0, len(l.Cards))
	for _, card := range l.Cards {
		pj := productJSON{
			Product:      card.Product,
			Origin:       card.Origin,
			SalePrice:    card.SalePrice().StringFixed(2),
			PurchaseLink: card.Link,
		}
		if card.PriceCordobas > 0 {
			pj.SalePriceCordobas = card.SalePriceCordobas().StringFixed(2)
		}
		out = append(out, pj)
	}
	return c.JSON(fiber.Map{
		"loaded":    l.Loaded,
		"selection": l.Selection.Filters,
		"products":  out,
	})
}

// GET /api/v1/subcategories?category=ID
func (h *APIHandler) SubCategories(c *fiber.Ctx) error {
	cat, ok := validate.Filter(c.Query("category"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category"})
	}
	return c.JSON(catalog.SubCategoryOptions(h.Catalog.Store.State().SubCategories, cat))
}
