package handlers

import (
	"errors"

	"balalaika/internal/catalog"
	"balalaika/internal/log"
	"balalaika/internal/services"
	"balalaika/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type StoreHandler struct {
	Catalog *services.CatalogService
}

// selection reads the sidebar state from the query string. A category that
// differs from prev_category is a fresh origin pick and drops the brand.
func selection(c *fiber.Ctx) (catalog.Selection, error) {
	sel := catalog.NewSelection()
	q := validate.Q(c.Query("q"))
	cat, ok := validate.Filter(c.Query("category"))
	if !ok {
		return sel, errors.New("category")
	}
	sub, ok := validate.Filter(c.Query("subcategory"))
	if !ok {
		return sel, errors.New("subcategory")
	}
	gender, ok := validate.GenderFilter(c.Query("gender"))
	if !ok {
		return sel, errors.New("gender")
	}

	sel.SelectCategory(cat)
	if prev := c.Query("prev_category"); prev == "" || prev == sel.CategoryID {
		sel.SelectSubCategory(sub)
	}
	sel.SelectGender(gender)
	sel.SetText(q)
	return sel, nil
}

// GET /
func (h *StoreHandler) Landing(c *fiber.Ctx) error {
	return render(c, "landing", fiber.Map{"Featured": h.Catalog.Featured(4)})
}

// GET /catalog
func (h *StoreHandler) CatalogPage(c *fiber.Ctx) error {
	sel, err := selection(c)
	if err != nil {
		log.Security(c, "validation.fail", map[string]any{"field": err.Error()})
		return render(c.Status(fiber.StatusBadRequest), "catalog", fiber.Map{
			"L":   h.Catalog.Browse(catalog.NewSelection()),
			"Err": "Filtro inválido",
		})
	}
	return render(c, "catalog", fiber.Map{"L": h.Catalog.Browse(sel)})
}

// GET /about
func (h *StoreHandler) About(c *fiber.Ctx) error { return render(c, "about", nil) }

// GET /shipping
func (h *StoreHandler) Shipping(c *fiber.Ctx) error { return render(c, "shipping", nil) }

// GET /buy/:id hands the visitor over to the chat app.
func (h *StoreHandler) Buy(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "Este perfume ya no está disponible")
	}
	link, err := h.Catalog.BuyLink(id)
	switch {
	case errors.Is(err, services.ErrOutOfStock):
		return render(c.Status(fiber.StatusConflict), "notfound", fiber.Map{"Message": "Este perfume está agotado"})
	case err != nil:
		return notFound(c, "Este perfume ya no está disponible")
	}
	log.Info(c, "checkout.handoff", map[string]any{"product": id})
	return c.Redirect(link, fiber.StatusFound)
}
