package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"balalaika/internal/catalog"
	"balalaika/internal/domain"
	"balalaika/internal/imaging"
	applog "balalaika/internal/log"
	"balalaika/internal/services"
	"balalaika/internal/store"
	"balalaika/internal/validate"
	"balalaika/internal/view"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Admin   *services.AdminService
	Catalog *services.CatalogService
}

type categoryRow struct {
	domain.Category
	Subs []domain.SubCategory
}

func invalidField(field string) error { return fmt.Errorf("%w: %s", services.ErrInvalid, field) }

// GET /admin
func (h *AdminHandler) Home(c *fiber.Ctx) error {
	m, _ := view.Resolve("/admin", c.Query("tab"), session(c))
	switch page := m.(view.Admin).Page.(type) {
	case view.Dashboard:
		if page.Tab == view.TabCategories {
			var edit services.InlineEdit
			if id, ok := validate.ID(c.Query("edit")); ok {
				edit.Begin(id, h.nameOf(id))
			}
			return h.categoriesTab(c, &edit, "")
		}
		return h.productsTab(c)
	default:
		return render(c, "login", fiber.Map{"Err": "", "Email": ""})
	}
}

func (h *AdminHandler) productsTab(c *fiber.Ctx) error {
	q := validate.Q(c.Query("q"))
	cat, _ := validate.Filter(c.Query("category"))
	sub, _ := validate.Filter(c.Query("subcategory"))
	f := catalog.Filters{Text: q, CategoryID: cat, SubCategoryID: sub}
	cards, st := h.Catalog.AdminProducts(f)
	return render(c, "admin_products", fiber.Map{
		"Tab":           view.TabProducts.String(),
		"Filters":       f,
		"Cards":         cards,
		"Categories":    st.Categories,
		"SubCategories": st.SubCategories,
		"Loaded":        st.Loaded,
	})
}

func (h *AdminHandler) categoriesTab(c *fiber.Ctx, edit *services.InlineEdit, errMsg string) error {
	st := h.Catalog.Store.State()
	rows := make([]categoryRow, 0, len(st.Categories))
	known := map[string]bool{}
	for _, cat := range st.Categories {
		known[cat.ID] = true
		rows = append(rows, categoryRow{Category: cat, Subs: catalog.SubCategoryOptions(st.SubCategories, cat.ID)})
	}
	var orphans []domain.SubCategory
	for _, s := range st.SubCategories {
		if !known[s.CategoryID] {
			orphans = append(orphans, s)
		}
	}
	return render(c, "admin_categories", fiber.Map{
		"Tab":           view.TabCategories.String(),
		"Rows":          rows,
		"Orphans":       orphans,
		"UnknownOrigin": store.UnknownOrigin,
		"Categories":    st.Categories,
		"Edit":          edit,
		"Err":           errMsg,
	})
}

func (h *AdminHandler) nameOf(id string) string {
	st := h.Catalog.Store.State()
	for _, cat := range st.Categories {
		if cat.ID == id {
			return cat.Name
		}
	}
	if s, ok := st.SubCategory(id); ok {
		return s.Name
	}
	return ""
}

// draft reads the product form over current. An uploaded image replaces
// image_url; with neither, the current image is kept unless remove_image is set.
func (h *AdminHandler) draft(c *fiber.Ctx, current domain.Product) (domain.Product, error) {
	p := domain.Product{
		Name:          validate.Text(c.FormValue("name"), 80),
		Brand:         validate.Text(c.FormValue("brand"), 80),
		Description:   validate.Text(c.FormValue("description"), 2000),
		ImageURL:      strings.TrimSpace(c.FormValue("image_url")),
		CategoryID:    strings.TrimSpace(c.FormValue("category_id")),
		SubCategoryID: strings.TrimSpace(c.FormValue("sub_category_id")),
		Featured:      validate.Checkbox(c.FormValue("featured")),
		OutOfStock:    validate.Checkbox(c.FormValue("out_of_stock")),
	}
	var ok bool
	if p.Price, ok = validate.Price(c.FormValue("price")); !ok {
		return p, invalidField("precio")
	}
	if p.PriceCordobas, ok = validate.Price(c.FormValue("price_cordobas")); !ok {
		return p, invalidField("precio en córdobas")
	}
	if p.Discount, ok = validate.Discount(c.FormValue("discount")); !ok {
		return p, invalidField("descuento")
	}
	if p.Gender, ok = validate.Gender(c.FormValue("gender")); !ok {
		return p, invalidField("género")
	}
	if fh, err := c.FormFile("image"); err == nil && fh.Size > 0 {
		f, err := fh.Open()
		if err != nil {
			return p, invalidField("imagen")
		}
		defer f.Close()
		uri, err := imaging.Ingest(f)
		if err != nil {
			return p, invalidField("imagen")
		}
		p.ImageURL = uri
	}
	if p.ImageURL == "" && !validate.Checkbox(c.FormValue("remove_image")) {
		p.ImageURL = current.ImageURL
	}
	return p, nil
}

func (h *AdminHandler) form(c *fiber.Ctx, e *services.ProductEditor) error {
	st := h.Catalog.Store.State()
	data := fiber.Map{
		"Editor":        e,
		"P":             e.Draft,
		"Categories":    st.Categories,
		"SubCategories": st.SubCategories,
		"Genders":       domain.Genders,
		"Action":        "/admin/products",
	}
	if e.Mode() == services.EditorEditing {
		data["Action"] = "/admin/products/" + e.Draft.ID
	}
	if e.Err != nil {
		data["Err"] = e.Err.Error()
	}
	return render(c, "admin_product_form", data)
}

func (h *AdminHandler) product(c *fiber.Ctx) (domain.Product, bool) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return domain.Product{}, false
	}
	return h.Catalog.Product(id)
}

// GET /admin/products/new
func (h *AdminHandler) NewProduct(c *fiber.Ctx) error {
	var e services.ProductEditor
	_ = e.OpenCreate()
	return h.form(c, &e)
}

// GET /admin/products/:id/edit
func (h *AdminHandler) EditProduct(c *fiber.Ctx) error {
	p, ok := h.product(c)
	if !ok {
		return notFound(c, "Producto no encontrado")
	}
	var e services.ProductEditor
	_ = e.OpenEdit(p)
	return h.form(c, &e)
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var e services.ProductEditor
	_ = e.OpenCreate()
	return h.submit(c, &e)
}

// POST /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	p, ok := h.product(c)
	if !ok {
		return notFound(c, "Producto no encontrado")
	}
	var e services.ProductEditor
	_ = e.OpenEdit(p)
	return h.submit(c, &e)
}

func (h *AdminHandler) submit(c *fiber.Ctx, e *services.ProductEditor) error {
	mode := e.Mode().String()
	draft, err := h.draft(c, e.Draft)
	if err == nil {
		err = e.Submit(c.UserContext(), h.Admin, draft)
	} else {
		if e.Mode() == services.EditorEditing {
			draft.ID = e.Draft.ID
		}
		e.Draft, e.Err = draft, err
	}
	switch {
	case err == nil:
		applog.Audit(c, "admin.products.save", map[string]any{"mode": mode, "name": draft.Name})
		return c.Redirect("/admin")
	case errors.Is(err, services.ErrInvalid):
		applog.Security(c, "validation.fail", map[string]any{"form": "product", "err": err.Error()})
		return h.form(c.Status(fiber.StatusBadRequest), e)
	default:
		applog.Error(c, "admin.products.save.fail", err, map[string]any{"mode": mode})
		return alert(c, "/admin", err)
	}
}

// POST /admin/products/:id/stock
func (h *AdminHandler) ToggleStock(c *fiber.Ctx) error {
	p, ok := h.product(c)
	if !ok {
		return notFound(c, "Producto no encontrado")
	}
	if err := h.Admin.ToggleStock(c.UserContext(), p); err != nil {
		applog.Error(c, "admin.products.stock.fail", err, map[string]any{"product": p.ID})
		return alert(c, "/admin", err)
	}
	applog.Audit(c, "admin.products.stock", map[string]any{"product": p.ID, "out_of_stock": !p.OutOfStock})
	return c.Redirect("/admin")
}

// deleteTarget describes one deletable document kind.
type deleteTarget struct {
	kind   string
	back   string
	name   func(id string) (string, bool)
	delete func(c *fiber.Ctx, id string, confirmed bool) error
}

func (h *AdminHandler) targets() map[string]deleteTarget {
	st := func() store.State { return h.Catalog.Store.State() }
	return map[string]deleteTarget{
		"products": {
			kind: "producto", back: "/admin",
			name: func(id string) (string, bool) {
				p, ok := st().Product(id)
				return p.Name, ok
			},
			delete: func(c *fiber.Ctx, id string, confirmed bool) error { return h.Admin.DeleteProduct(c.UserContext(), id, confirmed) },
		},
		"categories": {
			kind: "origen", back: "/admin?tab=categories",
			name: func(id string) (string, bool) {
				for _, cat := range st().Categories {
					if cat.ID == id {
						return cat.Name, true
					}
				}
				return "", false
			},
			delete: func(c *fiber.Ctx, id string, confirmed bool) error { return h.Admin.DeleteCategory(c.UserContext(), id, confirmed) },
		},
		"subcategories": {
			kind: "marca", back: "/admin?tab=categories",
			name: func(id string) (string, bool) {
				s, ok := st().SubCategory(id)
				return s.Name, ok
			},
			delete: func(c *fiber.Ctx, id string, confirmed bool) error { return h.Admin.DeleteSubCategory(c.UserContext(), id, confirmed) },
		},
	}
}

func deletePath(collection, id string) string {
	return "/admin/" + collection + "/" + url.PathEscape(id) + "/delete"
}

// ConfirmDelete is the blocking confirmation step.
// GET /admin/:collection/:id/delete
func (h *AdminHandler) ConfirmDelete(c *fiber.Ctx) error {
	t, ok := h.targets()[c.Params("collection")]
	id, okID := validate.ID(c.Params("id"))
	if !ok || !okID {
		return notFound(c, "Página no encontrada")
	}
	name, found := t.name(id)
	if !found {
		return notFound(c, "El documento ya no existe")
	}
	return render(c, "confirm", fiber.Map{
		"Kind":   t.kind,
		"Name":   name,
		"Action": deletePath(c.Params("collection"), id),
		"Back":   t.back,
	})
}

// Delete commits only when the confirmation form sent confirm=yes.
// POST /admin/:collection/:id/delete
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	collection := c.Params("collection")
	t, ok := h.targets()[collection]
	id, okID := validate.ID(c.Params("id"))
	if !ok || !okID {
		return notFound(c, "Página no encontrada")
	}
	err := t.delete(c, id, c.FormValue("confirm") == "yes")
	switch {
	case err == nil:
		applog.Audit(c, "admin."+collection+".delete", map[string]any{"id": id})
		return c.Redirect(t.back)
	case errors.Is(err, services.ErrNotConfirmed):
		return c.Redirect(deletePath(collection, id))
	default:
		applog.Error(c, "admin."+collection+".delete.fail", err, map[string]any{"id": id})
		return alert(c, t.back, err)
	}
}

// POST /admin/categories
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	id, err := h.Admin.CreateCategory(c.UserContext(), validate.Text(c.FormValue("name"), 80))
	return h.afterCategoryWrite(c, "admin.categories.create", id, err)
}

// POST /admin/subcategories
func (h *AdminHandler) CreateSubCategory(c *fiber.Ctx) error {
	parent, _ := validate.Filter(c.FormValue("category_id"))
	id, err := h.Admin.CreateSubCategory(c.UserContext(), parent, validate.Text(c.FormValue("name"), 80))
	return h.afterCategoryWrite(c, "admin.subcategories.create", id, err)
}

// POST /admin/categories/:id/rename
func (h *AdminHandler) RenameCategory(c *fiber.Ctx) error {
	return h.rename(c, "admin.categories.rename", h.Admin.RenameCategory)
}

// POST /admin/subcategories/:id/rename
func (h *AdminHandler) RenameSubCategory(c *fiber.Ctx) error {
	return h.rename(c, "admin.subcategories.rename", h.Admin.RenameSubCategory)
}

func (h *AdminHandler) rename(c *fiber.Ctx, action string, fn services.RenameFunc) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Página no encontrada")
	}
	var edit services.InlineEdit
	edit.Begin(id, h.nameOf(id))
	edit.SetName(validate.Text(c.FormValue("name"), 80))
	err := edit.Save(c.UserContext(), fn)
	if errors.Is(err, services.ErrInvalid) {
		applog.Security(c, "validation.fail", map[string]any{"form": action})
		return h.categoriesTab(c.Status(fiber.StatusBadRequest), &edit, "El nombre es obligatorio")
	}
	return h.afterCategoryWrite(c, action, id, err)
}

func (h *AdminHandler) afterCategoryWrite(c *fiber.Ctx, action, id string, err error) error {
	switch {
	case err == nil:
		applog.Audit(c, action, map[string]any{"id": id})
		return c.Redirect("/admin?tab=categories")
	case errors.Is(err, services.ErrInvalid):
		applog.Security(c, "validation.fail", map[string]any{"form": action})
		return h.categoriesTab(c.Status(fiber.StatusBadRequest), &services.InlineEdit{}, strings.TrimPrefix(err.Error(), services.ErrInvalid.Error()+": "))
	default:
		applog.Error(c, action+".fail", err, map[string]any{"id": id})
		return alert(c, "/admin?tab=categories", err)
	}
}
