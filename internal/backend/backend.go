// Package backend is the document store the storefront writes to and
// subscribes on. Every successful write re-reads the whole affected
// collection and publishes it as a fresh snapshot; there is no incremental
// patching and no version check (last write wins).
package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"balalaika/internal/domain"
	"balalaika/internal/live"
	applog "balalaika/internal/log"
	"balalaika/internal/repos"
)

// Notifier is told about every committed change (e.g. a cross-instance relay).
type Notifier interface {
	Notify(ctx context.Context, c domain.Collection)
}

type Backend struct {
	cats  *repos.CategoryRepo
	subs  *repos.SubCategoryRepo
	prods *repos.ProductRepo

	categories    *live.Feed[[]domain.Category]
	subCategories *live.Feed[[]domain.SubCategory]
	products      *live.Feed[[]domain.Product]

	locks    map[domain.Collection]*sync.Mutex
	notifier Notifier
}

// Open builds the backend over db and primes all three feeds.
func Open(db *sqlx.DB, n Notifier) (*Backend, error) {
	b := &Backend{
		cats:          repos.NewCategoryRepo(db),
		subs:          repos.NewSubCategoryRepo(db),
		prods:         repos.NewProductRepo(db),
		categories:    live.NewFeed[[]domain.Category](string(domain.Categories)),
		subCategories: live.NewFeed[[]domain.SubCategory](string(domain.SubCategories)),
		products:      live.NewFeed[[]domain.Product](string(domain.Products)),
		locks: map[domain.Collection]*sync.Mutex{
			domain.Categories:    {},
			domain.SubCategories: {},
			domain.Products:      {},
		},
		notifier: n,
	}
	for _, c := range []domain.Collection{domain.Categories, domain.SubCategories, domain.Products} {
		if err := b.Refresh(c); err != nil {
			return nil, fmt.Errorf("prime %s: %w", c, err)
		}
	}
	return b, nil
}

// Categories opens a live query over categories ordered by name.
func (b *Backend) Categories() *live.Subscription[[]domain.Category] { return b.categories.Subscribe() }

// SubCategories opens a live query over sub-categories ordered by name.
func (b *Backend) SubCategories() *live.Subscription[[]domain.SubCategory] {
	return b.subCategories.Subscribe()
}

// Products opens a live query over all products, unordered.
func (b *Backend) Products() *live.Subscription[[]domain.Product] { return b.products.Subscribe() }

// SubCategory reads one sub-category straight from the store, bypassing
// the feeds. Unknown ids report repos.ErrNotFound.
func (b *Backend) SubCategory(_ context.Context, id string) (domain.SubCategory, error) {
	return b.subs.Get(id)
}

// Refresh re-reads collection c and publishes it. The per-collection lock
// keeps a stale read from being published after a newer one.
func (b *Backend) Refresh(c domain.Collection) error {
	mu, ok := b.locks[c]
	if !ok {
		return fmt.Errorf("unknown collection %q", c)
	}
	mu.Lock()
	defer mu.Unlock()

	switch c {
	case domain.Categories:
		list, err := b.cats.List()
		if err != nil {
			return err
		}
		b.categories.Publish(list)
	case domain.SubCategories:
		list, err := b.subs.List()
		if err != nil {
			return err
		}
		b.subCategories.Publish(list)
	case domain.Products:
		list, err := b.prods.List()
		if err != nil {
			return err
		}
		b.products.Publish(list)
	}
	return nil
}

func (b *Backend) committed(ctx context.Context, c domain.Collection) {
	if err := b.Refresh(c); err != nil {
		applog.Logger().WithError(err).WithField("collection", c).Error("backend.refresh.fail")
	}
	if b.notifier != nil {
		b.notifier.Notify(ctx, c)
	}
}

func (b *Backend) write(ctx context.Context, c domain.Collection, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	b.committed(ctx, c)
	return nil
}

func (b *Backend) AddCategory(ctx context.Context, name string) (string, error) {
	id := uuid.NewString()
	err := b.write(ctx, domain.Categories, func() error {
		return b.cats.Create(domain.Category{ID: id, Name: name})
	})
	return id, err
}

func (b *Backend) RenameCategory(ctx context.Context, id, name string) error {
	return b.write(ctx, domain.Categories, func() error { return b.cats.Rename(id, name) })
}

func (b *Backend) DeleteCategory(ctx context.Context, id string) error {
	return b.write(ctx, domain.Categories, func() error { return b.cats.Delete(id) })
}

func (b *Backend) AddSubCategory(ctx context.Context, categoryID, name string) (string, error) {
	id := uuid.NewString()
	err := b.write(ctx, domain.SubCategories, func() error {
		return b.subs.Create(domain.SubCategory{ID: id, CategoryID: categoryID, Name: name})
	})
	return id, err
}

func (b *Backend) RenameSubCategory(ctx context.Context, id, name string) error {
	return b.write(ctx, domain.SubCategories, func() error { return b.subs.Rename(id, name) })
}

func (b *Backend) DeleteSubCategory(ctx context.Context, id string) error {
	return b.write(ctx, domain.SubCategories, func() error { return b.subs.Delete(id) })
}

// AddProduct stores p under a new id; p.ID is ignored.
func (b *Backend) AddProduct(ctx context.Context, p domain.Product) (string, error) {
	p.ID = uuid.NewString()
	err := b.write(ctx, domain.Products, func() error { return b.prods.Create(p) })
	return p.ID, err
}

func (b *Backend) UpdateProduct(ctx context.Context, p domain.Product) error {
	return b.write(ctx, domain.Products, func() error { return b.prods.Update(p) })
}

func (b *Backend) SetProductStock(ctx context.Context, id string, outOfStock bool) error {
	return b.write(ctx, domain.Products, func() error { return b.prods.SetOutOfStock(id, outOfStock) })
}

func (b *Backend) DeleteProduct(ctx context.Context, id string) error {
	return b.write(ctx, domain.Products, func() error { return b.prods.Delete(id) })
}
