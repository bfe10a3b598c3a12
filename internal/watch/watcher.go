// Package watch keeps the store in step with the backend's live feeds.
package watch

import (
	"context"

	"balalaika/internal/domain"
	"balalaika/internal/live"
	applog "balalaika/internal/log"
	"balalaika/internal/store"
)

// Source is the set of live queries the watcher opens.
type Source interface {
	Categories() *live.Subscription[[]domain.Category]
	SubCategories() *live.Subscription[[]domain.SubCategory]
	Products() *live.Subscription[[]domain.Product]
}

type Watcher struct {
	src   Source
	store *store.Store
}

func New(src Source, st *store.Store) *Watcher {
	return &Watcher{src: src, store: st}
}

// Run opens the three subscriptions and copies every emission into the store
// until ctx is cancelled, then unsubscribes.
func (w *Watcher) Run(ctx context.Context) {
	cats := w.src.Categories()
	subs := w.src.SubCategories()
	prods := w.src.Products()
	defer func() {
		cats.Close()
		subs.Close()
		prods.Close()
		applog.Logger().Info("watch.stopped")
	}()

	applog.Logger().Info("watch.started")
	for {
		select {
		case <-ctx.Done():
			return
		case list, ok := <-cats.C():
			if !ok {
				return
			}
			w.store.SetCategories(list)
		case list, ok := <-subs.C():
			if !ok {
				return
			}
			w.store.SetSubCategories(list)
		case list, ok := <-prods.C():
			if !ok {
				return
			}
			w.store.SetProducts(list)
		}
	}
}
