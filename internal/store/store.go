// Package store is the single process-wide copy of the catalog collections.
// Consumers hold a *Store and re-derive their views from State on every
// change notification; nothing outside the watcher writes to it.
package store

import (
	"sync"

	"balalaika/internal/domain"
	"balalaika/internal/live"
)

// UnknownOrigin labels a reference to a category that no longer exists.
const UnknownOrigin = "Origen desconocido"

// State is an immutable view of the store at one revision.
type State struct {
	Categories    []domain.Category
	SubCategories []domain.SubCategory
	Products      []domain.Product
	// Loaded flips once the first product snapshot arrived; categories and
	// sub-categories are best-effort.
	Loaded   bool
	Revision uint64
}

type Store struct {
	mu      sync.RWMutex
	state   State
	changes *live.Feed[uint64]
}

func New() *Store {
	return &Store{changes: live.NewFeed[uint64]("store")}
}

func (s *Store) SetCategories(list []domain.Category) {
	s.apply(func(st *State) { st.Categories = list })
}

func (s *Store) SetSubCategories(list []domain.SubCategory) {
	s.apply(func(st *State) { st.SubCategories = list })
}

func (s *Store) SetProducts(list []domain.Product) {
	s.apply(func(st *State) {
		st.Products = list
		st.Loaded = true
	})
}

func (s *Store) apply(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.state.Revision++
	rev := s.state.Revision
	s.mu.Unlock()
	s.changes.Publish(rev)
}

// State returns the current state. Slices are shared with the store and
// must be treated as read-only; setters replace them, never mutate.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Loaded() bool { return s.State().Loaded }

// Subscribe yields the revision after every change.
func (s *Store) Subscribe() *live.Subscription[uint64] { return s.changes.Subscribe() }

func (st State) Product(id string) (domain.Product, bool) {
	for _, p := range st.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (st State) SubCategory(id string) (domain.SubCategory, bool) {
	for _, s := range st.SubCategories {
		if s.ID == id {
			return s, true
		}
	}
	return domain.SubCategory{}, false
}

// CategoryName resolves id, falling back to UnknownOrigin for dangling references.
func (st State) CategoryName(id string) string {
	for _, c := range st.Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return UnknownOrigin
}
