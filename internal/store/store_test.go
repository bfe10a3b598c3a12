package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"balalaika/internal/domain"
	"balalaika/internal/store"
)

func TestProductsGateLoading(t *testing.T) {
	s := store.New()
	s.SetCategories([]domain.Category{{ID: "c1", Name: "Arabes"}})
	assert.False(t, s.Loaded(), "categories alone do not finish loading")

	s.SetProducts(nil)
	assert.True(t, s.Loaded(), "an empty product snapshot still counts")
}

func TestSnapshotOverwrites(t *testing.T) {
	s := store.New()
	s.SetProducts([]domain.Product{{ID: "a"}, {ID: "b"}})
	s.SetProducts([]domain.Product{{ID: "c"}})

	st := s.State()
	assert.Len(t, st.Products, 1)
	assert.Equal(t, uint64(2), st.Revision)
}

func TestSubscribeSeesRevisions(t *testing.T) {
	s := store.New()
	sub := s.Subscribe()
	defer sub.Close()

	s.SetSubCategories([]domain.SubCategory{{ID: "s1", CategoryID: "c1", Name: "Lattafa"}})
	assert.Equal(t, uint64(1), <-sub.C())
}

func TestCategoryNameDangling(t *testing.T) {
	s := store.New()
	s.SetCategories([]domain.Category{{ID: "c1", Name: "Arabes"}})
	st := s.State()

	assert.Equal(t, "Arabes", st.CategoryName("c1"))
	assert.Equal(t, store.UnknownOrigin, st.CategoryName("deleted"))
}
