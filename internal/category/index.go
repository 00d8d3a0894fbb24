package category

import (
	"triday/internal/model"
)

// Index is a read-only lookup over the two-level category tree. It is
// built by the owner of the snapshot and passed explicitly to whoever
// needs lookups; there is no package-level cache.
type Index struct {
	subs    map[string]model.Subcategory
	parents map[string]model.Category
}

func NewIndex(cats []model.Category) *Index {
	idx := &Index{
		subs:    make(map[string]model.Subcategory),
		parents: make(map[string]model.Category),
	}
	for _, c := range cats {
		for _, s := range c.Subcategories {
			idx.subs[s.ID] = s
			idx.parents[s.ID] = c
		}
	}
	return idx
}

// Subcategory resolves a subcategory id. Item category references always
// point at subcategories, never at top-level categories.
func (ix *Index) Subcategory(id string) (model.Subcategory, bool) {
	s, ok := ix.subs[id]
	return s, ok
}

// Parent returns the top-level category owning the given subcategory id.
func (ix *Index) Parent(subID string) (model.Category, bool) {
	c, ok := ix.parents[subID]
	return c, ok
}

// ValidRef reports whether id names a known subcategory. Empty is valid:
// items may be uncategorized.
func (ix *Index) ValidRef(id string) bool {
	if id == "" {
		return true
	}
	_, ok := ix.subs[id]
	return ok
}
