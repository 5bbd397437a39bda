// Package catalog maintains the public index page listing every published
// applet.
package catalog

import "github.com/alexanderramin/appletgen/internal/domain"

// Catalog is an ordered set of entries keyed by slug. Insertion order is
// display order.
type Catalog struct {
	entries []domain.CatalogEntry
	index   map[string]int
}

// New returns a catalog holding entries; later duplicates replace earlier
// ones in place.
func New(entries ...domain.CatalogEntry) *Catalog {
	c := &Catalog{index: make(map[string]int)}
	for _, e := range entries {
		c.Upsert(e)
	}
	return c
}

// Upsert replaces the entry with the same slug in place, or appends it.
// It reports whether the slug was new to the catalog.
func (c *Catalog) Upsert(e domain.CatalogEntry) (added bool) {
	if e.Link == "" {
		e.Link = domain.LinkForSlug(e.Slug)
	}
	if i, ok := c.index[e.Slug]; ok {
		c.entries[i] = e
		return false
	}
	c.index[e.Slug] = len(c.entries)
	c.entries = append(c.entries, e)
	return true
}

// Get returns the entry for slug.
func (c *Catalog) Get(slug string) (domain.CatalogEntry, bool) {
	i, ok := c.index[slug]
	if !ok {
		return domain.CatalogEntry{}, false
	}
	return c.entries[i], true
}

// Entries returns a copy of the entries in display order.
func (c *Catalog) Entries() []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Len() int { return len(c.entries) }
