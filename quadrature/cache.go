package quadrature

import (
	"sync"

	"github.com/notargets/gofem/types"
)

type ruleKey struct {
	geom   types.Geometry
	order  int
	family Family
}

// Cache hands out one shared Rule per (geometry, order, family). It is safe
// for concurrent use and only grows.
type Cache struct {
	mu    sync.Mutex
	rules map[ruleKey]*Rule
}

func NewCache() *Cache {
	return &Cache{rules: make(map[ruleKey]*Rule)}
}

func (c *Cache) Get(geom types.Geometry, order int, family Family) (r *Rule, err error) {
	key := ruleKey{geom, order, family}
	c.mu.Lock()
	defer c.mu.Unlock()
	if r = c.rules[key]; r != nil {
		return
	}
	if r, err = NewRule(geom, order, family); err != nil {
		return
	}
	c.rules[key] = r
	return
}

// MustGet is Get for callers that treat a missing rule as a configuration error
func (c *Cache) MustGet(geom types.Geometry, order int, family Family) *Rule {
	r, err := c.Get(geom, order, family)
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rules)
}
