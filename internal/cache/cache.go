// Package cache memoizes chart results by their full parameter tuple, so an
// interactive session re-rendering the same range never re-queries the
// warehouse.
package cache

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bridgewatch/bridge-metrics/internal/models"
)

// Results is a bounded LRU from parameter-tuple keys to computed rows.
type Results struct {
	lru *lru.Cache[string, any]
}

// New returns a Results cache holding at most size entries.
func New(size int) (*Results, error) {
	l, err := lru.New[string, any](size)
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}
	return &Results{lru: l}, nil
}

// Key builds a stable cache key from the operation name, the parameter
// tuple, and any operation-specific extras (sort order, chain direction).
func Key(op string, p models.Params, extra ...string) string {
	parts := []string{
		op,
		string(p.Timeframe),
		p.Start.Format("2006-01-02"),
		p.End.Format("2006-01-02"),
	}
	parts = append(parts, extra...)
	return strings.Join(parts, "|")
}

// Get returns the cached value for key, if present.
func (c *Results) Get(key string) (any, bool) {
	return c.lru.Get(key)
}

// Set stores value under key, evicting the least recently used entry when
// full.
func (c *Results) Set(key string, value any) {
	c.lru.Add(key, value)
}

// Len reports the number of cached entries.
func (c *Results) Len() int {
	return c.lru.Len()
}
