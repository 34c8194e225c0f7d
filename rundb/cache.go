// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rundb

import (
	"context"
	"sync"
)

// Cache memoizes run conditions by run number.
// Run conditions are historical: cached entries are never invalidated.
type Cache struct {
	db *DB

	mu   sync.Mutex
	runs map[int]*Conditions
}

func NewCache(db *DB) *Cache {
	return &Cache{
		db:   db,
		runs: make(map[int]*Conditions),
	}
}

// Conditions returns the conditions of run, querying the database on the
// first request only. Failed queries are not cached.
func (c *Cache) Conditions(ctx context.Context, run int) (*Conditions, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cond, ok := c.runs[run]; ok {
		return cond, nil
	}

	cond, err := c.db.Conditions(ctx, run)
	if err != nil {
		return nil, err
	}
	c.runs[run] = cond
	return cond, nil
}

// Len returns the number of cached runs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.runs)
}
