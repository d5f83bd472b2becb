// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package ids maps sparse external identifiers to dense zero-based indices.
//
// Indices are assigned in first-seen order and never change for the lifetime
// of a Compactor. Lookups of identifiers that were never compacted return
// NotFound rather than assigning a new index.
//
// A Compactor is not safe for concurrent writers. Once building is complete,
// concurrent Lookup calls are safe.
package ids

// NotFound is returned by Lookup for identifiers that were never compacted.
const NotFound = -1

// Compactor is a bijection between external int64 identifiers and dense
// indices in [0, Count()).
type Compactor struct {
	// index maps external ID to dense index
	index map[int64]int

	// external maps dense index back to external ID
	external []int64
}

// New creates a Compactor with room for capacity identifiers.
func New(capacity int) *Compactor {
	if capacity < 0 {
		capacity = 0
	}
	return &Compactor{
		index:    make(map[int64]int, capacity),
		external: make([]int64, 0, capacity),
	}
}

// Compact returns the dense index for ext, assigning the next free index on
// first sight.
func (c *Compactor) Compact(ext int64) int {
	if idx, ok := c.index[ext]; ok {
		return idx
	}
	idx := len(c.external)
	c.index[ext] = idx
	c.external = append(c.external, ext)
	return idx
}

// Lookup returns the dense index for ext, or NotFound. It never assigns.
func (c *Compactor) Lookup(ext int64) int {
	if idx, ok := c.index[ext]; ok {
		return idx
	}
	return NotFound
}

// External returns the external identifier for a dense index.
func (c *Compactor) External(idx int) (int64, bool) {
	if idx < 0 || idx >= len(c.external) {
		return 0, false
	}
	return c.external[idx], true
}

// Count returns the number of distinct identifiers compacted so far.
func (c *Compactor) Count() int {
	return len(c.external)
}
