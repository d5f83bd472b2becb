// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package ratings holds the user-item rating matrix used for training.
//
// Ratings are small positive integers (1-255). A stored value of zero means
// "no observation", so a true rating can never be zero. Two implementations
// share the Store interface:
//
//   - Dense: a flat row-major []uint8 of users x items. Fast, but memory grows
//     with the full matrix size regardless of density.
//   - Sparse: per-user maps. "Entry absent" and "entry == 0" are equivalent.
//
// Both iterate a row's observed entries in increasing item index order, so a
// model trained on either sees the same update sequence.
//
// A store is built once and treated as read-only afterward; concurrent reads
// are safe.
package ratings

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrBadShape is returned when a store is requested with negative dimensions.
	ErrBadShape = errors.New("ratings: invalid shape")

	// ErrOutOfRange is returned by Set for indices outside the store.
	ErrOutOfRange = errors.New("ratings: index out of range")

	// ErrZeroRating is returned when a triple carries rating 0, which is
	// reserved for "unobserved".
	ErrZeroRating = errors.New("ratings: rating 0 is reserved for unobserved entries")

	// ErrUnknownKind is returned by ParseKind for unsupported store kinds.
	ErrUnknownKind = errors.New("ratings: unknown store kind")
)

// Store is a users x items rating matrix where 0 means unobserved.
type Store interface {
	// Users returns the number of rows.
	Users() int

	// Items returns the number of columns.
	Items() int

	// At returns the rating at (u, i), or 0 when unobserved or out of range.
	At(u, i int) uint8

	// Set writes r at (u, i). Writing 0 clears the entry.
	Set(u, i int, r uint8) error

	// ForEachInRow calls fn for every observed entry of row u in increasing
	// item index order.
	ForEachInRow(u int, fn func(i int, r uint8))

	// Observed returns the number of non-zero entries.
	Observed() int
}

// Kind selects a Store implementation.
type Kind int

const (
	// KindDense is the flat array implementation.
	KindDense Kind = iota

	// KindSparse is the map-backed implementation.
	KindSparse
)

// String returns the config name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindSparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// ParseKind converts a config string into a Kind. Empty means dense.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dense":
		return KindDense, nil
	case "sparse":
		return KindSparse, nil
	default:
		return KindDense, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// New allocates an empty store of the given kind.
func New(kind Kind, users, items int) (Store, error) {
	switch kind {
	case KindSparse:
		return NewSparse(users, items)
	case KindDense:
		return NewDense(users, items)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// Dense is a row-major users x items matrix of ratings.
type Dense struct {
	users, items int
	data         []uint8
	observed     int
}

// NewDense creates a zeroed users x items store. Zero-sized stores are valid.
func NewDense(users, items int) (*Dense, error) {
	if users < 0 || items < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, users, items)
	}
	return &Dense{
		users: users,
		items: items,
		data:  make([]uint8, users*items),
	}, nil
}

// Users returns the number of rows.
func (d *Dense) Users() int { return d.users }

// Items returns the number of columns.
func (d *Dense) Items() int { return d.items }

// Observed returns the number of non-zero entries.
func (d *Dense) Observed() int { return d.observed }

// At returns the rating at (u, i).
func (d *Dense) At(u, i int) uint8 {
	if u < 0 || u >= d.users || i < 0 || i >= d.items {
		return 0
	}
	return d.data[u*d.items+i]
}

// Set writes r at (u, i).
func (d *Dense) Set(u, i int, r uint8) error {
	if u < 0 || u >= d.users || i < 0 || i >= d.items {
		return fmt.Errorf("Dense.Set(%d,%d): %w", u, i, ErrOutOfRange)
	}
	off := u*d.items + i
	switch {
	case d.data[off] == 0 && r != 0:
		d.observed++
	case d.data[off] != 0 && r == 0:
		d.observed--
	}
	d.data[off] = r
	return nil
}

// Row returns the backing slice for row u. Callers must not modify it.
func (d *Dense) Row(u int) []uint8 {
	return d.data[u*d.items : (u+1)*d.items]
}

// ForEachInRow calls fn for every observed entry of row u.
func (d *Dense) ForEachInRow(u int, fn func(i int, r uint8)) {
	if u < 0 || u >= d.users {
		return
	}
	for i, r := range d.Row(u) {
		if r != 0 {
			fn(i, r)
		}
	}
}

// Sparse stores only observed entries, keyed by user then item.
type Sparse struct {
	users, items int
	rows         []map[int]uint8
	observed     int

	// order caches each row's sorted item indices; rebuilt lazily after Set.
	order [][]int
}

// NewSparse creates an empty users x items sparse store.
func NewSparse(users, items int) (*Sparse, error) {
	if users < 0 || items < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, users, items)
	}
	return &Sparse{
		users: users,
		items: items,
		rows:  make([]map[int]uint8, users),
		order: make([][]int, users),
	}, nil
}

// Users returns the number of rows.
func (s *Sparse) Users() int { return s.users }

// Items returns the number of columns.
func (s *Sparse) Items() int { return s.items }

// Observed returns the number of stored entries.
func (s *Sparse) Observed() int { return s.observed }

// At returns the rating at (u, i); absent entries read as 0.
func (s *Sparse) At(u, i int) uint8 {
	if u < 0 || u >= s.users || s.rows[u] == nil {
		return 0
	}
	return s.rows[u][i]
}

// Set writes r at (u, i). Writing 0 deletes the entry.
func (s *Sparse) Set(u, i int, r uint8) error {
	if u < 0 || u >= s.users || i < 0 || i >= s.items {
		return fmt.Errorf("Sparse.Set(%d,%d): %w", u, i, ErrOutOfRange)
	}
	row := s.rows[u]
	_, exists := row[i]

	if r == 0 {
		if exists {
			delete(row, i)
			s.observed--
			s.order[u] = nil
		}
		return nil
	}

	if row == nil {
		row = make(map[int]uint8)
		s.rows[u] = row
	}
	if !exists {
		s.observed++
		s.order[u] = nil
	}
	row[i] = r
	return nil
}

// Seal precomputes row iteration order. Build calls it once the store is
// filled; after Seal the store is safe for concurrent ForEachInRow calls.
func (s *Sparse) Seal() {
	for u := range s.rows {
		s.rowOrder(u)
	}
}

// ForEachInRow calls fn for every stored entry of row u in item order.
func (s *Sparse) ForEachInRow(u int, fn func(i int, r uint8)) {
	if u < 0 || u >= s.users {
		return
	}
	row := s.rows[u]
	for _, i := range s.rowOrder(u) {
		fn(i, row[i])
	}
}

func (s *Sparse) rowOrder(u int) []int {
	if s.order[u] != nil || len(s.rows[u]) == 0 {
		return s.order[u]
	}
	keys := make([]int, 0, len(s.rows[u]))
	for i := range s.rows[u] {
		keys = append(keys, i)
	}
	sort.Ints(keys)
	s.order[u] = keys
	return keys
}

// Ensure interface compliance.
var (
	_ Store = (*Dense)(nil)
	_ Store = (*Sparse)(nil)
)
