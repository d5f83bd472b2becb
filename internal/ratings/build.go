// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package ratings

import (
	"fmt"

	"github.com/tomtom215/svdrec/internal/ids"
)

// Triple is a single training observation keyed by external identifiers.
type Triple struct {
	UserID int64 `json:"user"`
	ItemID int64 `json:"item"`
	Rating uint8 `json:"rating"`
}

// Build compacts every triple's identifiers and writes the ratings into a
// new store sized from the compactor counts.
//
// Identifiers are compacted over the whole list first, in order, so indices
// follow first-seen order. Repeated (user, item) pairs overwrite earlier ones:
// the last write wins.
func Build(kind Kind, triples []Triple, users, items *ids.Compactor) (Store, error) {
	for n, t := range triples {
		if t.Rating == 0 {
			return nil, fmt.Errorf("triple %d (user %d, item %d): %w", n, t.UserID, t.ItemID, ErrZeroRating)
		}
		users.Compact(t.UserID)
		items.Compact(t.ItemID)
	}

	store, err := New(kind, users.Count(), items.Count())
	if err != nil {
		return nil, err
	}

	for _, t := range triples {
		u := users.Lookup(t.UserID)
		i := items.Lookup(t.ItemID)
		if err := store.Set(u, i, t.Rating); err != nil {
			return nil, err
		}
	}

	if s, ok := store.(*Sparse); ok {
		s.Seal()
	}
	return store, nil
}
