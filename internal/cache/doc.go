// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package cache provides a generic, thread-safe LRU cache.
//
// The HTTP API uses it to memoize single predictions. Keys include the model
// version, so a retrained model never serves stale entries:
//
//	type key struct {
//	    version    int
//	    user, item   int64
//	}
//	c := cache.NewLRU[key, recommend.Prediction](10000)
//	if p, ok := c.Get(key{v, u, i}); ok {
//	    return p
//	}
package cache
