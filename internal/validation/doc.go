// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator and translates field errors into
// readable messages. Field names in messages follow the koanf tag (for
// configuration) or the json tag (for request bodies), with the full path
// below the root struct:
//
//	training.workers must be greater than or equal to 0
//	queries[2].user is required
//
// # Usage
//
//	type PredictRequest struct {
//	    Queries []Query `json:"queries" validate:"required,min=1,max=1000,dive"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Thread Safety
//
// GetValidator initializes the validator once; the returned instance caches
// struct metadata and is safe for concurrent use.
package validation
