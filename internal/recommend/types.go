// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/svdrec/internal/ratings"
	"github.com/tomtom215/svdrec/internal/recommend/algorithms"
)

var (
	// ErrNotTrained is returned by prediction methods before the first Fit.
	ErrNotTrained = errors.New("recommend: model not trained")

	// ErrNotConverged is returned (wrapped) by Fit when the epoch budget runs
	// out. The engine still serves the capped model.
	ErrNotConverged = algorithms.ErrNotConverged

	// ErrTrainingInProgress is returned by Fit when another Fit is running.
	ErrTrainingInProgress = errors.New("recommend: training already in progress")

	// ErrBatchTooLarge is returned by PredictBatch above Limits.MaxBatchSize.
	ErrBatchTooLarge = errors.New("recommend: batch exceeds limit")
)

// Rating is one observed (user, item, rating) triple with external ids.
type Rating = ratings.Triple

// Query is one (user, item) pair to predict.
type Query struct {
	// UserID is the external user identifier.
	UserID int64 `json:"user"`

	// ItemID is the external item identifier.
	ItemID int64 `json:"item"`
}

// ColdStart classifies which side of a query was unseen during training.
type ColdStart int

const (
	// ColdStartNone means both user and item were seen in training.
	ColdStartNone ColdStart = iota
	// ColdStartUser means the user was not seen.
	ColdStartUser
	// ColdStartItem means the item was not seen.
	ColdStartItem
	// ColdStartBoth means neither was seen.
	ColdStartBoth
)

// String returns the label used in JSON and metrics.
func (c ColdStart) String() string {
	switch c {
	case ColdStartNone:
		return "none"
	case ColdStartUser:
		return "user"
	case ColdStartItem:
		return "item"
	case ColdStartBoth:
		return "both"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c ColdStart) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ColdStart) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*c = ColdStartNone
	case "user":
		*c = ColdStartUser
	case "item":
		*c = ColdStartItem
	case "both":
		*c = ColdStartBoth
	default:
		return fmt.Errorf("unknown cold start class %q", text)
	}
	return nil
}

func coldStartOf(userKnown, itemKnown bool) ColdStart {
	switch {
	case userKnown && itemKnown:
		return ColdStartNone
	case itemKnown:
		return ColdStartUser
	case userKnown:
		return ColdStartItem
	default:
		return ColdStartBoth
	}
}

// Prediction is the predicted rating for one query.
type Prediction struct {
	UserID int64 `json:"user"`
	ItemID int64 `json:"item"`

	// Rating is the rounded prediction. It is never 0.
	Rating int `json:"rating"`

	// Score is the unrounded estimate.
	Score float64 `json:"score"`

	ColdStart ColdStart `json:"cold_start"`
}

// TrainResult summarizes a Fit call.
type TrainResult struct {
	// RunID uniquely identifies the training run in logs.
	RunID string `json:"run_id"`

	Users    int `json:"users"`
	Items    int `json:"items"`
	Observed int `json:"observed"`

	algorithms.TrainResult
}

// Status describes the currently served model.
type Status struct {
	// Trained is true once a Fit has produced a usable model.
	Trained bool `json:"trained"`

	// Training is true while a Fit is running.
	Training bool `json:"training"`

	RunID     string `json:"run_id,omitempty"`
	StoreKind string `json:"store_kind,omitempty"`

	Users    int `json:"users"`
	Items    int `json:"items"`
	Observed int `json:"observed"`

	Average   float64 `json:"average"`
	Epochs    int     `json:"epochs"`
	Objective float64 `json:"objective"`
	Converged bool    `json:"converged"`

	// LastTrainedAt is when the served model finished training.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is how long the last training took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// Version increments on every successful Fit.
	Version int `json:"version"`
}

// Evaluation holds offline accuracy over labeled pairs.
type Evaluation struct {
	// Count is the number of evaluated pairs.
	Count int `json:"count"`

	// RMSE is the root mean squared error of rounded predictions.
	RMSE float64 `json:"rmse"`

	// MAE is the mean absolute error of rounded predictions.
	MAE float64 `json:"mae"`

	// ColdStarts is the number of pairs with an unseen user or item.
	ColdStarts int `json:"cold_starts"`
}
