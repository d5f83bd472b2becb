// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// histogramCount returns the number of observations recorded by h.
func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

// TestRecordTrainingRun tests training run counters by result label
func TestRecordTrainingRun(t *testing.T) {
	tests := []struct {
		name   string
		result string
	}{
		{"converged run", ResultConverged},
		{"capped run", ResultNotConverged},
		{"canceled run", ResultCanceled},
		{"failed run", ResultFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(TrainingRunsTotal.WithLabelValues(tt.result))
			observations := histogramCount(t, TrainingDuration)

			RecordTrainingRun(tt.result, 250*time.Millisecond)

			if got := testutil.ToFloat64(TrainingRunsTotal.WithLabelValues(tt.result)); got != before+1 {
				t.Errorf("runs{result=%q} = %v, want %v", tt.result, got, before+1)
			}
			if got := histogramCount(t, TrainingDuration); got != observations+1 {
				t.Errorf("duration observations = %d, want %d", got, observations+1)
			}
		})
	}
}

// TestRecordTrainingEpoch tests epoch counter, objective gauge and eval histogram
func TestRecordTrainingEpoch(t *testing.T) {
	before := testutil.ToFloat64(TrainingEpochsTotal)
	evals := histogramCount(t, ObjectiveEvalDuration)

	RecordTrainingEpoch(123.5, 2*time.Millisecond)
	RecordTrainingEpoch(98.25, time.Millisecond)

	if got := testutil.ToFloat64(TrainingEpochsTotal); got != before+2 {
		t.Errorf("epochs = %v, want %v", got, before+2)
	}
	if got := testutil.ToFloat64(TrainingObjective); got != 98.25 {
		t.Errorf("objective = %v, want 98.25", got)
	}
	if got := histogramCount(t, ObjectiveEvalDuration); got != evals+2 {
		t.Errorf("eval observations = %d, want %d", got, evals+2)
	}
}

// TestRecordModelSize tests the entity gauges
func TestRecordModelSize(t *testing.T) {
	RecordModelSize(2, 3, 4)

	want := map[string]float64{"users": 2, "items": 3, "ratings": 4}
	for kind, v := range want {
		if got := testutil.ToFloat64(ModelEntities.WithLabelValues(kind)); got != v {
			t.Errorf("entities{kind=%q} = %v, want %v", kind, got, v)
		}
	}
}

// TestRecordPrediction tests concurrent prediction counting
func TestRecordPrediction(t *testing.T) {
	before := testutil.ToFloat64(PredictionsTotal.WithLabelValues("both"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordPrediction("both")
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(PredictionsTotal.WithLabelValues("both")); got != before+50 {
		t.Errorf("predictions{cold_start=both} = %v, want %v", got, before+50)
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/predict", "200"))

	RecordAPIRequest("GET", "/api/v1/predict", "200", 3*time.Millisecond)

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/predict", "200")); got != before+1 {
		t.Errorf("api_requests_total = %v, want %v", got, before+1)
	}
}

// TestMetricNames verifies the exported metric families
func TestMetricNames(t *testing.T) {
	RecordTrainingRun(ResultConverged, time.Millisecond)
	RecordTrainingEpoch(1, time.Millisecond)
	RecordModelSize(1, 1, 1)
	RecordPrediction("none")
	RecordAPIRequest("GET", "/health", "200", time.Millisecond)
	APIActiveRequests.Set(0)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := make(map[string]bool)
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "svdrec_") || strings.HasPrefix(mf.GetName(), "api_") {
			found[mf.GetName()] = true
		}
	}

	for _, name := range []string{
		"svdrec_training_runs_total",
		"svdrec_training_epochs_total",
		"svdrec_training_duration_seconds",
		"svdrec_training_objective",
		"svdrec_objective_eval_duration_seconds",
		"svdrec_model_entities",
		"svdrec_predictions_total",
		"api_requests_total",
		"api_request_duration_seconds",
		"api_active_requests",
	} {
		if !found[name] {
			t.Errorf("metric %s not registered", name)
		}
	}
}
