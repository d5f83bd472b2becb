// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/svdrec/internal/ratings"
	"github.com/tomtom215/svdrec/internal/recommend/algorithms"
)

// sampleRatings is the three-rating scenario: users 1,2 and items 10,11.
func sampleRatings() []Rating {
	return []Rating{
		{UserID: 1, ItemID: 10, Rating: 4},
		{UserID: 1, ItemID: 11, Rating: 5},
		{UserID: 2, ItemID: 10, Rating: 3},
	}
}

func newTestEngine(t *testing.T, modify func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if modify != nil {
		modify(cfg)
	}
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine(nil) error = %v", err)
		}
		if got := e.GetConfig().Model.Factors; got != 10 {
			t.Errorf("Factors = %d, want 10", got)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Model.Factors = -1
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() with invalid config succeeded")
		}
	})

	t.Run("config is copied", func(t *testing.T) {
		cfg := DefaultConfig()
		e, err := NewEngine(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		cfg.Model.Factors = 3
		if e.GetConfig().Model.Factors != 10 {
			t.Error("engine config changed after caller mutation")
		}
	})
}

func TestEngine_NotTrained(t *testing.T) {
	e := newTestEngine(t, nil)

	if e.IsTrained() {
		t.Error("IsTrained() = true before Fit")
	}
	if _, err := e.Predict(1, 10); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Predict() error = %v, want ErrNotTrained", err)
	}
	if _, err := e.PredictBatch(context.Background(), []Query{{UserID: 1, ItemID: 10}}); !errors.Is(err, ErrNotTrained) {
		t.Errorf("PredictBatch() error = %v, want ErrNotTrained", err)
	}
	if _, err := e.Evaluate(context.Background(), sampleRatings()); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Evaluate() error = %v, want ErrNotTrained", err)
	}
	if _, err := e.TrainingObjective(); !errors.Is(err, ErrNotTrained) {
		t.Errorf("TrainingObjective() error = %v, want ErrNotTrained", err)
	}
	if _, ok := e.ExternalUser(0); ok {
		t.Error("ExternalUser() ok before Fit")
	}

	status := e.Status()
	if status.Trained || status.Version != 0 {
		t.Errorf("Status() = %+v, want untrained", status)
	}
}

func TestEngine_FitEndToEnd(t *testing.T) {
	e := newTestEngine(t, nil)

	res, err := e.Fit(context.Background(), sampleRatings())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if res.Users != 2 || res.Items != 2 || res.Observed != 3 {
		t.Errorf("Fit() dims = %d users, %d items, %d observed; want 2, 2, 3", res.Users, res.Items, res.Observed)
	}
	if res.RunID == "" {
		t.Error("Fit() RunID is empty")
	}
	if res.Average != 4.25 {
		t.Errorf("Average = %v, want 4.25", res.Average)
	}
	if !res.Converged || res.Epochs < 1 {
		t.Errorf("Fit() converged=%v epochs=%d", res.Converged, res.Epochs)
	}

	t.Run("ids compacted in first-seen order", func(t *testing.T) {
		for idx, want := range []int64{1, 2} {
			if got, ok := e.ExternalUser(idx); !ok || got != want {
				t.Errorf("ExternalUser(%d) = %d, %v; want %d", idx, got, ok, want)
			}
		}
		for idx, want := range []int64{10, 11} {
			if got, ok := e.ExternalItem(idx); !ok || got != want {
				t.Errorf("ExternalItem(%d) = %d, %v; want %d", idx, got, ok, want)
			}
		}
	})

	t.Run("known pair", func(t *testing.T) {
		p, err := e.Predict(1, 10)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if p.Rating == 0 {
			t.Error("Predict() returned 0")
		}
		if p.ColdStart != ColdStartNone {
			t.Errorf("ColdStart = %v, want none", p.ColdStart)
		}
		if p.Rating != algorithms.RoundRating(p.Score) {
			t.Errorf("Rating = %d, want RoundRating(%v)", p.Rating, p.Score)
		}
	})

	t.Run("both unknown falls back to average", func(t *testing.T) {
		p, err := e.Predict(99, 999)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if p.ColdStart != ColdStartBoth {
			t.Errorf("ColdStart = %v, want both", p.ColdStart)
		}
		if p.Rating != 4 || p.Score != 4.25 {
			t.Errorf("Predict(99, 999) = %d (%v), want 4 (4.25)", p.Rating, p.Score)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		p, err := e.Predict(99, 10)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if p.ColdStart != ColdStartUser || p.Rating == 0 {
			t.Errorf("Predict(99, 10) = %+v", p)
		}
	})

	t.Run("predictions are idempotent", func(t *testing.T) {
		first, _ := e.Predict(2, 11)
		for n := 0; n < 10; n++ {
			again, _ := e.Predict(2, 11)
			if again != first {
				t.Fatalf("Predict() changed: %+v vs %+v", again, first)
			}
		}
	})

	t.Run("status reflects model", func(t *testing.T) {
		s := e.Status()
		if !s.Trained || s.Training || s.Version != 1 {
			t.Errorf("Status() = %+v", s)
		}
		if s.StoreKind != "dense" || s.RunID != res.RunID {
			t.Errorf("Status() kind=%q run=%q", s.StoreKind, s.RunID)
		}
		if s.LastTrainedAt.IsZero() {
			t.Error("LastTrainedAt is zero")
		}
	})

	t.Run("training objective recomputes", func(t *testing.T) {
		obj, err := e.TrainingObjective()
		if err != nil {
			t.Fatalf("TrainingObjective() error = %v", err)
		}
		if obj != res.Objective {
			t.Errorf("TrainingObjective() = %v, want %v", obj, res.Objective)
		}
	})
}

func TestEngine_DenseAndSparseAgree(t *testing.T) {
	triples := []Rating{
		{UserID: 5, ItemID: 1, Rating: 3},
		{UserID: 7, ItemID: 2, Rating: 5},
		{UserID: 5, ItemID: 3, Rating: 1},
		{UserID: 9, ItemID: 1, Rating: 4},
		{UserID: 7, ItemID: 3, Rating: 2},
		{UserID: 5, ItemID: 1, Rating: 2}, // overwrites the first rating
	}

	dense := newTestEngine(t, func(c *Config) { c.Training.Store = "dense"; c.Training.Workers = 2 })
	sparse := newTestEngine(t, func(c *Config) { c.Training.Store = "sparse"; c.Training.Workers = 3 })

	rd, err := dense.Fit(context.Background(), triples)
	if err != nil {
		t.Fatalf("dense Fit() error = %v", err)
	}
	rs, err := sparse.Fit(context.Background(), triples)
	if err != nil {
		t.Fatalf("sparse Fit() error = %v", err)
	}

	if rd.Observed != 5 || rs.Observed != 5 {
		t.Errorf("observed = %d / %d, want 5", rd.Observed, rs.Observed)
	}
	if rd.Epochs != rs.Epochs {
		t.Errorf("epochs differ: %d vs %d", rd.Epochs, rs.Epochs)
	}

	for _, u := range []int64{5, 7, 9} {
		for _, i := range []int64{1, 2, 3} {
			pd, _ := dense.Predict(u, i)
			ps, _ := sparse.Predict(u, i)
			if pd.Score != ps.Score {
				t.Errorf("Predict(%d, %d) dense %v != sparse %v", u, i, pd.Score, ps.Score)
			}
		}
	}
	if sparse.Status().StoreKind != "sparse" {
		t.Errorf("StoreKind = %q, want sparse", sparse.Status().StoreKind)
	}
}

func TestEngine_FitRejectsZeroRating(t *testing.T) {
	e := newTestEngine(t, nil)

	_, err := e.Fit(context.Background(), []Rating{{UserID: 1, ItemID: 1, Rating: 0}})
	if !errors.Is(err, ratings.ErrZeroRating) {
		t.Fatalf("Fit() error = %v, want ErrZeroRating", err)
	}
	if e.IsTrained() {
		t.Error("IsTrained() = true after failed Fit")
	}
	if e.Status().LastError == "" {
		t.Error("Status().LastError not set")
	}
}

func TestEngine_FitNotConverged(t *testing.T) {
	e := newTestEngine(t, func(c *Config) {
		c.Training.Threshold = 1e-12
		c.Training.MaxEpochs = 2
	})

	res, err := e.Fit(context.Background(), sampleRatings())
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("Fit() error = %v, want ErrNotConverged", err)
	}
	if res.Epochs != 2 || res.Converged {
		t.Errorf("Fit() epochs=%d converged=%v, want 2, false", res.Epochs, res.Converged)
	}
	if !e.IsTrained() {
		t.Fatal("capped model is not served")
	}
	if p, err := e.Predict(1, 10); err != nil || p.Rating == 0 {
		t.Errorf("Predict() = %+v, %v", p, err)
	}
	if s := e.Status(); s.Converged || s.LastError == "" {
		t.Errorf("Status() = %+v", s)
	}
}

func TestEngine_FitCanceledKeepsPreviousModel(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.Fit(context.Background(), sampleRatings()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	before, _ := e.Predict(1, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Fit(ctx, []Rating{{UserID: 50, ItemID: 60, Rating: 1}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Fit() error = %v, want context.Canceled", err)
	}

	after, _ := e.Predict(1, 10)
	if after != before {
		t.Errorf("served model changed after canceled Fit: %+v vs %+v", after, before)
	}
	if e.Status().Version != 1 {
		t.Errorf("Version = %d, want 1", e.Status().Version)
	}
}

func TestEngine_FitInProgress(t *testing.T) {
	e := newTestEngine(t, nil)

	e.trainMu.Lock()
	_, err := e.Fit(context.Background(), sampleRatings())
	e.trainMu.Unlock()

	if !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("Fit() error = %v, want ErrTrainingInProgress", err)
	}
}

func TestEngine_PredictBatch(t *testing.T) {
	e := newTestEngine(t, func(c *Config) { c.Limits.MaxBatchSize = 3 })
	if _, err := e.Fit(context.Background(), sampleRatings()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	t.Run("preserves order", func(t *testing.T) {
		queries := []Query{{UserID: 2, ItemID: 11}, {UserID: 1, ItemID: 10}, {UserID: 8, ItemID: 8}}
		preds, err := e.PredictBatch(context.Background(), queries)
		if err != nil {
			t.Fatalf("PredictBatch() error = %v", err)
		}
		if len(preds) != len(queries) {
			t.Fatalf("len = %d, want %d", len(preds), len(queries))
		}
		for n, q := range queries {
			if preds[n].UserID != q.UserID || preds[n].ItemID != q.ItemID {
				t.Errorf("preds[%d] = %+v, want query %+v", n, preds[n], q)
			}
			single, _ := e.Predict(q.UserID, q.ItemID)
			if single != preds[n] {
				t.Errorf("preds[%d] = %+v, Predict = %+v", n, preds[n], single)
			}
		}
	})

	t.Run("batch limit", func(t *testing.T) {
		_, err := e.PredictBatch(context.Background(), make([]Query, 4))
		if !errors.Is(err, ErrBatchTooLarge) {
			t.Errorf("PredictBatch() error = %v, want ErrBatchTooLarge", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.PredictBatch(ctx, []Query{{UserID: 1, ItemID: 10}})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("PredictBatch() error = %v, want context.Canceled", err)
		}
	})
}

func TestEngine_ConcurrentPredict(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.Fit(context.Background(), sampleRatings()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for n := 0; n < 20; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := e.Predict(int64(n%3), 10); err != nil {
				errs <- err
			}
		}(n)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Predict() error = %v", err)
	}
}

func TestEngine_Evaluate(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.Fit(context.Background(), sampleRatings()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	t.Run("training pairs", func(t *testing.T) {
		ev, err := e.Evaluate(context.Background(), sampleRatings())
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if ev.Count != 3 || ev.ColdStarts != 0 {
			t.Errorf("Evaluate() = %+v", ev)
		}
		if ev.RMSE < ev.MAE {
			t.Errorf("RMSE %v < MAE %v", ev.RMSE, ev.MAE)
		}
	})

	t.Run("cold start counted", func(t *testing.T) {
		ev, err := e.Evaluate(context.Background(), []Rating{{UserID: 42, ItemID: 42, Rating: 4}})
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if ev.ColdStarts != 1 {
			t.Errorf("ColdStarts = %d, want 1", ev.ColdStarts)
		}
		// round(4.25) = 4 matches the label exactly
		if ev.RMSE != 0 || ev.MAE != 0 {
			t.Errorf("RMSE=%v MAE=%v, want 0", ev.RMSE, ev.MAE)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		ev, err := e.Evaluate(context.Background(), nil)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if ev.Count != 0 || ev.RMSE != 0 {
			t.Errorf("Evaluate(nil) = %+v", ev)
		}
	})
}
