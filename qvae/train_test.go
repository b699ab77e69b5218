package qvae

import (
	"errors"
	"math"
	"testing"
)

func newTestModel(t *testing.T, features int, seed int64) *Autoencoder {
	t.Helper()

	circuit, err := NewStateVectorCircuit(2, 1)
	if err != nil {
		t.Fatal(err)
	}

	m, err := NewAutoencoder(Config{Features: features, Hidden: 4, Circuit: circuit}, seed)
	if err != nil {
		t.Fatal(err)
	}

	return m
}

func TestTrainReportsOneLossPerEpoch(t *testing.T) {
	data := Synthetic(16, 4, 11)
	m := newTestModel(t, 4, 11)

	var reported []int
	losses, err := Train(m, data, TrainConfig{Epochs: 5, Seed: 11}, func(epoch int, loss float64) {
		reported = append(reported, epoch)
	})
	if err != nil {
		t.Fatal(err)
	}

	if got, want := len(losses), 5; got != want {
		t.Fatalf("got %d losses, want %d", got, want)
	}
	for i, loss := range losses {
		if math.IsNaN(loss) || math.IsInf(loss, 0) || loss < 0 {
			t.Errorf("epoch %d: loss = %v", i+1, loss)
		}
	}
	for i, epoch := range reported {
		if epoch != i+1 {
			t.Errorf("reported epoch %d at position %d", epoch, i)
		}
	}
}

func TestTrainIsDeterministic(t *testing.T) {
	run := func() []float64 {
		data := Synthetic(12, 4, 3)
		m := newTestModel(t, 4, 3)
		losses, err := Train(m, data, TrainConfig{Epochs: 4, Seed: 3}, nil)
		if err != nil {
			t.Fatal(err)
		}
		return losses
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("epoch %d: %v vs %v", i+1, a[i], b[i])
		}
	}
}

// Losses should be non-increasing on average: a sanity check with
// tolerance rather than a strict invariant, since SPSA steps are noisy.
func TestTrainLossTrendsDownward(t *testing.T) {
	// A dataset of one repeated vector is the easiest possible target.
	row := []float64{0.5, -0.25, 0.75, -0.5}
	data := &Dataset{}
	for i := 0; i < 8; i++ {
		x := make([]float64, len(row))
		copy(x, row)
		data.X = append(data.X, x)
	}

	m := newTestModel(t, 4, 19)

	losses, err := Train(m, data, TrainConfig{Epochs: 60, LearningRate: 0.1, Seed: 19}, nil)
	if err != nil {
		t.Fatal(err)
	}

	var early, late float64
	for i := 0; i < 10; i++ {
		early += losses[i]
		late += losses[len(losses)-1-i]
	}

	if late > early*1.05 {
		t.Errorf("mean loss rose from %v to %v over training", early/10, late/10)
	}
}

func TestTrainRejectsMismatchedData(t *testing.T) {
	data := Synthetic(8, 6, 5)
	m := newTestModel(t, 4, 5)

	called := false
	_, err := Train(m, data, TrainConfig{Epochs: 3, Seed: 5}, func(int, float64) {
		called = true
	})

	var mismatch ShapeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
	if called {
		t.Error("no epoch should complete on mismatched data")
	}
}

func TestTrainRejectsBadEpochCount(t *testing.T) {
	data := Synthetic(8, 4, 5)
	m := newTestModel(t, 4, 5)

	if _, err := Train(m, data, TrainConfig{Epochs: 0, Seed: 5}, nil); err == nil {
		t.Error("expected an error for a zero epoch count")
	}
}
