package qvae

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// TrainConfig controls the training loop. Seed governs the SPSA
// perturbation directions and must be set explicitly so runs are
// reproducible in isolation.
type TrainConfig struct {
	Epochs       int
	LearningRate float64
	Perturbation float64
	Seed         int64
}

// Train runs cfg.Epochs full passes over the dataset, minimizing mean
// squared reconstruction error with simultaneous-perturbation (SPSA)
// gradient estimates. SPSA needs only two loss evaluations per step
// regardless of parameter count, which is the standard way to train
// variational circuits without automatic differentiation. The mean loss
// of each epoch is passed to report (which may be nil) and collected in
// the returned slice, one entry per epoch. A NaN or infinite loss aborts
// training with an error.
func Train(m *Autoencoder, data *Dataset, cfg TrainConfig, report func(epoch int, loss float64)) ([]float64, error) {
	if cfg.Epochs < 1 {
		return nil, fmt.Errorf("epoch count must be positive, got %d", cfg.Epochs)
	}
	if data.Samples() == 0 {
		return nil, fmt.Errorf("no samples to train on")
	}
	if data.Features() != m.cfg.Features {
		return nil, ShapeMismatchError{Want: m.cfg.Features, Got: data.Features()}
	}

	lr := cfg.LearningRate
	if lr <= 0 {
		lr = 0.05
	}
	ck := cfg.Perturbation
	if ck <= 0 {
		ck = 0.05
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	params := m.params
	delta := make([]float64, len(params))
	losses := make([]float64, 0, cfg.Epochs)

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		var epochLoss float64

		for _, x := range data.X {
			// Rademacher perturbation direction, scaled by ck.
			for i := range delta {
				if rng.Intn(2) == 0 {
					delta[i] = ck
				} else {
					delta[i] = -ck
				}
			}

			floats.Add(params, delta)
			lossPlus, err := m.Loss(x)
			if err != nil {
				return nil, err
			}

			floats.Sub(params, delta)
			floats.Sub(params, delta)
			lossMinus, err := m.Loss(x)
			if err != nil {
				return nil, err
			}

			// Restore and descend: g_i = (L+ - L-) / (2 * delta_i).
			floats.Add(params, delta)
			scale := (lossPlus - lossMinus) / 2
			for i := range params {
				params[i] -= lr * scale / delta[i]
			}

			loss, err := m.Loss(x)
			if err != nil {
				return nil, err
			}
			epochLoss += loss
		}

		epochLoss /= float64(data.Samples())
		if math.IsNaN(epochLoss) || math.IsInf(epochLoss, 0) {
			return nil, fmt.Errorf("loss diverged to %v at epoch %d", epochLoss, epoch)
		}

		losses = append(losses, epochLoss)
		if report != nil {
			report(epoch, epochLoss)
		}
	}

	return losses, nil
}
