package qvae

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// ShapeMismatchError reports input whose feature width does not match the
// width the model was configured for.
type ShapeMismatchError struct {
	Want int
	Got  int
}

func (e ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: expected %d features, got %d", e.Want, e.Got)
}

// Config describes the autoencoder topology. The latent width equals the
// circuit's qubit count.
type Config struct {
	Features int
	Hidden   int
	Circuit  QuantumLayer
}

// Autoencoder holds every trainable parameter, classical and quantum, in
// one contiguous slice. The gonum matrices are views over subslices of
// that backing array, so an in-place update of the parameter vector is
// immediately visible to the forward pass.
type Autoencoder struct {
	cfg    Config
	params []float64

	encW  *mat.Dense // qubits x features
	encB  []float64
	qp    []float64  // circuit parameters
	dec1W *mat.Dense // hidden x qubits
	dec1B []float64
	dec2W *mat.Dense // features x hidden
	dec2B []float64
}

// NewAutoencoder initializes the model with small random weights drawn
// from an explicitly seeded source.
func NewAutoencoder(cfg Config, seed int64) (*Autoencoder, error) {
	if cfg.Features < 1 {
		return nil, fmt.Errorf("feature width must be positive, got %d", cfg.Features)
	}
	if cfg.Hidden < 1 {
		return nil, fmt.Errorf("hidden width must be positive, got %d", cfg.Hidden)
	}
	if cfg.Circuit == nil {
		return nil, fmt.Errorf("no quantum layer configured")
	}

	f, h := cfg.Features, cfg.Hidden
	q := cfg.Circuit.Qubits()

	n := q*f + q + cfg.Circuit.ParamCount() + h*q + h + f*h + f
	params := make([]float64, n)

	rng := rand.New(rand.NewSource(seed))
	for i := range params {
		params[i] = rng.NormFloat64() * 0.1
	}

	m := &Autoencoder{cfg: cfg, params: params}

	off := 0
	take := func(k int) []float64 {
		s := params[off : off+k]
		off += k
		return s
	}

	m.encW = mat.NewDense(q, f, take(q*f))
	m.encB = take(q)
	m.qp = take(cfg.Circuit.ParamCount())
	m.dec1W = mat.NewDense(h, q, take(h*q))
	m.dec1B = take(h)
	m.dec2W = mat.NewDense(f, h, take(f*h))
	m.dec2B = take(f)

	return m, nil
}

// Features returns the configured input width.
func (m *Autoencoder) Features() int { return m.cfg.Features }

// Encode maps a feature vector to its latent representation: a dense
// layer squashed into rotation angles, then the quantum circuit.
func (m *Autoencoder) Encode(x []float64) ([]float64, error) {
	if len(x) != m.cfg.Features {
		return nil, ShapeMismatchError{Want: m.cfg.Features, Got: len(x)}
	}

	q := m.cfg.Circuit.Qubits()
	angles := make([]float64, q)

	av := mat.NewVecDense(q, angles)
	av.MulVec(m.encW, mat.NewVecDense(len(x), x))
	for i := range angles {
		angles[i] = math.Pi * math.Tanh(angles[i]+m.encB[i])
	}

	return m.cfg.Circuit.Run(m.qp, angles)
}

// Reconstruct runs a full encode-decode pass.
func (m *Autoencoder) Reconstruct(x []float64) ([]float64, error) {
	latent, err := m.Encode(x)
	if err != nil {
		return nil, err
	}

	return m.decode(latent), nil
}

// Loss is the mean squared reconstruction error of a single sample.
func (m *Autoencoder) Loss(x []float64) (float64, error) {
	xhat, err := m.Reconstruct(x)
	if err != nil {
		return 0, err
	}

	var s float64
	for i := range x {
		e := xhat[i] - x[i]
		s += e * e
	}

	return s / float64(len(x)), nil
}

func (m *Autoencoder) decode(z []float64) []float64 {
	h, f := m.cfg.Hidden, m.cfg.Features

	hidden := make([]float64, h)
	hv := mat.NewVecDense(h, hidden)
	hv.MulVec(m.dec1W, mat.NewVecDense(len(z), z))
	for i := range hidden {
		hidden[i] = math.Tanh(hidden[i] + m.dec1B[i])
	}

	out := make([]float64, f)
	ov := mat.NewVecDense(f, out)
	ov.MulVec(m.dec2W, hv)
	for i := range out {
		out[i] += m.dec2B[i]
	}

	return out
}
