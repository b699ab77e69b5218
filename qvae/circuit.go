// Package qvae trains a hybrid quantum-classical autoencoder: a dense
// classical encoder feeding a parameterized quantum circuit, and a dense
// classical decoder reconstructing the input from the circuit's readout.
package qvae

import (
	"fmt"

	"github.com/itsubaki/q"
)

// QuantumLayer is the boundary between the classical model and the
// quantum circuit: a function from trainable parameters plus input
// angles to a real-valued readout vector. Keeping this pluggable lets
// the classical encoder and decoder be tested against trivial backends.
type QuantumLayer interface {
	Qubits() int
	ParamCount() int
	Run(params, angles []float64) ([]float64, error)
}

// StateVectorCircuit runs a fixed-topology variational circuit on the
// itsubaki/q statevector simulator. Input angles are encoded as RY
// rotations on |0...0>; each variational layer applies one trainable RY
// per qubit followed by a fixed ring of CZ entanglers; readout is the
// per-qubit Pauli-Z expectation, so each output lies in [-1, 1].
type StateVectorCircuit struct {
	qubits int
	layers int
}

func NewStateVectorCircuit(qubits, layers int) (*StateVectorCircuit, error) {
	if qubits < 1 {
		return nil, fmt.Errorf("circuit needs at least 1 qubit, got %d", qubits)
	}
	if layers < 1 {
		return nil, fmt.Errorf("circuit needs at least 1 variational layer, got %d", layers)
	}
	// The simulated statevector has 2^qubits amplitudes.
	if qubits > 24 {
		return nil, fmt.Errorf("%d qubits would need a %d-amplitude statevector", qubits, 1<<uint(qubits))
	}

	return &StateVectorCircuit{qubits: qubits, layers: layers}, nil
}

func (c *StateVectorCircuit) Qubits() int { return c.qubits }

func (c *StateVectorCircuit) ParamCount() int { return c.qubits * c.layers }

func (c *StateVectorCircuit) Run(params, angles []float64) ([]float64, error) {
	if len(angles) != c.qubits {
		return nil, fmt.Errorf("circuit has %d qubits but got %d input angles", c.qubits, len(angles))
	}
	if len(params) != c.ParamCount() {
		return nil, fmt.Errorf("circuit has %d parameters but got %d", c.ParamCount(), len(params))
	}

	qsim := q.New()
	qb := qsim.ZeroWith(c.qubits)

	// Angle-encode the input.
	for i, theta := range angles {
		qsim.RY(theta, qb[i])
	}

	for l := 0; l < c.layers; l++ {
		for i := 0; i < c.qubits; i++ {
			qsim.RY(params[l*c.qubits+i], qb[i])
		}

		// CZ is symmetric and self-inverse, so a two-qubit "ring" would
		// cancel itself out; entangle the lone pair once instead.
		switch {
		case c.qubits == 2:
			qsim.CZ(qb[0], qb[1])
		case c.qubits > 2:
			for i := 0; i < c.qubits; i++ {
				qsim.CZ(qb[i], qb[(i+1)%c.qubits])
			}
		}
	}

	// <Z_i> = P(qubit i = 0) - P(qubit i = 1).
	out := make([]float64, c.qubits)
	for _, s := range qsim.State() {
		p := s.Probability
		bits := s.BinaryString[0]
		for i := range out {
			if bits[i] == '0' {
				out[i] += p
			} else {
				out[i] -= p
			}
		}
	}

	return out, nil
}
