package qvae

import (
	"math"
	"testing"
)

func TestZeroAnglesLeaveGroundState(t *testing.T) {
	c, err := NewStateVectorCircuit(3, 2)
	if err != nil {
		t.Fatal(err)
	}

	out, err := c.Run(make([]float64, c.ParamCount()), make([]float64, 3))
	if err != nil {
		t.Fatal(err)
	}

	for q, z := range out {
		if math.Abs(z-1) > 1e-12 {
			t.Errorf("qubit %d: <Z> = %v, want 1", q, z)
		}
	}
}

// RY rotations about the same axis compose, so a single qubit rotated by
// theta (input) then phi (parameter) reads out <Z> = cos(theta+phi).
func TestSingleQubitRotationExpectation(t *testing.T) {
	c, err := NewStateVectorCircuit(1, 1)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []struct{ theta, phi float64 }{
		{0, 0},
		{math.Pi, 0},
		{1.234, 0},
		{0.7, 0.5},
		{-0.9, 2.1},
	} {
		out, err := c.Run([]float64{v.phi}, []float64{v.theta})
		if err != nil {
			t.Fatal(err)
		}

		if want := math.Cos(v.theta + v.phi); math.Abs(out[0]-want) > 1e-12 {
			t.Errorf("theta=%v phi=%v: <Z> = %v, want %v", v.theta, v.phi, out[0], want)
		}
	}
}

func TestRunValidatesInputLengths(t *testing.T) {
	c, err := NewStateVectorCircuit(2, 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Run(make([]float64, c.ParamCount()), make([]float64, 3)); err == nil {
		t.Error("expected an error for too many input angles")
	}
	if _, err := c.Run(make([]float64, 1), make([]float64, 2)); err == nil {
		t.Error("expected an error for the wrong parameter count")
	}
}

func TestExpectationsStayBounded(t *testing.T) {
	c, err := NewStateVectorCircuit(4, 3)
	if err != nil {
		t.Fatal(err)
	}

	params := make([]float64, c.ParamCount())
	for i := range params {
		params[i] = 0.37 * float64(i+1)
	}
	angles := []float64{0.1, -2.2, 3.0, -0.4}

	out, err := c.Run(params, angles)
	if err != nil {
		t.Fatal(err)
	}

	for q, z := range out {
		if z < -1-1e-9 || z > 1+1e-9 {
			t.Errorf("qubit %d: <Z> = %v outside [-1, 1]", q, z)
		}
	}

	// The simulation is deterministic.
	again, err := c.Run(params, angles)
	if err != nil {
		t.Fatal(err)
	}
	for q := range out {
		if out[q] != again[q] {
			t.Errorf("qubit %d: repeated runs differ: %v vs %v", q, out[q], again[q])
		}
	}
}

func TestBadTopologyRejected(t *testing.T) {
	if _, err := NewStateVectorCircuit(0, 1); err == nil {
		t.Error("expected an error for 0 qubits")
	}
	if _, err := NewStateVectorCircuit(2, 0); err == nil {
		t.Error("expected an error for 0 layers")
	}
}
