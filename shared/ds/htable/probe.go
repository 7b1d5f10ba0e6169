package htable

import "fmt"

// ProbeKind selects the collision-resolution strategy. It is fixed at
// construction, and a resized table keeps its parent's kind. A closed
// three-way enum dispatched in one switch; no interface needed for a
// choice that never grows.
type ProbeKind uint8

const (
	// ProbeLinear steps one slot at a time. Step size 1 is coprime with the
	// prime capacity, so the walk covers every slot before repeating.
	ProbeLinear ProbeKind = iota

	// ProbeQuadratic adds stepNum^2 to the current position. For arbitrary
	// prime capacities this does NOT visit every slot; below the load-factor
	// ceiling that is acceptable, and Put surfaces ErrTableFull on the
	// pathological walks rather than looping forever. Known limitation,
	// kept as-is.
	ProbeQuadratic

	// ProbeDoubleHash adds a per-key stride from the secondary hash,
	// constant for the whole walk.
	ProbeDoubleHash
)

func (k ProbeKind) String() string {
	switch k {
	case ProbeLinear:
		return "linear"
	case ProbeQuadratic:
		return "quadratic"
	case ProbeDoubleHash:
		return "double_hash"
	default:
		return fmt.Sprintf("ProbeKind(%d)", uint8(k))
	}
}

// ParseProbeKind maps a config string to a ProbeKind.
func ParseProbeKind(s string) (ProbeKind, error) {
	switch s {
	case "linear", "":
		return ProbeLinear, nil
	case "quadratic":
		return ProbeQuadratic, nil
	case "double", "double_hash":
		return ProbeDoubleHash, nil
	default:
		return ProbeLinear, fmt.Errorf("unknown probe kind %q", s)
	}
}

// next computes the candidate slot after pos. Pure function of its inputs:
// stepNum counts collisions so far (first call passes 1), stride is the
// key's secondary hash (ignored unless double hashing). The result is
// always in [0, capacity).
func (k ProbeKind) next(pos, stepNum, stride, capacity int) int {
	switch k {
	case ProbeQuadratic:
		return (pos + stepNum*stepNum) % capacity
	case ProbeDoubleHash:
		return (pos + stride) % capacity
	default:
		return (pos + 1) % capacity
	}
}
