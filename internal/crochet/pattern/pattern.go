package pattern

import (
	"errors"
	"fmt"
)

// ErrInvalidRings: набор колец не прошёл проверку.
var ErrInvalidRings = errors.New("invalid rings")

// ============================================================
// Ring
// ============================================================

type Ring struct {
	Segments int      `json:"segments"`
	Stitches []Stitch `json:"stitches"`
}

// NewRing создаёт кольцо из n слотов, заполненных fill.
func NewRing(n int, fill Stitch) Ring {
	if n < 0 {
		n = 0
	}
	r := Ring{Segments: n, Stitches: make([]Stitch, n)}
	for i := range r.Stitches {
		r.Stitches[i] = fill
	}
	return r
}

// Resize обрезает или дополняет слоты значением pad.
func (r *Ring) Resize(n int, pad Stitch) {
	if n < 0 {
		n = 0
	}
	if n <= len(r.Stitches) {
		r.Stitches = append([]Stitch(nil), r.Stitches[:n]...)
	} else {
		out := make([]Stitch, n)
		copy(out, r.Stitches)
		for i := len(r.Stitches); i < n; i++ {
			out[i] = pad
		}
		r.Stitches = out
	}
	r.Segments = n
}

func (r Ring) Clone() Ring {
	return Ring{Segments: r.Segments, Stitches: append([]Stitch(nil), r.Stitches...)}
}

func (r Ring) Equal(o Ring) bool {
	if r.Segments != o.Segments || len(r.Stitches) != len(o.Stitches) {
		return false
	}
	for i := range r.Stitches {
		if r.Stitches[i] != o.Stitches[i] {
			return false
		}
	}
	return true
}

// Filled: количество непустых слотов.
func (r Ring) Filled() int {
	n := 0
	for _, s := range r.Stitches {
		if !s.IsEmpty() {
			n++
		}
	}
	return n
}

// ============================================================
// Pattern
// ============================================================

// Pattern: кольца от внутреннего (0) к внешним.
type Pattern struct {
	Rings []Ring `json:"rings"`
}

func (p Pattern) Clone() Pattern {
	if p.Rings == nil {
		return Pattern{}
	}
	out := Pattern{Rings: make([]Ring, len(p.Rings))}
	for i, r := range p.Rings {
		out.Rings[i] = r.Clone()
	}
	return out
}

func (p Pattern) Equal(o Pattern) bool {
	if len(p.Rings) != len(o.Rings) {
		return false
	}
	for i := range p.Rings {
		if !p.Rings[i].Equal(o.Rings[i]) {
			return false
		}
	}
	return true
}

// Radius: внешний радиус самого дальнего кольца.
func (p Pattern) Radius(ringSpacing float64) float64 {
	return float64(len(p.Rings)) * ringSpacing
}

// Validate проверяет длины слотов и типы петель.
func (p Pattern) Validate(catalog *Catalog) error {
	for i, r := range p.Rings {
		if r.Segments < 0 {
			return fmt.Errorf("%w: ring %d has negative segment count %d", ErrInvalidRings, i, r.Segments)
		}
		if len(r.Stitches) != r.Segments {
			return fmt.Errorf("%w: ring %d declares %d segments but holds %d stitches",
				ErrInvalidRings, i, r.Segments, len(r.Stitches))
		}
		for j, s := range r.Stitches {
			if s.IsEmpty() {
				if s.Modifier != ModNone {
					return fmt.Errorf("%w: ring %d segment %d has a modifier without a stitch", ErrInvalidRings, i, j)
				}
				continue
			}
			if !catalog.Has(s.Kind) {
				return fmt.Errorf("%w: ring %d segment %d has unknown kind %d", ErrInvalidRings, i, j, s.Kind)
			}
			if s.Modifier > ModDecrease {
				return fmt.Errorf("%w: ring %d segment %d has unknown modifier %d", ErrInvalidRings, i, j, s.Modifier)
			}
		}
	}
	return nil
}
