package pattern

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ============================================================
// JSON
// ============================================================

type stitchPayload struct {
	Kind     StitchKind `json:"kind"`
	Modifier Modifier   `json:"modifier,omitempty"`
}

// MarshalJSON кодирует пустой слот как null.
func (s Stitch) MarshalJSON() ([]byte, error) {
	if s.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(stitchPayload{Kind: s.Kind, Modifier: s.Modifier})
}

func (s *Stitch) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("{}")) {
		*s = Stitch{}
		return nil
	}
	var p stitchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode stitch: %w", err)
	}
	*s = Stitch{Kind: p.Kind, Modifier: p.Modifier}
	return nil
}

// EncodeRings сериализует последовательность колец для хранилища.
func EncodeRings(rings []Ring) ([]byte, error) {
	if rings == nil {
		rings = []Ring{}
	}
	return json.Marshal(rings)
}

// DecodeRings разбирает кольца; согласованность длин проверяет Model.SetRings.
func DecodeRings(data []byte) ([]Ring, error) {
	var rings []Ring
	if err := json.Unmarshal(data, &rings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRings, err)
	}
	for i := range rings {
		if rings[i].Stitches == nil {
			rings[i].Stitches = []Stitch{}
		}
	}
	return rings, nil
}
