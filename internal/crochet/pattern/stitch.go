package pattern

import (
	"fmt"
	"strings"
)

// ============================================================
// Stitch Kinds
// ============================================================

// StitchKind: тип петли. Нулевое значение означает пустой слот.
type StitchKind uint8

const (
	KindNone StitchKind = iota
	KindChain
	KindSingle
	KindFlat
	KindHalfDouble
	KindDouble
	KindTreble
	KindPicot
)

// KindInfo: презентационные свойства типа петли.
type KindInfo struct {
	Kind        StitchKind
	Key         string
	Glyph       string
	Color       string
	Description string
}

// Catalog: неизменяемый реестр типов петель.
type Catalog struct {
	entries []KindInfo
	byKey   map[string]StitchKind
}

var defaultCatalog = newCatalog([]KindInfo{
	{Kind: KindChain, Key: "chain", Glyph: "○", Color: "#e74c3c", Description: "Chain"},
	{Kind: KindSingle, Key: "single", Glyph: "•", Color: "#2ecc71", Description: "Single crochet"},
	{Kind: KindFlat, Key: "flat", Glyph: "─", Color: "#3498db", Description: "Flat stitch"},
	{Kind: KindHalfDouble, Key: "half_double", Glyph: "T", Color: "#f39c12", Description: "Half double crochet"},
	{Kind: KindDouble, Key: "double", Glyph: "↑", Color: "#9b59b6", Description: "Double crochet"},
	{Kind: KindTreble, Key: "treble", Glyph: "‡", Color: "#16a085", Description: "Treble crochet"},
	{Kind: KindPicot, Key: "picot", Glyph: "¤", Color: "#e67e22", Description: "Picot"},
})

func newCatalog(entries []KindInfo) *Catalog {
	c := &Catalog{
		entries: entries,
		byKey:   make(map[string]StitchKind, len(entries)),
	}
	for _, e := range entries {
		c.byKey[e.Key] = e.Kind
	}
	return c
}

// DefaultCatalog возвращает общий реестр. Его нельзя изменять.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Kinds возвращает копию записей в порядке палитры.
func (c *Catalog) Kinds() []KindInfo {
	out := make([]KindInfo, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Info(kind StitchKind) (KindInfo, bool) {
	for _, e := range c.entries {
		if e.Kind == kind {
			return e, true
		}
	}
	return KindInfo{}, false
}

func (c *Catalog) Lookup(key string) (StitchKind, bool) {
	kind, ok := c.byKey[key]
	return kind, ok
}

func (c *Catalog) Has(kind StitchKind) bool {
	_, ok := c.Info(kind)
	return ok
}

func (k StitchKind) String() string {
	if info, ok := defaultCatalog.Info(k); ok {
		return info.Key
	}
	if k == KindNone {
		return "none"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText / UnmarshalText используют ключи реестра.
func (k StitchKind) MarshalText() ([]byte, error) {
	info, ok := defaultCatalog.Info(k)
	if !ok {
		return nil, fmt.Errorf("unknown stitch kind %d", uint8(k))
	}
	return []byte(info.Key), nil
}

func (k *StitchKind) UnmarshalText(data []byte) error {
	kind, ok := defaultCatalog.Lookup(strings.TrimSpace(string(data)))
	if !ok {
		return fmt.Errorf("unknown stitch kind %q", string(data))
	}
	*k = kind
	return nil
}

// ============================================================
// Modifiers
// ============================================================

type Modifier uint8

const (
	ModNone Modifier = iota
	ModIncrease
	ModDecrease
)

func (m Modifier) String() string {
	switch m {
	case ModIncrease:
		return "increase"
	case ModDecrease:
		return "decrease"
	default:
		return "none"
	}
}

func (m Modifier) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Modifier) UnmarshalText(data []byte) error {
	switch string(data) {
	case "", "none":
		*m = ModNone
	case "increase":
		*m = ModIncrease
	case "decrease":
		*m = ModDecrease
	default:
		return fmt.Errorf("unknown modifier %q", string(data))
	}
	return nil
}

// ============================================================
// Stitch
// ============================================================

// Stitch описывает содержимое слота. Нулевое значение означает пустой слот.
type Stitch struct {
	Kind     StitchKind
	Modifier Modifier
}

func Plain(kind StitchKind) Stitch {
	return Stitch{Kind: kind}
}

func (s Stitch) IsEmpty() bool {
	return s.Kind == KindNone
}

func (s Stitch) String() string {
	if s.IsEmpty() {
		return "empty"
	}
	if s.Modifier == ModNone {
		return s.Kind.String()
	}
	return s.Kind.String() + "+" + s.Modifier.String()
}
