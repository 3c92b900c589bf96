package pattern

import (
	"fmt"
	"strings"
)

// Describe формирует текстовую выгрузку: строка на каждый слот.
func Describe(p Pattern, catalog *Catalog) string {
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	var lines []string
	for ri, ring := range p.Rings {
		for si, s := range ring.Stitches {
			lines = append(lines, fmt.Sprintf("Ring %d, Segment %d: %s", ri+1, si, describeStitch(s, catalog)))
		}
	}
	if len(lines) == 0 {
		return "Empty pattern"
	}
	return strings.Join(lines, "\n")
}

func describeStitch(s Stitch, catalog *Catalog) string {
	if s.IsEmpty() {
		return "Empty"
	}
	desc := "Unknown"
	if info, ok := catalog.Info(s.Kind); ok {
		desc = info.Description
	}
	switch s.Modifier {
	case ModIncrease:
		desc += " (Increase)"
	case ModDecrease:
		desc += " (Decrease)"
	}
	return desc
}
