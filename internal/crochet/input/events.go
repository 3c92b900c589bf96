package input

import "strings"

// ============================================================
// Events
// ============================================================

type EventType string

const (
	PointerDown  EventType = "pointerdown"
	PointerMove  EventType = "pointermove"
	PointerUp    EventType = "pointerup"
	PointerLeave EventType = "pointerleave"
	Wheel        EventType = "wheel"
	Key          EventType = "key"
)

// Modifiers: зажатые клавиши-модификаторы.
type Modifiers struct {
	Shift bool `json:"shift,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Alt   bool `json:"alt,omitempty"`
	Meta  bool `json:"meta,omitempty"`
}

// Command: ctrl на Linux/Windows, meta на macOS.
func (m Modifiers) Command() bool { return m.Ctrl || m.Meta }

// Event: одно событие ввода в экранных координатах холста.
// PointerID различает касания при pinch.
type Event struct {
	Type      EventType `json:"type"`
	PointerID int       `json:"pointer_id,omitempty"`
	X         float64   `json:"x,omitempty"`
	Y         float64   `json:"y,omitempty"`
	DeltaY    float64   `json:"delta_y,omitempty"`
	Key       string    `json:"key,omitempty"`
	Modifiers
}

func (e Event) normalizedKey() string {
	if len(e.Key) == 1 {
		return strings.ToLower(e.Key)
	}
	return e.Key
}
