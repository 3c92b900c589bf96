package pattern

// ============================================================
// History
// ============================================================

// DefaultHistoryLimit: максимум снимков в истории.
const DefaultHistoryLimit = 100

// History хранит снимки узора и курсор. Снимки копируются по значению,
// живой узор никогда не разделяет с ними память.
type History struct {
	entries []Pattern
	cursor  int
	limit   int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{cursor: -1, limit: limit}
}

// Reset оставляет единственный снимок base.
func (h *History) Reset(base Pattern) {
	h.entries = []Pattern{base.Clone()}
	h.cursor = 0
}

// Commit добавляет снимок, отбрасывая ветку redo. Снимок, равный текущему,
// не добавляется; возвращает false в этом случае.
func (h *History) Commit(p Pattern) bool {
	if h.cursor >= 0 && h.entries[h.cursor].Equal(p) {
		return false
	}
	h.entries = append(h.entries[:h.cursor+1], p.Clone())
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]Pattern(nil), h.entries[over:]...)
	}
	h.cursor = len(h.entries) - 1
	return true
}

func (h *History) Undo() (Pattern, bool) {
	if !h.CanUndo() {
		return Pattern{}, false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

func (h *History) Redo() (Pattern, bool) {
	if !h.CanRedo() {
		return Pattern{}, false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }

func (h *History) Len() int { return len(h.entries) }

func (h *History) Cursor() int { return h.cursor }
