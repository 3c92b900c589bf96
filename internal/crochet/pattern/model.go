package pattern

// ============================================================
// Configuration
// ============================================================

const (
	MinGuideLines      = 4
	MaxGuideLines      = 24
	DefaultGuideLines  = 8
	MinRingSpacing     = 20.0
	MaxRingSpacing     = 120.0
	DefaultRingSpacing = 50.0
)

type Config struct {
	GuideLines   int
	RingSpacing  float64
	HistoryLimit int
	Catalog      *Catalog
}

func DefaultConfig() Config {
	return Config{
		GuideLines:   DefaultGuideLines,
		RingSpacing:  DefaultRingSpacing,
		HistoryLimit: DefaultHistoryLimit,
		Catalog:      DefaultCatalog(),
	}
}

// ============================================================
// Model
// ============================================================

// Model владеет кольцами, выбранной петлёй и историей. Все изменения
// проходят через его методы. Не потокобезопасен: вызывающий код держит
// модель в одном логическом потоке.
type Model struct {
	catalog     *Catalog
	pattern     Pattern
	selected    StitchKind
	guideLines  int
	ringSpacing float64
	history     *History
}

func NewModel(cfg Config) *Model {
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if cfg.RingSpacing == 0 {
		cfg.RingSpacing = DefaultRingSpacing
	}
	if cfg.GuideLines == 0 {
		cfg.GuideLines = DefaultGuideLines
	}
	m := &Model{
		catalog:     cfg.Catalog,
		selected:    KindSingle,
		guideLines:  ClampInt(cfg.GuideLines, MinGuideLines, MaxGuideLines),
		ringSpacing: Clamp(cfg.RingSpacing, MinRingSpacing, MaxRingSpacing),
		history:     NewHistory(cfg.HistoryLimit),
	}
	m.Reset()
	return m
}

// Reset создаёт базовое кольцо из guideLines цепочек и очищает историю.
func (m *Model) Reset() {
	m.pattern = Pattern{Rings: []Ring{NewRing(m.guideLines, Plain(KindChain))}}
	m.history.Reset(m.pattern)
}

// ============================================================
// Accessors
// ============================================================

func (m *Model) Catalog() *Catalog { return m.catalog }

// Snapshot возвращает глубокую копию текущего узора.
func (m *Model) Snapshot() Pattern { return m.pattern.Clone() }

func (m *Model) Rings() []Ring { return m.pattern.Clone().Rings }

func (m *Model) RingCount() int { return len(m.pattern.Rings) }

func (m *Model) Ring(i int) (Ring, bool) {
	if i < 0 || i >= len(m.pattern.Rings) {
		return Ring{}, false
	}
	return m.pattern.Rings[i].Clone(), true
}

func (m *Model) Selected() StitchKind { return m.selected }

func (m *Model) GuideLines() int { return m.guideLines }

func (m *Model) RingSpacing() float64 { return m.ringSpacing }

func (m *Model) History() *History { return m.history }

func (m *Model) CanUndo() bool { return m.history.CanUndo() }

func (m *Model) CanRedo() bool { return m.history.CanRedo() }

// ============================================================
// Selection & Settings
// ============================================================

// SetSelectedStitch меняет активную петлю без записи в историю.
func (m *Model) SetSelectedStitch(kind StitchKind) bool {
	if !m.catalog.Has(kind) {
		return false
	}
	m.selected = kind
	return true
}

// SetRingSpacing: только отображение, в историю не пишется.
func (m *Model) SetRingSpacing(px float64) {
	m.ringSpacing = Clamp(px, MinRingSpacing, MaxRingSpacing)
}

// SetGuideLineCount меняет размер базового кольца. Кольцо 1 принудительно
// выравнивается по новому значению, кольца дальше не трогаются.
func (m *Model) SetGuideLineCount(n int) {
	n = ClampInt(n, MinGuideLines, MaxGuideLines)
	m.guideLines = n

	if len(m.pattern.Rings) == 0 {
		m.pattern.Rings = []Ring{NewRing(n, Plain(KindChain))}
	} else {
		m.pattern.Rings[0].Resize(n, Plain(KindChain))
	}
	if len(m.pattern.Rings) > 1 {
		m.pattern.Rings[1].Resize(n, Stitch{})
	}
	m.commit()
}

// ============================================================
// Mutations
// ============================================================

// SetStitch пишет петлю в слот. ring == RingCount() добавляет новое кольцо.
func (m *Model) SetStitch(ring, segment int, s Stitch) bool {
	if s.IsEmpty() || !m.catalog.Has(s.Kind) {
		return false
	}
	if !m.ensureRing(ring, segment) {
		return false
	}
	m.pattern.Rings[ring].Stitches[segment] = s
	m.commit()
	return true
}

// Place ставит выбранную петлю.
func (m *Model) Place(ring, segment int) bool {
	return m.SetStitch(ring, segment, Plain(m.selected))
}

// ClearStitch очищает слот.
func (m *Model) ClearStitch(ring, segment int) bool {
	if !m.inRange(ring, segment) {
		return false
	}
	m.pattern.Rings[ring].Stitches[segment] = Stitch{}
	m.commit()
	return true
}

// AddRing добавляет пустое кольцо размером с последнее.
func (m *Model) AddRing() {
	m.pattern.Rings = append(m.pattern.Rings, NewRing(m.nextRingSize(), Stitch{}))
	m.commit()
}

// ApplyIncrease добавляет слот в кольцо ring+1 под серединой сегмента.
func (m *Model) ApplyIncrease(ring, segment int) bool {
	if !m.inRange(ring, segment) {
		return false
	}
	src := m.pattern.Rings[ring]
	if ring == len(m.pattern.Rings)-1 {
		m.pattern.Rings = append(m.pattern.Rings, NewRing(src.Segments, Stitch{}))
	}
	next := &m.pattern.Rings[ring+1]
	pos := m.targetSlot(src, segment, next.Segments)

	dup := src.Stitches[segment]
	if dup.IsEmpty() {
		dup = Plain(m.selected)
	}
	dup.Modifier = ModIncrease

	stitches := make([]Stitch, 0, len(next.Stitches)+1)
	stitches = append(stitches, next.Stitches[:pos]...)
	stitches = append(stitches, dup)
	stitches = append(stitches, next.Stitches[pos:]...)
	next.Stitches = stitches
	next.Segments++

	m.commit()
	return true
}

// ApplyDecrease сливает два соседних слота кольца ring+1 в один.
// Не опускает кольцо ниже числа направляющих.
func (m *Model) ApplyDecrease(ring, segment int) bool {
	if !m.inRange(ring, segment) {
		return false
	}
	src := m.pattern.Rings[ring]
	nextCount := src.Segments
	if ring+1 < len(m.pattern.Rings) {
		nextCount = m.pattern.Rings[ring+1].Segments
	}
	if nextCount <= m.guideLines || nextCount < 2 {
		return false
	}
	if ring == len(m.pattern.Rings)-1 {
		m.pattern.Rings = append(m.pattern.Rings, NewRing(src.Segments, Stitch{}))
	}
	next := &m.pattern.Rings[ring+1]
	pos := m.targetSlot(src, segment, next.Segments)
	succ := (pos + 1) % next.Segments

	merged := next.Stitches[pos]
	if merged.IsEmpty() {
		merged = next.Stitches[succ]
	}
	if merged.IsEmpty() {
		merged = src.Stitches[segment]
	}
	if merged.IsEmpty() {
		merged = Plain(m.selected)
	}
	merged.Modifier = ModDecrease

	next.Stitches[pos] = merged
	next.Stitches = append(next.Stitches[:succ], next.Stitches[succ+1:]...)
	next.Segments--

	m.commit()
	return true
}

// SetRings заменяет узор целиком. Некорректный набор отклоняется
// со сбросом к базовому кольцу.
func (m *Model) SetRings(rings []Ring) error {
	p := Pattern{Rings: rings}.Clone()
	if err := p.Validate(m.catalog); err != nil {
		m.Reset()
		return err
	}
	m.pattern = p
	if len(p.Rings) > 0 {
		if n := p.Rings[0].Segments; n >= MinGuideLines && n <= MaxGuideLines {
			m.guideLines = n
		}
	}
	m.history.Reset(m.pattern)
	return nil
}

// Undo / Redo двигают курсор истории и не создают новых записей.
func (m *Model) Undo() bool {
	p, ok := m.history.Undo()
	if ok {
		m.pattern = p
	}
	return ok
}

func (m *Model) Redo() bool {
	p, ok := m.history.Redo()
	if ok {
		m.pattern = p
	}
	return ok
}

// ============================================================
// Hit testing
// ============================================================

// Resolve переводит точку модели в (ring, segment). Допускается кольцо
// сразу за последним: сегмент считается по размеру, который оно получит.
func (m *Model) Resolve(x, y float64) (int, int, bool) {
	distance, angle := ToPolar(x, y)
	ring := RingIndexForDistance(distance, m.ringSpacing)
	if ring < 0 || ring > len(m.pattern.Rings) {
		return 0, 0, false
	}
	n := m.nextRingSize()
	if ring < len(m.pattern.Rings) {
		n = m.pattern.Rings[ring].Segments
	}
	segment := SegmentIndexForAngle(angle, n)
	if segment < 0 {
		return 0, 0, false
	}
	return ring, segment, true
}

// StitchAt возвращает содержимое существующего слота.
func (m *Model) StitchAt(ring, segment int) (Stitch, bool) {
	if !m.inRange(ring, segment) {
		return Stitch{}, false
	}
	return m.pattern.Rings[ring].Stitches[segment], true
}

// ============================================================
// Internals
// ============================================================

func (m *Model) commit() {
	m.history.Commit(m.pattern)
}

func (m *Model) inRange(ring, segment int) bool {
	if ring < 0 || ring >= len(m.pattern.Rings) {
		return false
	}
	return segment >= 0 && segment < m.pattern.Rings[ring].Segments
}

func (m *Model) nextRingSize() int {
	if n := len(m.pattern.Rings); n > 0 && m.pattern.Rings[n-1].Segments > 0 {
		return m.pattern.Rings[n-1].Segments
	}
	return m.guideLines
}

// ensureRing проверяет индексы и при необходимости достраивает одно кольцо.
func (m *Model) ensureRing(ring, segment int) bool {
	if ring == len(m.pattern.Rings) {
		size := m.nextRingSize()
		if segment < 0 || segment >= size {
			return false
		}
		m.pattern.Rings = append(m.pattern.Rings, NewRing(size, Stitch{}))
		return true
	}
	return m.inRange(ring, segment)
}

// targetSlot: слот кольца из n сегментов под серединой сегмента src.
func (m *Model) targetSlot(src Ring, segment, n int) int {
	idx := SegmentIndexForAngle(MidAngle(segment, src.Segments), n)
	if idx < 0 {
		return 0
	}
	return idx
}
