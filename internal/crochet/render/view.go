package render

import (
	"math"

	"crochet-studio/internal/crochet/pattern"
)

// ============================================================
// View Transform
// ============================================================

const (
	MinScale = 0.3
	MaxScale = 3.0

	// offsetMargin: сколько пикселей узора всегда остаётся на холсте.
	offsetMargin = 20.0

	scaleEpsilon  = 1e-3
	offsetEpsilon = 0.1
)

// Point: точка на плоскости (экран или модель).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// View: текущие и целевые масштаб и смещение. Текущие значения
// плавно догоняют целевые через Step.
type View struct {
	Scale        float64 `json:"scale"`
	Offset       Point   `json:"offset"`
	TargetScale  float64 `json:"target_scale"`
	TargetOffset Point   `json:"target_offset"`
}

func NewView() View {
	return View{Scale: 1, TargetScale: 1}
}

// ScreenToModel переводит экранную точку в координаты модели
// для холста размером width×height.
func (v View) ScreenToModel(p Point, width, height float64) Point {
	s := v.Scale
	if s == 0 {
		s = 1
	}
	return Point{
		X: (p.X - width/2 - v.Offset.X) / s,
		Y: (p.Y - height/2 - v.Offset.Y) / s,
	}
}

func (v View) ModelToScreen(p Point, width, height float64) Point {
	return Point{
		X: width/2 + v.Offset.X + p.X*v.Scale,
		Y: height/2 + v.Offset.Y + p.Y*v.Scale,
	}
}

// SetTargetScale ограничивает масштаб диапазоном [0.3, 3].
func (v *View) SetTargetScale(s float64) {
	v.TargetScale = pattern.Clamp(s, MinScale, MaxScale)
}

// ZoomBy умножает целевой масштаб.
func (v *View) ZoomBy(factor float64) {
	v.SetTargetScale(v.TargetScale * factor)
}

// AdjustZoom прибавляет delta к целевому масштабу.
func (v *View) AdjustZoom(delta float64) {
	v.SetTargetScale(v.TargetScale + delta)
}

// PanBy сдвигает целевое смещение.
func (v *View) PanBy(dx, dy float64) {
	v.TargetOffset.X += dx
	v.TargetOffset.Y += dy
}

// ResetTarget возвращает вид к масштабу 1 без смещения (с анимацией).
func (v *View) ResetTarget() {
	v.TargetScale = 1
	v.TargetOffset = Point{}
}

// SnapOffset мгновенно приводит текущее смещение к целевому.
func (v *View) SnapOffset() {
	v.Offset = v.TargetOffset
}

// ClampOffset не даёт увести узор радиуса radius за пределы холста.
func (v *View) ClampOffset(radius, width, height float64) {
	limitX := math.Max(0, width/2+radius*v.TargetScale-offsetMargin)
	limitY := math.Max(0, height/2+radius*v.TargetScale-offsetMargin)
	v.TargetOffset.X = pattern.Clamp(v.TargetOffset.X, -limitX, limitX)
	v.TargetOffset.Y = pattern.Clamp(v.TargetOffset.Y, -limitY, limitY)
}

// Settled: текущие значения совпадают с целевыми.
func (v View) Settled() bool {
	return v.Scale == v.TargetScale && v.Offset == v.TargetOffset
}

// Step выполняет один шаг экспоненциального сглаживания. Когда все
// расхождения меньше эпсилон, значения приравниваются к целевым и
// возвращается false.
func (v *View) Step(damping float64) bool {
	v.Scale += (v.TargetScale - v.Scale) * damping
	v.Offset.X += (v.TargetOffset.X - v.Offset.X) * damping
	v.Offset.Y += (v.TargetOffset.Y - v.Offset.Y) * damping

	if math.Abs(v.TargetScale-v.Scale) < scaleEpsilon &&
		math.Abs(v.TargetOffset.X-v.Offset.X) < offsetEpsilon &&
		math.Abs(v.TargetOffset.Y-v.Offset.Y) < offsetEpsilon {
		v.Scale = v.TargetScale
		v.Offset = v.TargetOffset
		return false
	}
	return true
}
