package pattern

import "math"

// ============================================================
// Geometry
// ============================================================

// FullTurn: полный оборот в радианах.
const FullTurn = 2 * math.Pi

// ToPolar переводит точку модели в (расстояние, угол), угол в [0, 2π).
func ToPolar(x, y float64) (float64, float64) {
	distance := math.Hypot(x, y)
	angle := math.Atan2(y, x)
	if angle < 0 {
		angle += FullTurn
	}
	// -0.0000001 + 2π округляется до 2π
	if angle >= FullTurn {
		angle = 0
	}
	return distance, angle
}

// FromPolar обратное преобразование.
func FromPolar(radius, angle float64) (float64, float64) {
	return math.Cos(angle) * radius, math.Sin(angle) * radius
}

// RingIndexForDistance возвращает индекс кольца; точка на границе
// принадлежит внешнему кольцу. Диапазон не проверяется.
func RingIndexForDistance(distance, ringSpacing float64) int {
	if ringSpacing <= 0 {
		return -1
	}
	return int(math.Floor(distance / ringSpacing))
}

// SegmentIndexForAngle возвращает сегмент в [0, segmentCount).
// Для segmentCount <= 0 возвращает -1.
func SegmentIndexForAngle(angle float64, segmentCount int) int {
	if segmentCount <= 0 {
		return -1
	}
	idx := int(math.Floor(angle/FullTurn*float64(segmentCount))) % segmentCount
	if idx < 0 {
		idx += segmentCount
	}
	return idx
}

// MidAngle: угол середины сегмента.
func MidAngle(segment, segmentCount int) float64 {
	if segmentCount <= 0 {
		return 0
	}
	step := FullTurn / float64(segmentCount)
	return float64(segment)*step + step/2
}

// SlotCenter возвращает координаты центра слота (ring, segment) в пространстве модели.
func SlotCenter(ring, segment, segmentCount int, ringSpacing float64) (float64, float64) {
	radius := (float64(ring) + 0.5) * ringSpacing
	return FromPolar(radius, MidAngle(segment, segmentCount))
}

func Clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func ClampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
