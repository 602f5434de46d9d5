package wedge

import (
	"fmt"
)

// WedgeSpec описывает один угловой сектор: центр в плоских метрах,
// азимуты в градусах по часовой стрелке от севера (диапазон любой),
// внешний радиус и необязательный внутренний вырез.
type WedgeSpec struct {
	ID           string
	CenterX      float64
	CenterY      float64
	StartBearing float64
	EndBearing   float64
	OuterRadius  float64
	InnerRadius  *float64
}

// Arcband сообщает, задан ли внутренний радиус.
func (s WedgeSpec) Arcband() bool {
	return s.InnerRadius != nil
}

// Validate проверяет радиусы до любых обращений к бэкенду.
// Азимуты не проверяются: осмысленно любое число.
func (s WedgeSpec) Validate() error {
	if s.OuterRadius <= 0 {
		return fmt.Errorf("%w: outer radius %v must be > 0", ErrInvalidGeometryInput, s.OuterRadius)
	}
	if s.InnerRadius != nil {
		inner := *s.InnerRadius
		if inner <= 0 {
			return fmt.Errorf("%w: inner radius %v must be > 0", ErrInvalidGeometryInput, inner)
		}
		if inner >= s.OuterRadius {
			return fmt.Errorf("%w: inner radius %v must be < outer radius %v", ErrInvalidGeometryInput, inner, s.OuterRadius)
		}
	}
	return nil
}

// Inner возвращает указатель на копию v. Удобно собирать спеки литералами.
func Inner(v float64) *float64 {
	return &v
}
