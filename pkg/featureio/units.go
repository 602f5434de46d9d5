// Package featureio читает описания клиньев из таблиц и пишет готовые
// полигоны в GeoJSON и WKT.
package featureio

import (
	"fmt"
	"strconv"
	"strings"
)

// Метровые коэффициенты линейных единиц. Имена — как в таблицах
// пространственной привязки, сравнение без учета регистра.
var unitFactors = map[string]float64{
	"CENTIMETERS":   0.01,
	"DECIMETERS":    0.1,
	"FEET":          0.3048,
	"INCHES":        0.0254,
	"KILOMETERS":    1000,
	"METERS":        1,
	"MILES":         1609.344,
	"MILLIMETERS":   0.001,
	"NAUTICALMILES": 1852,
	"YARDS":         0.9144,
}

// ParseRadius разбирает ячейку радиуса: либо голое число (метры), либо
// "<число> <единица>". Неизвестная единица — ошибка с текстом ячейки.
func ParseRadius(cell string) (float64, error) {
	fields := strings.Fields(cell)
	switch len(fields) {
	case 1:
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, fmt.Errorf("bad radius %q: %w", cell, err)
		}
		return v, nil
	case 2:
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, fmt.Errorf("bad radius %q: %w", cell, err)
		}
		factor, ok := unitFactors[strings.ToUpper(fields[1])]
		if !ok {
			return 0, fmt.Errorf("bad radius %q: unknown unit %q", cell, fields[1])
		}
		return v * factor, nil
	case 0:
		return 0, fmt.Errorf("empty radius cell")
	default:
		return 0, fmt.Errorf(`bad radius %q: want "<number>" or "<number> <unit>"`, cell)
	}
}

// ParseInnerRadius трактует пустую или пробельную ячейку как "выреза
// нет": возвращает nil без ошибки. Это штатный случай, не отказ.
func ParseInnerRadius(cell string) (*float64, error) {
	if strings.TrimSpace(cell) == "" {
		return nil, nil
	}
	v, err := ParseRadius(cell)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
