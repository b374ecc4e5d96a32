package risk

// DefaultWeight applies to any object type missing from the weight table
const DefaultWeight = 1.0

// TypeWeights maps an object type to its hazard multiplier, with an explicit fallback
type TypeWeights struct {
	weights  map[string]float64
	fallback float64
}

// NewTypeWeights copies the table; non-positive entries are ignored and a
// non-positive fallback is replaced with DefaultWeight.
func NewTypeWeights(weights map[string]float64, fallback float64) TypeWeights {
	if fallback <= 0 {
		fallback = DefaultWeight
	}

	table := make(map[string]float64, len(weights))
	for k, v := range weights {
		if v > 0 {
			table[k] = v
		}
	}

	return TypeWeights{weights: table, fallback: fallback}
}

// DefaultTypeWeights returns the weight table for the built-in object types
func DefaultTypeWeights() TypeWeights {
	return NewTypeWeights(map[string]float64{
		"Химический завод":         1.8,
		"Мусоросжигательный завод": 1.7,
		"Теплоэлектроцентраль":     1.4,
		"Полигон ТБО":              1.6,
		"Нефтебаза":                1.5,
		"Автомагистраль":           1.2,
		"Порт":                     1.3,
		"Аэропорт":                 1.4,
	}, DefaultWeight)
}

// Weight returns the multiplier for the object type
func (w TypeWeights) Weight(objectType string) float64 {
	if v, ok := w.weights[objectType]; ok {
		return v
	}
	if w.fallback <= 0 {
		return DefaultWeight
	}
	return w.fallback
}

// Known reports whether the object type has an explicit entry
func (w TypeWeights) Known(objectType string) bool {
	_, ok := w.weights[objectType]
	return ok
}
