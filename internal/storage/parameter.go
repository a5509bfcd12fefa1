package storage

type ParameterStatus string

const (
	ParameterNormal   ParameterStatus = "normal"
	ParameterWarning  ParameterStatus = "warning"
	ParameterCritical ParameterStatus = "critical"
)

type Parameter struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Value      float64         `json:"value"`
	Unit       string          `json:"unit"`
	Min        float64         `json:"min"`
	Max        float64         `json:"max"`
	WarningMin float64         `json:"warning_min"`
	WarningMax float64         `json:"warning_max"`
	Status     ParameterStatus `json:"current_status"`
}

// Classify maps a value onto a status. A value sitting on or beyond a hard
// bound is critical, a value outside the warning band is a warning.
func Classify(value, min, max, warningMin, warningMax float64) ParameterStatus {
	switch {
	case value <= min || value >= max:
		return ParameterCritical
	case value < warningMin || value > warningMax:
		return ParameterWarning
	default:
		return ParameterNormal
	}
}

func (p Parameter) Classify(value float64) ParameterStatus {
	return Classify(value, p.Min, p.Max, p.WarningMin, p.WarningMax)
}

func (p Parameter) Clamp(value float64) float64 {
	return max(p.Min, min(p.Max, value))
}

func (p Parameter) Span() float64 {
	return p.Max - p.Min
}

// WithValue returns a copy holding value and the status derived from it.
func (p Parameter) WithValue(value float64) Parameter {
	p.Value = value
	p.Status = p.Classify(value)
	return p
}
