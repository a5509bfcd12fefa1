package storage

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return true
	}
	return false
}

type DefectStatus string

const (
	DefectOpen       DefectStatus = "open"
	DefectInProgress DefectStatus = "in_progress"
	DefectResolved   DefectStatus = "resolved"
)

type Defect struct {
	ID        string       `json:"id"`
	Batch     string       `json:"batch"`
	Type      string       `json:"type"`
	Cause     string       `json:"cause"`
	Operation string       `json:"operation"`
	Severity  Severity     `json:"severity"`
	Date      string       `json:"date"` // YYYY-MM-DD HH:MM
	Status    DefectStatus `json:"status"`
}

// NewDefect is the defect-registration form.
type NewDefect struct {
	Batch     string   `json:"batch"`
	Operation string   `json:"operation"`
	Type      string   `json:"type"`
	Severity  Severity `json:"severity"`
	Cause     string   `json:"cause"`
}
