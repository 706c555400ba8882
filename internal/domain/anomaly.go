package domain

import "time"

type AnomalyType string

const (
	AnomalyHighValue AnomalyType = "high_value"
	AnomalyLowValue  AnomalyType = "low_value"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// SeriesPoint é uma observação de uma série numérica analisada pelo detector
type SeriesPoint struct {
	ID    string     `json:"id"`
	Label string     `json:"label,omitempty"`
	Value float64    `json:"value"`
	Date  *time.Time `json:"date,omitempty"`
}

type Anomaly struct {
	ID       string      `json:"id"`
	Label    string      `json:"label,omitempty"`
	Value    float64     `json:"value"`
	Mean     float64     `json:"mean"`
	StdDev   float64     `json:"stdDev"`
	ZScore   float64     `json:"zScore"`
	Type     AnomalyType `json:"type"`
	Severity Severity    `json:"severity"`
	Date     *time.Time  `json:"date,omitempty"`
}
