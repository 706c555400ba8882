package domain

import "time"

// Períodos predefinidos aceitos pelos relatórios
const (
	RangeToday      = "today"
	RangeLast7Days  = "7d"
	RangeLast30Days = "30d"
	RangeLast90Days = "90d"
	RangeCustom     = "custom"
)

// ConsultantFilterAll desativa o filtro por consultor
const ConsultantFilterAll = "all"

// DateRange é um intervalo fechado já resolvido para instantes concretos
type DateRange struct {
	Preset string    `json:"preset"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Contains verifica se t está dentro do intervalo, inclusive nas bordas
func (d DateRange) Contains(t time.Time) bool {
	return !t.Before(d.Start) && !t.After(d.End)
}

// DateRangeInput é o período como chega do cliente, antes de ser resolvido
type DateRangeInput struct {
	Preset    string
	StartDate string
	EndDate   string
}

type ReportRequest struct {
	TenantID         string
	Range            DateRangeInput
	ConsultantFilter string
}

// Report é o pacote completo entregue ao dashboard e exportado em JSON
type Report struct {
	ID               string            `json:"id"`
	TenantID         string            `json:"tenantId"`
	GeneratedAt      time.Time         `json:"generatedAt"`
	DateRange        DateRange         `json:"dateRange"`
	ConsultantFilter string            `json:"consultantFilter"`
	Summary          SummaryMetrics    `json:"summary"`
	Conversions      ConversionMetrics `json:"conversions"`
	Financial        FinancialMetrics  `json:"financial"`
	Predictions      Predictions       `json:"predictions"`
	Recommendations  []Recommendation  `json:"recommendations"`
	LeadScoring      LeadScoring       `json:"leadScoring"`
	Anomalies        []Anomaly         `json:"anomalies"`
}

// ReportExport é o resultado da exportação de um relatório
type ReportExport struct {
	FileName    string
	ContentType string
	Content     []byte
}
