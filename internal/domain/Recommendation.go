package domain

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type RecommendationKind string

const (
	KindConversion      RecommendationKind = "conversion"
	KindPipeline        RecommendationKind = "pipeline"
	KindForecast        RecommendationKind = "forecast"
	KindTasks           RecommendationKind = "tasks"
	KindAnomaly         RecommendationKind = "anomaly"
	KindLeadOpportunity RecommendationKind = "lead_opportunity"
	KindSalesCycle      RecommendationKind = "sales_cycle"
)

// Insight é o payload específico de cada tipo de recomendação.
// Só os tipos deste pacote implementam a interface.
type Insight interface {
	Kind() RecommendationKind
	insight()
}

type ConversionInsight struct {
	Stage     string  `json:"stage"`
	Rate      float64 `json:"rate"`
	Threshold float64 `json:"threshold"`
}

type PipelineInsight struct {
	PipelineValue float64 `json:"pipelineValue"`
	Threshold     float64 `json:"threshold"`
}

type ForecastInsight struct {
	HorizonDays   int     `json:"horizonDays"`
	Confidence    float64 `json:"confidence"`
	MinConfidence float64 `json:"minConfidence"`
	Method        string  `json:"method"`
}

type TaskInsight struct {
	OverdueTasks int `json:"overdueTasks"`
	TotalTasks   int `json:"totalTasks"`
}

type AnomalyInsight struct {
	CriticalCount int      `json:"criticalCount"`
	AnomalyIDs    []string `json:"anomalyIds"`
}

type LeadOpportunityInsight struct {
	HotLeads   int      `json:"hotLeads"`
	TopLeadIDs []string `json:"topLeadIds"`
}

type SalesCycleInsight struct {
	AvgDays       float64 `json:"avgDays"`
	ThresholdDays float64 `json:"thresholdDays"`
}

func (*ConversionInsight) Kind() RecommendationKind      { return KindConversion }
func (*PipelineInsight) Kind() RecommendationKind        { return KindPipeline }
func (*ForecastInsight) Kind() RecommendationKind        { return KindForecast }
func (*TaskInsight) Kind() RecommendationKind            { return KindTasks }
func (*AnomalyInsight) Kind() RecommendationKind         { return KindAnomaly }
func (*LeadOpportunityInsight) Kind() RecommendationKind { return KindLeadOpportunity }
func (*SalesCycleInsight) Kind() RecommendationKind      { return KindSalesCycle }

func (*ConversionInsight) insight()      {}
func (*PipelineInsight) insight()        {}
func (*ForecastInsight) insight()        {}
func (*TaskInsight) insight()            {}
func (*AnomalyInsight) insight()         {}
func (*LeadOpportunityInsight) insight() {}
func (*SalesCycleInsight) insight()      {}

// Recommendation é um alerta acionável gerado a partir das métricas do relatório
type Recommendation struct {
	Severity    Severity
	Title       string
	Description string
	Actions     []string
	Confidence  float64
	Details     Insight
}

// Kind é derivado do payload, nunca guardado separadamente
func (r Recommendation) Kind() RecommendationKind {
	if r.Details == nil {
		return ""
	}
	return r.Details.Kind()
}

type recommendationJSON struct {
	Kind        RecommendationKind  `json:"kind"`
	Severity    Severity            `json:"severity"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Actions     []string            `json:"actions"`
	Confidence  float64             `json:"confidence"`
	Details     jsoniter.RawMessage `json:"details"`
}

func (r Recommendation) MarshalJSON() ([]byte, error) {
	if r.Details == nil {
		return nil, fmt.Errorf("recommendation %q sem detalhes", r.Title)
	}

	details, err := json.Marshal(r.Details)
	if err != nil {
		return nil, err
	}

	return json.Marshal(recommendationJSON{
		Kind:        r.Details.Kind(),
		Severity:    r.Severity,
		Title:       r.Title,
		Description: r.Description,
		Actions:     r.Actions,
		Confidence:  r.Confidence,
		Details:     details,
	})
}

func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var raw recommendationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	details, err := newInsight(raw.Kind)
	if err != nil {
		return err
	}

	if len(raw.Details) > 0 {
		if err := json.Unmarshal(raw.Details, details); err != nil {
			return fmt.Errorf("recommendation %s: %w", raw.Kind, err)
		}
	}

	*r = Recommendation{
		Severity:    raw.Severity,
		Title:       raw.Title,
		Description: raw.Description,
		Actions:     raw.Actions,
		Confidence:  raw.Confidence,
		Details:     details,
	}

	return nil
}

func newInsight(kind RecommendationKind) (Insight, error) {
	switch kind {
	case KindConversion:
		return &ConversionInsight{}, nil
	case KindPipeline:
		return &PipelineInsight{}, nil
	case KindForecast:
		return &ForecastInsight{}, nil
	case KindTasks:
		return &TaskInsight{}, nil
	case KindAnomaly:
		return &AnomalyInsight{}, nil
	case KindLeadOpportunity:
		return &LeadOpportunityInsight{}, nil
	case KindSalesCycle:
		return &SalesCycleInsight{}, nil
	default:
		return nil, fmt.Errorf("tipo de recomendação desconhecido: %q", kind)
	}
}
