package reporting

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/pkg/utils"
)

const minAnomalySeriesSize = 3

// AnomalyDetector aplica um único limiar de z-score configurado
type AnomalyDetector struct {
	threshold float64
}

func NewAnomalyDetector(cfg config.Analytics) *AnomalyDetector {
	return &AnomalyDetector{threshold: cfg.AnomalyThreshold}
}

func (d *AnomalyDetector) Detect(series []domain.SeriesPoint) []domain.Anomaly {
	return DetectAnomalies(series, d.threshold)
}

// DetectAnomalies marca os pontos cujo z-score (média e desvio populacionais)
// é maior ou igual ao limiar. Séries com menos de 3 pontos ou sem variação
// não geram anomalias.
func DetectAnomalies(series []domain.SeriesPoint, threshold float64) []domain.Anomaly {
	anomalies := make([]domain.Anomaly, 0)
	if len(series) < minAnomalySeriesSize {
		return anomalies
	}

	values := make(stats.Float64Data, 0, len(series))
	for _, point := range series {
		values = append(values, point.Value)
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return anomalies
	}

	stdDev, err := stats.StandardDeviationPopulation(values)
	if err != nil || stdDev == 0 || math.IsNaN(stdDev) {
		return anomalies
	}

	for _, point := range series {
		z := math.Abs(point.Value-mean) / stdDev
		if z < threshold {
			continue
		}

		anomaly := domain.Anomaly{
			ID:       point.ID,
			Label:    point.Label,
			Value:    point.Value,
			Mean:     utils.RoundWithTwoDecimalPlace(mean),
			StdDev:   utils.RoundWithTwoDecimalPlace(stdDev),
			ZScore:   utils.RoundWithTwoDecimalPlace(z),
			Type:     domain.AnomalyLowValue,
			Severity: domain.SeverityWarning,
			Date:     point.Date,
		}

		if point.Value > mean {
			anomaly.Type = domain.AnomalyHighValue
		}
		if point.Value > 3*mean {
			anomaly.Severity = domain.SeverityCritical
		}

		anomalies = append(anomalies, anomaly)
	}

	return anomalies
}

// DealValueSeries monta a série de valores de negócios analisada pelo detector
func DealValueSeries(deals []*domain.Deal) []domain.SeriesPoint {
	series := make([]domain.SeriesPoint, 0, len(deals))
	for _, deal := range deals {
		point := domain.SeriesPoint{
			ID:    deal.ID,
			Label: deal.Title,
			Value: deal.TotalValue,
		}
		if !deal.CreatedAt.IsZero() {
			created := deal.CreatedAt
			point.Date = &created
		}
		series = append(series, point)
	}
	return series
}
