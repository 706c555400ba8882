package reporting

import (
	"sort"
	"time"

	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/pkg/utils"
)

// ForecastEngine projeta negócios e receita para 30/60/90 dias
type ForecastEngine struct {
	regressionConfidence []float64
	fallbackConfidence   []float64
	growthMultipliers    []float64
}

func NewForecastEngine(cfg config.Analytics) *ForecastEngine {
	return &ForecastEngine{
		regressionConfidence: cfg.RegressionConfidence,
		fallbackConfidence:   cfg.FallbackConfidence,
		growthMultipliers:    cfg.FallbackGrowthMultipliers,
	}
}

// FitLinearRegression ajusta y = slope*x + intercept por mínimos quadrados,
// usando a posição na série (0..n-1) como x. Exige ao menos 2 pontos.
func FitLinearRegression(series []float64) (domain.Regression, bool) {
	if len(series) < 2 {
		return domain.Regression{}, false
	}

	var sx, sy, sxx, sxy float64
	n := float64(len(series))
	for i, y := range series {
		x := float64(i)
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}

	den := n*sxx - sx*sx
	if den == 0 {
		return domain.Regression{}, false
	}

	slope := (n*sxy - sx*sy) / den

	return domain.Regression{
		Slope:     slope,
		Intercept: (sy - slope*sx) / n,
		Points:    len(series),
	}, true
}

// DailyDealSeries conta os negócios por dia de criação, na ordem de criação.
// Dias sem negócios não entram na série.
func DailyDealSeries(deals []*domain.Deal) []float64 {
	days := make([]time.Time, 0, len(deals))
	counts := make(map[time.Time]float64)

	for _, deal := range deals {
		if deal.CreatedAt.IsZero() {
			continue
		}

		day := utils.StartOfDay(deal.CreatedAt.UTC())
		if _, exists := counts[day]; !exists {
			days = append(days, day)
		}
		counts[day]++
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	series := make([]float64, 0, len(days))
	for _, day := range days {
		series = append(series, counts[day])
	}
	return series
}

// ForecastDeals usa a regressão quando há histórico suficiente e cai para
// multiplicadores fixos de crescimento sobre os valores atuais caso contrário
func (f *ForecastEngine) ForecastDeals(series []float64, avgDealValue float64, currentDeals int, currentValue float64) domain.Predictions {
	regression, ok := FitLinearRegression(series)
	if !ok {
		return f.fallbackForecast(currentDeals, currentValue)
	}

	horizons := make([]domain.ForecastPoint, 0, len(domain.ForecastHorizons))
	for i, h := range domain.ForecastHorizons {
		deals := regression.Project(float64(h))
		horizons = append(horizons, domain.ForecastPoint{
			HorizonDays:      h,
			PredictedDeals:   utils.RoundWithOneDecimalPlace(deals),
			PredictedRevenue: utils.RoundWithTwoDecimalPlace(compoundRevenueForecast(deals, avgDealValue)),
			Confidence:       tableValue(f.regressionConfidence, i),
		})
	}

	return domain.Predictions{
		Method:     domain.ForecastMethodRegression,
		Regression: &regression,
		Horizons:   horizons,
	}
}

func (f *ForecastEngine) fallbackForecast(currentDeals int, currentValue float64) domain.Predictions {
	horizons := make([]domain.ForecastPoint, 0, len(domain.ForecastHorizons))
	for i, h := range domain.ForecastHorizons {
		multiplier := tableValue(f.growthMultipliers, i)
		horizons = append(horizons, domain.ForecastPoint{
			HorizonDays:      h,
			PredictedDeals:   utils.RoundWithOneDecimalPlace(nonNegative(float64(currentDeals) * multiplier)),
			PredictedRevenue: utils.RoundWithTwoDecimalPlace(nonNegative(currentValue * multiplier)),
			Confidence:       tableValue(f.fallbackConfidence, i),
		})
	}

	return domain.Predictions{
		Method:   domain.ForecastMethodHeuristic,
		Horizons: horizons,
	}
}

// compoundRevenueForecast encadeia dois modelos de uma variável: quantidade
// prevista de negócios vezes o ticket médio atual
func compoundRevenueForecast(predictedDeals, avgDealValue float64) float64 {
	return nonNegative(predictedDeals * avgDealValue)
}

func tableValue(table []float64, i int) float64 {
	if i < len(table) {
		return table[i]
	}
	if len(table) == 0 {
		return 0
	}
	return table[len(table)-1]
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
