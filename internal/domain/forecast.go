package domain

const (
	ForecastMethodRegression = "linear_regression"
	ForecastMethodHeuristic  = "growth_heuristic"
)

// ForecastHorizons são os horizontes de previsão em dias
var ForecastHorizons = []int{30, 60, 90}

// Regression guarda a reta ajustada por mínimos quadrados
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Points    int     `json:"points"`
}

// Project calcula o valor da reta em x, nunca negativo
func (r Regression) Project(x float64) float64 {
	y := r.Slope*x + r.Intercept
	if y < 0 {
		return 0
	}
	return y
}

type ForecastPoint struct {
	HorizonDays      int     `json:"horizonDays"`
	PredictedDeals   float64 `json:"predictedDeals"`
	PredictedRevenue float64 `json:"predictedRevenue"`
	Confidence       float64 `json:"confidence"`
}

type Predictions struct {
	Method     string          `json:"method"`
	Regression *Regression     `json:"regression,omitempty"`
	Horizons   []ForecastPoint `json:"horizons"`
}

// Horizon retorna a previsão do horizonte pedido, se existir
func (p Predictions) Horizon(days int) (ForecastPoint, bool) {
	for _, h := range p.Horizons {
		if h.HorizonDays == days {
			return h, true
		}
	}
	return ForecastPoint{}, false
}
