package reporting

import (
	"fmt"

	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
)

// RecommendationInput reúne tudo que as regras avaliam
type RecommendationInput struct {
	Metrics     domain.MetricsSnapshot
	Predictions domain.Predictions
	Anomalies   []domain.Anomaly
	LeadScoring domain.LeadScoring
}

type recommendationRule func(in RecommendationInput) (domain.Recommendation, bool)

// RecommendationGenerator avalia regras independentes; todas podem disparar na mesma execução
type RecommendationGenerator struct {
	cfg   config.Analytics
	rules []recommendationRule
}

func NewRecommendationGenerator(cfg config.Analytics) *RecommendationGenerator {
	g := &RecommendationGenerator{cfg: cfg}
	g.rules = []recommendationRule{
		g.conversionRule,
		g.pipelineRule,
		g.forecastRule,
		g.tasksRule,
		g.anomalyRule,
		g.leadOpportunityRule,
		g.salesCycleRule,
	}
	return g
}

func (g *RecommendationGenerator) Generate(in RecommendationInput) []domain.Recommendation {
	recommendations := make([]domain.Recommendation, 0, len(g.rules))
	for _, rule := range g.rules {
		if rec, ok := rule(in); ok {
			recommendations = append(recommendations, rec)
		}
	}
	return recommendations
}

func (g *RecommendationGenerator) conversionRule(in RecommendationInput) (domain.Recommendation, bool) {
	if in.Metrics.Summary.TotalLeads == 0 {
		return domain.Recommendation{}, false
	}

	rate := in.Metrics.Conversions.LeadToClient

	var severity domain.Severity
	var threshold float64
	switch {
	case rate < g.cfg.ConversionCriticalPct:
		severity, threshold = domain.SeverityCritical, g.cfg.ConversionCriticalPct
	case rate < g.cfg.ConversionWarningPct:
		severity, threshold = domain.SeverityWarning, g.cfg.ConversionWarningPct
	default:
		return domain.Recommendation{}, false
	}

	return domain.Recommendation{
		Severity: severity,
		Title:    "Taxa de conversão de leads abaixo do esperado",
		Description: fmt.Sprintf("Apenas %.1f%% dos %d leads do período viraram clientes (meta mínima: %.0f%%).",
			rate, in.Metrics.Summary.TotalLeads, threshold),
		Actions: []string{
			"Revisar o processo de qualificação de leads",
			"Reduzir o tempo de primeiro contato",
			"Acompanhar os leads quentes com prioridade",
		},
		Confidence: 85,
		Details: &domain.ConversionInsight{
			Stage:     "leadToClient",
			Rate:      rate,
			Threshold: threshold,
		},
	}, true
}

func (g *RecommendationGenerator) pipelineRule(in RecommendationInput) (domain.Recommendation, bool) {
	value := in.Metrics.Financial.TotalPipelineValue

	var severity domain.Severity
	var threshold float64
	switch {
	case value < g.cfg.PipelineCriticalValue:
		severity, threshold = domain.SeverityCritical, g.cfg.PipelineCriticalValue
	case value < g.cfg.PipelineWarningValue:
		severity, threshold = domain.SeverityWarning, g.cfg.PipelineWarningValue
	default:
		return domain.Recommendation{}, false
	}

	return domain.Recommendation{
		Severity: severity,
		Title:    "Pipeline de oportunidades reduzido",
		Description: fmt.Sprintf("O pipeline soma R$ %.2f em %d oportunidades, abaixo de R$ %.2f.",
			value, in.Metrics.Summary.TotalOpportunities, threshold),
		Actions: []string{
			"Intensificar a prospecção de novos imóveis e clientes",
			"Reativar oportunidades paradas",
		},
		Confidence: 80,
		Details: &domain.PipelineInsight{
			PipelineValue: value,
			Threshold:     threshold,
		},
	}, true
}

func (g *RecommendationGenerator) forecastRule(in RecommendationInput) (domain.Recommendation, bool) {
	next, ok := in.Predictions.Horizon(domain.ForecastHorizons[0])
	if !ok || next.Confidence >= g.cfg.ForecastMinConfidence {
		return domain.Recommendation{}, false
	}

	return domain.Recommendation{
		Severity: domain.SeverityInfo,
		Title:    "Previsão com baixa confiança",
		Description: fmt.Sprintf("A previsão de %d dias tem confiança de %.0f%%. Há pouco histórico de negócios para projeções confiáveis.",
			next.HorizonDays, next.Confidence),
		Actions: []string{
			"Registrar todos os negócios fechados no CRM",
			"Ampliar o período analisado",
		},
		Confidence: 70,
		Details: &domain.ForecastInsight{
			HorizonDays:   next.HorizonDays,
			Confidence:    next.Confidence,
			MinConfidence: g.cfg.ForecastMinConfidence,
			Method:        in.Predictions.Method,
		},
	}, true
}

func (g *RecommendationGenerator) tasksRule(in RecommendationInput) (domain.Recommendation, bool) {
	overdue := in.Metrics.Summary.OverdueTasks
	if overdue == 0 {
		return domain.Recommendation{}, false
	}

	severity := domain.SeverityWarning
	if overdue >= g.cfg.OverdueTasksCritical {
		severity = domain.SeverityCritical
	}

	return domain.Recommendation{
		Severity:    severity,
		Title:       "Tarefas atrasadas",
		Description: fmt.Sprintf("%d de %d tarefas estão com o prazo vencido.", overdue, in.Metrics.Summary.TotalTasks),
		Actions: []string{
			"Redistribuir as tarefas atrasadas entre a equipe",
			"Revisar os prazos definidos",
		},
		Confidence: 90,
		Details: &domain.TaskInsight{
			OverdueTasks: overdue,
			TotalTasks:   in.Metrics.Summary.TotalTasks,
		},
	}, true
}

func (g *RecommendationGenerator) anomalyRule(in RecommendationInput) (domain.Recommendation, bool) {
	ids := make([]string, 0)
	for _, anomaly := range in.Anomalies {
		if anomaly.Severity == domain.SeverityCritical {
			ids = append(ids, anomaly.ID)
		}
	}

	if len(ids) == 0 {
		return domain.Recommendation{}, false
	}

	return domain.Recommendation{
		Severity:    domain.SeverityCritical,
		Title:       "Valores de negócios fora do padrão",
		Description: fmt.Sprintf("%d negócio(s) com valor muito acima da média do período.", len(ids)),
		Actions: []string{
			"Conferir se os valores foram digitados corretamente",
			"Analisar o perfil desses negócios para replicar o resultado",
		},
		Confidence: 75,
		Details: &domain.AnomalyInsight{
			CriticalCount: len(ids),
			AnomalyIDs:    ids,
		},
	}, true
}

func (g *RecommendationGenerator) leadOpportunityRule(in RecommendationInput) (domain.Recommendation, bool) {
	hot := in.LeadScoring.Distribution.Hot
	if hot == 0 {
		return domain.Recommendation{}, false
	}

	ids := make([]string, 0, len(in.LeadScoring.TopLeads))
	for _, lead := range in.LeadScoring.TopLeads {
		ids = append(ids, lead.LeadID)
	}

	return domain.Recommendation{
		Severity:    domain.SeverityInfo,
		Title:       "Leads quentes aguardando contato",
		Description: fmt.Sprintf("%d lead(s) com pontuação alta. Priorize o atendimento para aumentar a conversão.", hot),
		Actions: []string{
			"Entrar em contato com os leads quentes nas próximas 24h",
			"Agendar visitas aos imóveis de interesse",
		},
		Confidence: 80,
		Details: &domain.LeadOpportunityInsight{
			HotLeads:   hot,
			TopLeadIDs: ids,
		},
	}, true
}

func (g *RecommendationGenerator) salesCycleRule(in RecommendationInput) (domain.Recommendation, bool) {
	days := in.Metrics.Financial.AvgSalesCycleDays
	if days <= g.cfg.SalesCycleWarningDays {
		return domain.Recommendation{}, false
	}

	return domain.Recommendation{
		Severity:    domain.SeverityWarning,
		Title:       "Ciclo de vendas longo",
		Description: fmt.Sprintf("Os negócios levam em média %.1f dias para fechar (limite: %.0f dias).", days, g.cfg.SalesCycleWarningDays),
		Actions: []string{
			"Identificar as etapas em que os negócios ficam parados",
			"Simplificar a documentação exigida no fechamento",
		},
		Confidence: 70,
		Details: &domain.SalesCycleInsight{
			AvgDays:       days,
			ThresholdDays: g.cfg.SalesCycleWarningDays,
		},
	}, true
}
