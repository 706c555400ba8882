package reporting

import (
	"time"

	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/pkg/utils"
)

// Aggregator reduz um RecordSet em contagens, taxas de conversão e somas financeiras
type Aggregator struct {
	defaultCommissionPct float64
}

func NewAggregator(cfg config.Analytics) *Aggregator {
	return &Aggregator{defaultCommissionPct: cfg.DefaultCommissionPct}
}

// Aggregate é total: registros vazios produzem um snapshot zerado
func (a *Aggregator) Aggregate(records *domain.RecordSet, now time.Time) domain.MetricsSnapshot {
	if records == nil {
		records = &domain.RecordSet{}
	}

	summary := summarize(records, now)

	return domain.MetricsSnapshot{
		Summary:     summary,
		Conversions: conversions(summary),
		Financial:   a.financials(records, now),
	}
}

func summarize(records *domain.RecordSet, now time.Time) domain.SummaryMetrics {
	summary := domain.SummaryMetrics{
		TotalLeads:         len(records.Leads),
		TotalClients:       len(records.Clients),
		TotalVisits:        len(records.Visits),
		TotalOpportunities: len(records.Opportunities),
		TotalDeals:         len(records.Deals),
		TotalTasks:         len(records.Tasks),
	}

	for _, visit := range records.Visits {
		if visit.IsCompleted() {
			summary.CompletedVisits++
		}
	}

	for _, deal := range records.Deals {
		switch {
		case deal.IsWon():
			summary.WonDeals++
		case deal.IsLost():
			summary.LostDeals++
		}
	}
	summary.OpenDeals = summary.TotalDeals - summary.WonDeals - summary.LostDeals

	for _, task := range records.Tasks {
		if task.IsCompleted() {
			summary.CompletedTasks++
		} else if task.IsOverdue(now) {
			summary.OverdueTasks++
		}
	}

	return summary
}

func conversions(s domain.SummaryMetrics) domain.ConversionMetrics {
	return domain.ConversionMetrics{
		LeadToClient:       utils.Percentage(float64(s.TotalClients), float64(s.TotalLeads)),
		ClientToVisit:      utils.Percentage(float64(s.TotalVisits), float64(s.TotalClients)),
		VisitToOpportunity: utils.Percentage(float64(s.TotalOpportunities), float64(s.TotalVisits)),
		OpportunityToDeal:  utils.Percentage(float64(s.TotalDeals), float64(s.TotalOpportunities)),
		LeadToDeal:         utils.Percentage(float64(s.TotalDeals), float64(s.TotalLeads)),
		DealWinRate:        utils.Percentage(float64(s.WonDeals), float64(s.WonDeals+s.LostDeals)),
		VisitCompletion:    utils.Percentage(float64(s.CompletedVisits), float64(s.TotalVisits)),
		TaskCompletion:     utils.Percentage(float64(s.CompletedTasks), float64(s.TotalTasks)),
	}
}

func (a *Aggregator) financials(records *domain.RecordSet, now time.Time) domain.FinancialMetrics {
	var pipeline, weighted float64
	for _, opp := range records.Opportunities {
		pipeline += opp.EstimatedValue
		weighted += opp.EstimatedValue * clampProbability(opp.Probability) / 100
	}

	var total, won, commission float64
	for _, deal := range records.Deals {
		total += deal.TotalValue
		if deal.IsWon() {
			won += deal.TotalValue
		}

		pct := a.defaultCommissionPct
		if deal.CommissionPercentage != nil {
			pct = *deal.CommissionPercentage
		}
		commission += deal.TotalValue * pct / 100
	}

	var avg float64
	if len(records.Deals) > 0 {
		avg = total / float64(len(records.Deals))
	}

	return domain.FinancialMetrics{
		TotalPipelineValue:    utils.RoundWithTwoDecimalPlace(pipeline),
		WeightedPipelineValue: utils.RoundWithTwoDecimalPlace(weighted),
		TotalDealValue:        utils.RoundWithTwoDecimalPlace(total),
		WonDealValue:          utils.RoundWithTwoDecimalPlace(won),
		AvgDealValue:          utils.RoundWithTwoDecimalPlace(avg),
		ProjectedCommission:   utils.RoundWithTwoDecimalPlace(commission),
		AvgSalesCycleDays:     averageSalesCycle(records.Deals, now),
	}
}

// averageSalesCycle calcula a média em dias inteiros entre criação e fechamento.
// Negócios ainda abertos contam até now.
func averageSalesCycle(deals []*domain.Deal, now time.Time) float64 {
	var sum, count int

	for _, deal := range deals {
		if deal.CreatedAt.IsZero() {
			continue
		}

		end := now
		if domain.HasTime(deal.ClosedAt) {
			end = *deal.ClosedAt
		}

		days := utils.DaysBetween(deal.CreatedAt, end)
		if days < 0 {
			days = 0
		}

		sum += days
		count++
	}

	if count == 0 {
		return 0
	}

	return utils.RoundWithOneDecimalPlace(float64(sum) / float64(count))
}

func clampProbability(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
