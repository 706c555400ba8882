package reporting

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
)

func floatPtr(f float64) *float64 {
	return &f
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func makeLeads(n int) []*domain.Lead {
	leads := make([]*domain.Lead, 0, n)
	for i := 0; i < n; i++ {
		leads = append(leads, &domain.Lead{Record: domain.Record{ID: fmt.Sprintf("L%d", i)}})
	}
	return leads
}

func TestAggregator_Aggregate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	aggregator := NewAggregator(config.DefaultAnalytics())

	tests := []struct {
		name     string
		records  *domain.RecordSet
		validate func(t *testing.T, snapshot domain.MetricsSnapshot)
	}{
		{
			name: "10 leads, 3 clientes, 2 oportunidades e 1 negócio com comissão de 3%",
			records: &domain.RecordSet{
				Leads:   makeLeads(10),
				Clients: []*domain.Client{{}, {}, {}},
				Opportunities: []*domain.Opportunity{
					{EstimatedValue: 200000, Probability: 50},
					{EstimatedValue: 150000, Probability: 20},
				},
				Deals: []*domain.Deal{
					{TotalValue: 50000, CommissionPercentage: floatPtr(3), Status: "won"},
				},
			},
			validate: func(t *testing.T, s domain.MetricsSnapshot) {
				assert.Equal(t, 10, s.Summary.TotalLeads)
				assert.Equal(t, 3, s.Summary.TotalClients)
				assert.Equal(t, 2, s.Summary.TotalOpportunities)
				assert.Equal(t, 1, s.Summary.TotalDeals)

				assert.Equal(t, 30.0, s.Conversions.LeadToClient)
				assert.Equal(t, 0.0, s.Conversions.ClientToVisit)
				assert.Equal(t, 0.0, s.Conversions.VisitToOpportunity)
				assert.Equal(t, 50.0, s.Conversions.OpportunityToDeal)
				assert.Equal(t, 10.0, s.Conversions.LeadToDeal)
				assert.Equal(t, 100.0, s.Conversions.DealWinRate)

				assert.Equal(t, 350000.0, s.Financial.TotalPipelineValue)
				assert.Equal(t, 130000.0, s.Financial.WeightedPipelineValue)
				assert.Equal(t, 50000.0, s.Financial.AvgDealValue)
				assert.Equal(t, 50000.0, s.Financial.WonDealValue)
				assert.Equal(t, 1500.0, s.Financial.ProjectedCommission)
			},
		},
		{
			name:    "Conjunto vazio não gera divisão por zero",
			records: &domain.RecordSet{},
			validate: func(t *testing.T, s domain.MetricsSnapshot) {
				assert.Equal(t, domain.MetricsSnapshot{}, s)
			},
		},
		{
			name: "Comissão padrão de 2.5% quando o negócio não informa",
			records: &domain.RecordSet{
				Deals: []*domain.Deal{
					{TotalValue: 100000},
					{TotalValue: 200000, CommissionPercentage: floatPtr(5)},
				},
			},
			validate: func(t *testing.T, s domain.MetricsSnapshot) {
				assert.Equal(t, 12500.0, s.Financial.ProjectedCommission)
				assert.Equal(t, 150000.0, s.Financial.AvgDealValue)
				assert.Equal(t, 2, s.Summary.OpenDeals)
				assert.Equal(t, 0.0, s.Conversions.DealWinRate)
			},
		},
		{
			name: "Mais clientes que leads limita a taxa em 100",
			records: &domain.RecordSet{
				Leads:   makeLeads(2),
				Clients: []*domain.Client{{}, {}, {}},
			},
			validate: func(t *testing.T, s domain.MetricsSnapshot) {
				assert.Equal(t, 100.0, s.Conversions.LeadToClient)
			},
		},
		{
			name: "Visitas, tarefas e taxa de ganho",
			records: &domain.RecordSet{
				Visits: []*domain.Visit{
					{Completed: true},
					{Status: "completed"},
					{Status: "scheduled"},
				},
				Deals: []*domain.Deal{
					{Status: "won"}, {Status: "WON"}, {Status: "lost"}, {Status: "negotiation"},
				},
				Tasks: []*domain.Task{
					{Status: "completed", DueDate: timePtr(now.AddDate(0, 0, -3))},
					{Status: "pending", DueDate: timePtr(now.AddDate(0, 0, -1))},
					{Status: "pending", DueDate: timePtr(now.AddDate(0, 0, 2))},
					{Status: "pending"},
				},
			},
			validate: func(t *testing.T, s domain.MetricsSnapshot) {
				assert.Equal(t, 2, s.Summary.CompletedVisits)
				assert.Equal(t, 66.7, s.Conversions.VisitCompletion)

				assert.Equal(t, 2, s.Summary.WonDeals)
				assert.Equal(t, 1, s.Summary.LostDeals)
				assert.Equal(t, 1, s.Summary.OpenDeals)
				assert.Equal(t, 66.7, s.Conversions.DealWinRate)

				assert.Equal(t, 1, s.Summary.CompletedTasks)
				assert.Equal(t, 1, s.Summary.OverdueTasks)
				assert.Equal(t, 25.0, s.Conversions.TaskCompletion)
			},
		},
		{
			name: "Ciclo de vendas usa now para negócios abertos",
			records: &domain.RecordSet{
				Deals: []*domain.Deal{
					{
						Record:   domain.Record{CreatedAt: now.AddDate(0, 0, -40)},
						Status:   "won",
						ClosedAt: timePtr(now.AddDate(0, 0, -30)),
					},
					{
						Record: domain.Record{CreatedAt: now.AddDate(0, 0, -20)},
						Status: "negotiation",
					},
					{Status: "won"},
				},
			},
			validate: func(t *testing.T, s domain.MetricsSnapshot) {
				assert.Equal(t, 15.0, s.Financial.AvgSalesCycleDays)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := aggregator.Aggregate(tt.records, now)
			tt.validate(t, snapshot)
		})
	}
}

func TestAggregator_TotalsMatchRecordCounts(t *testing.T) {
	aggregator := NewAggregator(config.DefaultAnalytics())
	now := time.Now()

	for leads := 0; leads <= 5; leads++ {
		for clients := 0; clients <= 5; clients++ {
			records := &domain.RecordSet{
				Leads:   makeLeads(leads),
				Clients: make([]*domain.Client, 0, clients),
			}
			for i := 0; i < clients; i++ {
				records.Clients = append(records.Clients, &domain.Client{})
			}

			s := aggregator.Aggregate(records, now)

			assert.Equal(t, leads, s.Summary.TotalLeads)
			assert.Equal(t, clients, s.Summary.TotalClients)
			assert.GreaterOrEqual(t, s.Conversions.LeadToClient, 0.0)
			assert.LessOrEqual(t, s.Conversions.LeadToClient, 100.0)
			if leads == 0 {
				assert.Equal(t, 0.0, s.Conversions.LeadToClient)
			}
		}
	}
}

func TestAggregator_NilRecords(t *testing.T) {
	s := NewAggregator(config.DefaultAnalytics()).Aggregate(nil, time.Now())
	assert.Equal(t, 0, s.Summary.TotalLeads)
}
