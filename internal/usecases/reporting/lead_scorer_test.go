package reporting

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
)

func TestLeadScorer_Score(t *testing.T) {
	scorer := NewLeadScorer(config.DefaultAnalytics())

	tests := []struct {
		name     string
		lead     *domain.Lead
		expected int
		tier     domain.LeadTier
	}{
		{
			name:     "Lead quente de investimento com orçamento alto chega a 100",
			lead:     &domain.Lead{Source: "hot", InterestType: "investimento", Budget: 400000, Interactions: 6},
			expected: 100,
			tier:     domain.LeadTierHot,
		},
		{
			name:     "Lead morno de compra com orçamento médio",
			lead:     &domain.Lead{Source: "warm", InterestType: "compra", Budget: 150000, Interactions: 2},
			expected: 15 + 25 + 20 + 15,
			tier:     domain.LeadTierWarm,
		},
		{
			name:     "Lead frio de aluguel sem interações",
			lead:     &domain.Lead{Source: "cold", InterestType: "aluguel", Budget: 1000},
			expected: 5 + 15 + 10 + 5,
			tier:     domain.LeadTierCold,
		},
		{
			name:     "Categorias desconhecidas usam o peso padrão",
			lead:     &domain.Lead{Source: "instagram", InterestType: "permuta", Budget: 300000, Interactions: 5},
			expected: 10 + 10 + 30 + 25,
			tier:     domain.LeadTierWarm,
		},
		{
			name:     "Categorias sem distinção de caixa",
			lead:     &domain.Lead{Source: " HOT ", InterestType: "Venda", Budget: 0, Interactions: 0},
			expected: 25 + 20 + 10 + 5,
			tier:     domain.LeadTierWarm,
		},
		{
			name:     "Lead nulo pontua zero",
			lead:     nil,
			expected: 0,
			tier:     domain.LeadTierCold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := scorer.Score(tt.lead)
			assert.Equal(t, tt.expected, score)
			assert.Equal(t, tt.tier, scorer.Tier(score))
		})
	}
}

func TestLeadScorer_ScoreWithCustomWeights(t *testing.T) {
	lead := &domain.Lead{Source: "warm", InterestType: "compra", Budget: 150000, Interactions: 2}

	tests := []struct {
		name     string
		mutate   func(a *config.Analytics)
		expected int
	}{
		{
			name:     "Pesos padrão",
			mutate:   func(a *config.Analytics) {},
			expected: 15 + 25 + 20 + 15,
		},
		{
			name:     "Peso de origem alterado",
			mutate:   func(a *config.Analytics) { a.LeadScoreSourceWeights = map[string]int{"Warm": 40} },
			expected: 40 + 25 + 20 + 15,
		},
		{
			name:     "Peso de interesse alterado",
			mutate:   func(a *config.Analytics) { a.LeadScoreInterestWeights = map[string]int{"compra": 5} },
			expected: 15 + 5 + 20 + 15,
		},
		{
			name: "Origem fora da tabela usa o peso desconhecido configurado",
			mutate: func(a *config.Analytics) {
				a.LeadScoreSourceWeights = map[string]int{"hot": 25}
				a.LeadScoreUnknownWeight = 2
			},
			expected: 2 + 25 + 20 + 15,
		},
		{
			name:     "Pontos de orçamento alterados",
			mutate:   func(a *config.Analytics) { a.LeadScoreBudgetPoints = []int{50, 35, 0} },
			expected: 15 + 25 + 35 + 15,
		},
		{
			name:     "Pontos de interação alterados",
			mutate:   func(a *config.Analytics) { a.LeadScoreInteractionPoints = []int{40, 30, 0} },
			expected: 15 + 25 + 20 + 30,
		},
		{
			name: "Pesos altos continuam limitados a 100",
			mutate: func(a *config.Analytics) {
				a.LeadScoreBudgetPoints = []int{90, 90, 90}
			},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultAnalytics()
			tt.mutate(&cfg)

			assert.Equal(t, tt.expected, NewLeadScorer(cfg).Score(lead))
		})
	}
}

func TestLeadScorer_ScoreAlwaysInRange(t *testing.T) {
	scorer := NewLeadScorer(config.DefaultAnalytics())

	sources := []string{"hot", "warm", "cold", "", "indicação"}
	interests := []string{"investimento", "compra", "venda", "aluguel", "", "outro"}
	budgets := []float64{-1, 0, 149999, 150000, 299999, 300000, 1e9}
	interactions := []int{-3, 0, 1, 2, 4, 5, 100}

	for _, s := range sources {
		for _, i := range interests {
			for _, b := range budgets {
				for _, n := range interactions {
					score := scorer.Score(&domain.Lead{Source: s, InterestType: i, Budget: b, Interactions: n})
					assert.GreaterOrEqual(t, score, 0)
					assert.LessOrEqual(t, score, 100)
				}
			}
		}
	}
}

func TestLeadScorer_ScoreLeads(t *testing.T) {
	scorer := NewLeadScorer(config.DefaultAnalytics())

	hotLead := func(id string) *domain.Lead {
		return &domain.Lead{Record: domain.Record{ID: id}, Source: "hot", InterestType: "investimento", Budget: 400000, Interactions: 6}
	}

	leads := []*domain.Lead{
		{Record: domain.Record{ID: "cold-1"}, Source: "cold", InterestType: "aluguel"},
		hotLead("hot-1"),
		{Record: domain.Record{ID: "warm-1"}, Source: "warm", InterestType: "compra", Budget: 150000, Interactions: 2},
		hotLead("hot-2"),
	}
	for i := 3; i <= 7; i++ {
		leads = append(leads, hotLead(fmt.Sprintf("hot-%d", i)))
	}

	result := scorer.ScoreLeads(leads)

	require.Len(t, result.Leads, 9)
	assert.Equal(t, domain.LeadScoreDistribution{Hot: 7, Warm: 1, Cold: 1}, result.Distribution)

	// Ordenação estável: empates mantêm a ordem original
	assert.Equal(t, "hot-1", result.Leads[0].LeadID)
	assert.Equal(t, "hot-2", result.Leads[1].LeadID)
	assert.Equal(t, "warm-1", result.Leads[7].LeadID)
	assert.Equal(t, "cold-1", result.Leads[8].LeadID)

	require.Len(t, result.TopLeads, 5)
	assert.Equal(t, "hot-1", result.TopLeads[0].LeadID)
	assert.Equal(t, "hot-5", result.TopLeads[4].LeadID)

	// (7*100 + 75 + 35) / 9 = 90
	assert.Equal(t, 90.0, result.AverageScore)
}

func TestLeadScorer_ScoreLeadsEmpty(t *testing.T) {
	result := NewLeadScorer(config.DefaultAnalytics()).ScoreLeads(nil)

	assert.NotNil(t, result.Leads)
	assert.Empty(t, result.Leads)
	assert.NotNil(t, result.TopLeads)
	assert.Equal(t, 0.0, result.AverageScore)
	assert.Equal(t, domain.LeadScoreDistribution{}, result.Distribution)
}
