package reporting

import (
	"sort"
	"strings"

	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/pkg/utils"
)

const maxLeadScore = 100

// LeadScorer pontua leads de 0 a 100 e classifica em quente, morno ou frio
type LeadScorer struct {
	hotThreshold       int
	warmThreshold      int
	budgetHigh         float64
	budgetMedium       float64
	interactionsHigh   int
	interactionsMedium int
	topLimit           int

	sourceWeights     map[string]int
	interestWeights   map[string]int
	unknownWeight     int
	budgetPoints      []int
	interactionPoints []int
}

func NewLeadScorer(cfg config.Analytics) *LeadScorer {
	return &LeadScorer{
		hotThreshold:       cfg.LeadScoreHotThreshold,
		warmThreshold:      cfg.LeadScoreWarmThreshold,
		budgetHigh:         cfg.LeadScoreBudgetHigh,
		budgetMedium:       cfg.LeadScoreBudgetMedium,
		interactionsHigh:   cfg.LeadScoreInteractionsHigh,
		interactionsMedium: cfg.LeadScoreInteractionsMedium,
		topLimit:           cfg.TopLeadsLimit,
		sourceWeights:      normalizeWeights(cfg.LeadScoreSourceWeights),
		interestWeights:    normalizeWeights(cfg.LeadScoreInterestWeights),
		unknownWeight:      cfg.LeadScoreUnknownWeight,
		budgetPoints:       cfg.LeadScoreBudgetPoints,
		interactionPoints:  cfg.LeadScoreInteractionPoints,
	}
}

func (s *LeadScorer) Score(lead *domain.Lead) int {
	if lead == nil {
		return 0
	}

	score := lookupScore(s.sourceWeights, lead.Source, s.unknownWeight) +
		lookupScore(s.interestWeights, lead.InterestType, s.unknownWeight)

	switch {
	case lead.Budget >= s.budgetHigh:
		score += pointsAt(s.budgetPoints, 0)
	case lead.Budget >= s.budgetMedium:
		score += pointsAt(s.budgetPoints, 1)
	default:
		score += pointsAt(s.budgetPoints, 2)
	}

	switch {
	case lead.Interactions >= s.interactionsHigh:
		score += pointsAt(s.interactionPoints, 0)
	case lead.Interactions >= s.interactionsMedium:
		score += pointsAt(s.interactionPoints, 1)
	default:
		score += pointsAt(s.interactionPoints, 2)
	}

	if score > maxLeadScore {
		return maxLeadScore
	}
	if score < 0 {
		return 0
	}
	return score
}

func (s *LeadScorer) Tier(score int) domain.LeadTier {
	switch {
	case score >= s.hotThreshold:
		return domain.LeadTierHot
	case score >= s.warmThreshold:
		return domain.LeadTierWarm
	default:
		return domain.LeadTierCold
	}
}

// ScoreLeads ordena os leads pela pontuação (ordenação estável) e separa
// os primeiros leads quentes como destaque
func (s *LeadScorer) ScoreLeads(leads []*domain.Lead) domain.LeadScoring {
	result := domain.LeadScoring{
		Leads:    make([]domain.ScoredLead, 0, len(leads)),
		TopLeads: make([]domain.ScoredLead, 0),
	}

	total := 0
	for _, lead := range leads {
		if lead == nil {
			continue
		}

		score := s.Score(lead)
		total += score

		scored := domain.ScoredLead{
			LeadID:       lead.ID,
			Name:         lead.Name,
			Source:       lead.Source,
			InterestType: lead.InterestType,
			Budget:       lead.Budget,
			Interactions: lead.Interactions,
			Score:        score,
			Tier:         s.Tier(score),
		}

		switch scored.Tier {
		case domain.LeadTierHot:
			result.Distribution.Hot++
		case domain.LeadTierWarm:
			result.Distribution.Warm++
		default:
			result.Distribution.Cold++
		}

		result.Leads = append(result.Leads, scored)
	}

	if len(result.Leads) == 0 {
		return result
	}

	sort.SliceStable(result.Leads, func(i, j int) bool {
		return result.Leads[i].Score > result.Leads[j].Score
	})

	result.AverageScore = utils.RoundWithOneDecimalPlace(float64(total) / float64(len(result.Leads)))

	for _, scored := range result.Leads {
		if len(result.TopLeads) >= s.topLimit {
			break
		}
		if scored.Tier == domain.LeadTierHot {
			result.TopLeads = append(result.TopLeads, scored)
		}
	}

	return result
}

func normalizeWeights(weights map[string]int) map[string]int {
	normalized := make(map[string]int, len(weights))
	for key, weight := range weights {
		normalized[normalizeKey(key)] = weight
	}
	return normalized
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// pointsAt devolve zero para faixas não configuradas
func pointsAt(points []int, i int) int {
	if i < len(points) {
		return points[i]
	}
	return 0
}

func lookupScore(table map[string]int, key string, fallback int) int {
	if score, ok := table[normalizeKey(key)]; ok {
		return score
	}
	return fallback
}
