package domain

type LeadTier string

const (
	LeadTierHot  LeadTier = "hot"
	LeadTierWarm LeadTier = "warm"
	LeadTierCold LeadTier = "cold"
)

type ScoredLead struct {
	LeadID       string   `json:"leadId"`
	Name         string   `json:"name"`
	Source       string   `json:"source"`
	InterestType string   `json:"interestType"`
	Budget       float64  `json:"budget"`
	Interactions int      `json:"interactions"`
	Score        int      `json:"score"`
	Tier         LeadTier `json:"tier"`
}

type LeadScoreDistribution struct {
	Hot  int `json:"hot"`
	Warm int `json:"warm"`
	Cold int `json:"cold"`
}

// LeadScoring é o resultado da pontuação dos leads de um relatório
type LeadScoring struct {
	Leads        []ScoredLead          `json:"leads"`
	Distribution LeadScoreDistribution `json:"distribution"`
	AverageScore float64               `json:"averageScore"`
	TopLeads     []ScoredLead          `json:"topLeads"`
}
