package domain

// SummaryMetrics contém as contagens brutas de cada etapa do funil
type SummaryMetrics struct {
	TotalLeads         int `json:"totalLeads"`
	TotalClients       int `json:"totalClients"`
	TotalVisits        int `json:"totalVisits"`
	TotalOpportunities int `json:"totalOpportunities"`
	TotalDeals         int `json:"totalDeals"`
	TotalTasks         int `json:"totalTasks"`
	CompletedVisits    int `json:"completedVisits"`
	WonDeals           int `json:"wonDeals"`
	LostDeals          int `json:"lostDeals"`
	OpenDeals          int `json:"openDeals"`
	CompletedTasks     int `json:"completedTasks"`
	OverdueTasks       int `json:"overdueTasks"`
}

// ConversionMetrics contém as taxas percentuais, arredondadas em uma casa decimal
type ConversionMetrics struct {
	LeadToClient       float64 `json:"leadToClient"`
	ClientToVisit      float64 `json:"clientToVisit"`
	VisitToOpportunity float64 `json:"visitToOpportunity"`
	OpportunityToDeal  float64 `json:"opportunityToDeal"`
	LeadToDeal         float64 `json:"leadToDeal"`
	DealWinRate        float64 `json:"dealWinRate"`
	VisitCompletion    float64 `json:"visitCompletion"`
	TaskCompletion     float64 `json:"taskCompletion"`
}

type FinancialMetrics struct {
	TotalPipelineValue    float64 `json:"totalPipelineValue"`
	WeightedPipelineValue float64 `json:"weightedPipelineValue"`
	TotalDealValue        float64 `json:"totalDealValue"`
	WonDealValue          float64 `json:"wonDealValue"`
	AvgDealValue          float64 `json:"avgDealValue"`
	ProjectedCommission   float64 `json:"projectedCommission"`
	AvgSalesCycleDays     float64 `json:"avgSalesCycleDays"`
}

// MetricsSnapshot é o resultado do agregador para um RecordSet
type MetricsSnapshot struct {
	Summary     SummaryMetrics    `json:"summary"`
	Conversions ConversionMetrics `json:"conversions"`
	Financial   FinancialMetrics  `json:"financial"`
}
