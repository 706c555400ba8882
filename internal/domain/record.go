// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import "time"

// Nomes das coleções do CRM consultadas pelos relatórios
const (
	CollectionLeads         = "leads"
	CollectionClients       = "clients"
	CollectionVisits        = "visits"
	CollectionOpportunities = "opportunities"
	CollectionDeals         = "deals"
	CollectionTasks         = "tasks"
)

// Collections lista as coleções carregadas em cada relatório, na ordem do funil
var Collections = []string{
	CollectionLeads,
	CollectionClients,
	CollectionVisits,
	CollectionOpportunities,
	CollectionDeals,
	CollectionTasks,
}

// Document representa um registro bruto como devolvido pelo armazenamento de documentos
type Document map[string]any

// Record contém os campos comuns a todas as entidades do tenant
type Record struct {
	ID           string    `json:"id" mapstructure:"id"`
	TenantID     string    `json:"tenantId" mapstructure:"tenantId"`
	ConsultantID string    `json:"consultantId,omitempty" mapstructure:"consultantId"`
	CreatedAt    time.Time `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" mapstructure:"updatedAt"`
}

// RecordSet agrupa os registros normalizados de um tenant para um período
type RecordSet struct {
	Leads         []*Lead        `json:"leads"`
	Clients       []*Client      `json:"clients"`
	Visits        []*Visit       `json:"visits"`
	Opportunities []*Opportunity `json:"opportunities"`
	Deals         []*Deal        `json:"deals"`
	Tasks         []*Task        `json:"tasks"`
}

// Counts retorna a quantidade de registros por coleção
func (rs *RecordSet) Counts() map[string]int {
	if rs == nil {
		return map[string]int{}
	}

	return map[string]int{
		CollectionLeads:         len(rs.Leads),
		CollectionClients:       len(rs.Clients),
		CollectionVisits:        len(rs.Visits),
		CollectionOpportunities: len(rs.Opportunities),
		CollectionDeals:         len(rs.Deals),
		CollectionTasks:         len(rs.Tasks),
	}
}
