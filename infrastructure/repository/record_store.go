// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

//go:generate mockgen -source=record_store.go -destination=mocks/record_store.go -package=mocks

import (
	"context"

	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
)

// Campos comuns usados nos filtros de todas as coleções
const (
	fieldTenantID  = "tenantId"
	fieldCreatedAt = "createdAt"
)

// RecordStore é a fronteira de leitura com o armazenamento de documentos do CRM.
// FetchCollection filtra por tenant (igualdade) e por createdAt dentro do período,
// ordenando por createdAt decrescente.
type RecordStore interface {
	FetchCollection(ctx context.Context, collection string, tenantID string, dateRange domain.DateRange) ([]domain.Document, error)
}
