package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/realestate-crm-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultRecordsTable = "crm_records"

// postgresRecordStore lê os documentos de uma tabela única
// (id, tenant_id, collection, data jsonb, created_at)
type postgresRecordStore struct {
	conn  postgres.Queryer
	table string
}

func NewPostgresRecordStore(conn postgres.Queryer, table string) RecordStore {
	if table == "" {
		table = defaultRecordsTable
	}

	return &postgresRecordStore{
		conn:  conn,
		table: table,
	}
}

func (r *postgresRecordStore) buildFetchQuery(collection string, tenantID string, dateRange domain.DateRange) (string, []any, error) {
	return squirrel.
		Select("id", "data", "created_at").
		From(r.table).
		Where(squirrel.Eq{
			"tenant_id":  tenantID,
			"collection": collection,
		}).
		Where(squirrel.GtOrEq{"created_at": dateRange.Start}).
		Where(squirrel.LtOrEq{"created_at": dateRange.End}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *postgresRecordStore) FetchCollection(ctx context.Context, collection string, tenantID string, dateRange domain.DateRange) ([]domain.Document, error) {
	sqlQuery, args, err := r.buildFetchQuery(collection, tenantID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var (
			id        string
			data      []byte
			createdAt time.Time
		)

		if err := rows.Scan(&id, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("erro ao ler registro: %w", err)
		}

		doc, err := documentFromRow(id, tenantID, data, createdAt)
		if err != nil {
			return nil, fmt.Errorf("erro ao decodificar registro %s de %s: %w", id, collection, err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao percorrer registros: %w", err)
	}

	return docs, nil
}

// documentFromRow usa as colunas da tabela como fonte da verdade para id, tenant e criação
func documentFromRow(id string, tenantID string, data []byte, createdAt time.Time) (domain.Document, error) {
	doc := domain.Document{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}

	doc["id"] = id
	doc[fieldTenantID] = tenantID
	doc[fieldCreatedAt] = createdAt.UTC()

	return doc, nil
}
