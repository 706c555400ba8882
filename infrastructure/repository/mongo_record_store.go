package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vfg2006/realestate-crm-analytics/infrastructure/database/mongodb"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRecordStore struct {
	db *mongo.Database
}

func NewMongoRecordStore(conn *mongodb.Connection) RecordStore {
	return &mongoRecordStore{
		db: conn.DB,
	}
}

func (r *mongoRecordStore) FetchCollection(ctx context.Context, collection string, tenantID string, dateRange domain.DateRange) ([]domain.Document, error) {
	cursor, err := r.db.Collection(collection).Find(ctx, fetchFilter(tenantID, dateRange), fetchOptions())
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar a coleção %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	docs := make([]domain.Document, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("erro ao decodificar documento de %s: %w", collection, err)
		}
		docs = append(docs, documentFromBSON(raw))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("erro ao percorrer a coleção %s: %w", collection, err)
	}

	return docs, nil
}

// fetchFilter restringe ao tenant e ao intervalo fechado [Start, End] de createdAt
func fetchFilter(tenantID string, dateRange domain.DateRange) bson.M {
	return bson.M{
		fieldTenantID: tenantID,
		fieldCreatedAt: bson.M{
			"$gte": dateRange.Start,
			"$lte": dateRange.End,
		},
	}
}

// mais recentes primeiro, igual ao store do postgres
func fetchOptions() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: fieldCreatedAt, Value: -1}})
}

// documentFromBSON troca os tipos do driver por tipos Go simples.
// O _id vira id quando o documento não traz um id próprio.
func documentFromBSON(raw bson.M) domain.Document {
	doc := make(domain.Document, len(raw))
	for key, value := range raw {
		doc[key] = plainBSONValue(value)
	}

	if _, exists := doc["id"]; !exists {
		if id, ok := doc["_id"]; ok {
			doc["id"] = id
		}
	}
	delete(doc, "_id")

	return doc
}

func plainBSONValue(value any) any {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC()
	case primitive.Timestamp:
		return primitive.DateTime(int64(v.T) * 1000).Time().UTC()
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0.0
		}
		return f
	case bson.M:
		return map[string]any(documentFromBSON(v))
	case bson.D:
		return map[string]any(documentFromBSON(v.Map()))
	case bson.A:
		items := make([]any, 0, len(v))
		for _, item := range v {
			items = append(items, plainBSONValue(item))
		}
		return items
	}
	return value
}
