package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDocumentFromBSON(t *testing.T) {
	created := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	oid := primitive.NewObjectIDFromTimestamp(created)
	decimal, _ := primitive.ParseDecimal128("350000.50")

	raw := bson.M{
		"_id":       oid,
		"tenantId":  "tenant-1",
		"createdAt": primitive.NewDateTimeFromTime(created),
		"value":     decimal,
		"tags":      bson.A{"vip", primitive.NewDateTimeFromTime(created)},
		"address":   bson.M{"city": "Curitiba", "updatedAt": primitive.NewDateTimeFromTime(created)},
		"meta":      bson.D{{Key: "origin", Value: "site"}},
	}

	doc := documentFromBSON(raw)

	assert.Equal(t, oid.Hex(), doc["id"])
	assert.NotContains(t, doc, "_id")
	assert.Equal(t, created, doc["createdAt"])
	assert.Equal(t, 350000.5, doc["value"])
	assert.Equal(t, []any{"vip", created}, doc["tags"])
	assert.Equal(t, map[string]any{"city": "Curitiba", "updatedAt": created}, doc["address"])
	assert.Equal(t, map[string]any{"origin": "site"}, doc["meta"])
}

func TestDocumentFromBSON_KeepsOwnID(t *testing.T) {
	doc := documentFromBSON(bson.M{"_id": primitive.NewObjectID(), "id": "lead-42"})

	assert.Equal(t, "lead-42", doc["id"])
	assert.NotContains(t, doc, "_id")
}

func TestFetchFilter(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)

	filter := fetchFilter("tenant-1", domain.DateRange{Start: start, End: end})

	assert.Equal(t, bson.M{
		"tenantId": "tenant-1",
		"createdAt": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}, filter)
}

func TestFetchOptions_OrdenaPorCreatedAtDecrescente(t *testing.T) {
	opts := fetchOptions()

	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, opts.Sort)
	assert.Nil(t, opts.Limit)
}
