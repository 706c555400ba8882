package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const pingTimeout = 2 * time.Second

// Connection mantém o cliente do mongo e o banco do CRM
type Connection struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func NewConnection(ctx context.Context, cfg config.Mongo) (*Connection, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo: URI de conexão vazia")
	}

	clientOptions := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetReadPreference(readpref.SecondaryPreferred()) // relatórios são somente leitura

	if cfg.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no mongo: %w", err)
	}

	conn := &Connection{
		Client: client,
		DB:     client.Database(cfg.Database),
	}

	if err := conn.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("falha no ping do mongo: %w", err)
	}

	return conn, nil
}

func (c *Connection) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return c.Client.Ping(ctx, nil)
}

func (c *Connection) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
