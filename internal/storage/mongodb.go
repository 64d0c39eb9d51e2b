package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ety001/cryptotoken-converter/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const lowFundsCollection = "lowfunds_notices"

// MongoDB represents a MongoDB storage client
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	notices  *mongo.Collection
}

// NewMongoDB creates a new MongoDB storage client. Connecting is bounded by
// ctx and at most 10 seconds.
func NewMongoDB(ctx context.Context, uri, databaseName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Test connection
	if err := client.Ping(ctx, nil); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(databaseName)

	return &MongoDB{
		client:   client,
		database: db,
		notices:  db.Collection(lowFundsCollection),
	}, nil
}

// Close closes the MongoDB connection
func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// GetNotice returns the low-funds notice for a wallet, or nil if none was sent
func (m *MongoDB) GetNotice(ctx context.Context, coin, wallet string) (*models.LowFundsNotice, error) {
	var notice models.LowFundsNotice
	err := m.notices.FindOne(ctx, bson.M{"coin": coin, "wallet": wallet}).Decode(&notice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get low-funds notice: %w", err)
	}
	return &notice, nil
}

// SaveNotice upserts the notice keyed by coin and wallet
func (m *MongoDB) SaveNotice(ctx context.Context, notice *models.LowFundsNotice) error {
	filter := bson.M{"coin": notice.Coin, "wallet": notice.Wallet}
	update := bson.M{"$set": bson.M{
		"coin":          notice.Coin,
		"wallet":        notice.Wallet,
		"balance":       notice.Balance,
		"min_balance":   notice.MinBalance,
		"last_notified": notice.LastNotified,
		"count":         notice.Count,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := m.notices.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert low-funds notice: %w", err)
	}
	return nil
}

// DeleteNotice removes the notice once the wallet is funded again
func (m *MongoDB) DeleteNotice(ctx context.Context, coin, wallet string) error {
	_, err := m.notices.DeleteOne(ctx, bson.M{"coin": coin, "wallet": wallet})
	if err != nil {
		return fmt.Errorf("failed to delete low-funds notice: %w", err)
	}
	return nil
}

// ListNotices returns all open notices, most recent first
func (m *MongoDB) ListNotices(ctx context.Context) ([]models.LowFundsNotice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_notified", Value: -1}})
	cursor, err := m.notices.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find low-funds notices: %w", err)
	}
	defer cursor.Close(ctx)

	notices := []models.LowFundsNotice{}
	if err := cursor.All(ctx, &notices); err != nil {
		return nil, fmt.Errorf("failed to decode low-funds notices: %w", err)
	}
	return notices, nil
}

// CreateIndexes creates the unique index on coin and wallet
func (m *MongoDB) CreateIndexes(ctx context.Context) error {
	_, err := m.notices.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "coin", Value: 1},
			{Key: "wallet", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
