// ============================================================================
// backend/internal/shared/database.go
// Shared MongoDB connection and helper utilities
// ============================================================================

package shared

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds MongoDB connection configuration
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
	MaxIdleTime    time.Duration
}

// ConnectMongoDB establishes connection to MongoDB with proper configuration
func ConnectMongoDB(config *MongoConfig) (*mongo.Client, *mongo.Database, error) {
	if config == nil {
		return nil, nil, fmt.Errorf("mongo config cannot be nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetMaxPoolSize(config.MaxPoolSize).
		SetMinPoolSize(config.MinPoolSize).
		SetMaxConnIdleTime(config.MaxIdleTime).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(config.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("Successfully connected to MongoDB (Database: %s)", config.Database)

	return client, client.Database(config.Database), nil
}

// DisconnectMongoDB gracefully closes MongoDB connection
func DisconnectMongoDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	log.Println("Successfully disconnected from MongoDB")
	return nil
}

// ============================================================================
// Type Conversion Helpers
// ============================================================================

// GetString extracts a string from a BSON value
func GetString(value interface{}) (string, error) {
	if str, ok := value.(string); ok {
		return str, nil
	}
	return "", fmt.Errorf("cannot convert %T to string", value)
}

// GetInt extracts an int from a numeric BSON value
func GetInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", value)
	}
}

// GetTime extracts a time from a BSON datetime
func GetTime(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case primitive.DateTime:
		return v.Time(), nil
	case time.Time:
		return v, nil
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time.Time", value)
	}
}

// GetDecimal extracts a decimal from a numeric BSON value. Doubles go through
// their shortest representation so 1.75 stays 1.75.
func GetDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case primitive.Decimal128:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, fmt.Errorf("cannot convert %T to decimal", value)
	}
}

// ToBSONDecimal converts a decimal for storage as a BSON double
func ToBSONDecimal(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
