package pointRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reserva/config"
	"reserva/database"
	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrVersionConflict is returned when a compare-and-swap write lost a race
// against a concurrent mutation of the same account.
var ErrVersionConflict = errors.New("point account version conflict")

// PointRepository defines the interface for tenant point-balance access.
type PointRepository interface {
	// GetAccount returns the tenant's account, creating a zero-balance one
	// on first access.
	GetAccount(tenantID string) (*models.PointAccount, error)
	// SwapBalance writes newBalance only if the stored version still equals
	// expectedVersion. Returns ErrVersionConflict otherwise.
	SwapBalance(tenantID string, expectedVersion, newBalance int64) error
	AppendEntry(entry *models.PointEntry) error
	ListEntries(tenantID string, limit int64) ([]models.PointEntry, error)
}

// MongoPointRepo implements PointRepository using MongoDB.
type MongoPointRepo struct {
	accountColl *mongo.Collection
	ledgerColl  *mongo.Collection
}

// NewMongoPointRepo creates a new instance of PointRepository using MongoDB.
func NewMongoPointRepo() PointRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	repo := &MongoPointRepo{
		accountColl: db.Collection("point_accounts"),
		ledgerColl:  db.Collection("point_entries"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create point indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoPointRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.accountColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create account index: %w", err)
	}
	if _, err := r.ledgerColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create ledger index: %w", err)
	}
	return nil
}

// GetAccount returns the tenant's point account, creating it if absent.
func (r *MongoPointRepo) GetAccount(tenantID string) (*models.PointAccount, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"tenant_id":  tenantID,
			"balance":    int64(0),
			"version":    int64(0),
			"updated_at": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var account models.PointAccount
	if err := r.accountColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&account); err != nil {
		return nil, fmt.Errorf("failed to fetch point account for tenant %s: %w", tenantID, err)
	}
	return &account, nil
}

// SwapBalance performs the versioned compare-and-swap write.
func (r *MongoPointRepo) SwapBalance(tenantID string, expectedVersion, newBalance int64) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{"balance": newBalance, "updated_at": time.Now()},
		"$inc": bson.M{"version": int64(1)},
	}

	result, err := r.accountColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update point account for tenant %s: %w", tenantID, err)
	}
	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

// AppendEntry records a ledger line.
func (r *MongoPointRepo) AppendEntry(entry *models.PointEntry) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	entry.CreatedAt = time.Now()
	if _, err := r.ledgerColl.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append point entry: %w", err)
	}
	return nil
}

// ListEntries returns the most recent ledger lines for a tenant.
func (r *MongoPointRepo) ListEntries(tenantID string, limit int64) ([]models.PointEntry, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.ledgerColl.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list point entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.PointEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode point entries: %w", err)
	}
	return entries, nil
}
