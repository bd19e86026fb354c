package tenantRepo

import (
	"context"
	"fmt"
	"time"

	"reserva/config"
	"reserva/database"
	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TenantRepository defines the interface for tenant data access.
type TenantRepository interface {
	Create(tenant *models.Tenant) error
	GetByID(id string) (*models.Tenant, error)
	GetByChannelID(channelID string) (*models.Tenant, error)
	Update(tenant *models.Tenant) error
	Delete(id string) error
	List() ([]models.Tenant, error)
}

// MongoTenantRepo implements TenantRepository using MongoDB.
type MongoTenantRepo struct {
	coll *mongo.Collection
}

// NewMongoTenantRepo creates a new instance of TenantRepository using MongoDB.
func NewMongoTenantRepo() TenantRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("tenants")
	repo := &MongoTenantRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create tenant indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoTenantRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "channel_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new tenant document.
func (r *MongoTenantRepo) Create(tenant *models.Tenant) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, tenant); err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetByID retrieves a tenant by its unique ID.
func (r *MongoTenantRepo) GetByID(id string) (*models.Tenant, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var tenant models.Tenant
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&tenant); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("tenant with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch tenant %s: %w", id, err)
	}
	return &tenant, nil
}

// GetByChannelID retrieves the tenant bound to a chat platform channel.
func (r *MongoTenantRepo) GetByChannelID(channelID string) (*models.Tenant, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var tenant models.Tenant
	if err := r.coll.FindOne(ctx, bson.M{"channel_id": channelID}).Decode(&tenant); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("tenant for channel %s not found", channelID)
		}
		return nil, fmt.Errorf("failed to fetch tenant for channel %s: %w", channelID, err)
	}
	return &tenant, nil
}

// Update modifies an existing tenant document.
func (r *MongoTenantRepo) Update(tenant *models.Tenant) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	tenant.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": tenant.ID}, bson.M{"$set": tenant})
	if err != nil {
		return fmt.Errorf("failed to update tenant with id %s: %w", tenant.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("tenant with id %s not found", tenant.ID)
	}
	return nil
}

// Delete removes a tenant document by its ID.
func (r *MongoTenantRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete tenant with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("tenant with id %s not found", id)
	}
	return nil
}

// List returns all tenants.
func (r *MongoTenantRepo) List() ([]models.Tenant, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer cursor.Close(ctx)

	var tenants []models.Tenant
	if err := cursor.All(ctx, &tenants); err != nil {
		return nil, fmt.Errorf("failed to decode tenants: %w", err)
	}
	return tenants, nil
}
