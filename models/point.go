package models

import "time"

// PointAccount is a tenant's prepaid balance. Writes are optimistic: every
// successful mutation bumps Version, and a stale Version means the write lost
// a race and must be retried.
type PointAccount struct {
	TenantID  string    `bson:"tenant_id" json:"tenantId"`
	Balance   int64     `bson:"balance" json:"balance"`
	Version   int64     `bson:"version" json:"version"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// PointEntry is one ledger line recording a balance change.
type PointEntry struct {
	ID        string    `bson:"id" json:"id"`
	TenantID  string    `bson:"tenant_id" json:"tenantId"`
	Delta     int64     `bson:"delta" json:"delta"` // positive credit, negative debit
	Reason    string    `bson:"reason" json:"reason"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
