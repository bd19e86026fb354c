package models

import "time"

// Customer is an end user of a tenant, keyed by their chat platform identity.
type Customer struct {
	ID         string    `bson:"id" json:"id"`
	TenantID   string    `bson:"tenant_id" json:"tenantId"`
	ChatUserID string    `bson:"chat_user_id" json:"chatUserId"`
	Name       string    `bson:"name,omitempty" json:"name,omitempty"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}
