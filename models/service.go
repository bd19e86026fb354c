package models

import "time"

// Service is a bookable offering (cut, consultation, massage, ...).
type Service struct {
	ID          string    `bson:"id" json:"id"`
	TenantID    string    `bson:"tenant_id" json:"tenantId"`
	Name        string    `bson:"name" json:"name"`
	DurationMin int       `bson:"duration_min" json:"durationMin"`
	Price       int64     `bson:"price" json:"price"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}
