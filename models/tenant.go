package models

import "time"

// Tenant is a business (salon, clinic, studio) using the booking platform.
type Tenant struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	ChannelID string    `bson:"channel_id" json:"channelId"` // chat platform channel bound to this tenant
	Timezone  string    `bson:"timezone" json:"timezone"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
