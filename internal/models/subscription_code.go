package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionCode is a one-time code that activates a subscription.
// Once Used is true the document is never written again.
type SubscriptionCode struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Code      string              `bson:"code" json:"code"`
	Used      bool                `bson:"used" json:"used"`
	UsedBy    *primitive.ObjectID `bson:"usedBy" json:"usedBy"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
