package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transfer statuses
const (
	TransferStatusPending   = "PENDING"
	TransferStatusDebited   = "DEBITED"
	TransferStatusCompleted = "COMPLETED"
	TransferStatusFailed    = "FAILED"
)

// Transfer tracks a two-step point transfer. A transfer left in DEBITED means the
// sender was charged but the recipient credit never landed.
type Transfer struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Reference      string             `bson:"reference" json:"reference"`
	SenderID       primitive.ObjectID `bson:"senderId" json:"senderId"`
	SenderEmail    string             `bson:"senderEmail" json:"senderEmail"`
	RecipientID    primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	RecipientEmail string             `bson:"recipientEmail" json:"recipientEmail"`
	Points         float64            `bson:"points" json:"points"`
	Status         string             `bson:"status" json:"status"`
	FailureReason  string             `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
