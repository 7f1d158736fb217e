package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Point transaction sources
const (
	PointSourceReward        = "VIDEO_REWARD"
	PointSourceReferralBonus = "REFERRAL_BONUS"
	PointSourceTransferOut   = "TRANSFER_OUT"
	PointSourceTransferIn    = "TRANSFER_IN"
	PointSourceAdminAdjust   = "ADMIN_ADJUST"
)

// PointTransaction is a journal line for a single balance change.
// Points is signed: debits are negative.
type PointTransaction struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID  `bson:"userId" json:"userId"`
	Points       float64             `bson:"points" json:"points"`
	Source       string              `bson:"source" json:"source"`
	Level        int                 `bson:"level,omitempty" json:"level,omitempty"` // referral depth, 1-based
	VideoID      *primitive.ObjectID `bson:"videoId,omitempty" json:"videoId,omitempty"`
	SourceUserID *primitive.ObjectID `bson:"sourceUserId,omitempty" json:"sourceUserId,omitempty"`
	Reference    string              `bson:"reference,omitempty" json:"reference,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}
