package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video is a watchable item that pays Point on completion.
type Video struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Link      string             `bson:"link" json:"link"`
	Point     float64            `bson:"point" json:"point"`
	Time      int                `bson:"time" json:"time"` // expected watch duration, seconds
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
