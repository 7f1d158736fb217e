package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles carried in the JWT "role" claim.
const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SADMIN"
)

// User represents a platform member and their point balance.
// Point is only ever changed through atomic store operations.
type User struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	FullName         string              `bson:"fullName" json:"fullName"`
	Email            string              `bson:"email" json:"email"`
	Password         string              `bson:"password,omitempty" json:"-"`
	Role             string              `bson:"role" json:"role"`
	Point            float64             `bson:"point" json:"point"`
	Subscription     bool                `bson:"subscription" json:"subscription"`
	ReferredBy       string              `bson:"referredBy,omitempty" json:"referredBy,omitempty"`
	ReferredByUserID *primitive.ObjectID `bson:"referredByUserId,omitempty" json:"referredByUserId,omitempty"`
	WatchedVideos    []WatchEntry        `bson:"watchedVideos" json:"watchedVideos"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// WatchEntry is one element of User.WatchedVideos.
type WatchEntry struct {
	Video      primitive.ObjectID `bson:"video" json:"video"`
	WatchedAt  time.Time          `bson:"watchedAt" json:"watchedAt"`
	Milestones []int              `bson:"milestones,omitempty" json:"milestones,omitempty"`
}

// EmailLocalPart returns the part of the email before '@'.
func (u *User) EmailLocalPart() string {
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
