package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConditionNotMet is returned when a conditional update matched no document.
	ErrConditionNotMet = errors.New("update condition not met")
	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// WatchAward describes a guarded reward: credit Points and append a watch entry,
// but only if the user has no entry for VideoID watched at or after Since
// (and, when Milestone is non-zero, carrying that milestone).
type WatchAward struct {
	UserID    primitive.ObjectID
	VideoID   primitive.ObjectID
	Points    float64
	Since     time.Time
	WatchedAt time.Time
	Milestone int
}

// UserRepository defines the interface for user data operations.
// Balance changes go through IncrementPoints, DebitPoints and AwardWatchReward only.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByEmailPrefix matches "prefix@..." case-insensitively.
	FindByEmailPrefix(ctx context.Context, prefix string) (*models.User, error)
	// IncrementPoints atomically adds delta and returns the updated user.
	IncrementPoints(ctx context.Context, id primitive.ObjectID, delta float64) (*models.User, error)
	// DebitPoints atomically subtracts amount if the balance covers it.
	// Returns ErrConditionNotMet when the balance is too low.
	DebitPoints(ctx context.Context, id primitive.ObjectID, amount float64) (*models.User, error)
	// AwardWatchReward applies the award as one conditional update.
	// Returns ErrConditionNotMet when a matching watch entry already exists.
	AwardWatchReward(ctx context.Context, award WatchAward) (*models.User, error)
	AppendWatchEntry(ctx context.Context, id primitive.ObjectID, entry models.WatchEntry) error
	SetSubscription(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error)
	// SetReferrerIfUnset records referredByUserId unless one is already stored.
	SetReferrerIfUnset(ctx context.Context, id, referrerID primitive.ObjectID) error
}

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	FindAll(ctx context.Context) ([]*models.Video, error)
}

// SubscriptionCodeRepository defines the interface for subscription code operations
type SubscriptionCodeRepository interface {
	// Create returns ErrDuplicateKey when the code value already exists.
	Create(ctx context.Context, code *models.SubscriptionCode) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindByCode(ctx context.Context, code string) (*models.SubscriptionCode, error)
	FindAll(ctx context.Context) ([]*models.SubscriptionCode, error)
	// Claim marks an unused code as used by userID in a single conditional update.
	// Returns ErrNotFound when no unused code with that value exists.
	Claim(ctx context.Context, code string, userID primitive.ObjectID) (*models.SubscriptionCode, error)
}

// PointTransactionRepository defines the interface for point transaction operations
type PointTransactionRepository interface {
	Create(ctx context.Context, transaction *models.PointTransaction) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.PointTransaction, error)
}

// TransferRepository defines the interface for transfer journal operations
type TransferRepository interface {
	Create(ctx context.Context, transfer *models.Transfer) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status, reason string) error
	FindByStatusBefore(ctx context.Context, status string, before time.Time) ([]*models.Transfer, error)
}
