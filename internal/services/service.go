package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// RewardService settles video watch rewards and their referral bonuses
type RewardService interface {
	SettleWatchReward(ctx context.Context, userID string, req SettleRequest) (*RewardResult, error)
}

// TransferService moves points between users
type TransferService interface {
	Transfer(ctx context.Context, senderEmail string, req TransferRequest) (*TransferResult, error)
	StuckTransfers(ctx context.Context) ([]*models.Transfer, error)
}

// SubscriptionService activates subscriptions and manages one-time codes
type SubscriptionService interface {
	ActivateByCode(ctx context.Context, code string, userID string) error
	ActivateByPoints(ctx context.Context, userID string) (*ActivationResult, error)
	GenerateCode(ctx context.Context) (*models.SubscriptionCode, error)
	ListCodes(ctx context.Context) ([]*models.SubscriptionCode, error)
}

// PointService exposes balances, history and admin adjustments
type PointService interface {
	GetBalance(ctx context.Context, userID string) (float64, error)
	History(ctx context.Context, userID string) ([]*models.PointTransaction, error)
	AddPoints(ctx context.Context, email string, points *float64) (*models.User, error)
	RemovePoints(ctx context.Context, email string, points *float64) (*models.User, error)
}

// VideoService manages the video catalogue
type VideoService interface {
	CreateVideo(ctx context.Context, req CreateVideoRequest) (*models.Video, error)
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	ListVideos(ctx context.Context) ([]*models.Video, error)
}

// parseID turns a hex id into an ObjectID, reporting a malformed id as notFoundMsg.
func parseID(hex, notFoundMsg string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.NotFound(notFoundMsg)
	}
	return id, nil
}

// lookupErr maps a repository lookup error onto the API taxonomy.
func lookupErr(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound(notFoundMsg)
	}
	return apperrors.Internal(internalMsg, err)
}

// validPoints reports whether p is a finite, positive amount.
func validPoints(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// recordPoints appends a journal line. Journal failures never fail the balance change.
func recordPoints(ctx context.Context, journal repositories.PointTransactionRepository, tx *models.PointTransaction) {
	if journal == nil {
		return
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	if err := journal.Create(ctx, tx); err != nil {
		slog.Error("Failed to create point transaction record", "error", err, "userId", tx.UserID, "source", tx.Source, "points", tx.Points)
	}
}

func maskEmail(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			if i <= 2 {
				return "***" + email[i:]
			}
			return email[:2] + "***" + email[i:]
		}
	}
	return "******"
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
