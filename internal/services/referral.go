package services

import (
	"context"
	"errors"
	"math"

	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// DefaultReferralRates are the level 1..3 bonus rates.
var DefaultReferralRates = []float64{0.10, 0.05, 0.03}

// BonusCredit is one bonus paid by the cascade.
type BonusCredit struct {
	Level      int
	ReferrerID primitive.ObjectID
	Points     float64
}

// ReferralBonus rounds points*rate to three decimal places, half away from zero.
func ReferralBonus(points, rate float64) float64 {
	return math.Round(points*rate*1000) / 1000
}

// ReferralCascade credits up to len(rates) referrers above a rewarded user.
type ReferralCascade struct {
	users   repositories.UserRepository
	journal repositories.PointTransactionRepository
	rates   []float64
}

func NewReferralCascade(users repositories.UserRepository, journal repositories.PointTransactionRepository, rates []float64) *ReferralCascade {
	if len(rates) == 0 {
		rates = DefaultReferralRates
	}
	return &ReferralCascade{users: users, journal: journal, rates: rates}
}

// Distribute walks the referral chain of the rewarded user and credits each level.
// Failures are logged and end the chain; they never reach the caller.
func (c *ReferralCascade) Distribute(ctx context.Context, rewarded *models.User, points float64, videoID primitive.ObjectID) []BonusCredit {
	var credits []BonusCredit
	visited := map[primitive.ObjectID]bool{rewarded.ID: true}
	current := rewarded

	for i, rate := range c.rates {
		level := i + 1
		referrer, err := c.resolveReferrer(ctx, current)
		if err != nil {
			slog.Error("Failed to resolve referrer", "error", err, "userId", current.ID, "level", level)
			return credits
		}
		if referrer == nil {
			return credits
		}
		if visited[referrer.ID] {
			slog.Warn("Referral cycle detected, stopping cascade", "userId", current.ID, "referrerId", referrer.ID, "level", level)
			return credits
		}
		visited[referrer.ID] = true

		bonus := ReferralBonus(points, rate)
		if bonus > 0 {
			if _, err := c.users.IncrementPoints(ctx, referrer.ID, bonus); err != nil {
				slog.Error("Failed to credit referral bonus", "error", err, "referrerId", referrer.ID, "level", level, "bonus", bonus)
				return credits
			}
			source := rewarded.ID
			video := videoID
			recordPoints(ctx, c.journal, &models.PointTransaction{
				UserID:       referrer.ID,
				Points:       bonus,
				Source:       models.PointSourceReferralBonus,
				Level:        level,
				VideoID:      &video,
				SourceUserID: &source,
			})
			credits = append(credits, BonusCredit{Level: level, ReferrerID: referrer.ID, Points: bonus})
			slog.Info("Referral bonus credited", "referrerId", referrer.ID, "level", level, "bonus", bonus, "fromUserId", rewarded.ID)
		}
		current = referrer
	}
	return credits
}

// resolveReferrer returns the user who referred u, or nil when there is none.
// A stored referredByUserId wins; otherwise the legacy email-prefix reference is
// looked up once and written back as referredByUserId.
func (c *ReferralCascade) resolveReferrer(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ReferredByUserID != nil {
		ref, err := c.users.FindByID(ctx, *u.ReferredByUserID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return ref, err
	}
	if u.ReferredBy == "" {
		return nil, nil
	}
	ref, err := c.users.FindByEmailPrefix(ctx, u.ReferredBy)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if ref.ID != u.ID {
		if err := c.users.SetReferrerIfUnset(ctx, u.ID, ref.ID); err != nil {
			slog.Warn("Failed to backfill referredByUserId", "error", err, "userId", u.ID)
		}
	}
	return ref, nil
}
