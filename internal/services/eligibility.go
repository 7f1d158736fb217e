package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/config"
	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WatchClaim is a single report that a user watched a video.
type WatchClaim struct {
	UserID    primitive.ObjectID
	VideoID   primitive.ObjectID
	Points    float64
	Milestone int
	Now       time.Time
}

// EligibilityPolicy decides whether a watch claim pays out and applies the payout atomically.
// It returns the updated user and true only when points were credited.
type EligibilityPolicy interface {
	Name() string
	Settle(ctx context.Context, users repositories.UserRepository, claim WatchClaim) (*models.User, bool, error)
}

// NewEligibilityPolicy builds the policy named in Reward.Policy.
func NewEligibilityPolicy(cfg config.RewardConfig) (EligibilityPolicy, error) {
	switch cfg.Policy {
	case "", config.RewardPolicyDaily:
		return DailyPolicy{}, nil
	case config.RewardPolicyMilestone:
		if cfg.CompletionMilestone <= 0 {
			return nil, errors.New("milestone policy needs a positive completion milestone")
		}
		return MilestonePolicy{Completion: cfg.CompletionMilestone}, nil
	default:
		return nil, fmt.Errorf("unknown reward policy %q", cfg.Policy)
	}
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyPolicy pays at most once per user, video and calendar day.
type DailyPolicy struct{}

func (DailyPolicy) Name() string { return config.RewardPolicyDaily }

func (DailyPolicy) Settle(ctx context.Context, users repositories.UserRepository, claim WatchClaim) (*models.User, bool, error) {
	return award(ctx, users, claim, 0)
}

// MilestonePolicy records every reported milestone and pays once per day
// when the completion milestone is reported.
type MilestonePolicy struct {
	Completion int
}

func (MilestonePolicy) Name() string { return config.RewardPolicyMilestone }

func (p MilestonePolicy) Settle(ctx context.Context, users repositories.UserRepository, claim WatchClaim) (*models.User, bool, error) {
	if claim.Milestone <= 0 || claim.Milestone > p.Completion {
		return nil, false, apperrors.InvalidInput(fmt.Sprintf("Milestone must be between 1 and %d", p.Completion))
	}
	if claim.Milestone < p.Completion {
		entry := models.WatchEntry{Video: claim.VideoID, WatchedAt: claim.Now, Milestones: []int{claim.Milestone}}
		if err := users.AppendWatchEntry(ctx, claim.UserID, entry); err != nil {
			return nil, false, fmt.Errorf("failed to record milestone: %w", err)
		}
		return nil, false, nil
	}
	return award(ctx, users, claim, p.Completion)
}

func award(ctx context.Context, users repositories.UserRepository, claim WatchClaim, milestone int) (*models.User, bool, error) {
	updated, err := users.AwardWatchReward(ctx, repositories.WatchAward{
		UserID:    claim.UserID,
		VideoID:   claim.VideoID,
		Points:    claim.Points,
		Since:     StartOfDay(claim.Now),
		WatchedAt: claim.Now,
		Milestone: milestone,
	})
	if errors.Is(err, repositories.ErrConditionNotMet) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to award watch reward: %w", err)
	}
	return updated, true, nil
}
