package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

var _ RewardService = (*RewardServiceImpl)(nil)

// SettleRequest is a single watch report.
type SettleRequest struct {
	VideoID   string
	Point     *float64
	Milestone int
}

// RewardResult is the outcome of a settlement. Awarded is false for the soft
// outcomes (below minimum balance, already rewarded, milestone recorded).
type RewardResult struct {
	Awarded     bool          `json:"awarded"`
	TotalPoints float64       `json:"totalPoints"`
	Message     string        `json:"message"`
	Bonuses     []BonusCredit `json:"-"`
}

type RewardServiceImpl struct {
	userRepo       repositories.UserRepository
	videoRepo      repositories.VideoRepository
	journal        repositories.PointTransactionRepository
	policy         EligibilityPolicy
	cascade        *ReferralCascade
	minimumBalance float64
	now            func() time.Time
}

func NewRewardService(
	userRepo repositories.UserRepository,
	videoRepo repositories.VideoRepository,
	journal repositories.PointTransactionRepository,
	policy EligibilityPolicy,
	cascade *ReferralCascade,
	minimumBalance float64,
) *RewardServiceImpl {
	if policy == nil {
		policy = DailyPolicy{}
	}
	return &RewardServiceImpl{
		userRepo:       userRepo,
		videoRepo:      videoRepo,
		journal:        journal,
		policy:         policy,
		cascade:        cascade,
		minimumBalance: minimumBalance,
		now:            time.Now,
	}
}

// SettleWatchReward awards req.Point to the user at most once per video per day,
// then pays the referral cascade.
func (s *RewardServiceImpl) SettleWatchReward(ctx context.Context, userID string, req SettleRequest) (*RewardResult, error) {
	videoHex := strings.TrimSpace(req.VideoID)
	if videoHex == "" || req.Point == nil {
		return nil, apperrors.InvalidInput("Video ID and point are required")
	}
	points := *req.Point
	if !validPoints(points) {
		return nil, apperrors.InvalidInput("Point must be a positive number")
	}
	videoID, err := primitive.ObjectIDFromHex(videoHex)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid video ID")
	}
	uid, err := parseID(userID, "User not found")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr(err, "User not found", "Failed to retrieve user")
	}
	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return nil, lookupErr(err, "Video not found", "Failed to retrieve video")
	}

	if user.Point < s.minimumBalance {
		return &RewardResult{
			TotalPoints: user.Point,
			Message:     fmt.Sprintf("You need at least %s points to earn points from watching videos.", formatPoints(s.minimumBalance)),
		}, nil
	}

	updated, awarded, err := s.policy.Settle(ctx, s.userRepo, WatchClaim{
		UserID:    uid,
		VideoID:   videoID,
		Points:    points,
		Milestone: req.Milestone,
		Now:       s.now(),
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		slog.Error("Failed to settle watch reward", "error", err, "userId", uid, "videoId", videoID)
		return nil, apperrors.Internal("Failed to settle watch reward", err)
	}

	if !awarded {
		current, err := s.userRepo.FindByID(ctx, uid)
		if err != nil {
			return nil, lookupErr(err, "User not found", "Failed to retrieve user")
		}
		msg := "You've already watched this video today, no extra points this time!"
		if mp, ok := s.policy.(MilestonePolicy); ok && req.Milestone < mp.Completion {
			msg = "Progress recorded."
		}
		slog.Info("Watch reward not awarded", "userId", uid, "videoId", videoID, "policy", s.policy.Name())
		return &RewardResult{TotalPoints: current.Point, Message: msg}, nil
	}

	vid := videoID
	recordPoints(ctx, s.journal, &models.PointTransaction{
		UserID:  uid,
		Points:  points,
		Source:  models.PointSourceReward,
		VideoID: &vid,
	})
	slog.Info("Watch reward awarded", "userId", uid, "videoId", videoID, "points", points, "total", updated.Point)

	result := &RewardResult{
		Awarded:     true,
		TotalPoints: updated.Point,
		Message:     fmt.Sprintf("Great progress! You've earned %s points for watching this video.", formatPoints(points)),
	}
	if s.cascade != nil {
		result.Bonuses = s.cascade.Distribute(ctx, updated, points, videoID)
	}
	return result, nil
}
