package services

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/config"
	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories/memory"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	users     *memory.UserRepo
	videos    *memory.VideoRepo
	codes     *memory.CodeRepo
	journal   *memory.PointTransactionRepo
	transfers *memory.TransferRepo
}

func newFixture() *fixture {
	return &fixture{
		users:     memory.NewUserRepo(),
		videos:    memory.NewVideoRepo(),
		codes:     memory.NewCodeRepo(),
		journal:   memory.NewPointTransactionRepo(),
		transfers: memory.NewTransferRepo(),
	}
}

func (f *fixture) addUser(t *testing.T, email string, point float64, referredBy string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Role: models.RoleUser, Point: point, ReferredBy: referredBy}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func (f *fixture) addVideo(t *testing.T, point float64) *models.Video {
	t.Helper()
	v := &models.Video{Link: "https://videos.example.com/" + primitive.NewObjectID().Hex(), Point: point, Time: 60}
	if err := f.videos.Create(context.Background(), v); err != nil {
		t.Fatalf("create video: %v", err)
	}
	return v
}

func (f *fixture) balance(t *testing.T, id primitive.ObjectID) float64 {
	t.Helper()
	u, err := f.users.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find user %s: %v", id.Hex(), err)
	}
	return u.Point
}

func (f *fixture) rewardService(policy EligibilityPolicy, now time.Time) *RewardServiceImpl {
	cascade := NewReferralCascade(f.users, f.journal, DefaultReferralRates)
	s := NewRewardService(f.users, f.videos, f.journal, policy, cascade, 12)
	s.now = func() time.Time { return now }
	return s
}

func pts(v float64) *float64 { return &v }

func configReward(policy string, completion int) config.RewardConfig {
	return config.RewardConfig{MinimumBalance: 12, Policy: policy, CompletionMilestone: completion}
}
