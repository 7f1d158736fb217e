package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/models"
)

var testNow = time.Date(2024, 5, 10, 14, 30, 0, 0, time.Local)

func TestSettleWatchReward_OncePerDay(t *testing.T) {
	f := newFixture()
	user := f.addUser(t, "alice@example.com", 20, "")
	video := f.addVideo(t, 5)
	svc := f.rewardService(DailyPolicy{}, testNow)
	ctx := context.Background()

	first, err := svc.SettleWatchReward(ctx, user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(5)})
	if err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if !first.Awarded || first.TotalPoints != 25 {
		t.Fatalf("first settle = %+v, want awarded with 25", first)
	}

	second, err := svc.SettleWatchReward(ctx, user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(5)})
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}
	if second.Awarded || second.TotalPoints != 25 {
		t.Fatalf("second settle = %+v, want not awarded with 25", second)
	}

	// Next day pays again.
	svc.now = func() time.Time { return testNow.Add(24 * time.Hour) }
	third, err := svc.SettleWatchReward(ctx, user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(5)})
	if err != nil {
		t.Fatalf("third settle: %v", err)
	}
	if !third.Awarded || third.TotalPoints != 30 {
		t.Fatalf("third settle = %+v, want awarded with 30", third)
	}
}

func TestSettleWatchReward_BelowMinimumBalance(t *testing.T) {
	f := newFixture()
	user := f.addUser(t, "bob@example.com", 11.5, "")
	video := f.addVideo(t, 5)
	svc := f.rewardService(DailyPolicy{}, testNow)

	res, err := svc.SettleWatchReward(context.Background(), user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(5)})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if res.Awarded || res.TotalPoints != 11.5 {
		t.Fatalf("settle = %+v, want not awarded with 11.5", res)
	}
	if got := f.balance(t, user.ID); got != 11.5 {
		t.Fatalf("balance = %v, want 11.5", got)
	}
	u, _ := f.users.FindByID(context.Background(), user.ID)
	if len(u.WatchedVideos) != 0 {
		t.Fatalf("watch history has %d entries, want 0", len(u.WatchedVideos))
	}
}

func TestSettleWatchReward_Validation(t *testing.T) {
	f := newFixture()
	user := f.addUser(t, "carol@example.com", 50, "")
	video := f.addVideo(t, 5)
	svc := f.rewardService(DailyPolicy{}, testNow)

	tests := []struct {
		name   string
		userID string
		req    SettleRequest
		kind   apperrors.Kind
	}{
		{"missing video", user.ID.Hex(), SettleRequest{Point: pts(5)}, apperrors.KindInvalidInput},
		{"missing point", user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex()}, apperrors.KindInvalidInput},
		{"zero point", user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(0)}, apperrors.KindInvalidInput},
		{"negative point", user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(-3)}, apperrors.KindInvalidInput},
		{"malformed video id", user.ID.Hex(), SettleRequest{VideoID: "nope", Point: pts(5)}, apperrors.KindInvalidInput},
		{"unknown video", user.ID.Hex(), SettleRequest{VideoID: "64b7f0c2a1b2c3d4e5f60718", Point: pts(5)}, apperrors.KindNotFound},
		{"unknown user", "64b7f0c2a1b2c3d4e5f60719", SettleRequest{VideoID: video.ID.Hex(), Point: pts(5)}, apperrors.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SettleWatchReward(context.Background(), tt.userID, tt.req)
			if !apperrors.Is(err, tt.kind) {
				t.Fatalf("err = %v, want kind %s", err, tt.kind)
			}
		})
	}
	if got := f.balance(t, user.ID); got != 50 {
		t.Fatalf("balance = %v, want 50", got)
	}
}

func TestSettleWatchReward_ReferralCascade(t *testing.T) {
	f := newFixture()
	d := f.addUser(t, "dave@example.com", 0, "")
	c := f.addUser(t, "carl@example.com", 0, "dave")
	b := f.addUser(t, "bea@example.com", 0, "CARL")
	a := f.addUser(t, "ann@example.com", 20, "bea")
	video := f.addVideo(t, 100)
	svc := f.rewardService(DailyPolicy{}, testNow)

	res, err := svc.SettleWatchReward(context.Background(), a.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(100)})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !res.Awarded || res.TotalPoints != 120 {
		t.Fatalf("settle = %+v, want awarded with 120", res)
	}
	want := map[string]float64{"bea": 10, "carl": 5, "dave": 3}
	for name, u := range map[string]*models.User{"bea": b, "carl": c, "dave": d} {
		if got := f.balance(t, u.ID); got != want[name] {
			t.Errorf("%s balance = %v, want %v", name, got, want[name])
		}
	}
	if len(res.Bonuses) != 3 {
		t.Fatalf("bonuses = %d, want 3", len(res.Bonuses))
	}

	// The prefix lookup is written back as a direct reference.
	ua, _ := f.users.FindByID(context.Background(), a.ID)
	if ua.ReferredByUserID == nil || *ua.ReferredByUserID != b.ID {
		t.Fatalf("referredByUserId = %v, want %s", ua.ReferredByUserID, b.ID.Hex())
	}

	history, _ := f.journal.FindByUserID(context.Background(), c.ID)
	if len(history) != 1 || history[0].Source != models.PointSourceReferralBonus || history[0].Level != 2 {
		t.Fatalf("carl journal = %+v, want one level 2 referral bonus", history)
	}
}

func TestSettleWatchReward_CascadeFailureKeepsAward(t *testing.T) {
	f := newFixture()
	c := f.addUser(t, "carl@example.com", 0, "")
	b := f.addUser(t, "bea@example.com", 0, "carl")
	a := f.addUser(t, "ann@example.com", 20, "bea")
	video := f.addVideo(t, 100)
	f.users.FailIncrementFor[b.ID] = errors.New("write conflict")
	svc := f.rewardService(DailyPolicy{}, testNow)

	res, err := svc.SettleWatchReward(context.Background(), a.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(100)})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !res.Awarded || f.balance(t, a.ID) != 120 {
		t.Fatalf("primary award lost: %+v", res)
	}
	if got := f.balance(t, c.ID); got != 0 {
		t.Fatalf("level 2 credited %v after level 1 failure", got)
	}
}

func TestSettleWatchReward_ReferralCycleStops(t *testing.T) {
	f := newFixture()
	a := f.addUser(t, "ann@example.com", 20, "bea")
	b := f.addUser(t, "bea@example.com", 0, "ann")
	video := f.addVideo(t, 100)
	svc := f.rewardService(DailyPolicy{}, testNow)

	res, err := svc.SettleWatchReward(context.Background(), a.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(100)})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(res.Bonuses) != 1 || f.balance(t, b.ID) != 10 || f.balance(t, a.ID) != 120 {
		t.Fatalf("unexpected cycle outcome: bonuses=%v a=%v b=%v", res.Bonuses, f.balance(t, a.ID), f.balance(t, b.ID))
	}
}

func TestSettleWatchReward_ConcurrentExactlyOnce(t *testing.T) {
	f := newFixture()
	user := f.addUser(t, "eve@example.com", 12, "")
	video := f.addVideo(t, 2)
	svc := f.rewardService(DailyPolicy{}, testNow)

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	awarded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.SettleWatchReward(context.Background(), user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(2)})
			if err != nil {
				t.Errorf("settle: %v", err)
				return
			}
			if res.Awarded {
				mu.Lock()
				awarded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if awarded != 1 {
		t.Fatalf("awarded %d times, want 1", awarded)
	}
	if got := f.balance(t, user.ID); got != 14 {
		t.Fatalf("balance = %v, want 14", got)
	}
}

func TestSettleWatchReward_MilestonePolicy(t *testing.T) {
	f := newFixture()
	user := f.addUser(t, "max@example.com", 12, "")
	video := f.addVideo(t, 4)
	svc := f.rewardService(MilestonePolicy{Completion: 4}, testNow)
	ctx := context.Background()

	for m := 1; m <= 3; m++ {
		res, err := svc.SettleWatchReward(ctx, user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(4), Milestone: m})
		if err != nil {
			t.Fatalf("milestone %d: %v", m, err)
		}
		if res.Awarded {
			t.Fatalf("milestone %d awarded", m)
		}
	}
	res, err := svc.SettleWatchReward(ctx, user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(4), Milestone: 4})
	if err != nil || !res.Awarded || res.TotalPoints != 16 {
		t.Fatalf("completion = %+v, %v; want awarded with 16", res, err)
	}
	res, err = svc.SettleWatchReward(ctx, user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(4), Milestone: 4})
	if err != nil || res.Awarded {
		t.Fatalf("repeat completion = %+v, %v; want not awarded", res, err)
	}

	_, err = svc.SettleWatchReward(ctx, user.ID.Hex(), SettleRequest{VideoID: video.ID.Hex(), Point: pts(4), Milestone: 5})
	if !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("out of range milestone err = %v, want invalid input", err)
	}
}

func TestReferralBonus(t *testing.T) {
	tests := []struct {
		points, rate, want float64
	}{
		{100, 0.10, 10},
		{100, 0.05, 5},
		{100, 0.03, 3},
		{1, 0.03, 0.03},
		{0.0125, 0.10, 0.001},
		{0.0124, 0.10, 0.001},
		{0.004, 0.10, 0},
	}
	for _, tt := range tests {
		if got := ReferralBonus(tt.points, tt.rate); got != tt.want {
			t.Errorf("ReferralBonus(%v, %v) = %v, want %v", tt.points, tt.rate, got, tt.want)
		}
	}
}

func TestNewEligibilityPolicy(t *testing.T) {
	if p, err := NewEligibilityPolicy(configReward("daily", 0)); err != nil || p.Name() != "daily" {
		t.Fatalf("daily = %v, %v", p, err)
	}
	if p, err := NewEligibilityPolicy(configReward("milestone", 4)); err != nil || p.Name() != "milestone" {
		t.Fatalf("milestone = %v, %v", p, err)
	}
	if _, err := NewEligibilityPolicy(configReward("milestone", 0)); err == nil {
		t.Fatal("milestone without completion accepted")
	}
	if _, err := NewEligibilityPolicy(configReward("weekly", 0)); err == nil {
		t.Fatal("unknown policy accepted")
	}
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2024, 5, 10, 23, 59, 59, 999, time.UTC))
	if want := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("StartOfDay = %v, want %v", got, want)
	}
}
