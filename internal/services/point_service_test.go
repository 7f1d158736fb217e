package services

import (
	"context"
	"testing"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/models"
)

func TestPointService_AdminAdjustments(t *testing.T) {
	f := newFixture()
	user := f.addUser(t, "pat@example.com", 5, "")
	svc := NewPointService(f.users, f.journal)
	ctx := context.Background()

	updated, err := svc.AddPoints(ctx, "pat@example.com", pts(7))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if updated.Point != 12 {
		t.Fatalf("after add = %v, want 12", updated.Point)
	}

	if _, err := svc.RemovePoints(ctx, user.Email, pts(20)); !apperrors.Is(err, apperrors.KindInsufficientFunds) {
		t.Fatalf("over-remove err = %v", err)
	}
	updated, err = svc.RemovePoints(ctx, user.Email, pts(2))
	if err != nil || updated.Point != 10 {
		t.Fatalf("remove = %v, %v; want 10", updated, err)
	}

	balance, err := svc.GetBalance(ctx, user.ID.Hex())
	if err != nil || balance != 10 {
		t.Fatalf("balance = %v, %v", balance, err)
	}

	history, err := svc.History(ctx, user.ID.Hex())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Points != -2 || history[1].Points != 7 || history[0].Source != models.PointSourceAdminAdjust {
		t.Fatalf("history = %+v", history)
	}
}

func TestPointService_Validation(t *testing.T) {
	f := newFixture()
	f.addUser(t, "pat@example.com", 5, "")
	svc := NewPointService(f.users, f.journal)
	ctx := context.Background()

	if _, err := svc.AddPoints(ctx, "", pts(1)); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("missing email err = %v", err)
	}
	if _, err := svc.AddPoints(ctx, "pat@example.com", nil); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("missing points err = %v", err)
	}
	if _, err := svc.AddPoints(ctx, "pat@example.com", pts(-1)); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("negative points err = %v", err)
	}
	if _, err := svc.RemovePoints(ctx, "ghost@example.com", pts(1)); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
	if _, err := svc.GetBalance(ctx, "not-an-id"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("bad id err = %v", err)
	}
}

func TestVideoService(t *testing.T) {
	f := newFixture()
	svc := NewVideoService(f.videos)
	ctx := context.Background()

	if _, err := svc.CreateVideo(ctx, CreateVideoRequest{Link: " ", Point: pts(1)}); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("blank link err = %v", err)
	}
	if _, err := svc.CreateVideo(ctx, CreateVideoRequest{Link: "https://v.example.com/1", Point: pts(0)}); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("zero point err = %v", err)
	}
	v, err := svc.CreateVideo(ctx, CreateVideoRequest{Link: "https://v.example.com/1", Point: pts(2.5), Time: 90})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.GetVideo(ctx, v.ID.Hex())
	if err != nil || got.Link != v.Link || got.Point != 2.5 {
		t.Fatalf("get = %+v, %v", got, err)
	}
	if _, err := svc.GetVideo(ctx, "64b7f0c2a1b2c3d4e5f60718"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("missing video err = %v", err)
	}
	all, err := svc.ListVideos(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("list = %v, %v", all, err)
	}
}

func TestPointService_MixedCaseStoredEmail(t *testing.T) {
	f := newFixture()
	user := f.addUser(t, "Alice@Example.com", 10, "")
	svc := NewPointService(f.users, f.journal)
	ctx := context.Background()

	if _, err := svc.AddPoints(ctx, "Alice@Example.com", pts(2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	updated, err := svc.RemovePoints(ctx, " Alice@Example.com", pts(4))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if updated.Point != 8 || f.balance(t, user.ID) != 8 {
		t.Fatalf("balance = %v, want 8", updated.Point)
	}
}
