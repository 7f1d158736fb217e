package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/models"
)

func newSubscriptionService(f *fixture) *SubscriptionServiceImpl {
	return NewSubscriptionService(f.users, f.codes, 12, 6)
}

func TestActivateByCode(t *testing.T) {
	f := newFixture()
	user := f.addUser(t, "uma@example.com", 0, "")
	other := f.addUser(t, "otto@example.com", 0, "")
	svc := newSubscriptionService(f)
	ctx := context.Background()

	code, err := svc.GenerateCode(ctx)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := svc.ActivateByCode(ctx, code.Code, user.ID.Hex()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	u, _ := f.users.FindByID(ctx, user.ID)
	if !u.Subscription {
		t.Fatal("subscription not active")
	}
	stored, _ := f.codes.FindByCode(ctx, code.Code)
	if !stored.Used || stored.UsedBy == nil || *stored.UsedBy != user.ID {
		t.Fatalf("code = %+v, want used by %s", stored, user.ID.Hex())
	}

	err = svc.ActivateByCode(ctx, code.Code, other.ID.Hex())
	if !apperrors.Is(err, apperrors.KindInvalidInput) || apperrors.PublicMessage(err) != "Invalid or already used code" {
		t.Fatalf("reuse err = %v, want invalid input", err)
	}
	o, _ := f.users.FindByID(ctx, other.ID)
	if o.Subscription {
		t.Fatal("used code activated a second user")
	}
	stored, _ = f.codes.FindByCode(ctx, code.Code)
	if *stored.UsedBy != user.ID {
		t.Fatal("usedBy changed after reuse attempt")
	}
}

func TestActivateByCode_Errors(t *testing.T) {
	f := newFixture()
	user := f.addUser(t, "uma@example.com", 0, "")
	svc := newSubscriptionService(f)
	ctx := context.Background()
	code, err := svc.GenerateCode(ctx)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := svc.ActivateByCode(ctx, "ZZZZZZ", user.ID.Hex()); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("unknown code err = %v", err)
	}
	if err := svc.ActivateByCode(ctx, code.Code, "64b7f0c2a1b2c3d4e5f60719"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
	stored, _ := f.codes.FindByCode(ctx, code.Code)
	if stored.Used {
		t.Fatal("code consumed by a failed activation")
	}
}

func TestActivateByPoints(t *testing.T) {
	f := newFixture()
	rich := f.addUser(t, "rich@example.com", 12, "")
	poor := f.addUser(t, "poor@example.com", 11.99, "")
	svc := newSubscriptionService(f)
	ctx := context.Background()

	res, err := svc.ActivateByPoints(ctx, rich.ID.Hex())
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !res.Subscription || res.PointsAvailable != 12 {
		t.Fatalf("result = %+v, want active with 12 points", res)
	}
	if got := f.balance(t, rich.ID); got != 12 {
		t.Fatalf("balance = %v, points must not be deducted", got)
	}

	again, err := svc.ActivateByPoints(ctx, rich.ID.Hex())
	if err != nil || !again.Subscription {
		t.Fatalf("repeat activation = %+v, %v", again, err)
	}

	res, err = svc.ActivateByPoints(ctx, poor.ID.Hex())
	if !apperrors.Is(err, apperrors.KindInsufficientFunds) {
		t.Fatalf("poor err = %v, want insufficient funds", err)
	}
	if !strings.Contains(apperrors.PublicMessage(err), "at least 12 points") {
		t.Fatalf("message = %q", apperrors.PublicMessage(err))
	}
	if res == nil || res.Subscription || res.PointsAvailable != 11.99 {
		t.Fatalf("poor result = %+v", res)
	}

	if _, err := svc.ActivateByPoints(ctx, "64b7f0c2a1b2c3d4e5f60719"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestGenerateCode_AlphabetAndUniqueness(t *testing.T) {
	f := newFixture()
	svc := newSubscriptionService(f)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := svc.GenerateCode(ctx)
		if err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
		if len(code.Code) != 6 {
			t.Fatalf("code %q has length %d", code.Code, len(code.Code))
		}
		for _, r := range code.Code {
			if !strings.ContainsRune(CodeAlphabet, r) {
				t.Fatalf("code %q has character %q outside the alphabet", code.Code, r)
			}
		}
		if seen[code.Code] {
			t.Fatalf("duplicate code %q", code.Code)
		}
		seen[code.Code] = true
	}

	codes, err := svc.ListCodes(ctx)
	if err != nil || len(codes) != 200 {
		t.Fatalf("list = %d codes, %v", len(codes), err)
	}
}

func TestGenerateCode_ExhaustedSpace(t *testing.T) {
	f := newFixture()
	svc := NewSubscriptionService(f.users, f.codes, 12, 1)
	ctx := context.Background()
	for _, r := range CodeAlphabet {
		if err := f.codes.Create(ctx, &models.SubscriptionCode{Code: string(r)}); err != nil {
			t.Fatalf("seed %c: %v", r, err)
		}
	}
	if _, err := svc.GenerateCode(ctx); !apperrors.Is(err, apperrors.KindInternal) {
		t.Fatalf("err = %v, want internal after exhausting the code space", err)
	}
}

func TestListCodes_Empty(t *testing.T) {
	svc := newSubscriptionService(newFixture())
	_, err := svc.ListCodes(context.Background())
	if !apperrors.Is(err, apperrors.KindNotFound) || apperrors.PublicMessage(err) != "No codes found" {
		t.Fatalf("err = %v, want No codes found", err)
	}
}
