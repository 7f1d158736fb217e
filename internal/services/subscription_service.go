package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

var _ SubscriptionService = (*SubscriptionServiceImpl)(nil)

// CodeAlphabet is the character set of subscription codes.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const maxCodeAttempts = 50

// ActivationResult is returned by ActivateByPoints.
type ActivationResult struct {
	PointsAvailable float64 `json:"pointsAvailable"`
	Subscription    bool    `json:"subscription"`
}

type SubscriptionServiceImpl struct {
	userRepo      repositories.UserRepository
	codeRepo      repositories.SubscriptionCodeRepository
	minimumPoints float64
	codeLength    int
}

func NewSubscriptionService(userRepo repositories.UserRepository, codeRepo repositories.SubscriptionCodeRepository, minimumPoints float64, codeLength int) *SubscriptionServiceImpl {
	if codeLength <= 0 {
		codeLength = 6
	}
	return &SubscriptionServiceImpl{
		userRepo:      userRepo,
		codeRepo:      codeRepo,
		minimumPoints: minimumPoints,
		codeLength:    codeLength,
	}
}

// ActivateByCode consumes an unused code and turns the user's subscription on.
// The code is claimed before the user is updated, so a failed second write
// never leaves the code reusable.
func (s *SubscriptionServiceImpl) ActivateByCode(ctx context.Context, code string, userID string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperrors.InvalidInput("Code is required")
	}

	existing, err := s.codeRepo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return apperrors.Internal("Failed to retrieve code", err)
	}
	if existing == nil || existing.Used {
		return apperrors.InvalidInput("Invalid or already used code")
	}

	uid, err := parseID(userID, "User not found")
	if err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(ctx, uid); err != nil {
		return lookupErr(err, "User not found", "Failed to retrieve user")
	}

	if _, err := s.codeRepo.Claim(ctx, code, uid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.InvalidInput("Invalid or already used code")
		}
		return apperrors.Internal("Failed to claim code", err)
	}

	if _, err := s.userRepo.SetSubscription(ctx, uid, true); err != nil {
		slog.Error("Code claimed but subscription update failed", "error", err, "userId", uid, "code", code)
		return apperrors.Internal("Failed to activate subscription", err)
	}
	slog.Info("Subscription activated with code", "userId", uid)
	return nil
}

// ActivateByPoints turns the subscription on when the balance reaches the minimum.
// The balance is checked, not charged.
func (s *SubscriptionServiceImpl) ActivateByPoints(ctx context.Context, userID string) (*ActivationResult, error) {
	uid, err := parseID(userID, "User not found")
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr(err, "User not found", "Failed to retrieve user")
	}
	if user.Point < s.minimumPoints {
		minimum := formatPoints(s.minimumPoints)
		return &ActivationResult{PointsAvailable: user.Point, Subscription: user.Subscription},
			apperrors.InsufficientFunds(fmt.Sprintf("Not enough points to activate subscription. Please deposit at least %s points to activate subscription.", minimum))
	}
	if user.Subscription {
		return &ActivationResult{PointsAvailable: user.Point, Subscription: true}, nil
	}

	updated, err := s.userRepo.SetSubscription(ctx, uid, true)
	if err != nil {
		return nil, apperrors.Internal("Failed to activate subscription", err)
	}
	slog.Info("Subscription activated with points", "userId", uid, "points", updated.Point)
	return &ActivationResult{PointsAvailable: updated.Point, Subscription: updated.Subscription}, nil
}

// GenerateCode stores a new unused code that does not collide with any existing one.
func (s *SubscriptionServiceImpl) GenerateCode(ctx context.Context) (*models.SubscriptionCode, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		value, err := randomCode(s.codeLength)
		if err != nil {
			return nil, apperrors.Internal("Failed to generate code", err)
		}
		exists, err := s.codeRepo.ExistsByCode(ctx, value)
		if err != nil {
			return nil, apperrors.Internal("Failed to check code", err)
		}
		if exists {
			continue
		}
		code := &models.SubscriptionCode{Code: value}
		if err := s.codeRepo.Create(ctx, code); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				continue
			}
			return nil, apperrors.Internal("Failed to save code", err)
		}
		slog.Info("Subscription code generated", "codeId", code.ID)
		return code, nil
	}
	return nil, apperrors.Internal("Failed to generate a unique code", fmt.Errorf("no free code after %d attempts", maxCodeAttempts))
}

func (s *SubscriptionServiceImpl) ListCodes(ctx context.Context) ([]*models.SubscriptionCode, error) {
	codes, err := s.codeRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve codes", err)
	}
	if len(codes) == 0 {
		return nil, apperrors.NotFound("No codes found")
	}
	return codes, nil
}

// randomCode draws n characters uniformly from CodeAlphabet.
func randomCode(n int) (string, error) {
	alphabetSize := big.NewInt(int64(len(CodeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b[i] = CodeAlphabet[idx.Int64()]
	}
	return string(b), nil
}
