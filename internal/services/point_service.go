package services

import (
	"context"
	"errors"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

var _ PointService = (*PointServiceImpl)(nil)

type PointServiceImpl struct {
	userRepo repositories.UserRepository
	journal  repositories.PointTransactionRepository
}

func NewPointService(userRepo repositories.UserRepository, journal repositories.PointTransactionRepository) *PointServiceImpl {
	return &PointServiceImpl{userRepo: userRepo, journal: journal}
}

func (s *PointServiceImpl) GetBalance(ctx context.Context, userID string) (float64, error) {
	uid, err := parseID(userID, "User not found")
	if err != nil {
		return 0, err
	}
	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		return 0, lookupErr(err, "User not found", "Failed to retrieve user")
	}
	return user.Point, nil
}

// History returns the user's point journal, newest first.
func (s *PointServiceImpl) History(ctx context.Context, userID string) ([]*models.PointTransaction, error) {
	uid, err := parseID(userID, "User not found")
	if err != nil {
		return nil, err
	}
	txs, err := s.journal.FindByUserID(ctx, uid)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve point history", err)
	}
	return txs, nil
}

// AddPoints credits a user by email. Admin only.
func (s *PointServiceImpl) AddPoints(ctx context.Context, email string, points *float64) (*models.User, error) {
	user, amount, err := s.adjustTarget(ctx, email, points)
	if err != nil {
		return nil, err
	}
	updated, err := s.userRepo.IncrementPoints(ctx, user.ID, amount)
	if err != nil {
		return nil, lookupErr(err, "User not found", "Failed to add points")
	}
	recordPoints(ctx, s.journal, &models.PointTransaction{UserID: user.ID, Points: amount, Source: models.PointSourceAdminAdjust})
	slog.Info("Admin added points", "user", maskEmail(user.Email), "points", amount, "total", updated.Point)
	return updated, nil
}

// RemovePoints debits a user by email. The balance never goes negative.
func (s *PointServiceImpl) RemovePoints(ctx context.Context, email string, points *float64) (*models.User, error) {
	user, amount, err := s.adjustTarget(ctx, email, points)
	if err != nil {
		return nil, err
	}
	if user.Point < amount {
		return nil, apperrors.InsufficientFunds("Insufficient points to remove")
	}
	updated, err := s.userRepo.DebitPoints(ctx, user.ID, amount)
	if err != nil {
		if errors.Is(err, repositories.ErrConditionNotMet) {
			return nil, apperrors.InsufficientFunds("Insufficient points to remove")
		}
		return nil, apperrors.Internal("Failed to remove points", err)
	}
	recordPoints(ctx, s.journal, &models.PointTransaction{UserID: user.ID, Points: -amount, Source: models.PointSourceAdminAdjust})
	slog.Info("Admin removed points", "user", maskEmail(user.Email), "points", amount, "total", updated.Point)
	return updated, nil
}

func (s *PointServiceImpl) adjustTarget(ctx context.Context, email string, points *float64) (*models.User, float64, error) {
	email = normalizeEmail(email)
	if email == "" || points == nil {
		return nil, 0, apperrors.InvalidInput("Email and points are required")
	}
	if !validPoints(*points) {
		return nil, 0, apperrors.InvalidInput("Points must be a positive number")
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, 0, lookupErr(err, "User not found", "Failed to retrieve user")
	}
	return user, *points, nil
}
