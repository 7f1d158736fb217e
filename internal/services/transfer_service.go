package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var _ TransferService = (*TransferServiceImpl)(nil)

// TransferRequest is the body of a transfer call. Points is a pointer so a
// missing value can be told apart from zero.
type TransferRequest struct {
	RecipientEmail string
	Points         *float64
}

// AccountBalance is one side of a completed transfer.
type AccountBalance struct {
	Email string  `json:"email"`
	Point float64 `json:"point"`
}

// TransferResult carries both balances after the transfer.
type TransferResult struct {
	Reference string         `json:"reference"`
	Sender    AccountBalance `json:"sender"`
	Recipient AccountBalance `json:"recipient"`
}

type TransferServiceImpl struct {
	userRepo     repositories.UserRepository
	transferRepo repositories.TransferRepository
	journal      repositories.PointTransactionRepository
	stuckAfter   time.Duration
	now          func() time.Time
}

func NewTransferService(userRepo repositories.UserRepository, transferRepo repositories.TransferRepository, journal repositories.PointTransactionRepository, stuckAfter time.Duration) *TransferServiceImpl {
	return &TransferServiceImpl{
		userRepo:     userRepo,
		transferRepo: transferRepo,
		journal:      journal,
		stuckAfter:   stuckAfter,
		now:          time.Now,
	}
}

// Transfer debits the sender and then credits the recipient. The sender debit
// is a conditional update, so two concurrent transfers can never overdraw.
// If the credit fails the transfer stays DEBITED and shows up in StuckTransfers.
func (s *TransferServiceImpl) Transfer(ctx context.Context, senderEmail string, req TransferRequest) (*TransferResult, error) {
	senderEmail = normalizeEmail(senderEmail)
	recipientEmail := normalizeEmail(req.RecipientEmail)

	if recipientEmail == "" || req.Points == nil {
		return nil, apperrors.InvalidInput("Both recipientEmail and points are required")
	}
	if strings.EqualFold(senderEmail, recipientEmail) {
		return nil, apperrors.InvalidInput("Sender and recipient cannot be the same")
	}
	points := *req.Points
	if !validPoints(points) {
		return nil, apperrors.InvalidInput("Points must be a positive number")
	}

	sender, err := s.userRepo.FindByEmail(ctx, senderEmail)
	if err != nil {
		return nil, lookupErr(err, "Sender not found", "Failed to retrieve sender")
	}
	if sender.Point < points {
		return nil, apperrors.InsufficientFunds("Insufficient points")
	}
	recipient, err := s.userRepo.FindByEmail(ctx, recipientEmail)
	if err != nil {
		return nil, lookupErr(err, "Recipient not found", "Failed to retrieve recipient")
	}

	now := s.now()
	transfer := &models.Transfer{
		Reference:      uuid.New().String(),
		SenderID:       sender.ID,
		SenderEmail:    sender.Email,
		RecipientID:    recipient.ID,
		RecipientEmail: recipient.Email,
		Points:         points,
		Status:         models.TransferStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.transferRepo.Create(ctx, transfer); err != nil {
		slog.Error("Failed to create transfer record", "error", err, "sender", maskEmail(sender.Email))
		return nil, apperrors.Internal("Failed to start transfer", err)
	}

	updatedSender, err := s.userRepo.DebitPoints(ctx, sender.ID, points)
	if err != nil {
		reason := "debit failed"
		if errors.Is(err, repositories.ErrConditionNotMet) {
			reason = "insufficient points"
		}
		s.markStatus(ctx, transfer, models.TransferStatusFailed, reason)
		if errors.Is(err, repositories.ErrConditionNotMet) {
			return nil, apperrors.InsufficientFunds("Insufficient points")
		}
		slog.Error("Failed to debit sender", "error", err, "reference", transfer.Reference)
		return nil, apperrors.Internal("Failed to debit sender", err)
	}
	s.markStatus(ctx, transfer, models.TransferStatusDebited, "")
	recordPoints(ctx, s.journal, &models.PointTransaction{
		UserID:       sender.ID,
		Points:       -points,
		Source:       models.PointSourceTransferOut,
		SourceUserID: &recipient.ID,
		Reference:    transfer.Reference,
	})

	updatedRecipient, err := s.userRepo.IncrementPoints(ctx, recipient.ID, points)
	if err != nil {
		slog.Error("CRITICAL: sender debited but recipient credit failed",
			"error", err,
			"reference", transfer.Reference,
			"senderId", sender.ID,
			"recipientId", recipient.ID,
			"points", points)
		return nil, apperrors.Internal("Transfer "+transfer.Reference+" could not be completed", err)
	}
	s.markStatus(ctx, transfer, models.TransferStatusCompleted, "")
	recordPoints(ctx, s.journal, &models.PointTransaction{
		UserID:       recipient.ID,
		Points:       points,
		Source:       models.PointSourceTransferIn,
		SourceUserID: &sender.ID,
		Reference:    transfer.Reference,
	})

	slog.Info("Points transferred", "reference", transfer.Reference, "sender", maskEmail(sender.Email), "recipient", maskEmail(recipient.Email), "points", points)
	return &TransferResult{
		Reference: transfer.Reference,
		Sender:    AccountBalance{Email: updatedSender.Email, Point: updatedSender.Point},
		Recipient: AccountBalance{Email: updatedRecipient.Email, Point: updatedRecipient.Point},
	}, nil
}

// StuckTransfers lists transfers that were debited but not completed within stuckAfter.
func (s *TransferServiceImpl) StuckTransfers(ctx context.Context) ([]*models.Transfer, error) {
	before := s.now().Add(-s.stuckAfter)
	transfers, err := s.transferRepo.FindByStatusBefore(ctx, models.TransferStatusDebited, before)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve transfers", err)
	}
	return transfers, nil
}

func (s *TransferServiceImpl) markStatus(ctx context.Context, t *models.Transfer, status, reason string) {
	if err := s.transferRepo.UpdateStatus(ctx, t.ID, status, reason); err != nil {
		slog.Error("Failed to update transfer status", "error", err, "reference", t.Reference, "status", status)
		return
	}
	t.Status = status
}

// normalizeEmail trims whitespace only. Stored emails keep their original case
// and lookups match them exactly.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
