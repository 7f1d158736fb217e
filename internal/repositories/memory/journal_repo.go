package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repositories.PointTransactionRepository = (*PointTransactionRepo)(nil)
	_ repositories.TransferRepository         = (*TransferRepo)(nil)
)

type PointTransactionRepo struct {
	transactions []models.PointTransaction
	mu           sync.RWMutex
}

func NewPointTransactionRepo() *PointTransactionRepo {
	return &PointTransactionRepo{}
}

func (r *PointTransactionRepo) Create(ctx context.Context, transaction *models.PointTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction.ID = primitive.NewObjectID()
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	r.transactions = append(r.transactions, *transaction)
	return nil
}

func (r *PointTransactionRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.PointTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.PointTransaction{}
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].UserID == userID {
			tx := r.transactions[i]
			result = append(result, &tx)
		}
	}
	return result, nil
}

type TransferRepo struct {
	transfers map[primitive.ObjectID]models.Transfer
	mu        sync.RWMutex
}

func NewTransferRepo() *TransferRepo {
	return &TransferRepo{transfers: make(map[primitive.ObjectID]models.Transfer)}
}

func (r *TransferRepo) Create(ctx context.Context, transfer *models.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	transfer.ID = primitive.NewObjectID()
	transfer.CreatedAt = time.Now()
	transfer.UpdatedAt = transfer.CreatedAt
	r.transfers[transfer.ID] = *transfer
	return nil
}

func (r *TransferRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.transfers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	t.Status = status
	if reason != "" {
		t.FailureReason = reason
	}
	t.UpdatedAt = time.Now()
	r.transfers[id] = t
	return nil
}

func (r *TransferRepo) FindByStatusBefore(ctx context.Context, status string, before time.Time) ([]*models.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.Transfer{}
	for _, t := range r.transfers {
		if t.Status == status && t.UpdatedAt.Before(before) {
			t := t
			result = append(result, &t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.Before(result[j].UpdatedAt) })
	return result, nil
}

// Get returns a copy of the transfer with id, for assertions.
func (r *TransferRepo) Get(id primitive.ObjectID) (models.Transfer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transfers[id]
	return t, ok
}

// All returns every transfer, for assertions.
func (r *TransferRepo) All() []models.Transfer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Transfer, 0, len(r.transfers))
	for _, t := range r.transfers {
		all = append(all, t)
	}
	return all
}
