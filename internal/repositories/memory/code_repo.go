package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.SubscriptionCodeRepository = (*CodeRepo)(nil)

type CodeRepo struct {
	codes map[string]models.SubscriptionCode
	order []string
	mu    sync.RWMutex
}

func NewCodeRepo() *CodeRepo {
	return &CodeRepo{codes: make(map[string]models.SubscriptionCode)}
}

func (r *CodeRepo) Create(ctx context.Context, code *models.SubscriptionCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codes[code.Code]; exists {
		return repositories.ErrDuplicateKey
	}
	code.ID = primitive.NewObjectID()
	code.CreatedAt = time.Now()
	code.UpdatedAt = code.CreatedAt
	r.codes[code.Code] = *code
	r.order = append(r.order, code.Code)
	return nil
}

func (r *CodeRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.codes[code]
	return ok, nil
}

func (r *CodeRepo) FindByCode(ctx context.Context, code string) (*models.SubscriptionCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codes[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r *CodeRepo) FindAll(ctx context.Context) ([]*models.SubscriptionCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]*models.SubscriptionCode, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		c := r.codes[r.order[i]]
		codes = append(codes, &c)
	}
	return codes, nil
}

func (r *CodeRepo) Claim(ctx context.Context, code string, userID primitive.ObjectID) (*models.SubscriptionCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codes[code]
	if !ok || c.Used {
		return nil, repositories.ErrNotFound
	}
	by := userID
	c.Used = true
	c.UsedBy = &by
	c.UpdatedAt = time.Now()
	r.codes[code] = c
	return &c, nil
}
