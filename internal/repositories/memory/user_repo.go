// Package memory holds in-process repositories with the same atomicity
// contracts as the MongoDB ones. Used by tests and local runs.
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	users map[primitive.ObjectID]*models.User
	mu    sync.RWMutex

	// FailIncrementFor makes IncrementPoints fail for the given user ids.
	FailIncrementFor map[primitive.ObjectID]error
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users:            make(map[primitive.ObjectID]*models.User),
		FailIncrementFor: make(map[primitive.ObjectID]error),
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.WatchedVideos = make([]models.WatchEntry, len(u.WatchedVideos))
	for i, e := range u.WatchedVideos {
		e.Milestones = append([]int(nil), e.Milestones...)
		c.WatchedVideos[i] = e
	}
	if u.ReferredByUserID != nil {
		id := *u.ReferredByUserID
		c.ReferredByUserID = &id
	}
	return &c
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.WatchedVideos == nil {
		user.WatchedVideos = []models.WatchEntry{}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepo) FindByEmailPrefix(ctx context.Context, prefix string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := strings.ToLower(prefix) + "@"
	for _, u := range r.users {
		if strings.HasPrefix(strings.ToLower(u.Email), want) {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepo) IncrementPoints(ctx context.Context, id primitive.ObjectID, delta float64) (*models.User, error) {
	if delta <= 0 {
		return nil, errors.New("points to add must be positive")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.FailIncrementFor[id]; err != nil {
		return nil, err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	u.Point += delta
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func (r *UserRepo) DebitPoints(ctx context.Context, id primitive.ObjectID, amount float64) (*models.User, error) {
	if amount <= 0 {
		return nil, errors.New("points to debit must be positive")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.Point < amount {
		return nil, repositories.ErrConditionNotMet
	}
	u.Point -= amount
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func (r *UserRepo) AwardWatchReward(ctx context.Context, award repositories.WatchAward) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[award.UserID]
	if !ok {
		return nil, repositories.ErrConditionNotMet
	}
	for _, e := range u.WatchedVideos {
		if e.Video != award.VideoID || e.WatchedAt.Before(award.Since) {
			continue
		}
		if award.Milestone == 0 || containsInt(e.Milestones, award.Milestone) {
			return nil, repositories.ErrConditionNotMet
		}
	}

	entry := models.WatchEntry{Video: award.VideoID, WatchedAt: award.WatchedAt}
	if award.Milestone != 0 {
		entry.Milestones = []int{award.Milestone}
	}
	u.Point += award.Points
	u.WatchedVideos = append(u.WatchedVideos, entry)
	u.UpdatedAt = award.WatchedAt
	return cloneUser(u), nil
}

func (r *UserRepo) AppendWatchEntry(ctx context.Context, id primitive.ObjectID, entry models.WatchEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	entry.Milestones = append([]int(nil), entry.Milestones...)
	u.WatchedVideos = append(u.WatchedVideos, entry)
	return nil
}

func (r *UserRepo) SetSubscription(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	u.Subscription = active
	return cloneUser(u), nil
}

func (r *UserRepo) SetReferrerIfUnset(ctx context.Context, id, referrerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if ok && u.ReferredByUserID == nil {
		ref := referrerID
		u.ReferredByUserID = &ref
	}
	return nil
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
