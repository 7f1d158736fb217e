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

var _ repositories.VideoRepository = (*VideoRepo)(nil)

type VideoRepo struct {
	videos map[primitive.ObjectID]models.Video
	mu     sync.RWMutex
}

func NewVideoRepo() *VideoRepo {
	return &VideoRepo{videos: make(map[primitive.ObjectID]models.Video)}
}

func (r *VideoRepo) Create(ctx context.Context, video *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	video.ID = primitive.NewObjectID()
	video.CreatedAt = time.Now()
	r.videos[video.ID] = *video
	return nil
}

func (r *VideoRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &v, nil
}

func (r *VideoRepo) FindAll(ctx context.Context) ([]*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := make([]*models.Video, 0, len(r.videos))
	for _, v := range r.videos {
		v := v
		videos = append(videos, &v)
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].CreatedAt.After(videos[j].CreatedAt) })
	return videos, nil
}
