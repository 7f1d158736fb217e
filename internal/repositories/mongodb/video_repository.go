package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.VideoRepository = (*VideoRepository)(nil)

// VideoRepository handles MongoDB operations for Video
type VideoRepository struct {
	collection *mongo.Collection
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{
		collection: db.Collection("videos"),
	}
}

func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	video.ID = primitive.NewObjectID()
	video.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, video)
	return err
}

func (r *VideoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&video); err != nil {
		return nil, translateErr(err)
	}
	return &video, nil
}

// FindAll returns every video, newest first
func (r *VideoRepository) FindAll(ctx context.Context) ([]*models.Video, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var videos []*models.Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	return videos, nil
}
