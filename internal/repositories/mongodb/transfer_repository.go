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

var _ repositories.TransferRepository = (*TransferRepository)(nil)

// TransferRepository handles MongoDB operations for Transfer
type TransferRepository struct {
	collection *mongo.Collection
}

// NewTransferRepository creates a new TransferRepository
func NewTransferRepository(db *mongo.Database) *TransferRepository {
	return &TransferRepository{
		collection: db.Collection("transfers"),
	}
}

func (r *TransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	transfer.ID = primitive.NewObjectID()
	transfer.CreatedAt = time.Now()
	transfer.UpdatedAt = transfer.CreatedAt
	_, err := r.collection.InsertOne(ctx, transfer)
	return err
}

func (r *TransferRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, reason string) error {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if reason != "" {
		set["failureReason"] = reason
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindByStatusBefore lists transfers in status whose last update is older than before
func (r *TransferRepository) FindByStatusBefore(ctx context.Context, status string, before time.Time) ([]*models.Transfer, error) {
	filter := bson.M{"status": status, "updatedAt": bson.M{"$lt": before}}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transfers []*models.Transfer
	if err := cursor.All(ctx, &transfers); err != nil {
		return nil, err
	}
	if transfers == nil {
		transfers = []*models.Transfer{}
	}
	return transfers, nil
}
