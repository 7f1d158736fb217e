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

var _ repositories.SubscriptionCodeRepository = (*SubscriptionCodeRepository)(nil)

// SubscriptionCodeRepository handles MongoDB operations for SubscriptionCode.
// Uniqueness of the code value is enforced by the unique index from EnsureIndexes.
type SubscriptionCodeRepository struct {
	collection *mongo.Collection
}

// NewSubscriptionCodeRepository creates a new SubscriptionCodeRepository
func NewSubscriptionCodeRepository(db *mongo.Database) *SubscriptionCodeRepository {
	return &SubscriptionCodeRepository{
		collection: db.Collection("codes"),
	}
}

func (r *SubscriptionCodeRepository) Create(ctx context.Context, code *models.SubscriptionCode) error {
	code.ID = primitive.NewObjectID()
	code.CreatedAt = time.Now()
	code.UpdatedAt = code.CreatedAt
	_, err := r.collection.InsertOne(ctx, code)
	return translateErr(err)
}

func (r *SubscriptionCodeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SubscriptionCodeRepository) FindByCode(ctx context.Context, code string) (*models.SubscriptionCode, error) {
	var found models.SubscriptionCode
	if err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&found); err != nil {
		return nil, translateErr(err)
	}
	return &found, nil
}

func (r *SubscriptionCodeRepository) FindAll(ctx context.Context) ([]*models.SubscriptionCode, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var codes []*models.SubscriptionCode
	if err := cursor.All(ctx, &codes); err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []*models.SubscriptionCode{}
	}
	return codes, nil
}

// Claim flips an unused code to used in one conditional update
func (r *SubscriptionCodeRepository) Claim(ctx context.Context, code string, userID primitive.ObjectID) (*models.SubscriptionCode, error) {
	filter := bson.M{"code": code, "used": false}
	update := bson.M{"$set": bson.M{
		"used":      true,
		"usedBy":    userID,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var claimed models.SubscriptionCode
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&claimed); err != nil {
		return nil, translateErr(err)
	}
	return &claimed, nil
}
