package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository handles MongoDB operations for User
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	// $push fails on a null field, so always store an array.
	if user.WatchedVideos == nil {
		user.WatchedVideos = []models.WatchEntry{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return translateErr(err)
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// FindByEmailPrefix finds the user whose email local part equals prefix, ignoring case
func (r *UserRepository) FindByEmailPrefix(ctx context.Context, prefix string) (*models.User, error) {
	var user models.User
	filter := bson.M{"email": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix) + "@", Options: "i"}}
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// IncrementPoints atomically increments the points for a user
func (r *UserRepository) IncrementPoints(ctx context.Context, id primitive.ObjectID, delta float64) (*models.User, error) {
	if delta <= 0 {
		return nil, errors.New("points to add must be positive")
	}
	update := bson.M{
		"$inc": bson.M{"point": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	var user models.User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&user); err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// DebitPoints atomically decrements the points for a user when the balance covers amount
func (r *UserRepository) DebitPoints(ctx context.Context, id primitive.ObjectID, amount float64) (*models.User, error) {
	if amount <= 0 {
		return nil, errors.New("points to debit must be positive")
	}
	filter := bson.M{"_id": id, "point": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"point": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrConditionNotMet
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AwardWatchReward credits the reward and records the watch in one conditional update.
// The caller is expected to have checked that the user exists, so a zero match
// means the guard rejected the award.
func (r *UserRepository) AwardWatchReward(ctx context.Context, award repositories.WatchAward) (*models.User, error) {
	seen := bson.M{
		"video":     award.VideoID,
		"watchedAt": bson.M{"$gte": award.Since},
	}
	entry := models.WatchEntry{Video: award.VideoID, WatchedAt: award.WatchedAt}
	if award.Milestone != 0 {
		seen["milestones"] = award.Milestone
		entry.Milestones = []int{award.Milestone}
	}

	filter := bson.M{
		"_id":           award.UserID,
		"watchedVideos": bson.M{"$not": bson.M{"$elemMatch": seen}},
	}
	update := bson.M{
		"$inc":  bson.M{"point": award.Points},
		"$push": bson.M{"watchedVideos": entry},
		"$set":  bson.M{"updatedAt": award.WatchedAt},
	}

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrConditionNotMet
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AppendWatchEntry records a watch without touching the balance
func (r *UserRepository) AppendWatchEntry(ctx context.Context, id primitive.ObjectID, entry models.WatchEntry) error {
	update := bson.M{
		"$push": bson.M{"watchedVideos": entry},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// SetSubscription sets the subscription flag and returns the updated user
func (r *UserRepository) SetSubscription(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error) {
	update := bson.M{"$set": bson.M{"subscription": active, "updatedAt": time.Now()}}
	var user models.User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&user); err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// SetReferrerIfUnset stores the resolved referrer id unless one is already present
func (r *UserRepository) SetReferrerIfUnset(ctx context.Context, id, referrerID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "referredByUserId": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"referredByUserId": referrerID}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
