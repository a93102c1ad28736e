package repositories

import (
	"context"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReactionRepository stores reactions. Writes that depend on the current
// reaction type are conditional so that concurrent toggles cannot both apply.
type ReactionRepository interface {
	// Insert fails with ErrDuplicate when the user already reacted to the target.
	Insert(ctx context.Context, reaction *models.Reaction) error
	Get(ctx context.Context, target models.ReactionTarget, userID uint) (*models.Reaction, error)
	// UpdateType switches from one type to another; false when the stored type was not from.
	UpdateType(ctx context.Context, target models.ReactionTarget, userID uint, from, to models.ReactionType) (bool, error)
	// Delete removes the reaction if its type is typ, or any type when typ is empty.
	Delete(ctx context.Context, target models.ReactionTarget, userID uint, typ models.ReactionType) (bool, error)
	ListByTarget(ctx context.Context, target models.ReactionTarget) ([]models.Reaction, error)
	DeleteByTargets(ctx context.Context, ids []primitive.ObjectID, targetType models.TargetType) (int64, error)
}

// MongoReactionRepository implements ReactionRepository for MongoDB
type MongoReactionRepository struct {
	collection *mongo.Collection
}

func NewMongoReactionRepository(db *mongo.Database) *MongoReactionRepository {
	return &MongoReactionRepository{collection: db.Collection("reactions")}
}

// EnsureIndexes creates the (target, user) unique index.
func (r *MongoReactionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "target.id", Value: 1},
			{Key: "target.type", Value: 1},
			{Key: "user_id", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_target_user"),
	})
	return err
}

func reactionFilter(target models.ReactionTarget, userID uint) bson.M {
	return bson.M{"target.id": target.ID, "target.type": target.Type, "user_id": userID}
}

func (r *MongoReactionRepository) Insert(ctx context.Context, reaction *models.Reaction) error {
	now := time.Now()
	reaction.ID = primitive.NewObjectID()
	reaction.CreatedAt = now
	reaction.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, reaction)
	return translateMongoError(err)
}

func (r *MongoReactionRepository) Get(ctx context.Context, target models.ReactionTarget, userID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	if err := r.collection.FindOne(ctx, reactionFilter(target, userID)).Decode(&reaction); err != nil {
		return nil, translateMongoError(err)
	}
	return &reaction, nil
}

func (r *MongoReactionRepository) UpdateType(ctx context.Context, target models.ReactionTarget, userID uint, from, to models.ReactionType) (bool, error) {
	filter := reactionFilter(target, userID)
	filter["reaction_type"] = from
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"reaction_type": to, "updated_at": time.Now()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoReactionRepository) Delete(ctx context.Context, target models.ReactionTarget, userID uint, typ models.ReactionType) (bool, error) {
	filter := reactionFilter(target, userID)
	if typ != "" {
		filter["reaction_type"] = typ
	}
	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (r *MongoReactionRepository) ListByTarget(ctx context.Context, target models.ReactionTarget) ([]models.Reaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"target.id": target.ID, "target.type": target.Type}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reactions := []models.Reaction{}
	if err = cursor.All(ctx, &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}

func (r *MongoReactionRepository) DeleteByTargets(ctx context.Context, ids []primitive.ObjectID, targetType models.TargetType) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"target.id": bson.M{"$in": ids}, "target.type": targetType})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
