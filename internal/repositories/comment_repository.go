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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	ListTopLevel(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]models.Comment, error)
	CountTopLevel(ctx context.Context, postID primitive.ObjectID) (int64, error)
	ListReplies(ctx context.Context, rootID primitive.ObjectID) ([]models.Comment, error)
	ListReplyIDs(ctx context.Context, rootID primitive.ObjectID) ([]primitive.ObjectID, error)
	ListIDsByPost(ctx context.Context, postID primitive.ObjectID) ([]primitive.ObjectID, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error)
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
	IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int64) error
	IncrementReplies(ctx context.Context, id primitive.ObjectID, delta int64) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

func (r *MongoCommentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "parent_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "parent_id", Value: 1}}},
	})
	return err
}

func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	now := time.Now()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, translateMongoError(err)
	}
	return &comment, nil
}

func topLevelFilter(postID primitive.ObjectID) bson.M {
	return bson.M{"post_id": postID, "parent_id": bson.M{"$exists": false}}
}

func (r *MongoCommentRepository) ListTopLevel(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]models.Comment, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, topLevelFilter(postID), opts)
}

func (r *MongoCommentRepository) CountTopLevel(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, topLevelFilter(postID))
}

// ListReplies returns replies under rootID oldest first.
func (r *MongoCommentRepository) ListReplies(ctx context.Context, rootID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, bson.M{"parent_id": rootID}, opts)
}

func (r *MongoCommentRepository) ListReplyIDs(ctx context.Context, rootID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.ids(ctx, bson.M{"parent_id": rootID})
}

func (r *MongoCommentRepository) ListIDsByPost(ctx context.Context, postID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.ids(ctx, bson.M{"post_id": postID})
}

func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	update := bson.M{"$set": bson.M{"content": content, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment models.Comment
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&comment); err != nil {
		return nil, translateMongoError(err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoCommentRepository) IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return r.increment(ctx, id, "likes_count", delta)
}

func (r *MongoCommentRepository) IncrementReplies(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return r.increment(ctx, id, "replies_count", delta)
}

func (r *MongoCommentRepository) increment(ctx context.Context, id primitive.ObjectID, field string, delta int64) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Comment, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *MongoCommentRepository) ids(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
