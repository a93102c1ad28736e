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

// AuthorScope selects posts written by any of IDs of the given account type.
type AuthorScope struct {
	Type models.AccountType
	IDs  []uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// ListByAuthors returns posts matching any scope, newest first. Empty
	// scopes are ignored; with no usable scope it returns nothing.
	ListByAuthors(ctx context.Context, scopes []AuthorScope, skip, limit int64) ([]models.Post, error)
	CountByAuthors(ctx context.Context, scopes []AuthorScope) (int64, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int64) error
	IncrementComments(ctx context.Context, id primitive.ObjectID, delta int64) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the author/recency index used by feed queries.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author.type", Value: 1}, {Key: "author.id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, translateMongoError(err)
	}
	return &post, nil
}

func authorFilter(scopes []AuthorScope) (bson.M, bool) {
	or := bson.A{}
	for _, s := range scopes {
		if len(s.IDs) == 0 {
			continue
		}
		or = append(or, bson.M{"author.type": s.Type, "author.id": bson.M{"$in": s.IDs}})
	}
	if len(or) == 0 {
		return nil, false
	}
	return bson.M{"$or": or}, true
}

func (r *MongoPostRepository) ListByAuthors(ctx context.Context, scopes []AuthorScope, skip, limit int64) ([]models.Post, error) {
	filter, ok := authorFilter(scopes)
	if !ok {
		return []models.Post{}, nil
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPostRepository) CountByAuthors(ctx context.Context, scopes []AuthorScope) (int64, error) {
	filter, ok := authorFilter(scopes)
	if !ok {
		return 0, nil
	}
	return r.collection.CountDocuments(ctx, filter)
}

func (r *MongoPostRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Post, error) {
	update := bson.M{"$set": bson.M{"content": content, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post); err != nil {
		return nil, translateMongoError(err)
	}
	return &post, nil
}

func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return r.increment(ctx, id, "likes_count", delta)
}

func (r *MongoPostRepository) IncrementComments(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return r.increment(ctx, id, "comments_count", delta)
}

func (r *MongoPostRepository) increment(ctx context.Context, id primitive.ObjectID, field string, delta int64) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
