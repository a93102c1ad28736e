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

// MessageRepository defines the interface for direct messages
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessageByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	ListConversation(ctx context.Context, key string, skip, limit int64) ([]models.Message, error)
	CountConversation(ctx context.Context, key string) (int64, error)
	// ListConversations returns one summary per conversation the account
	// takes part in, most recent first. Counterpart is left empty.
	ListConversations(ctx context.Context, account models.AccountRef) ([]models.ConversationSummary, error)
	MarkConversationRead(ctx context.Context, key string, receiver models.AccountRef) (int64, error)
	CountUnread(ctx context.Context, receiver models.AccountRef) (int64, error)
}

type MongoMessageRepository struct {
	collection *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_key", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "receiver.type", Value: 1}, {Key: "receiver.id", Value: 1}, {Key: "is_read", Value: 1}}},
		{Keys: bson.D{{Key: "sender.type", Value: 1}, {Key: "sender.id", Value: 1}}},
	})
	return err
}

func (r *MongoMessageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()
	msg.ConversationKey = models.ConversationKey(msg.Sender, msg.Receiver)
	_, err := r.collection.InsertOne(ctx, msg)
	return err
}

func (r *MongoMessageRepository) GetMessageByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var msg models.Message
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return nil, translateMongoError(err)
	}
	return &msg, nil
}

func (r *MongoMessageRepository) ListConversation(ctx context.Context, key string, skip, limit int64) ([]models.Message, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"conversation_key": key}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MongoMessageRepository) CountConversation(ctx context.Context, key string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"conversation_key": key})
}

func (r *MongoMessageRepository) ListConversations(ctx context.Context, account models.AccountRef) ([]models.ConversationSummary, error) {
	isReceiver := bson.M{"$and": bson.A{
		bson.M{"$eq": bson.A{"$receiver.id", account.ID}},
		bson.M{"$eq": bson.A{"$receiver.type", account.Type}},
		bson.M{"$eq": bson.A{"$is_read", false}},
	}}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender.id": account.ID, "sender.type": account.Type},
			bson.M{"receiver.id": account.ID, "receiver.type": account.Type},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$conversation_key",
			"last_message": bson.M{"$first": "$$ROOT"},
			"unread_count": bson.M{"$sum": bson.M{"$cond": bson.A{isReceiver, 1, 0}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_message.created_at", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []models.ConversationSummary{}
	if err = cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *MongoMessageRepository) MarkConversationRead(ctx context.Context, key string, receiver models.AccountRef) (int64, error) {
	filter := bson.M{
		"conversation_key": key,
		"receiver.id":      receiver.ID,
		"receiver.type":    receiver.Type,
		"is_read":          false,
	}
	res, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoMessageRepository) CountUnread(ctx context.Context, receiver models.AccountRef) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"receiver.id":   receiver.ID,
		"receiver.type": receiver.Type,
		"is_read":       false,
	})
}
