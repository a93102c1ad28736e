package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JobRepository defines the interface for job offers and their embedded applicants
type JobRepository interface {
	CreateJob(ctx context.Context, job *models.JobOffer) error
	GetJobByID(ctx context.Context, id primitive.ObjectID) (*models.JobOffer, error)
	UpdateJob(ctx context.Context, job *models.JobOffer) error
	CloseJob(ctx context.Context, id primitive.ObjectID) error
	ListActive(ctx context.Context, query string, skip, limit int64) ([]models.JobOffer, error)
	CountActive(ctx context.Context, query string) (int64, error)
	ListByCompany(ctx context.Context, companyID uint) ([]models.JobOffer, error)
	// AppendApplicant pushes applicant only while the job is active and the
	// user has not applied yet. It reports whether the push happened.
	AppendApplicant(ctx context.Context, jobID primitive.ObjectID, applicant models.Applicant) (bool, error)
	UpdateApplicantStatus(ctx context.Context, jobID primitive.ObjectID, userID uint, status models.ApplicantStatus) (bool, error)
}

// MongoJobRepository implements JobRepository for MongoDB
type MongoJobRepository struct {
	collection *mongo.Collection
}

func NewMongoJobRepository(db *mongo.Database) *MongoJobRepository {
	return &MongoJobRepository{collection: db.Collection("job_offers")}
}

func (r *MongoJobRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *MongoJobRepository) CreateJob(ctx context.Context, job *models.JobOffer) error {
	now := time.Now()
	job.ID = primitive.NewObjectID()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Applicants == nil {
		job.Applicants = []models.Applicant{}
	}
	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	}
	_, err := r.collection.InsertOne(ctx, job)
	return err
}

func (r *MongoJobRepository) GetJobByID(ctx context.Context, id primitive.ObjectID) (*models.JobOffer, error) {
	var job models.JobOffer
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		return nil, translateMongoError(err)
	}
	return &job, nil
}

// UpdateJob rewrites the editable fields; applicants are never touched here.
func (r *MongoJobRepository) UpdateJob(ctx context.Context, job *models.JobOffer) error {
	job.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":            job.Title,
		"description":      job.Description,
		"location":         job.Location,
		"employment_type":  job.EmploymentType,
		"experience_level": job.ExperienceLevel,
		"salary_range":     job.SalaryRange,
		"required_skills":  job.RequiredSkills,
		"updated_at":       job.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": job.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoJobRepository) CloseJob(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func activeFilter(query string) bson.M {
	filter := bson.M{"is_active": true}
	if query != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"description": rx},
			bson.M{"location": rx},
			bson.M{"required_skills": rx},
		}
	}
	return filter
}

func (r *MongoJobRepository) ListActive(ctx context.Context, query string, skip, limit int64) ([]models.JobOffer, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"applicants": 0})
	return r.find(ctx, activeFilter(query), opts)
}

func (r *MongoJobRepository) CountActive(ctx context.Context, query string) (int64, error) {
	return r.collection.CountDocuments(ctx, activeFilter(query))
}

func (r *MongoJobRepository) ListByCompany(ctx context.Context, companyID uint) ([]models.JobOffer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"company_id": companyID}, opts)
}

func (r *MongoJobRepository) AppendApplicant(ctx context.Context, jobID primitive.ObjectID, applicant models.Applicant) (bool, error) {
	filter := bson.M{
		"_id":                jobID,
		"is_active":          true,
		"applicants.user_id": bson.M{"$ne": applicant.UserID},
	}
	update := bson.M{
		"$push": bson.M{"applicants": applicant},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoJobRepository) UpdateApplicantStatus(ctx context.Context, jobID primitive.ObjectID, userID uint, status models.ApplicantStatus) (bool, error) {
	filter := bson.M{"_id": jobID, "applicants.user_id": userID}
	update := bson.M{"$set": bson.M{"applicants.$.status": status, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoJobRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.JobOffer, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	jobs := []models.JobOffer{}
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
