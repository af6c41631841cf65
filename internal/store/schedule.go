package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"shinobi-rh/internal/model"
)

type ScheduleStore struct {
	coll *mongo.Collection
}

func NewScheduleStore(ctx context.Context, db *MongoDB) (*ScheduleStore, error) {
	schedules := db.Collection("work_schedules")

	if _, err := schedules.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{
			// at most one provisioned default per company
			Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "is_default", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_default": true}),
		},
	}); err != nil {
		return nil, fmt.Errorf("create work_schedules indexes: %w", err)
	}

	return &ScheduleStore{coll: schedules}, nil
}

// creationOrder is the "first schedule" order of a company.
var creationOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

// Create inserts a new schedule and sets the ID on the struct. Returns
// ErrConflict when a second default schedule is inserted for a company.
func (s *ScheduleStore) Create(ctx context.Context, sched *model.WorkSchedule) error {
	sched.CreatedAt = time.Now()
	sched.UpdatedAt = sched.CreatedAt
	res, err := s.coll.InsertOne(ctx, sched)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert work schedule: %w", err)
	}
	sched.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *ScheduleStore) GetByID(ctx context.Context, companyID string, id bson.ObjectID) (*model.WorkSchedule, error) {
	return s.findOne(ctx, bson.M{"_id": id, "company_id": companyID})
}

// First returns the oldest schedule of the company, or nil if it has none.
func (s *ScheduleStore) First(ctx context.Context, companyID string) (*model.WorkSchedule, error) {
	return s.findOne(ctx, bson.M{"company_id": companyID}, options.FindOne().SetSort(creationOrder))
}

// Default returns the company's provisioned default schedule, or nil.
func (s *ScheduleStore) Default(ctx context.Context, companyID string) (*model.WorkSchedule, error) {
	return s.findOne(ctx, bson.M{"company_id": companyID, "is_default": true})
}

func (s *ScheduleStore) findOne(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOneOptions]) (*model.WorkSchedule, error) {
	var sched model.WorkSchedule
	err := s.coll.FindOne(ctx, filter, opts...).Decode(&sched)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find work schedule: %w", err)
	}
	return &sched, nil
}

// List returns the company's schedules in creation order.
func (s *ScheduleStore) List(ctx context.Context, companyID string) ([]*model.WorkSchedule, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"company_id": companyID}, options.Find().SetSort(creationOrder))
	if err != nil {
		return nil, fmt.Errorf("find work schedules: %w", err)
	}
	var results []*model.WorkSchedule
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode work schedules: %w", err)
	}
	return results, nil
}
