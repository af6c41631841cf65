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

type EmployeeStore struct {
	coll *mongo.Collection
}

func NewEmployeeStore(ctx context.Context, db *MongoDB) (*EmployeeStore, error) {
	employees := db.Collection("employees")

	if _, err := employees.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "active", Value: 1}, {Key: "full_name", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create employees indexes: %w", err)
	}

	return &EmployeeStore{coll: employees}, nil
}

// Create inserts a new employee. The caller assigns the ID.
func (s *EmployeeStore) Create(ctx context.Context, emp *model.Employee) error {
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = emp.CreatedAt
	if _, err := s.coll.InsertOne(ctx, emp); err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// Get returns an employee of the company, or nil if not found.
func (s *EmployeeStore) Get(ctx context.Context, companyID, id string) (*model.Employee, error) {
	var emp model.Employee
	err := s.coll.FindOne(ctx, bson.M{"_id": id, "company_id": companyID}).Decode(&emp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &emp, nil
}

// ListActive returns the active employees of the company ordered by name.
func (s *EmployeeStore) ListActive(ctx context.Context, companyID string) ([]*model.Employee, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{"company_id": companyID, "active": true},
		options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	var results []*model.Employee
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	return results, nil
}

// SetSchedule assigns a schedule to an employee. Returns ErrConflict if the
// employee does not exist in the company.
func (s *EmployeeStore) SetSchedule(ctx context.Context, companyID, id string, scheduleID bson.ObjectID) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "company_id": companyID},
		bson.M{"$set": bson.M{"schedule_id": scheduleID, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("update employee schedule: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}
