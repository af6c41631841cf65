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

type AttendanceStore struct {
	attendance *mongo.Collection
}

func NewAttendanceStore(ctx context.Context, db *MongoDB) (*AttendanceStore, error) {
	attendance := db.Collection("attendance")

	if _, err := attendance.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "company_id", Value: 1},
				{Key: "employee_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create attendance indexes: %w", err)
	}

	return &AttendanceStore{attendance: attendance}, nil
}

// Get returns the record of an employee for a date (YYYY-MM-DD), or nil if not found.
func (s *AttendanceStore) Get(ctx context.Context, companyID, employeeID, date string) (*model.AttendanceRecord, error) {
	return s.findOne(ctx, bson.M{
		"company_id":  companyID,
		"employee_id": employeeID,
		"date":        date,
	})
}

// GetByID returns a record of the company by ID, or nil if not found.
func (s *AttendanceStore) GetByID(ctx context.Context, companyID string, id bson.ObjectID) (*model.AttendanceRecord, error) {
	return s.findOne(ctx, bson.M{"_id": id, "company_id": companyID})
}

func (s *AttendanceStore) findOne(ctx context.Context, filter bson.M) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := s.attendance.FindOne(ctx, filter).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &record, nil
}

// Ensure returns the record for (company, employee, date), inserting rec when
// none exists. The upsert runs against the unique index, so concurrent
// callers always end up with the same document. created is true only for the
// caller whose insert won.
func (s *AttendanceStore) Ensure(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, bool, error) {
	now := time.Now()
	onInsert := bson.M{
		"status":        rec.Status,
		"delay_minutes": 0,
		"worked_hours":  0.0,
		"created_at":    now,
		"updated_at":    now,
	}
	if rec.Schedule != nil {
		onInsert["schedule"] = rec.Schedule
	}

	filter := bson.M{
		"company_id":  rec.CompanyID,
		"employee_id": rec.EmployeeID,
		"date":        rec.Date,
	}
	res, err := s.attendance.UpdateOne(ctx, filter,
		bson.M{"$setOnInsert": onInsert},
		options.UpdateOne().SetUpsert(true),
	)
	created := err == nil && res.UpsertedCount == 1
	// A concurrent upsert for the same key may lose the race on the unique
	// index; the winner's document is what we want either way.
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("upsert attendance: %w", err)
	}

	record, err := s.Get(ctx, rec.CompanyID, rec.EmployeeID, rec.Date)
	if err != nil {
		return nil, false, err
	}
	if record == nil {
		return nil, false, fmt.Errorf("upsert attendance: record %s/%s vanished", rec.EmployeeID, rec.Date)
	}
	return record, created, nil
}

// SetCheckIn stores the check-in fields only if no check-in exists yet.
// Returns ErrConflict otherwise.
func (s *AttendanceStore) SetCheckIn(ctx context.Context, rec *model.AttendanceRecord) error {
	rec.UpdatedAt = time.Now()
	res, err := s.attendance.UpdateOne(ctx,
		bson.M{"_id": rec.ID, "company_id": rec.CompanyID, "check_in": nil},
		bson.M{"$set": bson.M{
			"check_in":      rec.CheckIn,
			"status":        rec.Status,
			"delay_minutes": rec.DelayMinutes,
			"ip_address":    rec.IPAddress,
			"device_info":   rec.DeviceInfo,
			"updated_at":    rec.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update check-in: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// SetCheckOut stores the check-out fields only if a check-in exists and no
// check-out does. Returns ErrConflict otherwise.
func (s *AttendanceStore) SetCheckOut(ctx context.Context, rec *model.AttendanceRecord) error {
	rec.UpdatedAt = time.Now()
	res, err := s.attendance.UpdateOne(ctx,
		bson.M{
			"_id":        rec.ID,
			"company_id": rec.CompanyID,
			"check_in":   bson.M{"$ne": nil},
			"check_out":  nil,
		},
		bson.M{"$set": bson.M{
			"check_out":    rec.CheckOut,
			"worked_hours": rec.WorkedHours,
			"updated_at":   rec.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update check-out: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// SetNotes updates the notes and author of an existing record, leaving its
// status and check-in fields alone.
func (s *AttendanceStore) SetNotes(ctx context.Context, rec *model.AttendanceRecord) error {
	rec.UpdatedAt = time.Now()
	res, err := s.attendance.UpdateOne(ctx,
		bson.M{"_id": rec.ID, "company_id": rec.CompanyID},
		bson.M{"$set": bson.M{
			"notes":        rec.Notes,
			"justified_by": rec.JustifiedBy,
			"updated_at":   rec.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// SetExcused marks a record excused, provided its status is still expected.
// Returns ErrConflict otherwise.
func (s *AttendanceStore) SetExcused(ctx context.Context, rec *model.AttendanceRecord, expected model.AttendanceStatus) error {
	rec.UpdatedAt = time.Now()
	res, err := s.attendance.UpdateOne(ctx,
		bson.M{"_id": rec.ID, "company_id": rec.CompanyID, "status": expected},
		bson.M{"$set": bson.M{
			"notes":         rec.Notes,
			"status":        model.AttendanceStatusExcused,
			"delay_minutes": 0,
			"justified_by":  rec.JustifiedBy,
			"updated_at":    rec.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update excuse: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// StatusCounts groups the company's records between from and to (inclusive,
// YYYY-MM-DD) by employee and status.
func (s *AttendanceStore) StatusCounts(ctx context.Context, companyID, from, to string) ([]model.StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"company_id": companyID,
			"date":       bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "employee_id", Value: "$employee_id"},
				{Key: "status", Value: "$status"},
			}},
			{Key: "count", Value: bson.M{"$sum": 1}},
			{Key: "worked_hours", Value: bson.M{"$sum": "$worked_hours"}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "employee_id", Value: "$_id.employee_id"},
			{Key: "status", Value: "$_id.status"},
			{Key: "count", Value: 1},
			{Key: "worked_hours", Value: 1},
		}}},
	}

	cursor, err := s.attendance.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate attendance: %w", err)
	}
	var results []model.StatusCount
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode attendance counts: %w", err)
	}
	return results, nil
}

// ListByDateRange returns the company's records between from and to, optionally
// filtered by employee, ordered by date.
func (s *AttendanceStore) ListByDateRange(ctx context.Context, companyID, from, to, employeeID string) ([]*model.AttendanceRecord, error) {
	filter := bson.M{
		"company_id": companyID,
		"date":       bson.M{"$gte": from, "$lte": to},
	}
	if employeeID != "" {
		filter["employee_id"] = employeeID
	}
	cursor, err := s.attendance.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "employee_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	var results []*model.AttendanceRecord
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}
	return results, nil
}
