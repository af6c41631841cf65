package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Employee struct {
	ID         string         `bson:"_id" json:"id"` // UUID
	CompanyID  string         `bson:"company_id" json:"company_id"`
	FullName   string         `bson:"full_name" json:"full_name"`
	Department string         `bson:"department" json:"department"`
	ScheduleID *bson.ObjectID `bson:"schedule_id,omitempty" json:"schedule_id,omitempty"`
	Active     bool           `bson:"active" json:"active"`
	CreatedAt  time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `bson:"updated_at" json:"updated_at"`
}
