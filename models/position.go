package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Position struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	DepartmentID primitive.ObjectID `bson:"department_id" json:"department_id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type PositionPayload struct {
	Position     string `json:"position" validate:"required,min=1,max=100"`
	DepartmentID string `json:"department_id" validate:"required,min=1,mongodb"`
}

func (p *PositionPayload) Normalize() {
	p.Position = trim(p.Position)
	p.DepartmentID = trim(p.DepartmentID)
}

type PositionWithCount struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	DepartmentID  primitive.ObjectID `bson:"department_id" json:"department_id"`
	Department    string             `bson:"department" json:"department"`
	EmployeeCount int64              `bson:"employeeCount" json:"employeeCount"`
}
