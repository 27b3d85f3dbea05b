package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Department struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// DepartmentPayload is the body of POST /departments and PUT /departments/:id.
type DepartmentPayload struct {
	Department string `json:"department" validate:"required,min=1,max=100"`
}

func (p *DepartmentPayload) Normalize() {
	p.Department = trim(p.Department)
}

// DepartmentWithCount keeps departments that have no employees (count 0).
type DepartmentWithCount struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	EmployeeCount int64              `bson:"employeeCount" json:"employeeCount"`
}
