package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the wire format of dob and start_date.
const DateLayout = "2006-01-02"

type Employee struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Phone        string             `json:"phone" bson:"phone"`
	DOB          time.Time          `json:"dob" bson:"dob"`
	Address      string             `json:"address" bson:"address"`
	DepartmentID primitive.ObjectID `json:"department_id" bson:"department_id"`
	PositionID   primitive.ObjectID `json:"position_id" bson:"position_id"`
	StartDate    time.Time          `json:"start_date" bson:"start_date"`
	Salary       float64            `json:"salary" bson:"salary"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// EmployeePayload is used for create, full update and every imported row.
type EmployeePayload struct {
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	Email        string  `json:"email" validate:"required,email,max=254"`
	Phone        string  `json:"phone" validate:"required,phone"`
	DOB          string  `json:"dob" validate:"required,datetime=2006-01-02"`
	Address      string  `json:"address" validate:"required,min=1,max=255"`
	DepartmentID string  `json:"department_id" validate:"required,mongodb"`
	PositionID   string  `json:"position_id" validate:"required,mongodb"`
	StartDate    string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	Salary       float64 `json:"salary" validate:"gte=0,max=1000000000000"`
}

func (p *EmployeePayload) Normalize() {
	p.Name = trim(p.Name)
	p.Email = trim(p.Email)
	p.Phone = trim(p.Phone)
	p.DOB = trim(p.DOB)
	p.Address = trim(p.Address)
	p.DepartmentID = trim(p.DepartmentID)
	p.PositionID = trim(p.PositionID)
	p.StartDate = trim(p.StartDate)
}

// ToEmployee converts an already validated payload into a document.
func (p EmployeePayload) ToEmployee() (*Employee, error) {
	deptID, err := primitive.ObjectIDFromHex(p.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("department_id: %w", err)
	}
	posID, err := primitive.ObjectIDFromHex(p.PositionID)
	if err != nil {
		return nil, fmt.Errorf("position_id: %w", err)
	}
	dob, err := time.Parse(DateLayout, p.DOB)
	if err != nil {
		return nil, fmt.Errorf("dob: %w", err)
	}
	start, err := time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}

	return &Employee{
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		DOB:          dob,
		Address:      p.Address,
		DepartmentID: deptID,
		PositionID:   posID,
		StartDate:    start,
		Salary:       p.Salary,
	}, nil
}

// EmployeeView is an employee joined to the names of its department and position.
type EmployeeView struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	Phone          string             `json:"phone" bson:"phone"`
	DOB            time.Time          `json:"dob" bson:"dob"`
	Address        string             `json:"address" bson:"address"`
	DepartmentName string             `json:"department_name" bson:"department_name"`
	PositionName   string             `json:"position_name" bson:"position_name"`
	StartDate      time.Time          `json:"start_date" bson:"start_date"`
	Salary         float64            `json:"salary" bson:"salary"`
}

// EmployeeFilter narrows listing and search. Nil ids are not filtered on.
type EmployeeFilter struct {
	Name         string
	DepartmentID *primitive.ObjectID
	PositionID   *primitive.ObjectID
}

// ImportResult is returned by the bulk import on success and on abort.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Row      int `json:"row,omitempty"`
}
