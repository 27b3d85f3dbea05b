package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hr-records/models"
	"hr-records/pkg/query"
)

type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployeeByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id primitive.ObjectID, employee *models.Employee) error
	DeleteEmployee(ctx context.Context, id primitive.ObjectID) error
	ListEmployees(ctx context.Context, filter models.EmployeeFilter, page query.Page) ([]models.EmployeeView, int64, error)
	CountEmployees(ctx context.Context) (int64, error)
	SalaryTotal(ctx context.Context) (float64, error)
}

type employeeRepository struct {
	collection *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) EmployeeRepository {
	_, _, employees := collections(db)
	return &employeeRepository{collection: employees}
}

func (r *employeeRepository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	now := time.Now()
	employee.ID = primitive.NewObjectID()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, employee); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("employee %q: %w", employee.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) GetEmployeeByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var employee models.Employee
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("employee %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find employee by id: %w", err)
	}
	return &employee, nil
}

// FindEmployeeByEmail returns nil, nil when no employee has that email.
func (r *employeeRepository) FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee by email: %w", err)
	}
	return &employee, nil
}

// UpdateEmployee overwrites every mutable field. created_at is kept.
func (r *employeeRepository) UpdateEmployee(ctx context.Context, id primitive.ObjectID, employee *models.Employee) error {
	employee.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":          employee.Name,
			"email":         employee.Email,
			"phone":         employee.Phone,
			"dob":           employee.DOB,
			"address":       employee.Address,
			"department_id": employee.DepartmentID,
			"position_id":   employee.PositionID,
			"start_date":    employee.StartDate,
			"salary":        employee.Salary,
			"updated_at":    employee.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("employee %q: %w", employee.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("employee %s: %w", id.Hex(), ErrNotFound)
	}
	employee.ID = id
	return nil
}

func (r *employeeRepository) DeleteEmployee(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("employee %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

// ListEmployees returns one page of the joined listing and the size of the whole
// joined set, so unresolvable references never inflate the page count.
func (r *employeeRepository) ListEmployees(ctx context.Context, filter models.EmployeeFilter, page query.Page) ([]models.EmployeeView, int64, error) {
	total, err := aggregateCount(ctx, r.collection, EmployeeCountPipeline(filter))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	cursor, err := r.collection.Aggregate(ctx, EmployeeListPipeline(filter, page))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate employees: %w", err)
	}
	defer cursor.Close(ctx)

	views := []models.EmployeeView{}
	if err = cursor.All(ctx, &views); err != nil {
		return nil, 0, fmt.Errorf("failed to decode employees: %w", err)
	}
	return views, total, nil
}

func (r *employeeRepository) CountEmployees(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return total, nil
}

func (r *employeeRepository) SalaryTotal(ctx context.Context) (float64, error) {
	cursor, err := r.collection.Aggregate(ctx, SalaryTotalPipeline())
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate salary total: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		TotalSalary float64 `bson:"totalSalary"`
	}
	if err = cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("failed to decode salary total: %w", err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].TotalSalary, nil
}
