package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hr-records/models"
	"hr-records/pkg/query"
)

type DepartmentRepository interface {
	CreateDepartment(ctx context.Context, department *models.Department) error
	GetAllDepartments(ctx context.Context) ([]models.Department, error)
	GetDepartmentByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error)
	FindDepartmentByName(ctx context.Context, name string) (*models.Department, error)
	UpdateDepartment(ctx context.Context, id primitive.ObjectID, name string) error
	DeleteDepartment(ctx context.Context, id primitive.ObjectID) error
	ListWithEmployeeCount(ctx context.Context, page query.Page) ([]models.DepartmentWithCount, int64, error)
	CountDocuments(ctx context.Context) (int64, error)
}

type departmentRepository struct {
	collection *mongo.Collection
	positions  *mongo.Collection
	employees  *mongo.Collection
}

func NewDepartmentRepository(db *mongo.Database) DepartmentRepository {
	departments, positions, employees := collections(db)
	return &departmentRepository{
		collection: departments,
		positions:  positions,
		employees:  employees,
	}
}

func (r *departmentRepository) CreateDepartment(ctx context.Context, department *models.Department) error {
	now := time.Now()
	department.ID = primitive.NewObjectID()
	department.CreatedAt = now
	department.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, department); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("department %q: %w", department.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *departmentRepository) GetAllDepartments(ctx context.Context) ([]models.Department, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find departments: %w", err)
	}
	defer cursor.Close(ctx)

	departments := []models.Department{}
	if err = cursor.All(ctx, &departments); err != nil {
		return nil, fmt.Errorf("failed to decode departments: %w", err)
	}
	return departments, nil
}

func (r *departmentRepository) GetDepartmentByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error) {
	var department models.Department
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&department)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("department %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find department by id: %w", err)
	}
	return &department, nil
}

// FindDepartmentByName returns nil, nil when no department has that name.
func (r *departmentRepository) FindDepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	var department models.Department
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&department)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find department by name: %w", err)
	}
	return &department, nil
}

func (r *departmentRepository) UpdateDepartment(ctx context.Context, id primitive.ObjectID, name string) error {
	update := bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("department %q: %w", name, ErrDuplicate)
		}
		return fmt.Errorf("failed to update department: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("department %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

// DeleteDepartment refuses while a position or an employee still points at it.
func (r *departmentRepository) DeleteDepartment(ctx context.Context, id primitive.ObjectID) error {
	for _, refs := range []*mongo.Collection{r.positions, r.employees} {
		n, err := refs.CountDocuments(ctx, bson.M{"department_id": id}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("failed to check %s references: %w", refs.Name(), err)
		}
		if n > 0 {
			return fmt.Errorf("department %s referenced by %s: %w", id.Hex(), refs.Name(), ErrInUse)
		}
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("department %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

func (r *departmentRepository) ListWithEmployeeCount(ctx context.Context, page query.Page) ([]models.DepartmentWithCount, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count departments: %w", err)
	}

	cursor, err := r.collection.Aggregate(ctx, DepartmentCountPipeline(page))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate department employee counts: %w", err)
	}
	defer cursor.Close(ctx)

	rows := []models.DepartmentWithCount{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, 0, fmt.Errorf("failed to decode department employee counts: %w", err)
	}
	return rows, total, nil
}

func (r *departmentRepository) CountDocuments(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count departments: %w", err)
	}
	return count, nil
}
