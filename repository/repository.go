package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"hr-records/config"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document with the same unique field already exists")
	ErrInUse     = errors.New("document is still referenced")
)

// Repositories bundles one implementation of every collection.
type Repositories struct {
	Departments DepartmentRepository
	Positions   PositionRepository
	Employees   EmployeeRepository
	Admins      AdminRepository
}

func NewMongoRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Departments: NewDepartmentRepository(db),
		Positions:   NewPositionRepository(db),
		Employees:   NewEmployeeRepository(db),
		Admins:      NewAdminRepository(db),
	}
}

func collections(db *mongo.Database) (departments, positions, employees *mongo.Collection) {
	return db.Collection(config.DepartmentCollection),
		db.Collection(config.PositionCollection),
		db.Collection(config.EmployeeCollection)
}

type countResult struct {
	Total int64 `bson:"total"`
}

// aggregateCount runs a pipeline ending in {$count: "total"}. No output means zero.
func aggregateCount(ctx context.Context, collection *mongo.Collection, pipeline mongo.Pipeline) (int64, error) {
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []countResult
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}
