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

type PositionRepository interface {
	CreatePosition(ctx context.Context, position *models.Position) error
	GetAllPositions(ctx context.Context) ([]models.Position, error)
	GetPositionByID(ctx context.Context, id primitive.ObjectID) (*models.Position, error)
	FindPositionByName(ctx context.Context, name string) (*models.Position, error)
	DeletePosition(ctx context.Context, id primitive.ObjectID) error
	ListWithEmployeeCount(ctx context.Context, page query.Page) ([]models.PositionWithCount, int64, error)
}

type positionRepository struct {
	collection *mongo.Collection
	employees  *mongo.Collection
}

func NewPositionRepository(db *mongo.Database) PositionRepository {
	_, positions, employees := collections(db)
	return &positionRepository{
		collection: positions,
		employees:  employees,
	}
}

func (r *positionRepository) CreatePosition(ctx context.Context, position *models.Position) error {
	now := time.Now()
	position.ID = primitive.NewObjectID()
	position.CreatedAt = now
	position.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, position); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("position %q: %w", position.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create position: %w", err)
	}
	return nil
}

func (r *positionRepository) GetAllPositions(ctx context.Context) ([]models.Position, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find positions: %w", err)
	}
	defer cursor.Close(ctx)

	positions := []models.Position{}
	if err = cursor.All(ctx, &positions); err != nil {
		return nil, fmt.Errorf("failed to decode positions: %w", err)
	}
	return positions, nil
}

func (r *positionRepository) GetPositionByID(ctx context.Context, id primitive.ObjectID) (*models.Position, error) {
	var position models.Position
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&position)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("position %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find position by id: %w", err)
	}
	return &position, nil
}

// FindPositionByName returns nil, nil when no position has that name.
func (r *positionRepository) FindPositionByName(ctx context.Context, name string) (*models.Position, error) {
	var position models.Position
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&position)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find position by name: %w", err)
	}
	return &position, nil
}

func (r *positionRepository) DeletePosition(ctx context.Context, id primitive.ObjectID) error {
	n, err := r.employees.CountDocuments(ctx, bson.M{"position_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to check employee references: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("position %s referenced by employees: %w", id.Hex(), ErrInUse)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("position %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

func (r *positionRepository) ListWithEmployeeCount(ctx context.Context, page query.Page) ([]models.PositionWithCount, int64, error) {
	total, err := aggregateCount(ctx, r.collection, PositionTotalPipeline())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count positions: %w", err)
	}

	cursor, err := r.collection.Aggregate(ctx, PositionCountPipeline(page))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate position employee counts: %w", err)
	}
	defer cursor.Close(ctx)

	rows := []models.PositionWithCount{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, 0, fmt.Errorf("failed to decode position employee counts: %w", err)
	}
	return rows, total, nil
}
