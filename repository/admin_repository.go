package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hr-records/config"
	"hr-records/models"
)

type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *models.Administrator) error
	FindAdminByEmail(ctx context.Context, email string) (*models.Administrator, error)
	GetAllAdmins(ctx context.Context) ([]models.Administrator, error)
	CountAdmins(ctx context.Context) (int64, error)
}

type adminRepository struct {
	collection *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) AdminRepository {
	return &adminRepository{
		collection: db.Collection(config.AdministratorCollection),
	}
}

func (r *adminRepository) CreateAdmin(ctx context.Context, admin *models.Administrator) error {
	admin.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("administrator %q: %w", admin.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create administrator: %w", err)
	}
	return nil
}

// FindAdminByEmail returns nil, nil when no administrator has that email.
func (r *adminRepository) FindAdminByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	var admin models.Administrator
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find administrator by email: %w", err)
	}
	return &admin, nil
}

// GetAllAdmins lists administrators in creation order. Secrets are projected out.
func (r *adminRepository) GetAllAdmins(ctx context.Context) ([]models.Administrator, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"password": 0, "refreshTokens": 0, "resetTokens": 0})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find administrators: %w", err)
	}
	defer cursor.Close(ctx)

	admins := []models.Administrator{}
	if err = cursor.All(ctx, &admins); err != nil {
		return nil, fmt.Errorf("failed to decode administrators: %w", err)
	}
	return admins, nil
}

func (r *adminRepository) CountAdmins(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count administrators: %w", err)
	}
	return total, nil
}
