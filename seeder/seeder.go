package seeder

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"hr-records/models"
	"hr-records/pkg/password"
	"hr-records/repository"
)

type Options struct {
	AdminEmail    string
	AdminPassword string
	WithEmployees bool
}

// Run seeds departments, positions, optional sample employees and the first
// administrator. Running it twice adds nothing.
func Run(ctx context.Context, repos repository.Repositories, opts Options) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	departments, err := SeedDepartments(ctx, repos.Departments)
	if err != nil {
		return err
	}
	positions, err := SeedPositions(ctx, repos.Positions, departments)
	if err != nil {
		return err
	}
	if opts.WithEmployees {
		if err := SeedEmployees(ctx, repos.Employees, departments, positions); err != nil {
			return err
		}
	}
	if opts.AdminEmail != "" {
		if err := SeedAdmin(ctx, repos.Admins, opts.AdminEmail, opts.AdminPassword); err != nil {
			return err
		}
	}

	log.Info().Msg("seeding finished")
	return nil
}

// SeedAdmin creates an administrator with role admin unless the email is taken.
func SeedAdmin(ctx context.Context, adminRepo repository.AdminRepository, email, plain string) error {
	existing, err := adminRepo.FindAdminByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up administrator: %w", err)
	}
	if existing != nil {
		log.Info().Str("email", email).Msg("administrator already exists, skipping")
		return nil
	}

	hashed, err := password.HashPassword(plain)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Administrator{
		Username: "admin",
		Email:    email,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := adminRepo.CreateAdmin(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed administrator: %w", err)
	}
	log.Info().Str("email", email).Msg("administrator added")
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
