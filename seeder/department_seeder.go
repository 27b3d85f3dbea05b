package seeder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"hr-records/models"
	"hr-records/repository"
)

// DefaultDepartments maps each seeded department to the positions filed under it.
var DefaultDepartments = map[string][]string{
	"Engineering":      {"Backend Engineer", "Frontend Engineer", "QA Engineer"},
	"Finance":          {"Accountant", "Financial Analyst"},
	"Human Resources":  {"HR Generalist", "Recruiter"},
	"Marketing":        {"Content Strategist", "Marketing Specialist"},
	"Sales":            {"Account Executive", "Sales Manager"},
	"Customer Service": {"Support Agent"},
	"Logistics":        {"Warehouse Coordinator"},
}

// SeedDepartments inserts the departments that do not exist yet and returns every
// seeded department by name.
func SeedDepartments(ctx context.Context, deptRepo repository.DepartmentRepository) (map[string]*models.Department, error) {
	log.Info().Msg("seeding departments")

	seeded := make(map[string]*models.Department, len(DefaultDepartments))
	for _, name := range sortedKeys(DefaultDepartments) {
		existing, err := deptRepo.FindDepartmentByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up department %q: %w", name, err)
		}
		if existing != nil {
			log.Debug().Str("department", name).Msg("skipping, already exists")
			seeded[name] = existing
			continue
		}

		department := &models.Department{Name: name}
		if err := deptRepo.CreateDepartment(ctx, department); err != nil {
			return nil, fmt.Errorf("failed to seed department %q: %w", name, err)
		}
		log.Info().Str("department", name).Msg("department added")
		seeded[name] = department
	}
	return seeded, nil
}

// SeedPositions inserts the default positions under the given departments.
func SeedPositions(ctx context.Context, posRepo repository.PositionRepository, departments map[string]*models.Department) (map[string]*models.Position, error) {
	log.Info().Msg("seeding positions")

	seeded := make(map[string]*models.Position)
	for _, deptName := range sortedKeys(DefaultDepartments) {
		department, ok := departments[deptName]
		if !ok {
			continue
		}
		for _, name := range DefaultDepartments[deptName] {
			existing, err := posRepo.FindPositionByName(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to look up position %q: %w", name, err)
			}
			if existing != nil {
				seeded[name] = existing
				continue
			}

			position := &models.Position{Name: name, DepartmentID: department.ID}
			if err := posRepo.CreatePosition(ctx, position); err != nil {
				return nil, fmt.Errorf("failed to seed position %q: %w", name, err)
			}
			log.Info().Str("department", deptName).Str("position", name).Msg("position added")
			seeded[name] = position
		}
	}
	return seeded, nil
}
