package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hr-records/models"
	"hr-records/repository"
)

type sampleEmployee struct {
	name       string
	email      string
	phone      string
	dob        string
	address    string
	department string
	position   string
	startDate  string
	salary     float64
}

var sampleEmployees = []sampleEmployee{
	{"Andi Pratama", "andi.pratama@example.com", "+62 812 1000 0001", "1990-04-12", "Jl. Merdeka No. 10, Jakarta", "Engineering", "Backend Engineer", "2019-03-01", 15000000},
	{"Siti Rahma", "siti.rahma@example.com", "+62 812 1000 0002", "1993-08-23", "Jl. Sudirman No. 5, Bandung", "Engineering", "Frontend Engineer", "2020-07-15", 13500000},
	{"Budi Santoso", "budi.santoso@example.com", "+62 812 1000 0003", "1988-01-30", "Jl. Gajah Mada No. 7, Surabaya", "Finance", "Accountant", "2017-11-20", 11000000},
	{"Dewi Lestari", "dewi.lestari@example.com", "+62 812 1000 0004", "1995-12-05", "Jl. Diponegoro No. 3, Yogyakarta", "Human Resources", "Recruiter", "2021-02-01", 9000000},
	{"Rizky Hidayat", "rizky.hidayat@example.com", "+62 812 1000 0005", "1991-06-17", "Jl. Asia Afrika No. 9, Bandung", "Sales", "Account Executive", "2018-09-10", 10500000},
}

// SeedEmployees inserts a handful of sample employees. Rows whose department or
// position was not seeded are skipped.
func SeedEmployees(ctx context.Context, empRepo repository.EmployeeRepository, departments map[string]*models.Department, positions map[string]*models.Position) error {
	log.Info().Msg("seeding employees")

	for _, s := range sampleEmployees {
		department, ok := departments[s.department]
		if !ok {
			continue
		}
		position, ok := positions[s.position]
		if !ok {
			continue
		}

		existing, err := empRepo.FindEmployeeByEmail(ctx, s.email)
		if err != nil {
			return fmt.Errorf("failed to look up employee %q: %w", s.email, err)
		}
		if existing != nil {
			continue
		}

		dob, _ := time.Parse(models.DateLayout, s.dob)
		start, _ := time.Parse(models.DateLayout, s.startDate)
		employee := &models.Employee{
			Name:         s.name,
			Email:        s.email,
			Phone:        s.phone,
			DOB:          dob,
			Address:      s.address,
			DepartmentID: department.ID,
			PositionID:   position.ID,
			StartDate:    start,
			Salary:       s.salary,
		}
		if err := empRepo.CreateEmployee(ctx, employee); err != nil {
			return fmt.Errorf("failed to seed employee %q: %w", s.email, err)
		}
		log.Info().Str("email", s.email).Msg("employee added")
	}
	return nil
}
