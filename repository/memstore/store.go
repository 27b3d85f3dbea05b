// Package memstore keeps every collection in process memory. It follows the same
// contract as the MongoDB repositories, including the joined listings, and backs
// STORE_DRIVER=memory and the handler tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hr-records/models"
	"hr-records/pkg/query"
	"hr-records/repository"
)

type Store struct {
	mu          sync.RWMutex
	departments map[primitive.ObjectID]models.Department
	positions   map[primitive.ObjectID]models.Position
	employees   map[primitive.ObjectID]models.Employee
	admins      map[primitive.ObjectID]models.Administrator
}

func New() *Store {
	return &Store{
		departments: make(map[primitive.ObjectID]models.Department),
		positions:   make(map[primitive.ObjectID]models.Position),
		employees:   make(map[primitive.ObjectID]models.Employee),
		admins:      make(map[primitive.ObjectID]models.Administrator),
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Departments: departmentStore{s},
		Positions:   positionStore{s},
		Employees:   employeeStore{s},
		Admins:      adminStore{s},
	}
}

type departmentStore struct{ s *Store }

func (d departmentStore) CreateDepartment(_ context.Context, department *models.Department) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	for _, existing := range d.s.departments {
		if existing.Name == department.Name {
			return fmt.Errorf("department %q: %w", department.Name, repository.ErrDuplicate)
		}
	}
	now := time.Now()
	department.ID = primitive.NewObjectID()
	department.CreatedAt = now
	department.UpdatedAt = now
	d.s.departments[department.ID] = *department
	return nil
}

func (d departmentStore) GetAllDepartments(_ context.Context) ([]models.Department, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	departments := make([]models.Department, 0, len(d.s.departments))
	for _, department := range d.s.departments {
		departments = append(departments, department)
	}
	sort.Slice(departments, func(i, j int) bool {
		if departments[i].Name != departments[j].Name {
			return departments[i].Name < departments[j].Name
		}
		return departments[i].ID.Hex() < departments[j].ID.Hex()
	})
	return departments, nil
}

func (d departmentStore) GetDepartmentByID(_ context.Context, id primitive.ObjectID) (*models.Department, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	department, ok := d.s.departments[id]
	if !ok {
		return nil, fmt.Errorf("department %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return &department, nil
}

func (d departmentStore) FindDepartmentByName(_ context.Context, name string) (*models.Department, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	for _, department := range d.s.departments {
		if department.Name == name {
			return &department, nil
		}
	}
	return nil, nil
}

func (d departmentStore) UpdateDepartment(_ context.Context, id primitive.ObjectID, name string) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	department, ok := d.s.departments[id]
	if !ok {
		return fmt.Errorf("department %s: %w", id.Hex(), repository.ErrNotFound)
	}
	for otherID, other := range d.s.departments {
		if otherID != id && other.Name == name {
			return fmt.Errorf("department %q: %w", name, repository.ErrDuplicate)
		}
	}
	department.Name = name
	department.UpdatedAt = time.Now()
	d.s.departments[id] = department
	return nil
}

func (d departmentStore) DeleteDepartment(_ context.Context, id primitive.ObjectID) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	for _, position := range d.s.positions {
		if position.DepartmentID == id {
			return fmt.Errorf("department %s referenced by positions: %w", id.Hex(), repository.ErrInUse)
		}
	}
	for _, employee := range d.s.employees {
		if employee.DepartmentID == id {
			return fmt.Errorf("department %s referenced by employees: %w", id.Hex(), repository.ErrInUse)
		}
	}
	if _, ok := d.s.departments[id]; !ok {
		return fmt.Errorf("department %s: %w", id.Hex(), repository.ErrNotFound)
	}
	delete(d.s.departments, id)
	return nil
}

func (d departmentStore) ListWithEmployeeCount(_ context.Context, page query.Page) ([]models.DepartmentWithCount, int64, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	counts := make(map[primitive.ObjectID]int64)
	for _, employee := range d.s.employees {
		counts[employee.DepartmentID]++
	}

	rows := make([]models.DepartmentWithCount, 0, len(d.s.departments))
	for id, department := range d.s.departments {
		rows = append(rows, models.DepartmentWithCount{
			ID:            id,
			Name:          department.Name,
			EmployeeCount: counts[id],
		})
	}
	query.SortDepartmentCounts(rows)
	return query.Apply(rows, page), int64(len(rows)), nil
}

func (d departmentStore) CountDocuments(_ context.Context) (int64, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	return int64(len(d.s.departments)), nil
}

type positionStore struct{ s *Store }

func (p positionStore) CreatePosition(_ context.Context, position *models.Position) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	for _, existing := range p.s.positions {
		if existing.Name == position.Name {
			return fmt.Errorf("position %q: %w", position.Name, repository.ErrDuplicate)
		}
	}
	now := time.Now()
	position.ID = primitive.NewObjectID()
	position.CreatedAt = now
	position.UpdatedAt = now
	p.s.positions[position.ID] = *position
	return nil
}

func (p positionStore) GetAllPositions(_ context.Context) ([]models.Position, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	positions := make([]models.Position, 0, len(p.s.positions))
	for _, position := range p.s.positions {
		positions = append(positions, position)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Name != positions[j].Name {
			return positions[i].Name < positions[j].Name
		}
		return positions[i].ID.Hex() < positions[j].ID.Hex()
	})
	return positions, nil
}

func (p positionStore) GetPositionByID(_ context.Context, id primitive.ObjectID) (*models.Position, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	position, ok := p.s.positions[id]
	if !ok {
		return nil, fmt.Errorf("position %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return &position, nil
}

func (p positionStore) FindPositionByName(_ context.Context, name string) (*models.Position, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	for _, position := range p.s.positions {
		if position.Name == name {
			return &position, nil
		}
	}
	return nil, nil
}

func (p positionStore) DeletePosition(_ context.Context, id primitive.ObjectID) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	for _, employee := range p.s.employees {
		if employee.PositionID == id {
			return fmt.Errorf("position %s referenced by employees: %w", id.Hex(), repository.ErrInUse)
		}
	}
	if _, ok := p.s.positions[id]; !ok {
		return fmt.Errorf("position %s: %w", id.Hex(), repository.ErrNotFound)
	}
	delete(p.s.positions, id)
	return nil
}

// ListWithEmployeeCount drops positions whose department no longer resolves.
func (p positionStore) ListWithEmployeeCount(_ context.Context, page query.Page) ([]models.PositionWithCount, int64, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	counts := make(map[primitive.ObjectID]int64)
	for _, employee := range p.s.employees {
		counts[employee.PositionID]++
	}

	rows := make([]models.PositionWithCount, 0, len(p.s.positions))
	for id, position := range p.s.positions {
		department, ok := p.s.departments[position.DepartmentID]
		if !ok {
			continue
		}
		rows = append(rows, models.PositionWithCount{
			ID:            id,
			Name:          position.Name,
			DepartmentID:  position.DepartmentID,
			Department:    department.Name,
			EmployeeCount: counts[id],
		})
	}
	query.SortPositionCounts(rows)
	return query.Apply(rows, page), int64(len(rows)), nil
}

type employeeStore struct{ s *Store }

func (e employeeStore) CreateEmployee(_ context.Context, employee *models.Employee) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	if e.emailTaken(employee.Email, primitive.NilObjectID) {
		return fmt.Errorf("employee %q: %w", employee.Email, repository.ErrDuplicate)
	}
	now := time.Now()
	employee.ID = primitive.NewObjectID()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	e.s.employees[employee.ID] = *employee
	return nil
}

// emailTaken must be called with the lock held.
func (e employeeStore) emailTaken(email string, except primitive.ObjectID) bool {
	for id, existing := range e.s.employees {
		if id != except && existing.Email == email {
			return true
		}
	}
	return false
}

func (e employeeStore) GetEmployeeByID(_ context.Context, id primitive.ObjectID) (*models.Employee, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	employee, ok := e.s.employees[id]
	if !ok {
		return nil, fmt.Errorf("employee %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return &employee, nil
}

func (e employeeStore) FindEmployeeByEmail(_ context.Context, email string) (*models.Employee, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	for _, employee := range e.s.employees {
		if employee.Email == email {
			return &employee, nil
		}
	}
	return nil, nil
}

func (e employeeStore) UpdateEmployee(_ context.Context, id primitive.ObjectID, employee *models.Employee) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	current, ok := e.s.employees[id]
	if !ok {
		return fmt.Errorf("employee %s: %w", id.Hex(), repository.ErrNotFound)
	}
	if e.emailTaken(employee.Email, id) {
		return fmt.Errorf("employee %q: %w", employee.Email, repository.ErrDuplicate)
	}
	employee.ID = id
	employee.CreatedAt = current.CreatedAt
	employee.UpdatedAt = time.Now()
	e.s.employees[id] = *employee
	return nil
}

func (e employeeStore) DeleteEmployee(_ context.Context, id primitive.ObjectID) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	if _, ok := e.s.employees[id]; !ok {
		return fmt.Errorf("employee %s: %w", id.Hex(), repository.ErrNotFound)
	}
	delete(e.s.employees, id)
	return nil
}

// ListEmployees joins in process. Employees whose department or position does not
// resolve are left out, as with the aggregation pipeline.
func (e employeeStore) ListEmployees(_ context.Context, filter models.EmployeeFilter, page query.Page) ([]models.EmployeeView, int64, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	needle := strings.ToLower(filter.Name)
	views := make([]models.EmployeeView, 0, len(e.s.employees))
	for id, employee := range e.s.employees {
		if needle != "" && !strings.Contains(strings.ToLower(employee.Name), needle) {
			continue
		}
		if filter.DepartmentID != nil && employee.DepartmentID != *filter.DepartmentID {
			continue
		}
		if filter.PositionID != nil && employee.PositionID != *filter.PositionID {
			continue
		}
		department, ok := e.s.departments[employee.DepartmentID]
		if !ok {
			continue
		}
		position, ok := e.s.positions[employee.PositionID]
		if !ok {
			continue
		}
		views = append(views, models.EmployeeView{
			ID:             id,
			Name:           employee.Name,
			Email:          employee.Email,
			Phone:          employee.Phone,
			DOB:            employee.DOB,
			Address:        employee.Address,
			DepartmentName: department.Name,
			PositionName:   position.Name,
			StartDate:      employee.StartDate,
			Salary:         employee.Salary,
		})
	}
	query.SortEmployeeViews(views)
	return query.Apply(views, page), int64(len(views)), nil
}

func (e employeeStore) CountEmployees(_ context.Context) (int64, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	return int64(len(e.s.employees)), nil
}

func (e employeeStore) SalaryTotal(_ context.Context) (float64, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	var total float64
	for _, employee := range e.s.employees {
		total += employee.Salary
	}
	return total, nil
}

type adminStore struct{ s *Store }

func (a adminStore) CreateAdmin(_ context.Context, admin *models.Administrator) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	for _, existing := range a.s.admins {
		if existing.Email == admin.Email {
			return fmt.Errorf("administrator %q: %w", admin.Email, repository.ErrDuplicate)
		}
	}
	admin.ID = primitive.NewObjectID()
	a.s.admins[admin.ID] = *admin
	return nil
}

func (a adminStore) FindAdminByEmail(_ context.Context, email string) (*models.Administrator, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	for _, admin := range a.s.admins {
		if admin.Email == email {
			return &admin, nil
		}
	}
	return nil, nil
}

func (a adminStore) GetAllAdmins(_ context.Context) ([]models.Administrator, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	admins := make([]models.Administrator, 0, len(a.s.admins))
	for _, admin := range a.s.admins {
		admin.Password = ""
		admin.RefreshTokens = ""
		admin.ResetTokens = ""
		admins = append(admins, admin)
	}
	sort.Slice(admins, func(i, j int) bool {
		return admins[i].ID.Hex() < admins[j].ID.Hex()
	})
	return admins, nil
}

func (a adminStore) CountAdmins(_ context.Context) (int64, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return int64(len(a.s.admins)), nil
}
