package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hr-records/models"
	"hr-records/pkg/query"
	"hr-records/repository"
)

type fixture struct {
	repos       repository.Repositories
	engineering *models.Department
	sales       *models.Department
	backend     *models.Position
	qa          *models.Position
	account     *models.Position
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{repos: New().Repositories()}

	f.engineering = &models.Department{Name: "Engineering"}
	require.NoError(t, f.repos.Departments.CreateDepartment(ctx, f.engineering))
	f.sales = &models.Department{Name: "Sales"}
	require.NoError(t, f.repos.Departments.CreateDepartment(ctx, f.sales))

	f.backend = &models.Position{Name: "Backend Engineer", DepartmentID: f.engineering.ID}
	require.NoError(t, f.repos.Positions.CreatePosition(ctx, f.backend))
	f.qa = &models.Position{Name: "QA Engineer", DepartmentID: f.engineering.ID}
	require.NoError(t, f.repos.Positions.CreatePosition(ctx, f.qa))
	f.account = &models.Position{Name: "Account Executive", DepartmentID: f.sales.ID}
	require.NoError(t, f.repos.Positions.CreatePosition(ctx, f.account))
	return f
}

func (f *fixture) addEmployee(t *testing.T, name, email string, dept *models.Department, pos *models.Position, salary float64) *models.Employee {
	t.Helper()
	e := &models.Employee{
		Name:         name,
		Email:        email,
		Phone:        "0812345678",
		DOB:          time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Address:      "Jl. Merdeka 1",
		DepartmentID: dept.ID,
		PositionID:   pos.ID,
		StartDate:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Salary:       salary,
	}
	require.NoError(t, f.repos.Employees.CreateEmployee(context.Background(), e))
	return e
}

func TestDepartmentUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repos.Departments.CreateDepartment(ctx, &models.Department{Name: "Engineering"})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, f.repos.Departments.CreateDepartment(ctx, &models.Department{Name: "engineering"}))

	err = f.repos.Departments.UpdateDepartment(ctx, f.sales.ID, "Engineering")
	require.ErrorIs(t, err, repository.ErrDuplicate)

	err = f.repos.Departments.UpdateDepartment(ctx, primitive.NewObjectID(), "Nowhere")
	require.ErrorIs(t, err, repository.ErrNotFound)

	found, err := f.repos.Departments.FindDepartmentByName(ctx, "Missing")
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestDeleteRefusedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.addEmployee(t, "Ana", "ana@example.com", f.engineering, f.backend, 100)

	require.ErrorIs(t, f.repos.Departments.DeleteDepartment(ctx, f.engineering.ID), repository.ErrInUse)
	require.ErrorIs(t, f.repos.Positions.DeletePosition(ctx, f.backend.ID), repository.ErrInUse)

	require.NoError(t, f.repos.Employees.DeleteEmployee(ctx, e.ID))
	require.NoError(t, f.repos.Positions.DeletePosition(ctx, f.backend.ID))
	require.NoError(t, f.repos.Positions.DeletePosition(ctx, f.qa.ID))
	require.NoError(t, f.repos.Departments.DeleteDepartment(ctx, f.engineering.ID))

	require.ErrorIs(t, f.repos.Departments.DeleteDepartment(ctx, f.engineering.ID), repository.ErrNotFound)
	require.ErrorIs(t, f.repos.Employees.DeleteEmployee(ctx, e.ID), repository.ErrNotFound)
}

func TestListEmployeesJoinsSortsAndPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee(t, "Zed", "zed@example.com", f.sales, f.account, 10)
	f.addEmployee(t, "Budi", "budi@example.com", f.engineering, f.backend, 20)
	f.addEmployee(t, "Ana", "ana@example.com", f.engineering, f.qa, 30)
	f.addEmployee(t, "Ana", "ana2@example.com", f.engineering, f.backend, 40)

	all, total, err := f.repos.Employees.ListEmployees(ctx, models.EmployeeFilter{}, query.Page{})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Equal(t, []string{"Ana", "Budi", "Ana", "Zed"}, names(all))
	require.Equal(t, "Backend Engineer", all[0].PositionName)
	require.Equal(t, "QA Engineer", all[2].PositionName)
	require.Equal(t, "Sales", all[3].DepartmentName)

	page, total, err := f.repos.Employees.ListEmployees(ctx, models.EmployeeFilter{}, query.Page{ItemsPerPage: 2, ItemOffset: 1})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Equal(t, all[1:3], page)
}

func TestListEmployeesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee(t, "Ana Maria", "ana@example.com", f.engineering, f.backend, 1)
	f.addEmployee(t, "Mariana", "mariana@example.com", f.sales, f.account, 1)
	f.addEmployee(t, "Budi", "budi@example.com", f.engineering, f.qa, 1)

	byName, _, err := f.repos.Employees.ListEmployees(ctx, models.EmployeeFilter{Name: "MARIA"}, query.Page{})
	require.NoError(t, err)
	require.Len(t, byName, 2)

	byDept, _, err := f.repos.Employees.ListEmployees(ctx, models.EmployeeFilter{DepartmentID: &f.engineering.ID}, query.Page{})
	require.NoError(t, err)
	require.Len(t, byDept, 2)
	for _, v := range byDept {
		require.Equal(t, "Engineering", v.DepartmentName)
	}

	byPos, total, err := f.repos.Employees.ListEmployees(ctx, models.EmployeeFilter{PositionID: &f.qa.ID}, query.Page{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "QA Engineer", byPos[0].PositionName)
}

func TestListEmployeesDropsDanglingReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee(t, "Ana", "ana@example.com", f.engineering, f.backend, 1)

	orphan := &models.Position{ID: primitive.NewObjectID(), Name: "Ghost"}
	f.addEmployee(t, "Ghost", "ghost@example.com", f.engineering, orphan, 1)

	views, total, err := f.repos.Employees.ListEmployees(ctx, models.EmployeeFilter{}, query.Page{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, []string{"Ana"}, names(views))

	count, err := f.repos.Employees.CountEmployees(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestEmployeeEmailUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.addEmployee(t, "Ana", "ana@example.com", f.engineering, f.backend, 1)
	budi := f.addEmployee(t, "Budi", "budi@example.com", f.engineering, f.backend, 1)

	dup := *budi
	err := f.repos.Employees.CreateEmployee(ctx, &dup)
	require.ErrorIs(t, err, repository.ErrDuplicate)

	update := *budi
	update.Email = ana.Email
	require.ErrorIs(t, f.repos.Employees.UpdateEmployee(ctx, budi.ID, &update), repository.ErrDuplicate)

	update.Email = "budi.new@example.com"
	require.NoError(t, f.repos.Employees.UpdateEmployee(ctx, budi.ID, &update))
	stored, err := f.repos.Employees.GetEmployeeByID(ctx, budi.ID)
	require.NoError(t, err)
	require.Equal(t, "budi.new@example.com", stored.Email)
	require.Equal(t, budi.CreatedAt, stored.CreatedAt)
}

func TestCountsAndSalaryTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	total, err := f.repos.Employees.SalaryTotal(ctx)
	require.NoError(t, err)
	require.Zero(t, total)

	f.addEmployee(t, "Ana", "ana@example.com", f.engineering, f.backend, 1500.5)
	f.addEmployee(t, "Budi", "budi@example.com", f.engineering, f.backend, 2000)

	total, err = f.repos.Employees.SalaryTotal(ctx)
	require.NoError(t, err)
	require.InDelta(t, 3500.5, total, 1e-9)

	depts, deptTotal, err := f.repos.Departments.ListWithEmployeeCount(ctx, query.Page{})
	require.NoError(t, err)
	require.Equal(t, int64(2), deptTotal)
	require.Equal(t, "Engineering", depts[0].Name)
	require.Equal(t, int64(2), depts[0].EmployeeCount)
	require.Equal(t, "Sales", depts[1].Name)
	require.Zero(t, depts[1].EmployeeCount)

	positions, posTotal, err := f.repos.Positions.ListWithEmployeeCount(ctx, query.Page{ItemsPerPage: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), posTotal)
	require.Len(t, positions, 2)
	require.Equal(t, "Backend Engineer", positions[0].Name)
	require.Equal(t, int64(2), positions[0].EmployeeCount)
	require.Equal(t, "QA Engineer", positions[1].Name)
}

func TestAdmins(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()

	first := &models.Administrator{Username: "root", Email: "root@example.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, repos.Admins.CreateAdmin(ctx, first))
	require.ErrorIs(t, repos.Admins.CreateAdmin(ctx, &models.Administrator{Email: "root@example.com"}), repository.ErrDuplicate)
	require.NoError(t, repos.Admins.CreateAdmin(ctx, &models.Administrator{Username: "hr", Email: "hr@example.com", Role: models.RoleStaff}))

	admins, err := repos.Admins.GetAllAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	require.Equal(t, "root", admins[0].Username)
	require.Empty(t, admins[0].Password)

	count, err := repos.Admins.CountAdmins(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	found, err := repos.Admins.FindAdminByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, "hash", found.Password)
}

func TestCheckEmployeeReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok := &models.Employee{DepartmentID: f.engineering.ID, PositionID: f.backend.ID}
	require.NoError(t, repository.CheckEmployeeReferences(ctx, f.repos.Departments, f.repos.Positions, ok))

	mismatch := &models.Employee{DepartmentID: f.sales.ID, PositionID: f.backend.ID}
	require.ErrorIs(t, repository.CheckEmployeeReferences(ctx, f.repos.Departments, f.repos.Positions, mismatch), repository.ErrInvalidReference)

	missing := &models.Employee{DepartmentID: primitive.NewObjectID(), PositionID: f.backend.ID}
	require.ErrorIs(t, repository.CheckEmployeeReferences(ctx, f.repos.Departments, f.repos.Positions, missing), repository.ErrNotFound)
}

func names(views []models.EmployeeView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}
