package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hr-records/models"
)

type employeePage struct {
	Data      []models.EmployeeView `json:"data"`
	TotalPage int64                 `json:"totalPage"`
}

type orgFixture struct {
	eng, sales       models.Department
	backend, account models.Position
}

func (e *testEnv) org(t *testing.T) orgFixture {
	t.Helper()
	f := orgFixture{
		eng:   e.createDepartment(t, "Engineering"),
		sales: e.createDepartment(t, "Sales"),
	}
	f.backend = e.createPosition(t, "Backend Engineer", f.eng)
	f.account = e.createPosition(t, "Account Executive", f.sales)
	return f
}

func TestEmployeeJoinedListing(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, "POST", "/departments", fiber.Map{"department": "Engineering"})
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = env.do(t, "POST", "/departments", fiber.Map{"department": "Engineering"})
	require.Equal(t, fiber.StatusConflict, status)

	eng, err := env.repos.Departments.FindDepartmentByName(t.Context(), "Engineering")
	require.NoError(t, err)
	backend := env.createPosition(t, "Backend Engineer", *eng)
	created := env.createEmployee(t, "Ana", "ana@example.com", *eng, backend)

	status, resp := env.do(t, "GET", "/employees", nil)
	require.Equal(t, fiber.StatusOK, status)
	views := decode[[]models.EmployeeView](t, resp.Data)
	require.Len(t, views, 1)
	require.Equal(t, created.ID, views[0].ID)
	require.Equal(t, "Engineering", views[0].DepartmentName)
	require.Equal(t, "Backend Engineer", views[0].PositionName)
}

func TestCreateEmployeeValidation(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)

	cases := map[string]func(fiber.Map){
		"missing name":   func(b fiber.Map) { delete(b, "name") },
		"bad email":      func(b fiber.Map) { b["email"] = "not-an-email" },
		"bad phone":      func(b fiber.Map) { b["phone"] = "call me" },
		"bad dob":        func(b fiber.Map) { b["dob"] = "02/01/1990" },
		"bad start date": func(b fiber.Map) { b["start_date"] = "yesterday" },
		"negative pay":   func(b fiber.Map) { b["salary"] = -1 },
		"huge pay":       func(b fiber.Map) { b["salary"] = 1e300 },
		"text pay":       func(b fiber.Map) { b["salary"] = "lots" },
		"bad dept id":    func(b fiber.Map) { b["department_id"] = "eng" },
		"blank address":  func(b fiber.Map) { b["address"] = "   " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			body := employeeBody("Ana", "ana@example.com", f.eng, f.backend)
			mutate(body)
			status, resp := env.do(t, "POST", "/employees", body)
			require.Equal(t, fiber.StatusBadRequest, status)
			require.Equal(t, msgInvalidInput, resp.Message)
		})
	}

	status, resp := env.do(t, "GET", "/employees/count", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, int64(0), decode[int64](t, resp.Data))
}

func TestCreateEmployeeConflictsAndReferences(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)
	env.createEmployee(t, "Ana", "ana@example.com", f.eng, f.backend)

	status, resp := env.do(t, "POST", "/employees", employeeBody("Other Ana", "ana@example.com", f.eng, f.backend))
	require.Equal(t, fiber.StatusConflict, status)
	require.Equal(t, "Email already exists, try another one", resp.Message)

	ghost := models.Department{ID: primitive.NewObjectID()}
	status, _ = env.do(t, "POST", "/employees", employeeBody("Budi", "budi@example.com", ghost, f.backend))
	require.Equal(t, fiber.StatusNotFound, status)

	status, resp = env.do(t, "POST", "/employees", employeeBody("Budi", "budi@example.com", f.sales, f.backend))
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "Position does not belong to department", resp.Message)
}

func TestGetEmployeesPaginated(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)
	env.createEmployee(t, "Citra", "citra@example.com", f.eng, f.backend)
	env.createEmployee(t, "Ana", "ana@example.com", f.eng, f.backend)
	env.createEmployee(t, "Dewi", "dewi@example.com", f.sales, f.account)

	status, resp := env.do(t, "GET", "/employees?itemsPerPage=2&itemOffset=0", nil)
	require.Equal(t, fiber.StatusOK, status)
	page := decode[employeePage](t, resp.Data)
	require.Equal(t, int64(2), page.TotalPage)
	require.Len(t, page.Data, 2)
	require.Equal(t, "Ana", page.Data[0].Name)
	require.Equal(t, "Citra", page.Data[1].Name)

	status, resp = env.do(t, "GET", "/employees?itemsPerPage=2&itemOffset=2", nil)
	require.Equal(t, fiber.StatusOK, status)
	page = decode[employeePage](t, resp.Data)
	require.Len(t, page.Data, 1)
	require.Equal(t, "Dewi", page.Data[0].Name)

	status, resp = env.do(t, "GET", "/employees?itemsPerPage=9223372036854775807&itemOffset=1", nil)
	require.Equal(t, fiber.StatusOK, status)
	page = decode[employeePage](t, resp.Data)
	require.Equal(t, int64(1), page.TotalPage)
	require.Len(t, page.Data, 2)
	require.Equal(t, "Citra", page.Data[0].Name)

	status, resp = env.do(t, "GET", "/employees/search?itemsPerPage=9223372036854775806", nil)
	require.Equal(t, fiber.StatusOK, status)
	page = decode[employeePage](t, resp.Data)
	require.Equal(t, int64(1), page.TotalPage)
	require.Len(t, page.Data, 3)

	status, resp = env.do(t, "GET", "/departments/employee-count?itemsPerPage=9223372036854775807&itemOffset=9223372036854775807", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, int64(1), decode[struct {
		TotalPage int64 `json:"totalPage"`
	}](t, resp.Data).TotalPage)

	for _, q := range []string{"itemsPerPage=-1", "itemsPerPage=abc", "itemsPerPage=2&itemOffset=-3", "itemsPerPage=9223372036854775808", "itemsPerPage=1.5"} {
		status, resp = env.do(t, "GET", "/employees?"+q, nil)
		require.Equal(t, fiber.StatusBadRequest, status, q)
		require.Equal(t, msgInvalidPage, resp.Message)
	}
}

func TestSearchEmployees(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)
	env.createEmployee(t, "Ana Wijaya", "ana@example.com", f.eng, f.backend)
	env.createEmployee(t, "Budi Santoso", "budi@example.com", f.eng, f.backend)
	env.createEmployee(t, "Diana Putri", "diana@example.com", f.sales, f.account)

	status, resp := env.do(t, "GET", "/employees/search?name=ANA", nil)
	require.Equal(t, fiber.StatusOK, status)
	page := decode[employeePage](t, resp.Data)
	require.Len(t, page.Data, 2)
	require.Equal(t, int64(1), page.TotalPage)

	status, resp = env.do(t, "GET", "/employees/search?name=ana&department_id="+f.sales.ID.Hex(), nil)
	require.Equal(t, fiber.StatusOK, status)
	page = decode[employeePage](t, resp.Data)
	require.Len(t, page.Data, 1)
	require.Equal(t, "Diana Putri", page.Data[0].Name)

	status, resp = env.do(t, "GET", "/employees/search?position_id="+f.backend.ID.Hex()+"&itemsPerPage=1", nil)
	require.Equal(t, fiber.StatusOK, status)
	page = decode[employeePage](t, resp.Data)
	require.Len(t, page.Data, 1)
	require.Equal(t, int64(2), page.TotalPage)

	// regex metacharacters are matched literally
	status, resp = env.do(t, "GET", "/employees/search?name=.*", nil)
	require.Equal(t, fiber.StatusOK, status)
	page = decode[employeePage](t, resp.Data)
	require.Empty(t, page.Data)
	require.Zero(t, page.TotalPage)

	status, _ = env.do(t, "GET", "/employees/search?department_id=sales", nil)
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestEmployeeCountAndSalaryTotal(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, "GET", "/employees/salary-total", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Zero(t, decode[float64](t, resp.Data))

	f := env.org(t)
	env.createEmployee(t, "Ana", "ana@example.com", f.eng, f.backend)
	env.createEmployee(t, "Budi", "budi@example.com", f.sales, f.account)

	status, resp = env.do(t, "GET", "/employees/salary-total", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "Get total salary successfully", resp.Message)
	require.InDelta(t, 15000, decode[float64](t, resp.Data), 0.001)

	status, resp = env.do(t, "GET", "/employees/count", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, int64(2), decode[int64](t, resp.Data))
}

func TestUpdateEmployee(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)
	ana := env.createEmployee(t, "Ana", "ana@example.com", f.eng, f.backend)
	env.createEmployee(t, "Budi", "budi@example.com", f.eng, f.backend)

	body := employeeBody("Ana W.", "ana@example.com", f.sales, f.account)
	body["salary"] = 9000
	status, resp := env.do(t, "PUT", "/employees/"+ana.ID.Hex(), body)
	require.Equal(t, fiber.StatusOK, status)
	updated := decode[models.Employee](t, resp.Data)
	require.Equal(t, "Ana W.", updated.Name)
	require.Equal(t, f.sales.ID, updated.DepartmentID)

	status, resp = env.do(t, "GET", "/employees/"+ana.ID.Hex(), nil)
	require.Equal(t, fiber.StatusOK, status)
	stored := decode[models.Employee](t, resp.Data)
	require.Equal(t, 9000.0, stored.Salary)
	require.Equal(t, f.account.ID, stored.PositionID)

	status, _ = env.do(t, "PUT", "/employees/"+ana.ID.Hex(), employeeBody("Ana", "budi@example.com", f.eng, f.backend))
	require.Equal(t, fiber.StatusConflict, status)

	status, _ = env.do(t, "PUT", "/employees/"+ana.ID.Hex(), employeeBody("Ana", "ana@example.com", f.eng, f.account))
	require.Equal(t, fiber.StatusBadRequest, status)

	status, resp = env.do(t, "PUT", "/employees/"+primitive.NewObjectID().Hex(), employeeBody("X", "x@example.com", f.eng, f.backend))
	require.Equal(t, fiber.StatusNotFound, status)
	require.Equal(t, "Employee not found", resp.Message)

	status, _ = env.do(t, "PUT", "/employees/123", employeeBody("X", "x@example.com", f.eng, f.backend))
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestDeleteEmployee(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)
	ana := env.createEmployee(t, "Ana", "ana@example.com", f.eng, f.backend)

	status, _ := env.do(t, "DELETE", "/employees/"+ana.ID.Hex(), nil)
	require.Equal(t, fiber.StatusOK, status)

	status, resp := env.do(t, "GET", "/employees/"+ana.ID.Hex(), nil)
	require.Equal(t, fiber.StatusNotFound, status)
	require.Equal(t, models.StatusError, resp.Status)

	status, _ = env.do(t, "DELETE", "/employees/"+ana.ID.Hex(), nil)
	require.Equal(t, fiber.StatusNotFound, status)

	// the position is free again
	status, _ = env.do(t, "DELETE", "/positions/"+f.backend.ID.Hex(), nil)
	require.Equal(t, fiber.StatusOK, status)
}
