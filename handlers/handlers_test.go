package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"hr-records/models"
	"hr-records/pkg/metrics"
	"hr-records/repository"
	"hr-records/repository/memstore"
)

type testEnv struct {
	app    *fiber.App
	repos  repository.Repositories
	tmpDir string
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestEnv wires the handlers without auth against the in-memory store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repos := memstore.New().Repositories()
	tmpDir := t.TempDir()
	timeout := time.Second

	dept := NewDepartmentHandler(repos.Departments, timeout)
	pos := NewPositionHandler(repos.Positions, repos.Departments, timeout)
	emp := NewEmployeeHandler(repos, timeout)
	admin := NewAdminHandler(repos.Admins, timeout)
	imp := NewImportHandler(repos, ImportConfig{TmpDir: tmpDir, MaxBytes: 1 << 20, Timeout: timeout}, metrics.New())

	app := fiber.New()
	app.Post("/departments", dept.CreateDepartment)
	app.Get("/departments", dept.GetAllDepartments)
	app.Get("/departments/employee-count", dept.GetDepartmentsWithEmployeeCount)
	app.Get("/departments/count", dept.GetDepartmentCount)
	app.Get("/departments/:id", dept.GetDepartmentByID)
	app.Put("/departments/:id", dept.UpdateDepartment)
	app.Delete("/departments/:id", dept.DeleteDepartment)

	app.Post("/positions", pos.CreatePosition)
	app.Get("/positions", pos.GetAllPositions)
	app.Get("/positions/employee-count", pos.GetPositionsWithEmployeeCount)
	app.Get("/positions/:id", pos.GetPositionByID)
	app.Delete("/positions/:id", pos.DeletePosition)

	app.Post("/employees", emp.CreateEmployee)
	app.Get("/employees", emp.GetEmployees)
	app.Get("/employees/search", emp.SearchEmployees)
	app.Get("/employees/count", emp.GetEmployeeCount)
	app.Get("/employees/salary-total", emp.GetSalaryTotal)
	app.Post("/employees/import", imp.ImportEmployees)
	app.Get("/employees/import/template", imp.DownloadTemplate)
	app.Get("/employees/:id", emp.GetEmployeeByID)
	app.Put("/employees/:id", emp.UpdateEmployee)
	app.Delete("/employees/:id", emp.DeleteEmployee)

	app.Post("/admins", admin.CreateAdmin)
	app.Get("/admins", admin.GetAdmins)
	app.Get("/admins/count", admin.GetAdminCount)

	return &testEnv{app: app, repos: repos, tmpDir: tmpDir}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func (e *testEnv) createDepartment(t *testing.T, name string) models.Department {
	t.Helper()
	status, env := e.do(t, "POST", "/departments", fiber.Map{"department": name})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	return decode[models.Department](t, env.Data)
}

func (e *testEnv) createPosition(t *testing.T, name string, dept models.Department) models.Position {
	t.Helper()
	status, env := e.do(t, "POST", "/positions", fiber.Map{"position": name, "department_id": dept.ID.Hex()})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	return decode[models.Position](t, env.Data)
}

func employeeBody(name, email string, dept models.Department, pos models.Position) fiber.Map {
	return fiber.Map{
		"name":          name,
		"email":         email,
		"phone":         "+62 812 3456 789",
		"dob":           "1990-01-02",
		"address":       "Jl. Merdeka 1",
		"department_id": dept.ID.Hex(),
		"position_id":   pos.ID.Hex(),
		"start_date":    "2020-05-01",
		"salary":        7500,
	}
}

func (e *testEnv) createEmployee(t *testing.T, name, email string, dept models.Department, pos models.Position) models.Employee {
	t.Helper()
	status, env := e.do(t, "POST", "/employees", employeeBody(name, email, dept, pos))
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	return decode[models.Employee](t, env.Data)
}

// importRequest builds a multipart upload of content under the given file name.
func importRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/employees/import", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func csvFile(dept models.Department, pos models.Position, emails ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("name,email,phone,dob,address,department_id,position_id,start_date,salary\n")
	for i, email := range emails {
		fmt.Fprintf(&buf, "Person %d,%s,0812345678%d,1990-01-02,Jl. Merdeka %d,%s,%s,2020-05-01,%d\n",
			i+1, email, i, i+1, dept.ID.Hex(), pos.ID.Hex(), 5000+i)
	}
	return buf.Bytes()
}

func requireDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
