package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hr-records/models"
	"hr-records/pkg/importer"
)

func TestImportStopsAtDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)
	existing := env.createEmployee(t, "Ana", "ana@example.com", f.eng, f.backend)

	content := csvFile(f.eng, f.backend, "first@example.com", existing.Email, "third@example.com")
	status, resp := env.send(t, importRequest(t, "employees.csv", content))
	require.Equal(t, fiber.StatusConflict, status)
	require.Equal(t, models.StatusError, resp.Status)

	result := decode[models.ImportResult](t, resp.Data)
	require.Equal(t, 1, result.Inserted)
	require.Equal(t, 2, result.Row)

	first, err := env.repos.Employees.FindEmployeeByEmail(t.Context(), "first@example.com")
	require.NoError(t, err)
	require.NotNil(t, first)
	third, err := env.repos.Employees.FindEmployeeByEmail(t.Context(), "third@example.com")
	require.NoError(t, err)
	require.Nil(t, third)

	requireDirEmpty(t, env.tmpDir)
}

func TestImportCSV(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)

	content := csvFile(f.eng, f.backend, "a@example.com", "b@example.com", "c@example.com")
	status, resp := env.send(t, importRequest(t, "Employees.CSV", content))
	require.Equal(t, fiber.StatusCreated, status, resp.Message)
	require.Equal(t, 3, decode[models.ImportResult](t, resp.Data).Inserted)

	status, resp = env.do(t, "GET", "/employees", nil)
	require.Equal(t, fiber.StatusOK, status)
	views := decode[[]models.EmployeeView](t, resp.Data)
	require.Len(t, views, 3)
	for _, v := range views {
		require.Equal(t, "Engineering", v.DepartmentName)
	}

	requireDirEmpty(t, env.tmpDir)
}

func TestImportXLSX(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)

	book := excelize.NewFile()
	defer book.Close()
	sheet := book.GetSheetName(0)
	header := make([]interface{}, len(importer.Columns))
	for i, col := range importer.Columns {
		header[i] = col
	}
	require.NoError(t, book.SetSheetRow(sheet, "A1", &header))
	row := []interface{}{"Dewi", "dewi@example.com", "081234567890", "1991-03-04", "Jl. Sudirman 2",
		f.sales.ID.Hex(), f.account.ID.Hex(), "2021-07-01", "6500"}
	require.NoError(t, book.SetSheetRow(sheet, "A2", &row))
	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	status, resp := env.send(t, importRequest(t, "employees.xlsx", buf.Bytes()))
	require.Equal(t, fiber.StatusCreated, status, resp.Message)
	require.Equal(t, 1, decode[models.ImportResult](t, resp.Data).Inserted)

	dewi, err := env.repos.Employees.FindEmployeeByEmail(t.Context(), "dewi@example.com")
	require.NoError(t, err)
	require.NotNil(t, dewi)
	require.Equal(t, 6500.0, dewi.Salary)

	requireDirEmpty(t, env.tmpDir)
}

func TestImportInvalidRow(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)

	content := csvFile(f.eng, f.backend, "a@example.com", "broken-email")
	status, resp := env.send(t, importRequest(t, "employees.csv", content))
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, msgImportInvalid, resp.Message)
	result := decode[models.ImportResult](t, resp.Data)
	require.Equal(t, 1, result.Inserted)
	require.Equal(t, 2, result.Row)

	requireDirEmpty(t, env.tmpDir)
}

func TestImportRejectsUnusableSalary(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)

	for _, salary := range []string{"Inf", "+Inf", "infinity", "NaN", "lots", "1e300"} {
		t.Run(salary, func(t *testing.T) {
			content := csvFile(f.eng, f.backend, "ok-"+salary+"@example.com")
			content = append(content, fmt.Sprintf(
				"Bad Salary,bad-%s@example.com,0812345679,1990-01-02,Jl. Merdeka 9,%s,%s,2020-05-01,%s\n",
				salary, f.eng.ID.Hex(), f.backend.ID.Hex(), salary)...)

			status, resp := env.send(t, importRequest(t, "employees.csv", content))
			require.Equal(t, fiber.StatusBadRequest, status)
			require.Equal(t, msgImportInvalid, resp.Message)
			result := decode[models.ImportResult](t, resp.Data)
			require.Equal(t, 1, result.Inserted)
			require.Equal(t, 2, result.Row)
			requireDirEmpty(t, env.tmpDir)
		})
	}

	// listings still encode after the rejected rows
	for _, path := range []string{"/employees", "/employees/salary-total", "/employees/search?name=salary"} {
		status, _ := env.do(t, "GET", path, nil)
		require.Equal(t, fiber.StatusOK, status, path)
	}
}

func TestImportReferenceMismatch(t *testing.T) {
	env := newTestEnv(t)
	f := env.org(t)

	content := csvFile(f.sales, f.backend, "a@example.com")
	status, resp := env.send(t, importRequest(t, "employees.csv", content))
	require.Equal(t, fiber.StatusBadRequest, status)
	result := decode[models.ImportResult](t, resp.Data)
	require.Zero(t, result.Inserted)
	require.Equal(t, 1, result.Row)
}

func TestImportRejectsOtherFiles(t *testing.T) {
	env := newTestEnv(t)

	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	status, resp := env.send(t, importRequest(t, "employees.pdf", pdf))
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, msgImportUnsupported, resp.Message)
	requireDirEmpty(t, env.tmpDir)

	status, resp = env.send(t, importRequest(t, "employees.csv", []byte("name,email\nAna,ana@example.com\n")))
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, msgImportInvalid, resp.Message)
	requireDirEmpty(t, env.tmpDir)

	status, _ = env.do(t, "POST", "/employees/import", fiber.Map{"file": "nope"})
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestImportTooLarge(t *testing.T) {
	env := newTestEnv(t)

	content := bytes.Repeat([]byte("a"), 2<<20)
	status, resp := env.send(t, importRequest(t, "employees.csv", content))
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Contains(t, resp.Message, "larger than")
	requireDirEmpty(t, env.tmpDir)
}

func TestDownloadTemplate(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest("GET", "/employees/import/template", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, importer.WriteTemplate(), body)
}
