package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hr-records/config/middleware"
	"hr-records/models"
	"hr-records/pkg/importer"
	"hr-records/pkg/metrics"
	util "hr-records/pkg/utils"
	"hr-records/repository"
)

const (
	msgImportInvalid     = "Data import is invalid"
	msgImportUnsupported = "Unsupported file type, upload a CSV or XLSX file"
)

type ImportConfig struct {
	TmpDir   string
	MaxBytes int64
	Timeout  time.Duration
}

type ImportHandler struct {
	base
	empRepo  repository.EmployeeRepository
	deptRepo repository.DepartmentRepository
	posRepo  repository.PositionRepository
	cfg      ImportConfig
	metrics  *metrics.Metrics
}

func NewImportHandler(repos repository.Repositories, cfg ImportConfig, m *metrics.Metrics) *ImportHandler {
	if cfg.TmpDir == "" {
		cfg.TmpDir = os.TempDir()
	}
	return &ImportHandler{
		base:     newBase(cfg.Timeout),
		empRepo:  repos.Employees,
		deptRepo: repos.Departments,
		posRepo:  repos.Positions,
		cfg:      cfg,
		metrics:  m,
	}
}

// ImportEmployees godoc
// @Summary Bulk import employees
// @Description Rows are inserted in order. The first invalid row (400) or duplicate email (409) stops the import;
// @Description rows inserted before it are kept and data reports {inserted, row}. The uploaded file is never kept (admin only)
// @Tags Employees
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV or XLSX with a header row"
// @Success 201 {object} models.ImportResponse
// @Failure 400 {object} models.ImportResponse
// @Failure 409 {object} models.ImportResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /employees/import [post]
func (h *ImportHandler) ImportEmployees(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return invalidInput(c, err)
	}
	if h.cfg.MaxBytes > 0 && file.Size > h.cfg.MaxBytes {
		return fail(c, fiber.StatusBadRequest, fmt.Sprintf("Import file is larger than %d bytes", h.cfg.MaxBytes))
	}

	tmpPath := filepath.Join(h.cfg.TmpDir, uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)))
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Error().Err(err).Str("path", tmpPath).Msg("failed to remove import file")
		}
	}()

	if err := c.SaveFile(file, tmpPath); err != nil {
		return internalError(c, err, "failed to save import file")
	}

	kind, err := importer.DetectKind(tmpPath)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedType) {
			log.Warn().Err(err).Str("filename", file.Filename).Msg("rejected import file")
			return fail(c, fiber.StatusBadRequest, msgImportUnsupported)
		}
		return internalError(c, err, "failed to detect import file type")
	}

	records, err := readImportFile(tmpPath, kind)
	if err != nil {
		log.Warn().Err(err).Str("filename", file.Filename).Msg("unreadable import file")
		return fail(c, fiber.StatusBadRequest, msgImportInvalid)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	result := models.ImportResult{}
	for _, record := range records {
		employee, err := recordToEmployee(record)
		if err != nil {
			h.metrics.ImportRow(metrics.OutcomeInvalid)
			return h.abort(c, fiber.StatusBadRequest, msgImportInvalid, result, record.Row, err)
		}

		existing, err := h.empRepo.FindEmployeeByEmail(ctx, employee.Email)
		if err != nil {
			return internalError(c, err, "failed to check employee email")
		}
		if existing != nil {
			h.metrics.ImportRow(metrics.OutcomeDuplicate)
			return h.abort(c, fiber.StatusConflict, "Email already exists, try another one", result, record.Row, nil)
		}

		if err := repository.CheckEmployeeReferences(ctx, h.deptRepo, h.posRepo, employee); err != nil {
			if _, _, ok := referenceStatus(err); ok {
				h.metrics.ImportRow(metrics.OutcomeInvalid)
				return h.abort(c, fiber.StatusBadRequest, msgImportInvalid, result, record.Row, err)
			}
			return internalError(c, err, "failed to check employee references")
		}

		if err := h.empRepo.CreateEmployee(ctx, employee); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				h.metrics.ImportRow(metrics.OutcomeDuplicate)
				return h.abort(c, fiber.StatusConflict, "Email already exists, try another one", result, record.Row, nil)
			}
			return internalError(c, err, "failed to import employee")
		}
		h.metrics.ImportRow(metrics.OutcomeInserted)
		result.Inserted++
	}

	log.Info().
		Str("request_id", middleware.RequestID(c)).
		Int("inserted", result.Inserted).
		Msg("employee import finished")
	return success(c, fiber.StatusCreated, "Imported employees successfully", result)
}

func (h *ImportHandler) abort(c *fiber.Ctx, status int, message string, result models.ImportResult, row int, cause error) error {
	result.Row = row
	log.Warn().
		Err(cause).
		Str("request_id", middleware.RequestID(c)).
		Int("row", row).
		Int("inserted", result.Inserted).
		Msg("employee import stopped")
	return failWithData(c, status, message, result)
}

func readImportFile(path string, kind importer.Kind) ([]importer.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importer.Read(f, kind)
}

func recordToEmployee(record importer.Record) (*models.Employee, error) {
	if record.Err != nil {
		return nil, record.Err
	}
	payload := record.Payload
	payload.Normalize()
	if verr := util.ValidateStruct(payload); verr != nil {
		return nil, verr
	}
	return payload.ToEmployee()
}

// DownloadTemplate godoc
// @Summary Import template
// @Description An empty CSV holding only the header row the import expects
// @Tags Employees
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /employees/import/template [get]
func (h *ImportHandler) DownloadTemplate(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="employees.csv"`)
	return c.Send(importer.WriteTemplate())
}
