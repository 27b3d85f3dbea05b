package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hr-records/models"
	util "hr-records/pkg/utils"
	"hr-records/repository"
)

type EmployeeHandler struct {
	base
	empRepo  repository.EmployeeRepository
	deptRepo repository.DepartmentRepository
	posRepo  repository.PositionRepository
}

func NewEmployeeHandler(repos repository.Repositories, timeout time.Duration) *EmployeeHandler {
	return &EmployeeHandler{
		base:     newBase(timeout),
		empRepo:  repos.Employees,
		deptRepo: repos.Departments,
		posRepo:  repos.Positions,
	}
}

// bindEmployee parses, trims and validates the body, then converts it to a document.
func bindEmployee(c *fiber.Ctx) (*models.Employee, error) {
	var payload models.EmployeePayload
	if err := c.BodyParser(&payload); err != nil {
		return nil, err
	}
	payload.Normalize()
	if verr := util.ValidateStruct(payload); verr != nil {
		return nil, verr
	}
	return payload.ToEmployee()
}

// referenceStatus maps a failed reference check onto a response. ok is false when
// err is not a reference problem.
func referenceStatus(err error) (status int, message string, ok bool) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound, "Department or position does not exist", true
	case errors.Is(err, repository.ErrInvalidReference):
		return fiber.StatusBadRequest, "Position does not belong to department", true
	}
	return 0, "", false
}

// CreateEmployee godoc
// @Summary Create employee
// @Description The department and position must exist and the position must belong to the department (admin only)
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee body models.EmployeePayload true "New employee"
// @Success 201 {object} models.EmployeeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Email already exists"
// @Failure 500 {object} models.ErrorResponse
// @Router /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	employee, err := bindEmployee(c)
	if err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	existing, err := h.empRepo.FindEmployeeByEmail(ctx, employee.Email)
	if err != nil {
		return internalError(c, err, "failed to check employee email")
	}
	if existing != nil {
		return fail(c, fiber.StatusConflict, "Email already exists, try another one")
	}

	if err := repository.CheckEmployeeReferences(ctx, h.deptRepo, h.posRepo, employee); err != nil {
		if status, message, ok := referenceStatus(err); ok {
			return fail(c, status, message)
		}
		return internalError(c, err, "failed to check employee references")
	}

	if err := h.empRepo.CreateEmployee(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fail(c, fiber.StatusConflict, "Email already exists, try another one")
		}
		return internalError(c, err, "failed to create employee")
	}

	return success(c, fiber.StatusCreated, "Created employee successfully", employee)
}

// GetEmployees godoc
// @Summary List employees
// @Description Employees joined to their department and position names, sorted by department, position and name.
// @Description Without itemsPerPage data is the array, with it data is {data, totalPage}
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param itemsPerPage query int false "Page size, 0 for everything"
// @Param itemOffset query int false "Items to skip"
// @Success 200 {object} models.EmployeeListResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /employees [get]
func (h *EmployeeHandler) GetEmployees(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidPage)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	views, total, err := h.empRepo.ListEmployees(ctx, models.EmployeeFilter{}, page)
	if err != nil {
		return internalError(c, err, "failed to list employees")
	}
	return success(c, fiber.StatusOK, "Get employee successfully", listData(views, page, total))
}

// SearchEmployees godoc
// @Summary Search employees
// @Description name matches a case-insensitive substring, department_id and position_id match exactly
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param name query string false "Part of the employee name"
// @Param department_id query string false "Department ID"
// @Param position_id query string false "Position ID"
// @Param itemsPerPage query int false "Page size, 0 for everything"
// @Param itemOffset query int false "Items to skip"
// @Success 200 {object} models.EmployeeListResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /employees/search [get]
func (h *EmployeeHandler) SearchEmployees(c *fiber.Ctx) error {
	filter, err := parseEmployeeFilter(c)
	if err != nil {
		return invalidInput(c, err)
	}
	page, err := parsePage(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidPage)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	views, total, err := h.empRepo.ListEmployees(ctx, filter, page)
	if err != nil {
		return internalError(c, err, "failed to search employees")
	}
	return success(c, fiber.StatusOK, "Search employee successfully", pagedData(views, page, total))
}

func parseEmployeeFilter(c *fiber.Ctx) (models.EmployeeFilter, error) {
	filter := models.EmployeeFilter{Name: strings.TrimSpace(c.Query("name"))}

	parse := func(key string) (*primitive.ObjectID, error) {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			return nil, nil
		}
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}

	var err error
	if filter.DepartmentID, err = parse("department_id"); err != nil {
		return filter, err
	}
	if filter.PositionID, err = parse("position_id"); err != nil {
		return filter, err
	}
	return filter, nil
}

// GetEmployeeCount godoc
// @Summary Count employees
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CountResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /employees/count [get]
func (h *EmployeeHandler) GetEmployeeCount(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	total, err := h.empRepo.CountEmployees(ctx)
	if err != nil {
		return internalError(c, err, "failed to count employees")
	}
	return success(c, fiber.StatusOK, "Get employee count successfully", total)
}

// GetSalaryTotal godoc
// @Summary Sum of all salaries
// @Description 0 when there are no employees
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=number}
// @Failure 500 {object} models.ErrorResponse
// @Router /employees/salary-total [get]
func (h *EmployeeHandler) GetSalaryTotal(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	total, err := h.empRepo.SalaryTotal(ctx)
	if err != nil {
		return internalError(c, err, "failed to sum salaries")
	}
	return success(c, fiber.StatusOK, "Get total salary successfully", total)
}

// GetEmployeeByID godoc
// @Summary Get employee
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} models.EmployeeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /employees/{id} [get]
func (h *EmployeeHandler) GetEmployeeByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidID)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	employee, err := h.empRepo.GetEmployeeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Employee not found")
		}
		return internalError(c, err, "failed to get employee")
	}
	return success(c, fiber.StatusOK, "Get employee successfully", employee)
}

// UpdateEmployee godoc
// @Summary Replace employee
// @Description Every field is required, the stored record is overwritten (admin only)
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param employee body models.EmployeePayload true "Employee"
// @Success 200 {object} models.EmployeeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidID)
	}
	employee, err := bindEmployee(c)
	if err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	current, err := h.empRepo.GetEmployeeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Employee not found")
		}
		return internalError(c, err, "failed to get employee")
	}

	holder, err := h.empRepo.FindEmployeeByEmail(ctx, employee.Email)
	if err != nil {
		return internalError(c, err, "failed to check employee email")
	}
	if holder != nil && holder.ID != id {
		return fail(c, fiber.StatusConflict, "Email already exists, try another one")
	}

	if err := repository.CheckEmployeeReferences(ctx, h.deptRepo, h.posRepo, employee); err != nil {
		if status, message, ok := referenceStatus(err); ok {
			return fail(c, status, message)
		}
		return internalError(c, err, "failed to check employee references")
	}

	if err := h.empRepo.UpdateEmployee(ctx, id, employee); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, fiber.StatusNotFound, "Employee not found")
		case errors.Is(err, repository.ErrDuplicate):
			return fail(c, fiber.StatusConflict, "Email already exists, try another one")
		}
		return internalError(c, err, "failed to update employee")
	}
	employee.CreatedAt = current.CreatedAt

	return success(c, fiber.StatusOK, "Updated employee successfully", employee)
}

// DeleteEmployee godoc
// @Summary Delete employee
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidID)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.empRepo.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Employee not found")
		}
		return internalError(c, err, "failed to delete employee")
	}
	return success(c, fiber.StatusOK, "Deleted employee successfully", nil)
}
