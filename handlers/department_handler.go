package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"hr-records/models"
	util "hr-records/pkg/utils"
	"hr-records/repository"
)

type DepartmentHandler struct {
	base
	deptRepo repository.DepartmentRepository
}

func NewDepartmentHandler(deptRepo repository.DepartmentRepository, timeout time.Duration) *DepartmentHandler {
	return &DepartmentHandler{
		base:     newBase(timeout),
		deptRepo: deptRepo,
	}
}

// CreateDepartment godoc
// @Summary Create department
// @Description Adds a department. Names are unique and compared case-sensitively (admin only)
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param department body models.DepartmentPayload true "New department"
// @Success 201 {object} models.Envelope{data=models.Department}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Department already exists"
// @Failure 500 {object} models.ErrorResponse
// @Router /departments [post]
func (h *DepartmentHandler) CreateDepartment(c *fiber.Ctx) error {
	var payload models.DepartmentPayload
	if err := c.BodyParser(&payload); err != nil {
		return invalidInput(c, err)
	}
	payload.Normalize()
	if verr := util.ValidateStruct(payload); verr != nil {
		return invalidInput(c, verr)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	existing, err := h.deptRepo.FindDepartmentByName(ctx, payload.Department)
	if err != nil {
		return internalError(c, err, "failed to check department name")
	}
	if existing != nil {
		return fail(c, fiber.StatusConflict, "Department already exists")
	}

	department := models.Department{Name: payload.Department}
	if err := h.deptRepo.CreateDepartment(ctx, &department); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fail(c, fiber.StatusConflict, "Department already exists")
		}
		return internalError(c, err, "failed to create department")
	}

	return success(c, fiber.StatusCreated, "Department created successfully", department)
}

// GetAllDepartments godoc
// @Summary List departments
// @Description Lists every department sorted by name
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DepartmentListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /departments [get]
func (h *DepartmentHandler) GetAllDepartments(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	departments, err := h.deptRepo.GetAllDepartments(ctx)
	if err != nil {
		return internalError(c, err, "failed to list departments")
	}
	return success(c, fiber.StatusOK, "Get department successfully", departments)
}

// GetDepartmentsWithEmployeeCount godoc
// @Summary List departments with employee counts
// @Description Departments without employees are listed with a count of 0
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param itemsPerPage query int false "Page size, 0 for everything"
// @Param itemOffset query int false "Items to skip"
// @Success 200 {object} models.Envelope{data=[]models.DepartmentWithCount}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /departments/employee-count [get]
func (h *DepartmentHandler) GetDepartmentsWithEmployeeCount(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidPage)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	rows, total, err := h.deptRepo.ListWithEmployeeCount(ctx, page)
	if err != nil {
		return internalError(c, err, "failed to count employees per department")
	}
	return success(c, fiber.StatusOK, "Get department and count employee successfully", listData(rows, page, total))
}

// GetDepartmentCount godoc
// @Summary Count departments
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CountResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /departments/count [get]
func (h *DepartmentHandler) GetDepartmentCount(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	total, err := h.deptRepo.CountDocuments(ctx)
	if err != nil {
		return internalError(c, err, "failed to count departments")
	}
	return success(c, fiber.StatusOK, "Get department count successfully", total)
}

// GetDepartmentByID godoc
// @Summary Get department
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} models.Envelope{data=models.Department}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /departments/{id} [get]
func (h *DepartmentHandler) GetDepartmentByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidID)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	department, err := h.deptRepo.GetDepartmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Department not found")
		}
		return internalError(c, err, "failed to get department")
	}
	return success(c, fiber.StatusOK, "Get department successfully", department)
}

// UpdateDepartment godoc
// @Summary Rename department
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Param department body models.DepartmentPayload true "New name"
// @Success 200 {object} models.Envelope{data=models.Department}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /departments/{id} [put]
func (h *DepartmentHandler) UpdateDepartment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidID)
	}

	var payload models.DepartmentPayload
	if err := c.BodyParser(&payload); err != nil {
		return invalidInput(c, err)
	}
	payload.Normalize()
	if verr := util.ValidateStruct(payload); verr != nil {
		return invalidInput(c, verr)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	existing, err := h.deptRepo.FindDepartmentByName(ctx, payload.Department)
	if err != nil {
		return internalError(c, err, "failed to check department name")
	}
	if existing != nil && existing.ID != id {
		return fail(c, fiber.StatusConflict, "Department already exists")
	}

	if err := h.deptRepo.UpdateDepartment(ctx, id, payload.Department); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, fiber.StatusNotFound, "Department not found")
		case errors.Is(err, repository.ErrDuplicate):
			return fail(c, fiber.StatusConflict, "Department already exists")
		}
		return internalError(c, err, "failed to update department")
	}

	department, err := h.deptRepo.GetDepartmentByID(ctx, id)
	if err != nil {
		return internalError(c, err, "failed to reload department")
	}
	return success(c, fiber.StatusOK, "Updated department successfully", department)
}

// DeleteDepartment godoc
// @Summary Delete department
// @Description Refused while positions or employees still reference the department
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Department is still in use"
// @Failure 500 {object} models.ErrorResponse
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) DeleteDepartment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidID)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.deptRepo.DeleteDepartment(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, fiber.StatusNotFound, "Department not found")
		case errors.Is(err, repository.ErrInUse):
			return fail(c, fiber.StatusConflict, "Department is still in use")
		}
		return internalError(c, err, "failed to delete department")
	}
	return success(c, fiber.StatusOK, "Deleted department successfully", nil)
}
