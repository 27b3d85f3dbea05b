package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hr-records/models"
	util "hr-records/pkg/utils"
	"hr-records/repository"
)

type PositionHandler struct {
	base
	posRepo  repository.PositionRepository
	deptRepo repository.DepartmentRepository
}

func NewPositionHandler(posRepo repository.PositionRepository, deptRepo repository.DepartmentRepository, timeout time.Duration) *PositionHandler {
	return &PositionHandler{
		base:     newBase(timeout),
		posRepo:  posRepo,
		deptRepo: deptRepo,
	}
}

// CreatePosition godoc
// @Summary Create position
// @Description Adds a position under an existing department (admin only)
// @Tags Positions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param position body models.PositionPayload true "New position"
// @Success 201 {object} models.Envelope{data=models.Position}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Department does not exist"
// @Failure 409 {object} models.ErrorResponse "Position already exists"
// @Failure 500 {object} models.ErrorResponse
// @Router /positions [post]
func (h *PositionHandler) CreatePosition(c *fiber.Ctx) error {
	var payload models.PositionPayload
	if err := c.BodyParser(&payload); err != nil {
		return invalidInput(c, err)
	}
	payload.Normalize()
	if verr := util.ValidateStruct(payload); verr != nil {
		return invalidInput(c, verr)
	}
	deptID, err := primitive.ObjectIDFromHex(payload.DepartmentID)
	if err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	existing, err := h.posRepo.FindPositionByName(ctx, payload.Position)
	if err != nil {
		return internalError(c, err, "failed to check position name")
	}
	if existing != nil {
		return fail(c, fiber.StatusConflict, "Position already exists")
	}

	if _, err := h.deptRepo.GetDepartmentByID(ctx, deptID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Department does not exist")
		}
		return internalError(c, err, "failed to check department")
	}

	position := models.Position{Name: payload.Position, DepartmentID: deptID}
	if err := h.posRepo.CreatePosition(ctx, &position); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fail(c, fiber.StatusConflict, "Position already exists")
		}
		return internalError(c, err, "failed to create position")
	}

	return success(c, fiber.StatusCreated, "Created position successfully", position)
}

// GetAllPositions godoc
// @Summary List positions
// @Tags Positions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.PositionListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /positions [get]
func (h *PositionHandler) GetAllPositions(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	positions, err := h.posRepo.GetAllPositions(ctx)
	if err != nil {
		return internalError(c, err, "failed to list positions")
	}
	return success(c, fiber.StatusOK, "Get position successfully", positions)
}

// GetPositionsWithEmployeeCount godoc
// @Summary List positions with employee counts
// @Description Sorted by department name then position name. Positions whose department is gone are left out
// @Tags Positions
// @Produce json
// @Security BearerAuth
// @Param itemsPerPage query int false "Page size, 0 for everything"
// @Param itemOffset query int false "Items to skip"
// @Success 200 {object} models.Envelope{data=[]models.PositionWithCount}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /positions/employee-count [get]
func (h *PositionHandler) GetPositionsWithEmployeeCount(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidPage)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	rows, total, err := h.posRepo.ListWithEmployeeCount(ctx, page)
	if err != nil {
		return internalError(c, err, "failed to count employees per position")
	}
	return success(c, fiber.StatusOK, "Get position and count employee successfully", listData(rows, page, total))
}

// GetPositionByID godoc
// @Summary Get position
// @Tags Positions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Position ID"
// @Success 200 {object} models.Envelope{data=models.Position}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /positions/{id} [get]
func (h *PositionHandler) GetPositionByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidID)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	position, err := h.posRepo.GetPositionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Position not found")
		}
		return internalError(c, err, "failed to get position")
	}
	return success(c, fiber.StatusOK, "Get position successfully", position)
}

// DeletePosition godoc
// @Summary Delete position
// @Description Refused while employees still hold the position
// @Tags Positions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Position ID"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Position is still in use"
// @Failure 500 {object} models.ErrorResponse
// @Router /positions/{id} [delete]
func (h *PositionHandler) DeletePosition(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidID)
	}

	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.posRepo.DeletePosition(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, fiber.StatusNotFound, "Position not found")
		case errors.Is(err, repository.ErrInUse):
			return fail(c, fiber.StatusConflict, "Position is still in use")
		}
		return internalError(c, err, "failed to delete position")
	}
	return success(c, fiber.StatusOK, "Deleted position successfully", nil)
}
