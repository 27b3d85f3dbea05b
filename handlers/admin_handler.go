package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"hr-records/models"
	"hr-records/pkg/password"
	util "hr-records/pkg/utils"
	"hr-records/repository"
)

type AdminHandler struct {
	base
	adminRepo repository.AdminRepository
}

func NewAdminHandler(adminRepo repository.AdminRepository, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		base:      newBase(timeout),
		adminRepo: adminRepo,
	}
}

// CreateAdmin godoc
// @Summary Create administrator
// @Description Registers another account. The password is stored hashed (admin only)
// @Tags Admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param admin body models.AdministratorPayload true "New administrator"
// @Success 201 {object} models.Envelope{data=models.Administrator}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admins [post]
func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var payload models.AdministratorPayload
	if err := c.BodyParser(&payload); err != nil {
		return invalidInput(c, err)
	}
	payload.Normalize()
	if verr := util.ValidateStruct(payload); verr != nil {
		return invalidInput(c, verr)
	}

	hashed, err := password.HashPassword(payload.Password)
	if err != nil {
		return internalError(c, err, "failed to hash password")
	}

	ctx, cancel := h.context(c)
	defer cancel()

	admin := models.Administrator{
		Username: payload.Username,
		Email:    payload.Email,
		Password: hashed,
		Role:     payload.Role,
	}
	if err := h.adminRepo.CreateAdmin(ctx, &admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fail(c, fiber.StatusConflict, "Email already exists, try another one")
		}
		return internalError(c, err, "failed to create administrator")
	}

	return success(c, fiber.StatusCreated, "Created admin successfully", admin)
}

// GetAdmins godoc
// @Summary List administrators
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=[]models.Administrator}
// @Failure 500 {object} models.ErrorResponse
// @Router /admins [get]
func (h *AdminHandler) GetAdmins(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	admins, err := h.adminRepo.GetAllAdmins(ctx)
	if err != nil {
		return internalError(c, err, "failed to list administrators")
	}
	return success(c, fiber.StatusOK, "Get admin successfully", admins)
}

// GetAdminCount godoc
// @Summary Count administrators
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CountResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admins/count [get]
func (h *AdminHandler) GetAdminCount(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	total, err := h.adminRepo.CountAdmins(ctx)
	if err != nil {
		return internalError(c, err, "failed to count administrators")
	}
	return success(c, fiber.StatusOK, "Get admin count successfully", total)
}
