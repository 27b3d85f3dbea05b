package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hr-records/config/middleware"
	"hr-records/models"
	"hr-records/pkg/query"
)

const (
	msgInvalidInput = "Invalid input data. Please check and try again."
	msgInvalidID    = "Invalid ID format"
	msgInvalidPage  = "itemsPerPage and itemOffset must be non-negative integers"
	msgInternal     = "Internal server error"
)

const DefaultRequestTimeout = 5 * time.Second

// base carries what every resource handler shares.
type base struct {
	timeout time.Duration
}

func newBase(timeout time.Duration) base {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return base{timeout: timeout}
}

func (b base) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), b.timeout)
}

func success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(models.Envelope{
		Status:  models.StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.Envelope{
		Status:  models.StatusError,
		Message: message,
	})
}

func failWithData(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(models.Envelope{
		Status:  models.StatusError,
		Message: message,
		Data:    data,
	})
}

// invalidInput answers 400 with the generic message. The detail only goes to the log.
func invalidInput(c *fiber.Ctx, detail error) error {
	log.Warn().
		Err(detail).
		Str("request_id", middleware.RequestID(c)).
		Str("path", c.Path()).
		Msg("invalid input")
	return fail(c, fiber.StatusBadRequest, msgInvalidInput)
}

func internalError(c *fiber.Ctx, err error, action string) error {
	log.Error().
		Err(err).
		Str("request_id", middleware.RequestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(action)
	return fail(c, fiber.StatusInternalServerError, msgInternal)
}

func parseID(c *fiber.Ctx) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Params("id"))
}

func parsePage(c *fiber.Ctx) (query.Page, error) {
	return query.ParsePage(c.Query("itemsPerPage"), c.Query("itemOffset"))
}

// listData is the array itself when unpaginated, {data, totalPage} otherwise.
func listData[T any](items []T, page query.Page, total int64) interface{} {
	if !page.Paginated() {
		return items
	}
	return pagedData(items, page, total)
}

func pagedData[T any](items []T, page query.Page, total int64) models.Paged {
	return models.Paged{Data: items, TotalPage: page.TotalPages(total)}
}
