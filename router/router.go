package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hr-records/config"
	"hr-records/config/middleware"
	_ "hr-records/docs"
	"hr-records/handlers"
	"hr-records/models"
	"hr-records/pkg/metrics"
	"hr-records/repository"
)

const AppName = "HR Records API"

// Deps is everything the routes need besides the app itself.
type Deps struct {
	Config  *config.AppConfig
	Repos   repository.Repositories
	Tokens  middleware.TokenValidator
	Metrics *metrics.Metrics
}

// NewApp builds the Fiber app with the global middleware stack and error envelope.
func NewApp(cfg *config.AppConfig, m *metrics.Metrics) *fiber.App {
	bodyLimit := fiber.DefaultBodyLimit
	if limit := int(cfg.ImportMaxBytes) + 1<<20; limit > bodyLimit {
		bodyLimit = limit
	}

	app := fiber.New(fiber.Config{
		AppName:      AppName,
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger())
	app.Use(m.Middleware())
	config.SetupCORS(app, cfg.AllowedOrigins)

	return app
}

// errorHandler turns errors that escape handlers (unknown routes, panics, body
// limits) into the response envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			message = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", middleware.RequestID(c)).Str("path", c.Path()).Msg("unhandled error")
	}

	return c.Status(code).JSON(models.Envelope{
		Status:  models.StatusError,
		Message: message,
	})
}

func SetupRoutes(app *fiber.App, deps Deps) {
	cfg := deps.Config
	repos := deps.Repos

	deptHandler := handlers.NewDepartmentHandler(repos.Departments, cfg.RequestTimeout)
	posHandler := handlers.NewPositionHandler(repos.Positions, repos.Departments, cfg.RequestTimeout)
	empHandler := handlers.NewEmployeeHandler(repos, cfg.RequestTimeout)
	adminHandler := handlers.NewAdminHandler(repos.Admins, cfg.RequestTimeout)
	importHandler := handlers.NewImportHandler(repos, handlers.ImportConfig{
		TmpDir:   cfg.ImportTmpDir,
		MaxBytes: cfg.ImportMaxBytes,
		Timeout:  cfg.ImportTimeout,
	}, deps.Metrics)

	// Health check, docs, metrics
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": AppName,
			"status":  "running",
			"docs":    "/docs/index.html",
		})
	})
	app.Get("/docs/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api", middleware.AuthMiddleware(deps.Tokens))
	admin := middleware.AdminMiddleware()

	departments := api.Group("/departments")
	departments.Post("/", admin, deptHandler.CreateDepartment)
	departments.Get("/", deptHandler.GetAllDepartments)
	departments.Get("/employee-count", deptHandler.GetDepartmentsWithEmployeeCount)
	departments.Get("/count", deptHandler.GetDepartmentCount)
	departments.Get("/:id", deptHandler.GetDepartmentByID)
	departments.Put("/:id", admin, deptHandler.UpdateDepartment)
	departments.Delete("/:id", admin, deptHandler.DeleteDepartment)

	positions := api.Group("/positions")
	positions.Post("/", admin, posHandler.CreatePosition)
	positions.Get("/", posHandler.GetAllPositions)
	positions.Get("/employee-count", posHandler.GetPositionsWithEmployeeCount)
	positions.Get("/:id", posHandler.GetPositionByID)
	positions.Delete("/:id", admin, posHandler.DeletePosition)

	employees := api.Group("/employees")
	employees.Post("/", admin, empHandler.CreateEmployee)
	employees.Get("/", empHandler.GetEmployees)
	employees.Get("/search", empHandler.SearchEmployees)
	employees.Get("/count", empHandler.GetEmployeeCount)
	employees.Get("/salary-total", empHandler.GetSalaryTotal)
	employees.Post("/import", admin, importHandler.ImportEmployees)
	employees.Get("/import/template", importHandler.DownloadTemplate)
	employees.Get("/:id", empHandler.GetEmployeeByID)
	employees.Put("/:id", admin, empHandler.UpdateEmployee)
	employees.Delete("/:id", admin, empHandler.DeleteEmployee)

	admins := api.Group("/admins")
	admins.Post("/", admin, adminHandler.CreateAdmin)
	admins.Get("/", adminHandler.GetAdmins)
	admins.Get("/count", adminHandler.GetAdminCount)

	log.Info().Int("routes", len(app.GetRoutes(true))).Msg("routes registered")
}
