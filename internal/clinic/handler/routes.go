package handler

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/audit"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/service"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/security/ratelimit"
	"github.com/AnthoniusHendriyanto/clinic-service/pkg/constant"
)

// Deps carries everything route registration needs.
type Deps struct {
	Auth         *AuthHandler
	Patients     *PatientHandler
	Appointments *AppointmentHandler
	Employees    *EmployeeHandler
	Records      *RecordHandler

	Tokens   service.TokenGenerator
	Limiter  *ratelimit.Limiter
	Metrics  *metrics.Metrics
	Audit    audit.Recorder
	Registry *prometheus.Registry
}

func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api/v1", RateLimit(d.Limiter, d.Metrics))

	api.Post("/register", d.Auth.Register)
	api.Post("/login", d.Auth.Login)
	api.Post("/refresh", d.Auth.Refresh)
	api.Delete("/session", d.Auth.Logout)

	authed := api.Group("", RequireAuth(d.Tokens))

	patients := authed.Group("/patients")
	patients.Get("/", RequireAnyRole(d.Audit, constant.RoleAdmin, constant.RoleClinician,
		constant.RoleNurse, constant.RoleReceptionist), d.Patients.Search)
	patients.Get("/:id", RequireAnyRole(d.Audit, constant.RoleAdmin, constant.RoleClinician,
		constant.RoleNurse, constant.RoleReceptionist), d.Patients.Get)
	patients.Post("/", RequireAnyRole(d.Audit, constant.RoleAdmin, constant.RoleReceptionist), d.Patients.Create)
	patients.Put("/:id", RequireAnyRole(d.Audit, constant.RoleAdmin, constant.RoleReceptionist), d.Patients.Update)
	patients.Delete("/:id", RequireRole(constant.RoleAdmin, d.Audit), d.Patients.Delete)

	recordsRead := RequireAnyRole(d.Audit, constant.RoleAdmin, constant.RoleClinician, constant.RoleNurse)
	recordsWrite := RequireAnyRole(d.Audit, constant.RoleAdmin, constant.RoleClinician)
	patients.Get("/:id/records", recordsRead, d.Records.ListByPatient)
	patients.Post("/:id/records", recordsWrite, d.Records.Create)
	authed.Get("/records/:id", recordsRead, d.Records.Get)
	authed.Put("/records/:id", recordsWrite, d.Records.Update)
	authed.Delete("/records/:id", recordsWrite, d.Records.Delete)

	scheduling := RequireAnyRole(d.Audit, constant.RoleAdmin, constant.RoleReceptionist, constant.RoleNurse)
	appointments := authed.Group("/appointments", scheduling)
	appointments.Get("/", d.Appointments.List)
	appointments.Post("/", d.Appointments.Create)
	appointments.Get("/:id", d.Appointments.Get)
	appointments.Put("/:id", d.Appointments.Update)
	appointments.Post("/:id/cancel", d.Appointments.Cancel)
	appointments.Post("/:id/complete", d.Appointments.Complete)
	appointments.Delete("/:id", d.Appointments.Delete)
	patients.Get("/:id/appointments", scheduling, d.Appointments.ListByPatient)

	employees := authed.Group("/employees", RequireRole(constant.RoleAdmin, d.Audit))
	employees.Get("/", d.Employees.List)
	employees.Post("/", d.Employees.Create)
	employees.Get("/:id", d.Employees.Get)
	employees.Put("/:id", d.Employees.Update)
	employees.Delete("/:id", d.Employees.Delete)

	// Admin-only endpoints
	admin := authed.Group("/admin", RequireRole(constant.RoleAdmin, d.Audit))
	admin.Get("/users", d.Auth.GetAllUsers)
	admin.Patch("/user/:id/role", d.Auth.UpdateUserRole)
	admin.Delete("/user/:id", d.Auth.DeactivateUser)
	admin.Get("/user/:id/sessions", d.Auth.GetUserSessions)
	admin.Delete("/user/:id/sessions", d.Auth.ForceLogout)
}
