package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/handler/http/middleware"
	"github.com/accabog/rhr-sub000/internal/handler/http/response"
	"github.com/accabog/rhr-sub000/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewLogger returns a JSON logger using the ECS field names of the request log.
func NewLogger(out io.Writer, level slog.Level, env, version string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "raptor-hr"),
		slog.String("version", version),
		slog.String("env", env),
	)
}

type Handlers struct {
	Auth      AuthHandler
	Master    MasterHandler
	Employee  EmployeeHandler
	Contract  ContractHandler
	Leave     LeaveHandler
	Holiday   HolidayHandler
	Timesheet TimesheetHandler
	TimeEntry TimeEntryHandler
}

// NewRouter mounts the API under /api/v1. Routes are registered without a
// trailing slash; CleanPath strips the one clients send.
func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.TenantHeader},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.With(
				jwtauth.Verifier(JWTService.JWTAuth()),
				middleware.AuthRequired(JWTService),
			).Get("/me", h.Auth.Me)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Master.ListDepartments)
				r.Get("/{id}", h.Master.GetDepartment)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionOrgManage))
					r.Post("/", h.Master.CreateDepartment)
					r.Patch("/{id}", h.Master.UpdateDepartment)
					r.Put("/{id}", h.Master.UpdateDepartment)
				})
			})

			r.Route("/positions", func(r chi.Router) {
				r.Get("/", h.Master.ListPositions)
				r.Get("/{id}", h.Master.GetPosition)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionOrgManage))
					r.Post("/", h.Master.CreatePosition)
					r.Patch("/{id}", h.Master.UpdatePosition)
					r.Put("/{id}", h.Master.UpdatePosition)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Get("/me", h.Employee.Me)
				r.Patch("/me", h.Employee.UpdateMe)
				r.Get("/{id}", h.Employee.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionOrgManage))
					r.Post("/", h.Employee.Create)
					r.Patch("/{id}", h.Employee.Update)
					r.Put("/{id}", h.Employee.Update)
				})
			})

			r.Route("/contracts", func(r chi.Router) {
				r.Route("/types", func(r chi.Router) {
					r.Get("/", h.Contract.ListTypes)
					r.With(middleware.RequirePermission(user.PermissionContractManage)).Post("/", h.Contract.CreateType)
				})

				r.Get("/my_contracts", h.Contract.MyContracts)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionContractManage))
					r.Get("/", h.Contract.List)
					r.Post("/", h.Contract.Create)
					r.Get("/expiring", h.Contract.Expiring)
					r.Get("/stats", h.Contract.Stats)
					r.Patch("/{id}", h.Contract.Update)
					r.Put("/{id}", h.Contract.Update)
					r.Post("/{id}/activate", h.Contract.Activate)
					r.Post("/{id}/terminate", h.Contract.Terminate)
				})

				r.Get("/{id}", h.Contract.Get)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/types", func(r chi.Router) {
					r.Get("/", h.Leave.ListTypes)
					r.With(middleware.RequirePermission(user.PermissionLeaveManageTypes)).Post("/", h.Leave.CreateType)
				})

				r.Route("/balances", func(r chi.Router) {
					r.Get("/", h.Leave.ListBalances)
					r.Get("/summary", h.Leave.BalanceSummary)
				})

				r.Route("/requests", func(r chi.Router) {
					r.Get("/", h.Leave.ListRequests)
					r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
					r.Get("/my_requests", h.Leave.MyRequests)
					r.Get("/calendar", h.Leave.Calendar)

					// Manager only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Get("/pending_approval", h.Leave.PendingApproval)
						r.Post("/{id}/approve", h.Leave.ApproveRequest)
						r.Post("/{id}/reject", h.Leave.RejectRequest)
					})

					r.Get("/{id}", h.Leave.GetRequest)
					r.Post("/{id}/cancel", h.Leave.CancelRequest)
				})

				r.Route("/holidays", func(r chi.Router) {
					r.Get("/", h.Holiday.List)
					r.Get("/upcoming", h.Holiday.Upcoming)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionHolidayManage))
						r.Post("/", h.Holiday.Create)
						r.Post("/sync", h.Holiday.Sync)
					})
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/", h.Timesheet.List)
				r.Post("/generate", h.Timesheet.Generate)
				r.Get("/my_timesheets", h.Timesheet.MyTimesheets)

				r.With(middleware.RequireManager).Get("/pending_approval", h.Timesheet.PendingApproval)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Timesheet.Get)
					r.Delete("/", h.Timesheet.Delete)
					r.Post("/submit", h.Timesheet.Submit)
					r.Post("/reopen", h.Timesheet.Reopen)

					// Manager only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Post("/approve", h.Timesheet.Approve)
						r.Post("/reject", h.Timesheet.Reject)
					})

					r.Get("/comments", h.Timesheet.ListComments)
					r.Post("/comments", h.Timesheet.AddComment)
				})
			})

			r.Route("/time-entries", func(r chi.Router) {
				r.Get("/current", h.TimeEntry.Current)
				r.Get("/my_entries", h.TimeEntry.MyEntries)
				r.Get("/summary", h.TimeEntry.Summary)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimeTrackOwn))
					r.Post("/clock_in", h.TimeEntry.ClockIn)
					r.Post("/clock_out", h.TimeEntry.ClockOut)
				})

				r.With(middleware.RequireManager).Post("/{id}/approve", h.TimeEntry.Approve)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found.")
	})

	return r
}
