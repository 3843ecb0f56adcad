package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accabog/rhr-sub000/internal/config"
	appHTTP "github.com/accabog/rhr-sub000/internal/handler/http"
	"github.com/accabog/rhr-sub000/internal/pkg/cron"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/accabog/rhr-sub000/internal/pkg/jwt"
	"github.com/accabog/rhr-sub000/internal/pkg/nager"
	"github.com/accabog/rhr-sub000/internal/repository/postgresql"
	serviceAuth "github.com/accabog/rhr-sub000/internal/service/auth"
	serviceContract "github.com/accabog/rhr-sub000/internal/service/contract"
	serviceEmployee "github.com/accabog/rhr-sub000/internal/service/employee"
	"github.com/accabog/rhr-sub000/internal/service/leave"
	"github.com/accabog/rhr-sub000/internal/service/master"
	"github.com/accabog/rhr-sub000/internal/service/timesheet"
	"github.com/accabog/rhr-sub000/internal/service/timetracking"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.SlogLevel(), cfg.App.Env, version)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("Error applying migrations", "error", err)
		os.Exit(1)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	tenantRepo := postgresql.NewTenantRepository(db)
	membershipRepo := postgresql.NewMembershipRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	positionRepo := postgresql.NewPositionRepository(db)
	contractTypeRepo := postgresql.NewContractTypeRepository(db)
	contractRepo := postgresql.NewContractRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	timeEntryTypeRepo := postgresql.NewTimeEntryTypeRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	commentRepo := postgresql.NewTimesheetCommentRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	nagerClient := nager.NewClient(cfg.Holidays.NagerBaseURL)

	authService := serviceAuth.NewAuthService(userRepo, tenantRepo, membershipRepo, employeeRepo, JWTService)
	masterService := master.NewMasterService(departmentRepo, positionRepo, employeeRepo)
	employeeService := serviceEmployee.NewEmployeeService(tx, employeeRepo, departmentRepo, positionRepo)
	contractService := serviceContract.NewContractService(tx, contractTypeRepo, contractRepo, employeeRepo)
	leaveService := leave.NewLeaveService(tx, leaveTypeRepo, leaveBalanceRepo, leaveRequestRepo, holidayRepo, employeeRepo)
	holidayService := leave.NewHolidayService(tx, holidayRepo, tenantRepo, employeeRepo, nagerClient)
	timesheetService := timesheet.NewTimesheetService(tx, timesheetRepo, commentRepo, timeEntryRepo, employeeRepo)
	timeTrackingService := timetracking.NewTimeTrackingService(tx, timeEntryTypeRepo, timeEntryRepo)

	router := appHTTP.NewRouter(logger, cfg.App.AllowedOrigins, JWTService, appHTTP.Handlers{
		Auth:      appHTTP.NewAuthHandler(authService),
		Master:    appHTTP.NewMasterHandler(masterService),
		Employee:  appHTTP.NewEmployeeHandler(employeeService),
		Contract:  appHTTP.NewContractHandler(contractService),
		Leave:     appHTTP.NewLeaveHandler(leaveService),
		Holiday:   appHTTP.NewHolidayHandler(holidayService),
		Timesheet: appHTTP.NewTimesheetHandler(timesheetService),
		TimeEntry: appHTTP.NewTimeEntryHandler(timeTrackingService),
	})

	scheduler := cron.NewScheduler(ctx)
	cron.NewHolidayJobs(holidayService, cfg.Holidays.SyncInterval, cfg.Holidays.SyncOnStart).RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
}
