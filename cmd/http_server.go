package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	authPostgres "github.com/talentgrid/hiring-management/internal/auth/postgres"
	"github.com/talentgrid/hiring-management/internal/authz"
	authzPostgres "github.com/talentgrid/hiring-management/internal/authz/postgres"
	"github.com/talentgrid/hiring-management/internal/candidate"
	candidatePostgres "github.com/talentgrid/hiring-management/internal/candidate/postgres"
	"github.com/talentgrid/hiring-management/internal/core/events"
	"github.com/talentgrid/hiring-management/internal/interview"
	interviewPostgres "github.com/talentgrid/hiring-management/internal/interview/postgres"
	"github.com/talentgrid/hiring-management/internal/jobrequest"
	jobRequestPostgres "github.com/talentgrid/hiring-management/internal/jobrequest/postgres"
	"github.com/talentgrid/hiring-management/internal/notification"
	notificationPostgres "github.com/talentgrid/hiring-management/internal/notification/postgres"
	"github.com/talentgrid/hiring-management/internal/organization"
	organizationPostgres "github.com/talentgrid/hiring-management/internal/organization/postgres"
	"github.com/talentgrid/hiring-management/internal/sitestaff"
	sitestaffPostgres "github.com/talentgrid/hiring-management/internal/sitestaff/postgres"
	"github.com/talentgrid/hiring-management/internal/ticket"
	ticketPostgres "github.com/talentgrid/hiring-management/internal/ticket/postgres"
	"github.com/talentgrid/hiring-management/internal/transport/rest"
	"github.com/talentgrid/hiring-management/internal/user"
	userPostgres "github.com/talentgrid/hiring-management/internal/user/postgres"
	"github.com/talentgrid/hiring-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Environment, config.Logging.Level, config.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	// repositories
	authRepo := authPostgres.NewAuthRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	membershipRepo := authzPostgres.NewMembershipRepository(gormDB)
	organizationRepo := organizationPostgres.NewOrganizationRepository(gormDB)
	jobRequestRepo := jobRequestPostgres.NewJobRequestRepository(gormDB)
	candidateRepo := candidatePostgres.NewCandidateRepository(gormDB)
	interviewRepo := interviewPostgres.NewInterviewRepository(gormDB)
	ticketRepo := ticketPostgres.NewTicketRepository(gormDB)
	siteStaffRepo := sitestaffPostgres.NewSiteStaffRepository(gormDB)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)

	// cross-cutting pieces
	resolver := authz.NewResolver(membershipRepo, lg)
	bus := events.NewEventBus(lg)

	var mailer notification.EmailSender = notification.NoopSender{}
	if config.Mailer.Enabled {
		mailer = notification.NewSMTPClient(config.Mailer.Host, config.Mailer.Port, config.Mailer.Username, config.Mailer.Password)
	}

	notificationService := notification.NewService(notificationRepo, lg)
	subscriber := notification.NewSubscriber(notificationService, notificationRepo, mailer, config.Mailer.From, config.Server.BaseURL, lg)
	subscriber.Register(bus)

	// services
	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGenerator, config.Security.BCryptCost, lg)
	userService := user.NewService(userRepo, lg)
	organizationService := organization.NewService(organizationRepo, resolver, bus, config.InvitationTTL(), config.Security.BCryptCost, lg)
	jobRequestService := jobrequest.NewService(jobRequestRepo, candidateRepo, userRepo, resolver, bus, lg)
	siteStaffService := sitestaff.NewService(siteStaffRepo, lg)
	candidateService := candidate.NewService(candidateRepo, jobRequestRepo, siteStaffService, resolver, bus, lg)
	interviewService := interview.NewService(interviewRepo, candidateRepo, jobRequestRepo, resolver, bus, lg)
	ticketService := ticket.NewService(ticketRepo, siteStaffRepo, userRepo, bus, lg)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Organization: organization.NewHandler(organizationService),
		JobRequest:   jobrequest.NewHandler(jobRequestService),
		Candidate:    candidate.NewHandler(candidateService),
		Interview:    interview.NewHandler(interviewService),
		Ticket:       ticket.NewHandler(ticketService),
		SiteStaff:    sitestaff.NewHandler(siteStaffService),
		Notification: notification.NewHandler(notificationService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
