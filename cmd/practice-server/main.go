package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dentalops/practice-api/internal/config"
	"github.com/dentalops/practice-api/internal/domain/crm"
	"github.com/dentalops/practice-api/internal/domain/dashboard"
	"github.com/dentalops/practice-api/internal/platform/assistant"
	"github.com/dentalops/practice-api/internal/platform/db"
	"github.com/dentalops/practice-api/internal/platform/middleware"
	"github.com/dentalops/practice-api/internal/platform/notification"
	"github.com/dentalops/practice-api/internal/platform/pms"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "practice-server",
		Short: "Dental practice management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the CRM tables with synthetic development data",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("prospects")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := crm.NewService(
				crm.NewProspectRepoPG(pool),
				crm.NewCampaignRepoPG(pool),
				crm.NewTagRepoPG(pool),
				crm.NewProfileRepoPG(pool),
				crm.NewProspectCampaignRepoPG(pool),
				crm.NewProspectTagRepoPG(pool),
			)

			if err := seedCRM(ctx, svc, gofakeit.New(0), count); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Printf("Seeded %d prospects with campaigns and tags.\n", count)
			return nil
		},
	}
	cmd.Flags().Int("prospects", 50, "Number of prospects to create")
	return cmd
}

var seedStatuses = []string{
	crm.ProspectNew, crm.ProspectContacted, crm.ProspectQualified,
	crm.ProspectConverted, crm.ProspectLost,
}

var seedSources = []string{"website", "referral", "google-ads", "walk-in"}

// seedCRM creates a synthetic but internally consistent CRM data set:
// prospects spread across funnel stages, two campaigns, a handful of tags,
// and enrollments/attachments linking them.
func seedCRM(ctx context.Context, svc *crm.Service, faker *gofakeit.Faker, prospects int) error {
	campaigns := []*crm.Campaign{
		{Name: "Spring Hygiene Recall", Channel: crm.ChannelEmail, Status: crm.CampaignActive},
		{Name: "Implant Open Day", Channel: crm.ChannelSMS, Status: crm.CampaignDraft},
	}
	for _, c := range campaigns {
		if err := svc.CreateCampaign(ctx, c); err != nil {
			return err
		}
	}

	tags := []*crm.Tag{
		{Name: "vip"},
		{Name: "implant-candidate"},
		{Name: "insurance-ppo"},
	}
	for _, t := range tags {
		if err := svc.CreateTag(ctx, t); err != nil {
			return err
		}
	}

	for i := 0; i < prospects; i++ {
		email := faker.Email()
		phone := faker.Phone()
		source := seedSources[i%len(seedSources)]
		p := &crm.Prospect{
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Email:     &email,
			Phone:     &phone,
			Status:    seedStatuses[i%len(seedStatuses)],
			Source:    &source,
		}
		if err := svc.CreateProspect(ctx, p); err != nil {
			return err
		}

		if i%2 == 0 {
			enrollment := &crm.ProspectCampaign{
				ProspectID: p.ID,
				CampaignID: campaigns[i%len(campaigns)].ID,
			}
			if err := svc.EnrollProspect(ctx, enrollment); err != nil {
				return err
			}
		}
		if i%3 == 0 {
			attachment := &crm.ProspectTag{
				ProspectID: p.ID,
				TagID:      tags[i%len(tags)].ID,
			}
			if err := svc.AttachTag(ctx, attachment); err != nil {
				return err
			}
		}
	}

	return nil
}

// logEmailSender and logSMSSender are development senders that log instead of
// delivering. Production deployments plug in a real provider behind the same
// interfaces.
type logEmailSender struct{ logger zerolog.Logger }

func (s *logEmailSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.logger.Info().Str("to", to).Str("subject", subject).Msg("email dispatched")
	return nil
}

type logSMSSender struct{ logger zerolog.Logger }

func (s *logSMSSender) SendSMS(_ context.Context, to, _ string) error {
	s.logger.Info().Str("to", to).Msg("sms dispatched")
	return nil
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Clinical provider client
	pmsClient := pms.NewClient(pms.Config{
		BaseURL:    cfg.PMSBaseURL,
		AppID:      cfg.PMSAppID,
		AppKey:     cfg.PMSAppKey,
		OfficeID:   cfg.PMSOfficeID,
		PracticeID: cfg.PMSPracticeID,
	}, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:   cfg.CORSOrigins,
		WildcardDomain: cfg.CORSWildcardDomain,
	}))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeoutSec) * time.Second))

	apiV1 := e.Group("/api/v1")

	// Dashboard
	dashboardSvc := dashboard.NewService(pmsClient, cfg.MonthlyRevenueGoal)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(apiV1)

	// CRM
	crmSvc := crm.NewService(
		crm.NewProspectRepoPG(pool),
		crm.NewCampaignRepoPG(pool),
		crm.NewTagRepoPG(pool),
		crm.NewProfileRepoPG(pool),
		crm.NewProspectCampaignRepoPG(pool),
		crm.NewProspectTagRepoPG(pool),
	)
	crm.NewHandler(crmSvc).RegisterRoutes(apiV1)

	// Notifications
	notifyMgr := notification.NewManager(
		&logEmailSender{logger: logger},
		&logSMSSender{logger: logger},
		notification.NewTemplateEngine(),
	)
	notification.NewHandler(notifyMgr).RegisterRoutes(apiV1)

	// Assistant
	assistantClient := assistant.NewClient(assistant.Config{
		BaseURL: cfg.AssistantBaseURL,
		APIKey:  cfg.AssistantAPIKey,
		Model:   cfg.AssistantModel,
	}, logger)
	assistant.NewHandler(assistantClient).RegisterRoutes(apiV1)

	// Health check: database plus clinical provider probe
	e.GET("/health", db.HealthHandler(pool, pmsClient.Probe))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
