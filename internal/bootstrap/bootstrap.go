package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/headta/internal/app/controllers"
	appMigrations "github.com/yigit/headta/internal/app/migrations"
	appRepos "github.com/yigit/headta/internal/app/repositories"
	appRoutes "github.com/yigit/headta/internal/app/routes"
	appServices "github.com/yigit/headta/internal/app/services"
	"github.com/yigit/headta/internal/config"
	"github.com/yigit/headta/internal/db"
	appMiddleware "github.com/yigit/headta/internal/middleware"
	pkgAuth "github.com/yigit/headta/internal/pkg/auth"
	"github.com/yigit/headta/internal/pkg/email"
	"github.com/yigit/headta/internal/pkg/helpers"
	"github.com/yigit/headta/internal/pkg/logger"
	"github.com/yigit/headta/internal/pkg/metrics"
	"github.com/yigit/headta/internal/seed"
)

// DefaultConfigPath is where the YAML configuration is read from
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       *appServices.AuthService
	InvitationService appServices.InvitationService
	UserService       appServices.UserService
	ClaimService      appServices.ClaimService
	TreeService       appServices.InvitationTreeService
	DirectoryService  appServices.DirectoryService
	CourseService     appServices.CourseService
	ProfessorService  appServices.ProfessorService
	OfferingService   appServices.OfferingService
	AssignmentService appServices.AssignmentService
	StatsService      appServices.StatsService
	Controllers       *appRoutes.Controllers
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Mailer            email.EmailService
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.ParseFormat(cfg.Logging.Level, cfg.Logging.Format))

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens and pings the connection pool.
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies the SQL files in the configured migrations directory.
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr.With().Str("component", "migrator").Logger())
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// AdminSeed returns the configured default admin
func AdminSeed(cfg *config.Config) seed.Admin {
	return seed.Admin{
		Email:     cfg.Seed.AdminEmail,
		Password:  cfg.Seed.AdminPassword,
		FirstName: cfg.Seed.AdminFirstName,
		LastName:  cfg.Seed.AdminLastName,
	}
}

// SetupDatabase connects, migrates and seeds the database.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	database, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := RunMigrations(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(database.Pool), AdminSeed(cfg), lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	repos := appRepos.NewRepositories(database)
	deps.Repos = repos

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Mailer = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
		UseTLS:    cfg.Email.UseTLS,
		BaseURL:   cfg.Server.BaseURL,
	}, logger.Component("email"))

	deps.AuthService = appServices.NewAuthService(repos.UserRepository, repos.TokenRepository, deps.JWTService, logger.Component("auth"))
	deps.ClaimService = appServices.NewClaimService(repos.Store, repos.UserRepository, deps.Mailer, logger.Component("claims"))
	deps.InvitationService = appServices.NewInvitationService(
		repos.InvitationRepository,
		repos.UserRepository,
		repos.Store,
		deps.AuthService,
		deps.ClaimService,
		deps.Mailer,
		helpers.ParseDuration(cfg.Invitations.TokenTTL, 7*24*time.Hour),
		logger.Component("invitations"),
	)
	deps.UserService = appServices.NewUserService(repos.UserRepository, logger.Component("users"))
	deps.TreeService = appServices.NewInvitationTreeService(repos.UserRepository, logger.Component("invitation_tree"))
	deps.CourseService = appServices.NewCourseService(repos.CourseRepository, logger.Component("courses"))
	deps.ProfessorService = appServices.NewProfessorService(repos.ProfessorRepository, logger.Component("professors"))
	deps.OfferingService = appServices.NewOfferingService(repos.OfferingRepository, repos.CourseRepository, logger.Component("offerings"))
	deps.AssignmentService = appServices.NewAssignmentService(repos.AssignmentRepository, repos.OfferingRepository, repos.UserRepository, logger.Component("assignments"))
	deps.DirectoryService = appServices.NewDirectoryService(repos.UserRepository, repos.AssignmentRepository, repos.CourseRepository, logger.Component("directory"))
	deps.StatsService = appServices.NewStatsService(repos.StatsRepository, repos.InvitationRepository, deps.TreeService, logger.Component("stats"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.UserRepository)

	deps.Controllers = &appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, deps.InvitationService, lgr),
		Invitation: appControllers.NewInvitationController(deps.InvitationService),
		User:       appControllers.NewUserController(deps.UserService, deps.ClaimService, deps.AssignmentService, lgr),
		Tree:       appControllers.NewTreeController(deps.TreeService),
		Directory:  appControllers.NewDirectoryController(deps.UserService, deps.DirectoryService),
		Course:     appControllers.NewCourseController(deps.CourseService, deps.OfferingService, lgr),
		Professor:  appControllers.NewProfessorController(deps.ProfessorService),
		Offering:   appControllers.NewOfferingController(deps.OfferingService, deps.AssignmentService),
		Admin:      appControllers.NewAdminController(deps.UserService, deps.ClaimService, deps.StatsService, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, database *db.PostgresDB, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component("http")))

	if cfg.Metrics.Enabled {
		router.Use(metrics.GinMiddleware())
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	var authLimiter gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limiter, err := appMiddleware.RateLimit(cfg.RateLimit.Auth)
		if err != nil {
			return nil, fmt.Errorf("invalid auth rate limit %q: %w", cfg.RateLimit.Auth, err)
		}
		authLimiter = limiter
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, authLimiter)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	router.GET("/api/v1/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Pool.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	})

	return router, nil
}
