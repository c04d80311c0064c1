package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mediflow/mediflow/internal/config"
	"github.com/mediflow/mediflow/internal/domain/appointment"
	"github.com/mediflow/mediflow/internal/domain/bed"
	"github.com/mediflow/mediflow/internal/domain/dashboard"
	"github.com/mediflow/mediflow/internal/domain/opd"
	"github.com/mediflow/mediflow/internal/domain/patient"
	"github.com/mediflow/mediflow/internal/platform/auth"
	"github.com/mediflow/mediflow/internal/platform/db"
	"github.com/mediflow/mediflow/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mediflow-server",
		Short: "Hospital front-desk API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedBedsCmd())

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
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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

// seedBedsCmd creates the standing bed inventory: 10 ICU, 30 general ward
// and 10 semi-private beds. Re-running is a no-op for beds that already
// exist.
func seedBedsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-beds",
		Short: "Create the default bed inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			repo := bed.NewRepoPG(pool)
			wards := []struct {
				prefix string
				ward   string
				count  int
			}{
				{"ICU", bed.WardICU, 10},
				{"GEN", bed.WardGeneral, 30},
				{"SP", bed.WardSemiPrivate, 10},
			}

			created := 0
			for _, w := range wards {
				for i := 1; i <= w.count; i++ {
					b := &bed.Bed{
						ID:        uuid.New(),
						BedNumber: fmt.Sprintf("%s-%02d", w.prefix, i),
						Ward:      w.ward,
						Status:    bed.StatusAvailable,
					}
					if err := repo.Create(ctx, b); err != nil {
						return fmt.Errorf("seed bed %s: %w", b.BedNumber, err)
					}
					created++
				}
			}

			fmt.Printf("Seeded %d bed(s).\n", created)
			return nil
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	jwtCfg := auth.JWTConfig{
		SigningKey: []byte(cfg.AuthSecret),
		Skipper:    auth.AuthSkipper,
	}
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(jwtCfg))
	}

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	e.Use(apiOnly(middleware.RateLimit(rateLimitCfg)))

	// Repositories and services. The cross-domain seams are the small
	// interfaces each service declares; the queue and appointment
	// repositories satisfy the purger and closer seams directly.
	txRunner := db.PoolTxRunner(pool)

	patientRepo := patient.NewRepoPG(pool)
	queueRepo := opd.NewRepoPG(pool)
	apptRepo := appointment.NewRepoPG(pool)
	bedRepo := bed.NewRepoPG(pool)
	dashRepo := dashboard.NewRepoPG(pool)

	apptSvc := appointment.NewService(apptRepo)
	patientSvc := patient.NewService(patientRepo, queueRepo, apptRepo, txRunner)
	opdSvc := opd.NewService(queueRepo, patientRepo, apptSvc, txRunner)
	bedSvc := bed.NewService(bedRepo, patientRepo, queueRepo, apptSvc, txRunner)
	dashSvc := dashboard.NewService(dashRepo, logger)

	public := e.Group("")
	staff := e.Group("", auth.RequireStaff())

	opd.NewHandler(opdSvc).RegisterRoutes(public, staff)
	bed.NewHandler(bedSvc).RegisterRoutes(public, staff)
	dashboard.NewHandler(dashSvc).RegisterRoutes(public, staff)
	patient.NewHandler(patientSvc).RegisterRoutes(staff)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	e.GET("/login", loginHandler(cfg, jwtCfg))
	e.POST("/login", loginHandler(cfg, jwtCfg))
	e.GET("/logout", logoutHandler)
	e.POST("/logout", logoutHandler)

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

// apiOnly applies mw to requests under /api and leaves page routes alone.
func apiOnly(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		limited := mw(next)
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, "/api/") {
				return limited(c)
			}
			return next(c)
		}
	}
}

const sessionTTL = 12 * time.Hour

// loginHandler issues a signed staff token. In development it mirrors the
// desk workflow and signs everyone in as the administrator; in production
// tokens come from the operator's identity provider, so login only reports
// that.
func loginHandler(cfg *config.Config, jwtCfg auth.JWTConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !cfg.IsDev() {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "login is handled by the identity provider; supply a bearer token",
			})
		}

		token, err := auth.IssueToken(jwtCfg, "1", "Administrator", []string{auth.RoleAdmin}, sessionTTL)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
		}

		c.SetCookie(&http.Cookie{
			Name:     "auth_token",
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Expires:  time.Now().Add(sessionTTL),
		})

		if strings.Contains(c.Request().Header.Get("Accept"), "application/json") {
			return c.JSON(http.StatusOK, echo.Map{"success": true, "token": token})
		}
		return c.Redirect(http.StatusFound, "/dashboard/hospital")
	}
}

func logoutHandler(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})

	if strings.Contains(c.Request().Header.Get("Accept"), "application/json") {
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}
	return c.Redirect(http.StatusFound, "/login")
}
