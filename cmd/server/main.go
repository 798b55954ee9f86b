package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rajasaad7/linkboard/internal/activity"
	"github.com/rajasaad7/linkboard/internal/alerts"
	"github.com/rajasaad7/linkboard/internal/analytics"
	"github.com/rajasaad7/linkboard/internal/auth"
	"github.com/rajasaad7/linkboard/internal/bugs"
	"github.com/rajasaad7/linkboard/internal/campaigns"
	"github.com/rajasaad7/linkboard/internal/config"
	"github.com/rajasaad7/linkboard/internal/contacts"
	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/domains"
	"github.com/rajasaad7/linkboard/internal/logging"
	mware "github.com/rajasaad7/linkboard/internal/middleware"
	"github.com/rajasaad7/linkboard/internal/orders"
	"github.com/rajasaad7/linkboard/internal/payouts"
	"github.com/rajasaad7/linkboard/internal/pressrelease"
	"github.com/rajasaad7/linkboard/internal/projects"
	"github.com/rajasaad7/linkboard/internal/users"
)

func main() {
	if err := logging.Init(); err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.L.Fatal("config load failed", zap.Error(err))
	}

	mware.SetSecret(cfg.JWTSecret)
	alerts.ConfigureMailer(cfg)

	if err := db.Init(cfg.DatabaseURL); err != nil {
		logging.L.Fatal("database init failed", zap.Error(err))
	}
	defer db.Close()

	alerts.Init(cfg.RedisAddr)
	defer alerts.Close()

	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "linkboard-admin"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes
	// Auth gets per-IP rate limiting to slow down credential stuffing.
	authGroup := e.Group("/auth")
	authGroup.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/login", auth.Login)

	// Public intake endpoints also get rate limiting.
	intake := e.Group("")
	intake.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(10)))
	intake.POST("/contact", contacts.Submit)
	intake.POST("/bugs", bugs.Submit)

	// Staff routes
	api := e.Group("/api")
	api.Use(mware.JWTMiddleware)

	api.GET("/auth/me", auth.Me)

	api.GET("/users", users.ListUsers)
	api.GET("/users/:id", users.GetUserDetails)
	api.POST("/users/:id/suspend", users.SuspendUser)
	api.POST("/users/:id/activate", users.ActivateUser)
	api.DELETE("/users/:id", users.DeleteUser, mware.AdminGuard)

	api.GET("/projects", projects.ListProjects)
	api.POST("/projects/:id/disable", projects.DisableProject)
	api.POST("/projects/:id/enable", projects.EnableProject)
	api.DELETE("/projects/:id", projects.DeleteProject, mware.AdminGuard)

	api.GET("/links", projects.ListLinks)
	api.DELETE("/links/:id", projects.DeleteLink, mware.AdminGuard)

	api.GET("/keywords", projects.ListKeywords)
	api.DELETE("/keywords/:id", projects.DeleteKeyword, mware.AdminGuard)

	api.GET("/domains", domains.ListDomains)
	api.POST("/domains/approve-offering", domains.ApproveOffering)
	api.POST("/domains/reject-offering", domains.RejectOffering)
	api.POST("/domains/bulk-approve", domains.BulkApproveOfferings)
	api.POST("/domains/bulk-reject", domains.BulkRejectOfferings)
	api.POST("/domains/bulk-update", domains.BulkUpdateMetrics, mware.AdminGuard)

	api.GET("/orders", orders.ListOrders)
	api.POST("/orders/update-status", orders.UpdateStatus)

	api.GET("/press-releases/orders", pressrelease.ListOrders)
	api.POST("/press-releases/orders/update", pressrelease.UpdateOrder)

	// Money movement is admin-only.
	api.GET("/payouts", payouts.ListPayouts)
	api.POST("/payouts/mark-paid", payouts.MarkPaid, mware.AdminGuard)
	api.POST("/payouts/mark-failed", payouts.MarkFailed, mware.AdminGuard)

	api.GET("/contacts", contacts.ListContacts)
	api.POST("/contacts/update-status", contacts.UpdateStatus)

	api.GET("/bugs", bugs.ListBugs)
	api.POST("/bugs/update-status", bugs.UpdateStatus)

	api.GET("/campaigns", campaigns.ListCampaigns)
	api.POST("/campaigns/:id/pause", campaigns.PauseCampaign)
	api.POST("/campaigns/:id/resume", campaigns.ResumeCampaign)

	api.GET("/activity/today", activity.Today)
	api.GET("/analytics", analytics.Overview, mware.RequireRoles("admin", "support"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.L.Fatal("server error", zap.Error(err))
	}
	logging.L.Info("server stopped")
}
