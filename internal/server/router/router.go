package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
	"github.com/mamadbah2/fleetcheck/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Mobile    *handlers.MobileHandler
	Warehouse *handlers.WarehouseHandler
	Admin     *handlers.AdminHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/login", h.Auth.Login)

	authed := api.Group("", h.Auth.RequireAuth())
	authed.GET("/me", h.Auth.Me)

	mobile := authed.Group("/mobile", handlers.RequireRole(models.RoleMobile))
	{
		mobile.GET("/inventory", h.Mobile.Inventory)
		mobile.POST("/actions", h.Mobile.Apply)
		mobile.POST("/save", h.Mobile.Save)
		mobile.GET("/status", h.Mobile.Status)
		mobile.GET("/sync-code", h.Mobile.SyncCode)
		mobile.POST("/climate/push", h.Mobile.PushClimate)
		mobile.GET("/climate/trend", h.Mobile.ClimateTrend)
		mobile.GET("/expiry", h.Mobile.Expiry)
		mobile.GET("/history", h.Mobile.History)
		mobile.GET("/control.xlsx", h.Mobile.ControlSheet)
		mobile.GET("/template.xlsx", h.Mobile.Template)
	}

	warehouse := authed.Group("/warehouse", handlers.RequireRole(models.RoleWarehouse, models.RoleAdmin))
	{
		warehouse.GET("/requests", h.Warehouse.List)
		warehouse.GET("/stats", h.Warehouse.Stats)
		warehouse.POST("/import", h.Warehouse.Import)
		warehouse.POST("/requests/:id/complete", h.Warehouse.Complete)
		warehouse.POST("/analysis", h.Warehouse.Analyze)
	}

	admin := authed.Group("/admin", handlers.RequireRole(models.RoleAdmin))
	{
		admin.GET("/fleet", h.Admin.Fleet)
		admin.GET("/units/:number/:kind", h.Admin.UnitDetail)
		admin.GET("/users", h.Admin.Users)
		admin.PUT("/users/:id/password", h.Admin.ChangePassword)
		admin.GET("/export.xlsx", h.Admin.Export)
		admin.GET("/history/:name", h.Admin.History)
		admin.POST("/publish", h.Admin.Publish)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if v, ok := c.Get("currentUser"); ok {
			if user, ok := v.(models.User); ok {
				fields = append(fields, zap.String("user_id", user.ID))
			}
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}
