package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/config"
	"bitbucket.org/gsosupply/inventory_backend/middlewares"
	"bitbucket.org/gsosupply/inventory_backend/models"
	"bitbucket.org/gsosupply/inventory_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func main() {
	logger := config.NewLogger()

	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	db := config.ConnectDatabaseWithRetry()
	if err := models.MigrateTables(db); err != nil {
		logger.WithField("error", err.Error()).Fatal("migration failed")
	}

	locker := config.ConnectRedisLock()
	feed := models.NewChangeFeed()
	store := models.NewStore(db, logger, locker, feed)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(correlationMiddleware(logger))
	router.Use(cors.New(corsConfig()))
	router.Use(middlewares.AuthMiddleware())

	registerRoutes(router, store, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", port).Info("inventory backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithField("error", err.Error()).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithField("error", err.Error()).Error("graceful shutdown failed")
	}
}

func corsConfig() cors.Config {
	corsCfg := cors.DefaultConfig()
	origins := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if origins == "" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(origins, ",")
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Correlation-Id")
	return corsCfg
}

// correlationMiddleware tags every request with a correlation id and emits
// one structured access log line per request.
func correlationMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := strings.TrimSpace(c.GetHeader("X-Correlation-Id"))
		if correlationId == "" {
			correlationId = uuid.New().String()
		}
		c.Request = c.Request.WithContext(
			utils.SetCorrelationIdInContext(c.Request.Context(), correlationId))
		c.Writer.Header().Set("X-Correlation-Id", correlationId)

		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"duration_ms":    time.Since(start).Milliseconds(),
			"correlation_id": correlationId,
		}).Info("request")
	}
}

func registerRoutes(router *gin.Engine, store *models.Store, logger *logrus.Logger) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ws", liveFeedHandler(store, logger))

	api := router.Group("/api", middlewares.RequireAuth())

	api.GET("/supplies", listSuppliesHandler(store))
	api.POST("/supplies", createSupplyHandler(store, logger))
	api.GET("/supplies/:code", getSupplyHandler(store))
	api.PUT("/supplies/:code", updateSupplyHandler(store, logger))
	api.DELETE("/supplies/:code", deleteSupplyHandler(store, logger))

	api.GET("/deliveries", listDeliveriesHandler(store))
	api.POST("/deliveries", createDeliveryHandler(store, logger))
	api.GET("/deliveries/:number", getDeliveryHandler(store))
	api.PUT("/deliveries/:number", updateDeliveryHandler(store, logger))
	api.DELETE("/deliveries/:number", deleteDeliveryHandler(store, logger))

	api.GET("/releases", listReleasesHandler(store))
	api.POST("/releases", createReleaseHandler(store, logger))
	api.GET("/releases/:number", getReleaseHandler(store))
	api.PUT("/releases/:number", updateReleaseHandler(store, logger))
	api.DELETE("/releases/:number", deleteReleaseHandler(store, logger))

	api.GET("/units", listUnitsHandler(store))
	api.POST("/units", createUnitHandler(store, logger))
	api.DELETE("/units/:id", middlewares.RequireAdmin(), deleteUnitHandler(store, logger))

	api.GET("/classifications", listClassificationsHandler(store))
	api.POST("/classifications", createClassificationHandler(store, logger))
	api.DELETE("/classifications/:id", middlewares.RequireAdmin(), deleteClassificationHandler(store, logger))

	api.GET("/reports/supplies", supplyReportHandler(store, logger))
	api.GET("/reports/supplies.xlsx", supplyReportExcelHandler(store, logger))
	api.GET("/reports/movement", movementReportHandler(store, logger))
	api.GET("/reports/movement.xlsx", movementReportExcelHandler(store, logger))
	api.GET("/reports/clusters", clusterReportHandler(store, logger))

	api.POST("/uploads", uploadImageHandler(store, logger))
	api.GET("/uploads/object", uploadObjectHandler())
}
