package main

import (
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/models"
	"bitbucket.org/gsosupply/inventory_backend/models/reports"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// movementRange resolves the report window. Both bounds are required for the
// movement report; an open-ended ledger dump belongs to the list endpoints.
func movementRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": err.Error()})
		return time.Time{}, time.Time{}, false
	}
	if from == nil || to == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "VALIDATION",
			"error": "from and to query params are required (YYYY-MM-DD)",
		})
		return time.Time{}, time.Time{}, false
	}
	return *from, *to, true
}

func supplyReportHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := store.SupplyRows(c.Request.Context())
		if err != nil {
			respondError(c, logger, "supplyReportHandler", err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func supplyReportExcelHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := store.SupplyRows(c.Request.Context())
		if err != nil {
			respondError(c, logger, "supplyReportExcelHandler", err)
			return
		}

		filename := fmt.Sprintf("supplies_%s.xlsx", time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", excelContentType)
		if err := reports.ExportSuppliesExcel(c.Writer, rows); err != nil {
			respondError(c, logger, "supplyReportExcelHandler", err)
		}
	}
}

func movementReportHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := movementRange(c)
		if !ok {
			return
		}
		rows, err := reports.GetStockMovementReport(c.Request.Context(), store.DB(), from, to)
		if err != nil {
			respondError(c, logger, "movementReportHandler", err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func movementReportExcelHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := movementRange(c)
		if !ok {
			return
		}
		rows, err := reports.GetStockMovementReport(c.Request.Context(), store.DB(), from, to)
		if err != nil {
			respondError(c, logger, "movementReportExcelHandler", err)
			return
		}

		filename := fmt.Sprintf("stock_movement_%s_%s.xlsx",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", excelContentType)
		if err := reports.ExportStockMovementExcel(c.Writer, rows); err != nil {
			respondError(c, logger, "movementReportExcelHandler", err)
		}
	}
}

func clusterReportHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := reports.GetClusterOnHandReport(c.Request.Context(), store.DB())
		if err != nil {
			respondError(c, logger, "clusterReportHandler", err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
