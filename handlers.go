package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/config"
	"bitbucket.org/gsosupply/inventory_backend/models"
	"bitbucket.org/gsosupply/inventory_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// respondError maps model-layer errors onto HTTP statuses with a stable
// machine-readable code field for the console frontend.
func respondError(c *gin.Context, logger *logrus.Logger, funcName string, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL"

	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, utils.ErrorInvalidQuantity):
		status, code = http.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, utils.ErrorInsufficientAvailability):
		status, code = http.StatusBadRequest, "INSUFFICIENT_AVAILABILITY"
	case errors.Is(err, utils.ErrorNegativeStock):
		status, code = http.StatusBadRequest, "WOULD_GO_NEGATIVE"
	case errors.Is(err, utils.ErrorExceedsQuantity):
		status, code = http.StatusBadRequest, "WOULD_EXCEED_QUANTITY"
	case errors.Is(err, utils.ErrorValidation):
		status, code = http.StatusBadRequest, "VALIDATION"
	case errors.Is(err, utils.ErrorConcurrentModification):
		status, code = http.StatusConflict, "CONFLICT"
	}

	if status == http.StatusInternalServerError {
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(logger, "handlers", funcName, "request failed", correlationId, err)
		c.JSON(status, gin.H{"code": code, "error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"code": code, "error": err.Error()})
}

func respondBindingError(c *gin.Context, err error) {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "VALIDATION",
			"error": utils.ProcessValidationErrors(fieldErrors),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": err.Error()})
}

// parseDateRange reads optional from/to query params (YYYY-MM-DD). The to
// bound is pushed to end of day so a single-day range covers the whole day.
func parseDateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, err
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

/* supplies */

func listSuppliesHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var name *string
		if raw := c.Query("name"); raw != "" {
			name = &raw
		}
		var cluster *models.Cluster
		if raw := c.Query("cluster"); raw != "" {
			parsed, err := models.ParseCluster(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": err.Error()})
				return
			}
			cluster = &parsed
		}
		supplies, err := store.ListSupplies(c.Request.Context(), name, cluster)
		if err != nil {
			respondError(c, store.Logger(), "listSuppliesHandler", err)
			return
		}
		c.JSON(http.StatusOK, supplies)
	}
}

func getSupplyHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		supply, err := store.GetSupply(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, store.Logger(), "getSupplyHandler", err)
			return
		}
		c.JSON(http.StatusOK, supply)
	}
}

func createSupplyHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSupply
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}
		supply, err := store.CreateSupply(c.Request.Context(), &input)
		if err != nil {
			respondError(c, logger, "createSupplyHandler", err)
			return
		}
		c.JSON(http.StatusCreated, supply)
	}
}

func updateSupplyHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSupply
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}
		supply, err := store.UpdateSupply(c.Request.Context(), c.Param("code"), &input)
		if err != nil {
			respondError(c, logger, "updateSupplyHandler", err)
			return
		}
		c.JSON(http.StatusOK, supply)
	}
}

func deleteSupplyHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		supply, err := store.DeleteSupply(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, logger, "deleteSupplyHandler", err)
			return
		}
		c.JSON(http.StatusOK, supply)
	}
}

/* deliveries */

func listDeliveriesHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, err := parseDateRange(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": err.Error()})
			return
		}
		deliveries, err := store.ListDeliveries(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, store.Logger(), "listDeliveriesHandler", err)
			return
		}
		c.JSON(http.StatusOK, deliveries)
	}
}

func getDeliveryHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		delivery, err := store.GetDelivery(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondError(c, store.Logger(), "getDeliveryHandler", err)
			return
		}
		c.JSON(http.StatusOK, delivery)
	}
}

func createDeliveryHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewDelivery
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}
		delivery, err := store.CreateDelivery(c.Request.Context(), &input)
		if err != nil {
			respondError(c, logger, "createDeliveryHandler", err)
			return
		}
		c.JSON(http.StatusCreated, delivery)
	}
}

func updateDeliveryHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.UpdateDeliveryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}
		delivery, err := store.UpdateDelivery(c.Request.Context(), c.Param("number"), &input)
		if err != nil {
			respondError(c, logger, "updateDeliveryHandler", err)
			return
		}
		c.JSON(http.StatusOK, delivery)
	}
}

func deleteDeliveryHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		delivery, err := store.DeleteDelivery(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondError(c, logger, "deleteDeliveryHandler", err)
			return
		}
		c.JSON(http.StatusOK, delivery)
	}
}

/* releases */

func listReleasesHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, err := parseDateRange(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": err.Error()})
			return
		}
		releases, err := store.ListReleases(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, store.Logger(), "listReleasesHandler", err)
			return
		}
		c.JSON(http.StatusOK, releases)
	}
}

func getReleaseHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		release, err := store.GetRelease(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondError(c, store.Logger(), "getReleaseHandler", err)
			return
		}
		c.JSON(http.StatusOK, release)
	}
}

func createReleaseHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewRelease
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}
		release, err := store.CreateRelease(c.Request.Context(), &input)
		if err != nil {
			respondError(c, logger, "createReleaseHandler", err)
			return
		}
		c.JSON(http.StatusCreated, release)
	}
}

func updateReleaseHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.UpdateReleaseInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}
		release, err := store.UpdateRelease(c.Request.Context(), c.Param("number"), &input)
		if err != nil {
			respondError(c, logger, "updateReleaseHandler", err)
			return
		}
		c.JSON(http.StatusOK, release)
	}
}

func deleteReleaseHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		release, err := store.DeleteRelease(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondError(c, logger, "deleteReleaseHandler", err)
			return
		}
		c.JSON(http.StatusOK, release)
	}
}

/* reference collections */

func listUnitsHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		units, err := store.ListSupplyUnits(c.Request.Context())
		if err != nil {
			respondError(c, store.Logger(), "listUnitsHandler", err)
			return
		}
		c.JSON(http.StatusOK, units)
	}
}

func createUnitHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSupplyUnit
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}
		unit, err := store.CreateSupplyUnit(c.Request.Context(), &input)
		if err != nil {
			respondError(c, logger, "createUnitHandler", err)
			return
		}
		c.JSON(http.StatusCreated, unit)
	}
}

func deleteUnitHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": "id must be an integer"})
			return
		}
		unit, err := store.DeleteSupplyUnit(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, "deleteUnitHandler", err)
			return
		}
		c.JSON(http.StatusOK, unit)
	}
}

func listClassificationsHandler(store *models.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		classifications, err := store.ListClassifications(c.Request.Context())
		if err != nil {
			respondError(c, store.Logger(), "listClassificationsHandler", err)
			return
		}
		c.JSON(http.StatusOK, classifications)
	}
}

func createClassificationHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewClassification
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}
		classification, err := store.CreateClassification(c.Request.Context(), &input)
		if err != nil {
			respondError(c, logger, "createClassificationHandler", err)
			return
		}
		c.JSON(http.StatusCreated, classification)
	}
}

func deleteClassificationHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": "id must be an integer"})
			return
		}
		classification, err := store.DeleteClassification(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, "deleteClassificationHandler", err)
			return
		}
		c.JSON(http.StatusOK, classification)
	}
}
