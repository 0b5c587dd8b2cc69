// backend-go/internal/api/handlers/handlers.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stockcast/backend-go/internal/domain"
)

// pathID reads a positive int64 path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return id, true
}

// respondError maps domain sentinels to 404 and everything else to 500.
func respondError(c *gin.Context, err error, msg string) {
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrProductNotFound) ||
		errors.Is(err, domain.ErrSupplierNotFound) ||
		errors.Is(err, domain.ErrAlertNotFound) ||
		errors.Is(err, domain.ErrNoForecast)
}
