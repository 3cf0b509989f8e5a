package api

import (
	"errors"
	"net/http"
	"strconv"

	"caterer/internal/logging"
	"caterer/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps domain errors to HTTP status codes. Anything that is not
// a domain error is logged and reported as a bare 500.
func (a *CateringAPI) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidCategory):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrExternalService):
		status = http.StatusBadGateway
	}

	var domainErr *models.DomainError
	if status == http.StatusInternalServerError || !errors.As(err, &domainErr) {
		logging.FromContext(c, a.logger).Error("request failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "INTERNAL"})
		return
	}
	if status == http.StatusBadGateway {
		logging.FromContext(c, a.logger).Warn("upstream failed", zap.Error(err))
	}
	// wrapped causes stay in the log; the client sees the domain message
	c.AbortWithStatusJSON(status, gin.H{"error": domainErr.Message, "code": domainErr.Code})
}

func (a *CateringAPI) respondBindError(c *gin.Context, err error) {
	a.respondError(c, models.NewDomainError(models.ErrInvalidInput.Code, err.Error()))
}

// paramID parses a positive numeric path parameter
func (a *CateringAPI) paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		a.respondError(c, models.NewDomainError(models.ErrInvalidInput.Code, "invalid "+name+": "+c.Param(name)))
		return 0, false
	}
	return uint(id), true
}
