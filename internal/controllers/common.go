package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"chama_fund/internal/apperr"
)

// writeError translates a taxonomy error into its HTTP response. Anything
// outside the taxonomy is logged and reported as a generic 500 so internals
// never leak to a client.
func writeError(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Err != nil {
			logrus.WithError(ae.Err).Warn(ae.Message)
		}
		c.JSON(ae.Kind.Status(), gin.H{"message": ae.Message})
		return
	}

	logrus.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}

// storeErr maps a gorm/postgres failure to the taxonomy. Unique and
// foreign-key violations become conflicts: the database constraint is the
// final arbiter behind every courtesy pre-check.
func storeErr(err error, notFoundMsg, conflictMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.E(apperr.NotFound, notFoundMsg)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505", "23503":
			return apperr.Wrap(apperr.Conflict, conflictMsg, err)
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(apperr.Conflict, conflictMsg, err)
	}
	return err
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, apperr.E(apperr.Validation, "invalid "+name+" format")
	}
	return uint(id), nil
}
