package handlers

import (
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

// respondError writes the standard error envelope with a machine-readable
// code and the request correlation id.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
		"request_id": requestID(c),
	})
}

// dbUnavailable reports whether err is a connection-class database
// failure (unreachable server, dial failure, dead connection) rather
// than a query error.
func dbUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}

// respondDBError answers 503 for connection-class database failures and
// falls back to the given internal error for everything else.
func respondDBError(c *gin.Context, err error, code, message string) {
	if dbUnavailable(err) {
		respondError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE",
			"Unable to reach the database. Please try again later.")
		return
	}
	respondError(c, http.StatusInternalServerError, code, message)
}
