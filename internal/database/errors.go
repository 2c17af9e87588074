package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Substrings the three wired drivers emit when the server cannot be reached:
// mysql ("invalid connection", "driver: bad connection"), lib/pq
// ("the database system is starting up", "connection refused" via net.OpError)
// and sqlite ("database is locked" under contention, "database is closed").
var connectionErrorFragments = []string{
	"connection refused",
	"connection reset",
	"host is unreachable",
	"network is unreachable",
	"broken pipe",
	"bad connection",
	"invalid connection",
	"the database system is starting up",
	"the database system is shutting down",
	"database is locked",
	"database is closed",
}

// IsConnectionError reports whether the error means the database is
// unavailable rather than the statement being wrong. Handlers map these to a
// 503 response instead of treating the failure as a bad request.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range connectionErrorFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
