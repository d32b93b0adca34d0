package dbutil

import (
	"errors"
	"net"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Finalize rebinds `?` placeholders to the `$n` form lib/pq expects.
// Query builders in this repo always emit `?` and go through here last.
func Finalize(query string, args []interface{}) (string, []interface{}) {
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

// IsTransient reports whether an error looks like a connectivity problem
// rather than a bad query. Used for logging around the retry layer; the
// retry policy itself is uniform and does not branch on this.
func IsTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		// Class 08: connection exceptions, 57P01..: admin shutdown.
		return pgErr.Code.Class() == "08" || pgErr.Code.Class() == "57"
	}
	return false
}
