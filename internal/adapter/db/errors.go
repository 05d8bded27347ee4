package db

import (
	"errors"

	"github.com/lib/pq"

	"github.com/eslsoft/lessonplan/internal/core"
)

// persistenceError wraps err into a core.PersistenceError, keeping the most
// specific diagnostic the driver provides.
func persistenceError(err error) error {
	if err == nil {
		return nil
	}
	var perr *core.PersistenceError
	if errors.As(err, &perr) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		detail := pqErr.Detail
		if detail == "" {
			detail = pqErr.Message
		}
		return &core.PersistenceError{Detail: detail, Err: err}
	}

	return &core.PersistenceError{Detail: err.Error(), Err: err}
}
