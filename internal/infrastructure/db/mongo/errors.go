package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dndvault/character-api/internal/core/domain"
)

// wrapErr translates driver errors into domain errors. Network failures
// keep a "timeout" marker so the recovery layer treats them as transient.
func wrapErr(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) && notFound != nil {
		return notFound
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return fmt.Errorf("%s: network timeout: %w", op, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return &domain.StoreError{
			Code:    "DuplicateKey",
			Message: op + ": duplicate key",
			Hint:    "A record with the same unique value already exists.",
			Err:     err,
		}
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return &domain.StoreError{
			Code:    cmdErr.Name,
			Message: fmt.Sprintf("%s: %s", op, cmdErr.Message),
			Err:     err,
		}
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) && len(writeErr.WriteErrors) > 0 {
		we := writeErr.WriteErrors[0]
		return &domain.StoreError{
			Code:    fmt.Sprintf("%d", we.Code),
			Message: fmt.Sprintf("%s: %s", op, we.Message),
			Err:     err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
