package service

import (
	"github.com/dtroode/promptgallery-server/internal/apierrors"
)

// storageFailure classifies a store error that is not a domain sentinel.
// Context deadlines and cancellations land here too, as retryable failures.
func storageFailure(err error) error {
	if _, ok := apierrors.As(err); ok {
		return err
	}
	return apierrors.NewErrStorage(err)
}
