// Package service implements the application's use cases on top of the repositories.
package service

import (
	"errors"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// notFoundOr converts a missing-row error into a NOT_FOUND AppError and passes
// anything else through.
func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}
