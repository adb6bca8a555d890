package service

import (
	stdErrors "errors"

	"github.com/revorbit/auto-frames/internal/errors"
	repository "github.com/revorbit/auto-frames/internal/repositories"
)

// repoError converts a repository failure into an AppError.
func repoError(err error, notFoundMsg, failureMsg string) *errors.AppError {
	if stdErrors.Is(err, repository.ErrNotFound) {
		return errors.NotFoundError(notFoundMsg).WithError(err)
	}

	return errors.DatabaseError(failureMsg).WithError(err)
}

func normalizePage(page, size, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}

	if size < 1 || size > maxSize {
		size = maxSize
	}

	return page, size
}
