package task

import (
	"fmt"

	"github.com/example/task-api/domain/apperr"
	domain "github.com/example/task-api/domain/task"
)

var (
	// ErrTaskNotFound is returned when no task has the requested ID.
	ErrTaskNotFound = apperr.New(apperr.CodeNotFound, "Task not found")
	// ErrForbidden matches every authorization failure via errors.Is.
	ErrForbidden = apperr.New(apperr.CodeForbidden, "forbidden")
)

func forbidden(action domain.Action) *apperr.Error {
	return apperr.New(apperr.CodeForbidden, fmt.Sprintf("You are not authorized to %s this task", action))
}
