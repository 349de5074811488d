package tasks

import "errors"

var (
	// ErrNotFound means the task id does not resolve.
	ErrNotFound = errors.New("task not found")

	// ErrProjectNotFound means the target project of a create (or a
	// task's parent) does not resolve.
	ErrProjectNotFound = errors.New("project not found")

	// ErrNoAccess means the caller is neither owner nor member of the
	// task's parent project. Tasks carry no ACL of their own.
	ErrNoAccess = errors.New("not authorized to access this task")

	// ErrValidation wraps required-field and enum violations.
	ErrValidation = errors.New("validation failed")
)
