package projects

import "errors"

var (
	// ErrNotFound means the project id does not resolve. Always checked
	// before any authorization decision.
	ErrNotFound = errors.New("project not found")

	// ErrNoAccess means the caller is neither owner nor member.
	ErrNoAccess = errors.New("not authorized to access this project")

	// ErrNotOwner means the operation is owner-only and the caller is a
	// member at most.
	ErrNotOwner = errors.New("not authorized to modify this project")

	// ErrValidation wraps required-field and enum violations. Checked
	// before any persistence attempt.
	ErrValidation = errors.New("validation failed")
)
