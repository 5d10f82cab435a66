package services

import "errors"

var (
	// ErrMissingFields is returned when required input is blank.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAdminExists is returned when bootstrapping a second admin.
	ErrAdminExists = errors.New("admin already exists")
	// ErrLeaderRemoval is returned when removing a project's leader from its members.
	ErrLeaderRemoval = errors.New("the project leader cannot be removed")
	// ErrForbidden is returned when the actor fails an access check.
	ErrForbidden = errors.New("access denied")
)
