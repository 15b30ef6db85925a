// Package service provides business logic for the application.
package service

import "errors"

// Service errors.
var (
	ErrUnauthorized         = errors.New("no signed-in user")
	ErrUserNotFound         = errors.New("user not found")
	ErrCreateNotImplemented = errors.New("worksheet creation is not implemented")
)
