package users

import "errors"

// Sentinel errors for the users service layer.
var (
	ErrNotFound = errors.New("user not found")
)
