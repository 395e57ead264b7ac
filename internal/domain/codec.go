package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidUser is returned when a request body cannot be decoded into a User.
var ErrInvalidUser = errors.New("invalid user payload")

// userPayload mirrors the wire shape of a request body. Pointers let us tell
// a missing field apart from an empty one.
type userPayload struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// DecodeUser parses a request body into a User. Any id in the payload is
// ignored; name and email must both be present.
func DecodeUser(body string) (User, error) {
	var p userPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &p); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	if p.Name == nil {
		return User{}, fmt.Errorf("%w: missing field name", ErrInvalidUser)
	}
	if p.Email == nil {
		return User{}, fmt.Errorf("%w: missing field email", ErrInvalidUser)
	}
	return User{Name: *p.Name, Email: *p.Email}, nil
}

// EncodeUser renders a single user as a flat JSON object.
func EncodeUser(u User) (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	return string(data), nil
}

// EncodeUsers renders a collection as a JSON array. A nil or empty slice
// encodes as "[]".
func EncodeUsers(users []User) (string, error) {
	if users == nil {
		users = []User{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return "", fmt.Errorf("encode users: %w", err)
	}
	return string(data), nil
}
