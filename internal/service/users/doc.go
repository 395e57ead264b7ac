// Package users implements the user record service.
//
// The service layer holds the record semantics (create, read-one, read-all,
// update, delete) and depends on the Repository interface defined in
// repository.go. It never imports net or database/sql directly.
package users
