// Package domain defines the core types for the users server.
//
// Types in this package are pure value objects with no database or socket
// dependencies. They are the shared language between the dispatcher, the
// users service, and the repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no net.Conn, no context.Context in struct fields
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Validation and encoding helpers are allowed (pure functions on the type)
package domain
