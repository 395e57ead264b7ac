package domain

// User is the single persisted record type. ID is assigned by the store on
// creation and never changes afterwards.
type User struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}
