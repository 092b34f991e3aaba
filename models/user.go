package models

// User represents a row in the "users" table. Fields map 1-to-1 with
// columns; ID is the database-assigned surrogate key and stays zero until
// the row has been inserted and read back.
type User struct {
	ID    int64
	Name  string
	Email string
}

// CreateUserParams holds the fields required to create a new user. The
// identifier is assigned by the database and never supplied by callers.
type CreateUserParams struct {
	Name  string
	Email string
}

// UpdateUserParams holds a full replacement of the mutable columns for the
// row identified by ID. Both name and email are always bound.
type UpdateUserParams struct {
	ID    int64
	Name  string
	Email string
}
