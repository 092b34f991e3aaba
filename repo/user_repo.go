// Package repo translates the five CRUD intents for the "users" table into
// parameterized statements and maps rows to models.User. All SQL is explicit
// and version-controlled; durability, indexing, and the email uniqueness
// constraint are delegated to the database.
package repo

import (
	"context"
	"fmt"

	"github.com/srinivasaraogurram/go-postgres-crud/db"
	"github.com/srinivasaraogurram/go-postgres-crud/models"
)

// UserRepository defines the contract for user persistence operations.
//
// Lookup absence is a normal result: GetByID and GetByEmail return
// (nil, nil) when no row matches. Update and delete of a missing row
// complete without error and change nothing. Bulk variants are sent as one
// batched round trip and apply all-or-nothing.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, params models.CreateUserParams) error
	InsertMany(ctx context.Context, params []models.CreateUserParams) error
	Update(ctx context.Context, params models.UpdateUserParams) error
	UpdateMany(ctx context.Context, params []models.UpdateUserParams) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// userRepo is the production implementation backed by a db.Querier.
type userRepo struct {
	q db.Querier

	// batcher is set when q is a *db.DB; the bulk operations need it to
	// group statements into a single transaction.
	batcher *db.DB
}

// NewUserRepo returns a UserRepository backed by database.
func NewUserRepo(database *db.DB) UserRepository {
	return &userRepo{q: database, batcher: database}
}

const (
	sqlListUsers = `
		SELECT id, name, email
		FROM   users`

	sqlGetUserByID = `
		SELECT id, name, email
		FROM   users
		WHERE  id = $1
		LIMIT  1`

	sqlGetUserByEmail = `
		SELECT id, name, email
		FROM   users
		WHERE  email = $1
		LIMIT  1`

	sqlInsertUser = `
		INSERT INTO users (name, email)
		VALUES ($1, $2)`

	sqlUpdateUser = `
		UPDATE users
		SET    name = $1, email = $2
		WHERE  id = $3`

	sqlDeleteUser = `
		DELETE FROM users WHERE id = $1`

	sqlDeleteAllUsers = `
		DELETE FROM users`

	sqlCountUsers = `
		SELECT COUNT(*) FROM users`
)

// List returns every user in whatever order the database yields them
// (no ORDER BY). An empty table yields an empty slice, never an error.
func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.q.Query(ctx, sqlListUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("repo/user: scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByID returns the user with the given identifier, or (nil, nil) when no
// row matches.
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, sqlGetUserByID, id))
}

// GetByEmail looks up a user by the unique email column, or (nil, nil) when
// no row matches.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, sqlGetUserByEmail, email))
}

// Insert persists a new user. The database assigns the identifier; it is
// not reflected back to the caller.
func (r *userRepo) Insert(ctx context.Context, params models.CreateUserParams) error {
	_, err := r.q.Exec(ctx, sqlInsertUser, params.Name, params.Email)
	return err
}

// InsertMany persists all params in one batched round trip. The batch runs
// inside a single transaction, so a failing row (e.g. a duplicate email)
// rolls back the whole batch.
func (r *userRepo) InsertMany(ctx context.Context, params []models.CreateUserParams) error {
	return db.BatchExec(r.batcher, ctx, sqlInsertUser, params,
		func(p models.CreateUserParams) []any {
			return []any{p.Name, p.Email}
		})
}

// Update overwrites name and email for the row identified by params.ID.
// A missing identifier is a silent no-op; the row count is not checked.
func (r *userRepo) Update(ctx context.Context, params models.UpdateUserParams) error {
	_, err := r.q.Exec(ctx, sqlUpdateUser, params.Name, params.Email, params.ID)
	return err
}

// UpdateMany applies every update in one batched round trip, all-or-nothing.
// As with Update, identifiers that match no row are silent no-ops.
func (r *userRepo) UpdateMany(ctx context.Context, params []models.UpdateUserParams) error {
	return db.BatchExec(r.batcher, ctx, sqlUpdateUser, params,
		func(p models.UpdateUserParams) []any {
			return []any{p.Name, p.Email, p.ID}
		})
}

// DeleteByID removes the row with the given identifier. Deleting a missing
// identifier completes without error.
func (r *userRepo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, sqlDeleteUser, id)
	return err
}

// DeleteAll removes every row from the users table.
func (r *userRepo) DeleteAll(ctx context.Context) error {
	_, err := r.q.Exec(ctx, sqlDeleteAllUsers)
	return err
}

// Count returns the total number of users.
func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, sqlCountUsers).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// scanUser maps a single-row result, converting the not-found mapping back
// into the (nil, nil) absence contract.
func scanUser(row *db.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email)
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repo/user: %w", err)
	}
	return u, nil
}

var _ UserRepository = (*userRepo)(nil)
