package repo_test

import (
	"context"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srinivasaraogurram/go-postgres-crud/db"
	"github.com/srinivasaraogurram/go-postgres-crud/models"
	"github.com/srinivasaraogurram/go-postgres-crud/repo"
)

func newTestRepo(t *testing.T) repo.UserRepository {
	t.Helper()

	database, err := db.Open(db.Config{
		DSN:        ":memory:",
		DriverName: "sqlite3",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	_, err = database.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS users (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			name  TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE
		)`)
	require.NoError(t, err)

	return repo.NewUserRepo(database)
}

func TestInsert_ThenList(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	err := r.Insert(ctx, models.CreateUserParams{Name: "Alice", Email: "alice@users.com"})
	require.NoError(t, err)

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Alice", all[0].Name)
	assert.Equal(t, "alice@users.com", all[0].Email)
	assert.NotZero(t, all[0].ID, "database assigns the surrogate key")
}

func TestInsert_DuplicateEmail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	params := models.CreateUserParams{Name: "Alice", Email: "dup@users.com"}
	require.NoError(t, r.Insert(ctx, params))

	err := r.Insert(ctx, params)
	assert.True(t, db.IsDuplicateKey(err), "expected ErrDuplicateKey, got %v", err)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "failed insert must not create a row")
}

func TestGetByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, models.CreateUserParams{Name: "Bob", Email: "bob@users.com"}))

	created, err := r.GetByEmail(ctx, "bob@users.com")
	require.NoError(t, err)
	require.NotNil(t, created)

	fetched, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "Bob", fetched.Name)
	assert.Equal(t, "bob@users.com", fetched.Email)
}

func TestGetByID_Absent(t *testing.T) {
	r := newTestRepo(t)

	u, err := r.GetByID(context.Background(), 99999)
	assert.NoError(t, err, "absence is a normal result, not a failure")
	assert.Nil(t, u)
}

func TestGetByEmail_Absent(t *testing.T) {
	r := newTestRepo(t)

	u, err := r.GetByEmail(context.Background(), "nobody@users.com")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestUpdate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, models.CreateUserParams{Name: "Old Name", Email: "upd@users.com"}))
	u, err := r.GetByEmail(ctx, "upd@users.com")
	require.NoError(t, err)
	require.NotNil(t, u)

	err = r.Update(ctx, models.UpdateUserParams{
		ID:    u.ID,
		Name:  "New Name",
		Email: "new@users.com",
	})
	require.NoError(t, err)

	updated, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "new@users.com", updated.Email)
}

func TestUpdate_MissingID_NoOp(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, models.CreateUserParams{Name: "Keep", Email: "keep@users.com"}))

	err := r.Update(ctx, models.UpdateUserParams{
		ID:    99999,
		Name:  "Nobody",
		Email: "nobody@users.com",
	})
	assert.NoError(t, err, "updating a missing identifier completes without error")

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Keep", all[0].Name, "no row may change")
}

func TestInsertMany_ThenList(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	params := make([]models.CreateUserParams, 0, 5)
	for i := 0; i < 5; i++ {
		params = append(params, models.CreateUserParams{
			Name:  fmt.Sprintf("User %d", i),
			Email: fmt.Sprintf("user%d@users.com", i),
		})
	}
	require.NoError(t, r.InsertMany(ctx, params))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)

	byEmail := make(map[string]models.User, len(all))
	for _, u := range all {
		byEmail[u.Email] = u
	}
	for _, p := range params {
		got, ok := byEmail[p.Email]
		require.True(t, ok, "missing %s", p.Email)
		assert.Equal(t, p.Name, got.Name)
	}
}

func TestInsertMany_RollsBackOnDuplicate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	err := r.InsertMany(ctx, []models.CreateUserParams{
		{Name: "A", Email: "same@users.com"},
		{Name: "B", Email: "same@users.com"},
	})
	require.Error(t, err)
	assert.True(t, db.IsDuplicateKey(err))

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a failing batch applies nothing")
}

func TestInsertMany_Empty(t *testing.T) {
	r := newTestRepo(t)
	assert.NoError(t, r.InsertMany(context.Background(), nil))
}

func TestUpdateMany(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.InsertMany(ctx, []models.CreateUserParams{
		{Name: "One", Email: "one@users.com"},
		{Name: "Two", Email: "two@users.com"},
	}))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	updates := make([]models.UpdateUserParams, 0, len(all)+1)
	for _, u := range all {
		updates = append(updates, models.UpdateUserParams{
			ID:    u.ID,
			Name:  u.Name + " Renamed",
			Email: u.Email,
		})
	}
	// Unmatched identifiers in the batch are silent no-ops.
	updates = append(updates, models.UpdateUserParams{ID: 99999, Name: "X", Email: "x@users.com"})

	require.NoError(t, r.UpdateMany(ctx, updates))

	all, err = r.List(ctx)
	require.NoError(t, err)
	for _, u := range all {
		assert.Contains(t, u.Name, "Renamed")
	}
}

func TestUpdateMany_RollsBackOnDuplicate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.InsertMany(ctx, []models.CreateUserParams{
		{Name: "One", Email: "one@users.com"},
		{Name: "Two", Email: "two@users.com"},
	}))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// The first update is valid; the second collides with the first row's
	// email and must drag the whole batch down with it.
	err = r.UpdateMany(ctx, []models.UpdateUserParams{
		{ID: all[0].ID, Name: "One Renamed", Email: all[0].Email},
		{ID: all[1].ID, Name: "Two Renamed", Email: all[0].Email},
	})
	require.Error(t, err)
	assert.True(t, db.IsDuplicateKey(err))

	byEmail := make(map[string]models.User, 2)
	after, err := r.List(ctx)
	require.NoError(t, err)
	for _, u := range after {
		byEmail[u.Email] = u
	}
	assert.Equal(t, "One", byEmail["one@users.com"].Name, "valid update in a failed batch must not apply")
	assert.Equal(t, "Two", byEmail["two@users.com"].Name)
}

func TestDeleteByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, models.CreateUserParams{Name: "Del", Email: "del@users.com"}))
	u, err := r.GetByEmail(ctx, "del@users.com")
	require.NoError(t, err)
	require.NotNil(t, u)

	require.NoError(t, r.DeleteByID(ctx, u.ID))

	gone, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDeleteByID_Missing_NoOp(t *testing.T) {
	r := newTestRepo(t)
	assert.NoError(t, r.DeleteByID(context.Background(), 99999))
}

func TestDeleteAll_ThenList(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.InsertMany(ctx, []models.CreateUserParams{
		{Name: "A", Email: "a@users.com"},
		{Name: "B", Email: "b@users.com"},
		{Name: "C", Email: "c@users.com"},
	}))

	require.NoError(t, r.DeleteAll(ctx))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "list after delete-all returns an empty sequence")
}

func TestList_EmptyTable(t *testing.T) {
	r := newTestRepo(t)

	all, err := r.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestCount(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, r.InsertMany(ctx, []models.CreateUserParams{
		{Name: "A", Email: "a@cnt.com"},
		{Name: "B", Email: "b@cnt.com"},
	}))

	n, err = r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
