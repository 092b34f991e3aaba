// main.go walks through every users-table operation against the PostgreSQL
// instance provisioned by docker-compose.yml:
//
//  1. open the fixed endpoint from config
//  2. insert one user
//  3. duplicate insert (unique email violation, handled)
//  4. get by id / get a missing id (absent, not an error)
//  5. list all
//  6. update one / update a missing id (silent no-op)
//  7. bulk insert and bulk update (single batched round trip each)
//  8. delete by id, then delete all
//
// Run `docker compose up -d` and `go run ./cmd/migrate up` first.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/srinivasaraogurram/go-postgres-crud/config"
	"github.com/srinivasaraogurram/go-postgres-crud/db"
	"github.com/srinivasaraogurram/go-postgres-crud/models"
	"github.com/srinivasaraogurram/go-postgres-crud/repo"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	database := db.MustOpen(db.Config{
		DSN:            cfg.ConnectionString(),
		DriverName:     "postgres",
		DefaultTimeout: 10 * time.Second,
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{
				Logger:             logger,
				SlowQueryThreshold: 200 * time.Millisecond,
			}),
		},
	})
	defer database.Close()

	slog.Info("database connected", "host", cfg.Host, "port", cfg.Port, "db", cfg.DBName)

	ctx := context.Background()
	users := repo.NewUserRepo(database)

	// Insert one.
	err := users.Insert(ctx, models.CreateUserParams{
		Name:  "Alice Smith",
		Email: "alice@example.com",
	})
	if err != nil {
		fatalf("insert user: %v", err)
	}
	slog.Info("inserted user", "email", "alice@example.com")

	// Duplicate insert: the unique constraint on email rejects it.
	err = users.Insert(ctx, models.CreateUserParams{
		Name:  "Alice Again",
		Email: "alice@example.com",
	})
	if db.IsDuplicateKey(err) {
		slog.Info("duplicate email correctly rejected")
	} else if err != nil {
		fatalf("unexpected insert error: %v", err)
	}

	// Lookup by the unique email, then by id.
	alice, err := users.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		fatalf("get by email: %v", err)
	}
	if alice == nil {
		fatalf("alice should exist")
	}
	slog.Info("found by email", "id", alice.ID, "name", alice.Name)

	fetched, err := users.GetByID(ctx, alice.ID)
	if err != nil {
		fatalf("get by id: %v", err)
	}
	slog.Info("fetched user", "id", fetched.ID, "email", fetched.Email)

	// A missing identifier is an absent result, not an error.
	missing, err := users.GetByID(ctx, 999_999)
	if err != nil {
		fatalf("get missing id: %v", err)
	}
	if missing == nil {
		slog.Info("missing id correctly returned absent result")
	}

	// Update one; updating a missing id is a silent no-op.
	err = users.Update(ctx, models.UpdateUserParams{
		ID:    alice.ID,
		Name:  "Alice Johnson",
		Email: "alice.johnson@example.com",
	})
	if err != nil {
		fatalf("update user: %v", err)
	}
	if err := users.Update(ctx, models.UpdateUserParams{
		ID:    999_999,
		Name:  "Nobody",
		Email: "nobody@example.com",
	}); err != nil {
		fatalf("update of missing id should be a no-op: %v", err)
	}
	slog.Info("updated user", "id", alice.ID)

	// Bulk insert: one batched round trip, all-or-nothing.
	err = users.InsertMany(ctx, []models.CreateUserParams{
		{Name: "Bob Builder", Email: "bob@example.com"},
		{Name: "Carol White", Email: "carol@example.com"},
		{Name: "Dave Grohl", Email: "dave@example.com"},
	})
	if err != nil {
		fatalf("bulk insert: %v", err)
	}

	// Bulk update, same batching contract.
	all, err := users.List(ctx)
	if err != nil {
		fatalf("list: %v", err)
	}
	updates := make([]models.UpdateUserParams, 0, len(all))
	for _, u := range all {
		updates = append(updates, models.UpdateUserParams{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		})
	}
	if err := users.UpdateMany(ctx, updates); err != nil {
		fatalf("bulk update: %v", err)
	}

	n, err := users.Count(ctx)
	if err != nil {
		fatalf("count: %v", err)
	}
	slog.Info("users after bulk insert", "count", n)

	// Delete one, then everything.
	if err := users.DeleteByID(ctx, alice.ID); err != nil {
		fatalf("delete user: %v", err)
	}
	if err := users.DeleteAll(ctx); err != nil {
		fatalf("delete all: %v", err)
	}

	remaining, err := users.List(ctx)
	if err != nil {
		fatalf("final list: %v", err)
	}
	slog.Info("walkthrough complete", "remaining", len(remaining), "pool", database.Stats().OpenConnections)
}

func fatalf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
