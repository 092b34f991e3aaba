package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/srinivasaraogurram/go-postgres-crud/db"
)

func TestDefaultErrorMapper_NoRows(t *testing.T) {
	err := db.DefaultErrorMapper().Map(sql.ErrNoRows)
	assert.True(t, db.IsNotFound(err))
	assert.ErrorIs(t, err, sql.ErrNoRows, "cause must stay reachable")
}

func TestDefaultErrorMapper_ContextDeadline(t *testing.T) {
	err := db.DefaultErrorMapper().Map(context.DeadlineExceeded)
	assert.True(t, db.IsTimeout(err))
}

func TestDefaultErrorMapper_PQUniqueViolation(t *testing.T) {
	cause := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
	err := db.DefaultErrorMapper().Map(cause)
	assert.True(t, db.IsDuplicateKey(err))

	var pqe *pq.Error
	assert.ErrorAs(t, err, &pqe, "raw lib/pq error must unwrap")
}

func TestDefaultErrorMapper_PgxDeadlock(t *testing.T) {
	cause := &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
	err := db.DefaultErrorMapper().Map(cause)
	assert.True(t, db.IsDeadlock(err))
}

func TestDefaultErrorMapper_PgxForeignKey(t *testing.T) {
	cause := &pgconn.PgError{Code: "23503"}
	err := db.DefaultErrorMapper().Map(cause)
	assert.True(t, db.IsForeignKeyViolation(err))
}

func TestDefaultErrorMapper_MySQLDuplicate(t *testing.T) {
	cause := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	err := db.DefaultErrorMapper().Map(cause)
	assert.True(t, db.IsDuplicateKey(err))
}

func TestDefaultErrorMapper_NoDoubleWrap(t *testing.T) {
	once := db.DefaultErrorMapper().Map(sql.ErrNoRows)
	twice := db.DefaultErrorMapper().Map(once)
	assert.Equal(t, once, twice)

	var dbe *db.DBError
	assert.ErrorAs(t, twice, &dbe)
	assert.ErrorIs(t, dbe.Cause, sql.ErrNoRows, "cause must not be re-wrapped")
}

func TestDefaultErrorMapper_UnknownPassthrough(t *testing.T) {
	cause := errors.New("something else entirely")
	err := db.DefaultErrorMapper().Map(cause)
	assert.Same(t, cause, err)
}

func TestChainMapper_FirstMatchWins(t *testing.T) {
	sentinel := errors.New("remapped")
	custom := db.ErrorMapperFunc(func(err error) error { return sentinel })

	err := db.ChainMapper(custom, db.DefaultErrorMapper()).Map(errors.New("anything"))
	assert.Same(t, sentinel, err)
}
