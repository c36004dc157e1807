package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskwire/taskwire/internal/domain"
)

// failingDBTX counts calls and fails every query. It lets unit tests prove
// that validation short-circuits before any database work happens.
type failingDBTX struct {
	calls int
}

var errDBUnreachable = errors.New("db unreachable")

func (f *failingDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.calls++
	return nil, errDBUnreachable
}

func (f *failingDBTX) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	f.calls++
	return nil, errDBUnreachable
}

func (f *failingDBTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	f.calls++
	// database/sql offers no way to construct an errored *sql.Row; tests
	// that reach this path are exercising code that would panic anyway.
	panic("QueryRowContext should not be reached in these tests")
}

func TestNewTaskStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() {
		NewTaskStore(nil, nil)
	})
}

func TestCreateValidatesBeforeTouchingDatabase(t *testing.T) {
	db := &failingDBTX{}
	s := NewTaskStore(db, nil)

	_, err := s.Create(context.Background(), "   ", "details")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, db.calls, "validation failure must not reach the database")
}

func TestListMapsQueryFailure(t *testing.T) {
	db := &failingDBTX{}
	s := NewTaskStore(db, nil)

	_, err := s.List(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, db.calls)
}
