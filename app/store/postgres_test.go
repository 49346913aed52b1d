package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"tasklist/app/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

// fakePool records Exec calls and answers with a fixed command tag.
type fakePool struct {
	calls []execCall
	tag   string
	err   error
}

func (p *fakePool) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.calls = append(p.calls, execCall{sql: sql, args: args})
	if p.err != nil {
		return pgconn.CommandTag{}, p.err
	}
	return pgconn.NewCommandTag(p.tag), nil
}

func (p *fakePool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, p.err
}

func (p *fakePool) Close() {}

func TestPostgresStore_Put(t *testing.T) {
	pool := &fakePool{tag: "INSERT 0 1"}
	s := &PostgresStore{pool: pool, logger: testLogger()}

	task, err := s.Put(context.Background(), models.Task{ID: "ignored", Name: "Buy milk"})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", task.ID)
	require.Len(t, pool.calls, 1)
	assert.Equal(t, []any{task.ID, "Buy milk", false}, pool.calls[0].args)
}

func TestPostgresStore_UpdateAndDeleteAck(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		affected int
	}{
		{name: "matched", tag: "UPDATE 1", affected: 1},
		{name: "missing", tag: "UPDATE 0", affected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := &fakePool{tag: tt.tag}
			s := &PostgresStore{pool: pool, logger: testLogger()}

			ack, err := s.Update(context.Background(), models.Task{ID: "42", Name: "Buy milk", Completed: true})
			require.NoError(t, err)
			assert.Equal(t, models.Ack{ID: "42", Affected: tt.affected}, ack)
			assert.Equal(t, []any{"42", "Buy milk", true}, pool.calls[0].args)
		})
	}

	pool := &fakePool{tag: "DELETE 1"}
	s := &PostgresStore{pool: pool, logger: testLogger()}
	ack, err := s.Delete(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, models.Ack{ID: "42", Affected: 1}, ack)
}

func TestPostgresStore_WrapsErrors(t *testing.T) {
	cause := errors.New("connection refused")
	s := &PostgresStore{pool: &fakePool{err: cause}, logger: testLogger()}
	ctx := context.Background()

	_, err := s.Scan(ctx)
	assert.ErrorIs(t, err, cause)
	_, err = s.Put(ctx, models.Task{})
	assert.ErrorIs(t, err, cause)
	_, err = s.Update(ctx, models.Task{ID: "1"})
	assert.ErrorIs(t, err, cause)
	_, err = s.Delete(ctx, "1")
	assert.ErrorIs(t, err, cause)
}

// Runs against a real server when DATABASE_URL points at one.
func TestPostgresStore_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	s := NewPostgresStore(pool, testLogger())
	defer s.Close(ctx)

	require.NoError(t, s.EnsureTable(ctx))
	_, err = pool.Exec(ctx, `TRUNCATE tasks`)
	require.NoError(t, err)

	exerciseTaskStore(t, s)
}
