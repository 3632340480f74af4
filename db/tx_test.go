package db

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactor struct {
	calls       []string
	beginErr    error
	rollbackErr error
}

func (f *fakeTransactor) Begin(ctx context.Context) error {
	f.calls = append(f.calls, "begin")
	return f.beginErr
}

func (f *fakeTransactor) Commit() error {
	f.calls = append(f.calls, "commit")
	return nil
}

func (f *fakeTransactor) Rollback() error {
	f.calls = append(f.calls, "rollback")
	return f.rollbackErr
}

func TestRunTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		tr := &fakeTransactor{}
		err := RunTransaction(ctx, tr, func(ctx context.Context) error { return nil })
		assert.NoError(t, err)
		assert.Equal(t, []string{"begin", "commit"}, tr.calls)
	})

	t.Run("rollback", func(t *testing.T) {
		tr := &fakeTransactor{}
		workErr := errors.New("boom")
		err := RunTransaction(ctx, tr, func(ctx context.Context) error { return workErr })
		assert.ErrorIs(t, err, workErr)
		assert.Equal(t, []string{"begin", "rollback"}, tr.calls)
	})

	t.Run("rollback fails", func(t *testing.T) {
		tr := &fakeTransactor{rollbackErr: errors.New("connection lost")}
		workErr := errors.New("boom")
		err := RunTransaction(ctx, tr, func(ctx context.Context) error { return workErr })
		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		assert.Len(t, merr.Errors, 2)
		assert.ErrorIs(t, err, workErr)
		assert.ErrorIs(t, err, tr.rollbackErr)
	})

	t.Run("begin fails", func(t *testing.T) {
		tr := &fakeTransactor{beginErr: errors.New("busy")}
		called := false
		err := RunTransaction(ctx, tr, func(ctx context.Context) error { called = true; return nil })
		assert.ErrorIs(t, err, tr.beginErr)
		assert.False(t, called)
	})
}
