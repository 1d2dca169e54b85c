package zfs

import (
	"bytes"
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/volmand/volmand/pkg/errors"
	"github.com/volmand/volmand/pkg/zfs/status"
)

// fakeRunner scripts a single process outcome and records the
// invocation it received.
type fakeRunner struct {
	chunks [][]byte
	err    error

	gotName string
	gotArgs []string
	calls   int
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string) ([]byte, error) {
	f.calls++
	f.gotName = name
	f.gotArgs = args
	if f.err != nil {
		return nil, f.err
	}
	return bytes.Join(f.chunks, nil), nil
}

func TestCommandInvocation(t *testing.T) {
	r := &fakeRunner{}
	_, err := Command(context.Background(), r, "-H", "lalala")
	require.NoError(t, err)
	assert.Equal(t, "zfs", r.gotName)
	assert.Equal(t, []string{"-H", "lalala"}, r.gotArgs)
}

func TestCommandNormalExit(t *testing.T) {
	// stdout is concatenated across chunked writes
	r := &fakeRunner{chunks: [][]byte{[]byte("abc"), []byte("def")}}
	out, err := Command(context.Background(), r, "-H", "lalala")
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdef"), out)
}

func TestCommandErrorExit(t *testing.T) {
	r := &fakeRunner{err: &ProcessError{Code: 1, Output: []byte("boom")}}
	_, err := Command(context.Background(), r, "-H", "lalala")
	require.Error(t, err)

	var cerr *CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"-H", "lalala"}, cerr.Args)
	assert.Equal(t, 1, cerr.Code)
	assert.Equal(t, []byte("boom"), cerr.Output)
	assert.True(t, errors.Is(err, status.ErrCommandFailed))
}

func TestCommandBadArgumentsExit(t *testing.T) {
	r := &fakeRunner{err: &ProcessError{Code: 2, Output: []byte("usage")}}
	_, err := Command(context.Background(), r, "-H", "lalala")
	require.Error(t, err)

	var cerr *CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 2, cerr.Code)
	assert.True(t, errors.Is(err, status.ErrBadArguments))
}

func TestCommandOtherExit(t *testing.T) {
	// exit codes other than 0, 1, 2 propagate the termination error unmodified
	perr := &ProcessError{Code: 99}
	r := &fakeRunner{err: perr}
	_, err := Command(context.Background(), r, "-H", "lalala")
	require.Error(t, err)
	assert.Same(t, perr, err)
}

func TestCommandSignalExit(t *testing.T) {
	// a signal termination is never classified, whatever the code
	perr := &ProcessError{Code: -1, Signal: "killed"}
	r := &fakeRunner{err: perr}
	_, err := Command(context.Background(), r, "send", "pool/fs@a")
	require.Error(t, err)
	assert.Same(t, perr, err)
}

func TestCommandSpawnFailure(t *testing.T) {
	r := &fakeRunner{err: fs.ErrNotExist}
	_, err := Command(context.Background(), r, "list")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestCommandSquashedLogsOnce(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := &fakeRunner{err: &ProcessError{Code: 1, Output: []byte("no such pool")}}

	CommandSquashed(context.Background(), r, zap.New(core), "destroy", "-r", "hpool/gone")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "zfs_error", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields["status"])
	assert.Equal(t, "zfs destroy -r hpool/gone", fields["zfs_command"])
	assert.Equal(t, "no such pool", fields["output"])
}

func TestCommandSquashedSpawnFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := &fakeRunner{err: fs.ErrNotExist}

	CommandSquashed(context.Background(), r, zap.New(core), "list")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields["status"])
	assert.Equal(t, "zfs list", fields["zfs_command"])
	assert.Equal(t, fs.ErrNotExist.Error(), fields["output"])
}

func TestCommandSquashedSuccessIsSilent(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := &fakeRunner{chunks: [][]byte{[]byte("ok")}}

	CommandSquashed(context.Background(), r, zap.New(core), "list")

	assert.Zero(t, logs.Len())
	assert.Equal(t, 1, r.calls)
}
