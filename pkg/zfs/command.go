// Package zfs drives the external ZFS storage tool: it spawns the zfs
// binary, collects its output and classifies its termination by exit
// status. No retry policy lives here; that belongs to callers.
package zfs

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/volmand/volmand/pkg/errors"
)

// Binary is the fixed executable name of the storage tool.
const Binary = "zfs"

// Runner spawns an external process and reports its termination.
//
// On success the returned bytes are everything the process wrote to its
// standard output. A non-zero exit is reported as *ProcessError; a
// process that failed to start at all yields the underlying spawn error.
// Cancelling the context must terminate the process, not merely stop
// waiting for it.
type Runner interface {
	Run(ctx context.Context, name string, args []string) ([]byte, error)
}

// Command runs the storage tool with the given arguments, prepending
// the fixed executable name, and classifies the outcome:
//
//	exit 0      -> stdout bytes
//	exit 1      -> *CommandError (command failed)
//	exit 2      -> *CommandError (bad arguments)
//	other exits, signals, spawn failures -> the underlying error, unmodified
func Command(ctx context.Context, r Runner, args ...string) ([]byte, error) {
	out, err := r.Run(ctx, Binary, args)
	if err == nil {
		return out, nil
	}
	var perr *ProcessError
	if errors.As(err, &perr) && perr.Signal == "" {
		switch perr.Code {
		case exitCommandFailed, exitBadArguments:
			return nil, &CommandError{Args: args, Code: perr.Code, Output: perr.Output}
		}
	}
	return nil, err
}

// CommandSquashed is the best-effort variant of Command for background
// callers that have no synchronous error consumer: any failure is
// absorbed and emitted as exactly one structured diagnostic event
// carrying the exit status, the command line and the most relevant
// captured text.
func CommandSquashed(ctx context.Context, r Runner, log *zap.Logger, args ...string) {
	_, err := Command(ctx, r, args...)
	if err == nil {
		return
	}
	code := exitCommandFailed
	output := err.Error()
	var cerr *CommandError
	var perr *ProcessError
	switch {
	case errors.As(err, &cerr):
		code = cerr.Code
		output = string(cerr.Output)
	case errors.As(err, &perr):
		code = perr.Code
		output = string(perr.Output)
	}
	log.Error("zfs_error",
		zap.Int("status", code),
		zap.String("zfs_command", Binary+" "+strings.Join(args, " ")),
		zap.String("output", output),
	)
}
