package zfs

import (
	"fmt"
	"strings"

	"github.com/volmand/volmand/pkg/zfs/status"
)

// Exit codes the storage tool documents for its failure modes.
const (
	exitCommandFailed = 1
	exitBadArguments  = 2
)

// CommandError reports a classified tool failure: exit code 1
// (command failed) or exit code 2 (bad arguments). It captures the
// argument list, the exit code and all output collected from the
// process.
type CommandError struct {
	Args   []string
	Code   int
	Output []byte
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("zfs %s: exit status %d: %s",
		strings.Join(e.Args, " "), e.Code, strings.TrimSpace(string(e.Output)))
}

// Unwrap maps the exit code onto the matching sentinel, so callers can
// test with errors.Is(err, status.ErrCommandFailed) etc.
func (e *CommandError) Unwrap() error {
	switch e.Code {
	case exitBadArguments:
		return status.ErrBadArguments
	default:
		return status.ErrCommandFailed
	}
}

// ProcessError reports an unclassified process termination: an exit
// code other than 0, 1 or 2, or death by signal. It is propagated to
// callers unmodified.
type ProcessError struct {
	Code   int
	Signal string
	Output []byte
}

func (e *ProcessError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("process killed by signal %s", e.Signal)
	}
	return fmt.Sprintf("process terminated with exit status %d", e.Code)
}

// Stage names for pipeline failures.
const (
	StageSend    = "send"
	StageReceive = "receive"
)

// PipelineError attributes a transfer failure to the send or receive
// half of a send|receive pipeline.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap the stage failure
func (e *PipelineError) Unwrap() error {
	return e.Err
}
