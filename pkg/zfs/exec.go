package zfs

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"syscall"

	"go.uber.org/zap"

	"github.com/volmand/volmand/pkg/errors"
)

// ExecRunner is the production Runner: it spawns processes with
// os/exec, inheriting the caller's environment verbatim. Context
// cancellation kills the child process.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run spawns name with args and waits for termination.
func (ExecRunner) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, terminationError(exitErr, append(stdout.Bytes(), stderr.Bytes()...))
	}
	// the process never started: spawn error, unmodified
	return nil, err
}

func terminationError(exitErr *exec.ExitError, output []byte) *ProcessError {
	perr := &ProcessError{Code: exitErr.ExitCode(), Output: output}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		perr.Signal = ws.Signal().String()
	}
	return perr
}

// classify maps a Wait error from one pipeline stage onto the executor
// taxonomy: exit 1/2 become *CommandError, any other termination stays
// a *ProcessError, anything else passes through unmodified.
func classify(args []string, err error, output []byte) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return err
	}
	perr := terminationError(exitErr, output)
	if perr.Signal == "" {
		switch perr.Code {
		case exitCommandFailed, exitBadArguments:
			return &CommandError{Args: args, Code: perr.Code, Output: output}
		}
	}
	return perr
}

// ExecTransport streams a zfs send into a zfs receive through an OS
// pipe: the receive side consumes the serialized snapshot delta as it
// is produced, without buffering the payload in memory.
type ExecTransport struct {
	l *zap.Logger
}

// TransportOption configures an ExecTransport
type TransportOption func(*ExecTransport)

// TransportLogger sets a logger on the transport
func TransportLogger(l *zap.Logger) TransportOption {
	return func(t *ExecTransport) {
		if l != nil {
			t.l = l
		}
	}
}

// NewExecTransport builds the production transport
func NewExecTransport(opts ...TransportOption) *ExecTransport {
	t := &ExecTransport{l: zap.NewNop()}
	for _, apply := range opts {
		apply(t)
	}
	return t
}

// Transfer runs `zfs sendArgs... | zfs recvArgs...`. A failure of either
// half is reported as a *PipelineError naming the stage. When both halves
// fail the send side wins, since the receive failure is usually its
// consequence; the exception is a sender killed by the broken pipe after
// the receiver died, which is attributed to the receive stage.
func (t *ExecTransport) Transfer(ctx context.Context, sendArgs, recvArgs []string) error {
	send := exec.CommandContext(ctx, Binary, sendArgs...)
	recv := exec.CommandContext(ctx, Binary, recvArgs...)
	send.Env = os.Environ()
	recv.Env = os.Environ()

	pipe, err := send.StdoutPipe()
	if err != nil {
		return &PipelineError{Stage: StageSend, Err: err}
	}
	recv.Stdin = pipe

	var sendErr, recvOut, recvErr bytes.Buffer
	send.Stderr = &sendErr
	recv.Stdout = &recvOut
	recv.Stderr = &recvErr

	if err = send.Start(); err != nil {
		return &PipelineError{Stage: StageSend, Err: err}
	}
	if err = recv.Start(); err != nil {
		_ = send.Process.Kill()
		_ = send.Wait()
		return &PipelineError{Stage: StageReceive, Err: err}
	}

	t.l.Debug("transfer started",
		zap.Strings("send", sendArgs),
		zap.Strings("receive", recvArgs),
	)

	// the receive side must drain the pipe before send.Wait closes it
	recvWaitErr := recv.Wait()
	// once the receiver is gone, close our read end so a sender still
	// writing into a full pipe gets EPIPE instead of blocking forever
	_ = pipe.Close()
	sendWaitErr := send.Wait()

	if sendWaitErr != nil && !(recvWaitErr != nil && killedByBrokenPipe(sendWaitErr)) {
		return &PipelineError{
			Stage: StageSend,
			Err:   classify(sendArgs, sendWaitErr, sendErr.Bytes()),
		}
	}
	if recvWaitErr != nil {
		return &PipelineError{
			Stage: StageReceive,
			Err:   classify(recvArgs, recvWaitErr, append(recvOut.Bytes(), recvErr.Bytes()...)),
		}
	}
	return nil
}

// killedByBrokenPipe reports a sender that died on SIGPIPE after its
// reader went away.
func killedByBrokenPipe(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	ws, ok := exitErr.Sys().(syscall.WaitStatus)
	return ok && ws.Signaled() && ws.Signal() == syscall.SIGPIPE
}
