package core

import (
	"context"
	"fmt"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/volmand/volmand/pkg/core/status"
	"github.com/volmand/volmand/pkg/errors"
	"github.com/volmand/volmand/pkg/model"
	"github.com/volmand/volmand/pkg/zfs"
)

// Transport moves a serialized snapshot stream from a send command into
// a receive command. The production implementation is zfs.ExecTransport;
// tests substitute a recording fake.
//
// Transfer must not start the receive side before the send side's
// output is available, and must report which half failed.
type Transport interface {
	Transfer(ctx context.Context, sendArgs, recvArgs []string) error
}

// ReplicationError wraps a transfer failure with the stage that
// produced it.
type ReplicationError struct {
	Stage string
	Cause error
}

func (e *ReplicationError) Error() string {
	return fmt.Sprintf("replication failed at %s stage: %v", e.Stage, e.Cause)
}

// Unwrap the stage failure
func (e *ReplicationError) Unwrap() error {
	return e.Cause
}

// Engine plans and performs incremental filesystem replication between
// nodes. It never retries: failures are classified and returned with
// full context for the caller to decide.
type Engine struct {
	transport Transport
	l         *zap.Logger
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// EngineLogger sets a logger on the engine
func EngineLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.l = l
		}
	}
}

// NewEngine builds a replication engine over a transport.
func NewEngine(t Transport, opts ...EngineOption) *Engine {
	e := &Engine{transport: t, l: zap.NewNop()}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

// Replicate brings destination up to date with source's most recent
// snapshot:
//
//   - the histories share source's latest snapshot: nothing to do;
//   - a common ancestor exists: incremental send of the delta between
//     the ancestor and source's latest, applied on top of destination's
//     copy of the ancestor;
//   - no common ancestor and an empty destination history: full send of
//     source's latest;
//   - no common ancestor but the destination has snapshots:
//     ErrDestinationNotEmpty.
//
// Transfer failures come back as *ReplicationError naming the stage.
func (e *Engine) Replicate(ctx context.Context, source, destination model.Filesystem, sourceHistory, destinationHistory model.Snapshots) error {
	latest, ok := sourceHistory.Latest()
	if !ok {
		return status.ErrNoSourceSnapshot
	}

	transferID := ksuid.New().String()
	log := e.l.With(
		zap.String("transfer_id", transferID),
		zap.String("source", source.Name()),
		zap.String("destination", destination.Name()),
	)

	common, shared := LatestCommonSnapshot(sourceHistory, destinationHistory)
	if shared && common == latest {
		log.Debug("destination up to date, nothing to transfer",
			zap.String("snapshot", latest.Name))
		return nil
	}

	var sendArgs []string
	switch {
	case shared:
		sendArgs = []string{"send", "-i",
			source.Name() + "@" + common.Name,
			source.Name() + "@" + latest.Name,
		}
		log.Debug("incremental transfer planned",
			zap.String("from", common.Name),
			zap.String("to", latest.Name))
	case len(destinationHistory) > 0:
		return status.ErrDestinationNotEmpty
	default:
		sendArgs = []string{"send", source.Name() + "@" + latest.Name}
		log.Debug("full transfer planned", zap.String("to", latest.Name))
	}
	recvArgs := []string{"receive", destination.Name()}

	if err := e.transport.Transfer(ctx, sendArgs, recvArgs); err != nil {
		stage := "transfer"
		var perr *zfs.PipelineError
		cause := err
		if errors.As(err, &perr) {
			stage = perr.Stage
			cause = perr.Err
		}
		log.Debug("transfer failed", zap.String("stage", stage), zap.Error(cause))
		return &ReplicationError{Stage: stage, Cause: cause}
	}

	log.Debug("transfer complete", zap.String("snapshot", latest.Name))
	return nil
}
