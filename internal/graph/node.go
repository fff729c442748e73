// Package graph implements the dataflow engine: nodes with a
// prepare/execute/post lifecycle, action-label routing between them,
// nested flows, and three scheduling runners (Sequential, Cooperative-async,
// Parallel) that all honor the same lifecycle.
package graph

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

// ActionLabel is the string a node's Post phase returns to select the next edge.
type ActionLabel string

const (
	// DefaultLabel is used when a node has a single successor.
	DefaultLabel ActionLabel = "default"
	// ErrorLabel is the sentinel label after a node exhausts retries and its
	// fallback (or the default fallback) still fails.
	ErrorLabel ActionLabel = "error"
)

// Node is the unit of work in the graph. prep and exec are opaque
// payloads that the implementation defines for itself; the engine never
// inspects them.
type Node interface {
	// Prepare pulls inputs from the blackboard and validates them.
	Prepare(ctx context.Context, st *state.Store) (prep any, err error)
	// Execute performs the actual work. All external I/O happens here.
	// Must be re-entrant: the engine may call it again on retry.
	Execute(ctx context.Context, prep any) (exec any, err error)
	// Post writes results to the blackboard and selects the next edge.
	Post(ctx context.Context, st *state.Store, prep, exec any) (ActionLabel, error)
	// Name identifies the node in logs and error records.
	Name() string
}

// Fallbacker is implemented by nodes with a custom recovery path for when
// Execute exhausts its retries. Nodes without it get the default fallback:
// record the error and return ErrorLabel.
type Fallbacker interface {
	Fallback(ctx context.Context, prep any, cause error) (exec any, err error)
}

// BackoffKind selects the retry wait strategy.
type BackoffKind int

const (
	BackoffLinear BackoffKind = iota
	BackoffExponential
)

// RetryPolicy configures a node's retry behavior.
type RetryPolicy struct {
	MaxRetries  int // default 1: one attempt, no retry
	WaitSeconds float64
	Backoff     BackoffKind
}

// DefaultRetryPolicy is the conservative no-retry baseline nodes get unless
// they opt into a more forgiving policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 1, WaitSeconds: 0, Backoff: BackoffLinear}
}

func (p RetryPolicy) wait(attempt int) time.Duration {
	if p.WaitSeconds <= 0 {
		return 0
	}
	switch p.Backoff {
	case BackoffExponential:
		return time.Duration(p.WaitSeconds*math.Pow(2, float64(attempt-1))) * time.Second
	default:
		return time.Duration(p.WaitSeconds) * time.Second
	}
}

// ErrRetriesExhausted wraps the last execute error when every attempt failed
// and no fallback recovered it.
var ErrRetriesExhausted = errors.New("graph: node retries exhausted")

// runNode drives one node through prepare -> execute (with retry/fallback) ->
// post. It is the shared core used by every runner ("Dynamic node dispatch":
// runners differ only in scheduling, not in lifecycle).
func runNode(ctx context.Context, st *state.Store, n Node, policy RetryPolicy) (ActionLabel, error) {
	log := logging.Get(logging.CategoryGraph)
	timer := logging.StartTimer(logging.CategoryGraph, n.Name())
	defer timer.Stop()

	prep, err := n.Prepare(ctx, st)
	if err != nil {
		log.Error("%s: prepare failed: %v", n.Name(), err)
		st.AppendError(state.ErrorRecord{
			Stage: n.Name(), Kind: state.ErrorKindFatal,
			Message: fmt.Sprintf("prepare: %v", err), Timestamp: time.Now(),
		})
		return ErrorLabel, err
	}

	maxRetries := policy.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var exec any
	var execErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			if d := policy.wait(attempt - 1); d > 0 {
				select {
				case <-ctx.Done():
					return ErrorLabel, ctx.Err()
				case <-time.After(d):
				}
			}
			log.Debug("%s: retry attempt %d/%d", n.Name(), attempt, maxRetries)
		}
		exec, execErr = traceExecute(ctx, n.Name(), func(ctx context.Context) (any, error) {
			return n.Execute(ctx, prep)
		})
		if execErr == nil {
			break
		}
		log.Warn("%s: execute attempt %d/%d failed: %v", n.Name(), attempt, maxRetries, execErr)
	}

	if execErr != nil {
		if fb, ok := n.(Fallbacker); ok {
			fbExec, fbErr := fb.Fallback(ctx, prep, execErr)
			if fbErr == nil {
				exec = fbExec
				execErr = nil
			} else {
				execErr = fbErr
			}
		}
	}

	if execErr != nil {
		st.AppendError(state.ErrorRecord{
			Stage: n.Name(), Kind: state.ErrorKindRecoverable,
			Message: fmt.Sprintf("%v: %v", ErrRetriesExhausted, execErr),
			Timestamp: time.Now(), RetryCount: maxRetries, Recovered: false,
		})
		return ErrorLabel, fmt.Errorf("%w: %v", ErrRetriesExhausted, execErr)
	}

	label, err := n.Post(ctx, st, prep, exec)
	if err != nil {
		log.Error("%s: post failed: %v", n.Name(), err)
		st.AppendError(state.ErrorRecord{
			Stage: n.Name(), Kind: state.ErrorKindFatal,
			Message: fmt.Sprintf("post: %v", err), Timestamp: time.Now(),
		})
		return ErrorLabel, err
	}
	if label == "" {
		label = DefaultLabel
	}
	log.Debug("%s: post -> %q", n.Name(), label)
	return label, nil
}

// BaseNode supplies a Name() and is embeddable by concrete nodes so they
// only need to implement Prepare/Execute/Post.
type BaseNode struct {
	NodeName string
}

func (b BaseNode) Name() string { return b.NodeName }
