// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Supervisor states.
const (
	StateIdle State = iota
	StateWatching
	StateChangeDetected
	StateRerunning
)

// clearScreenSeq clears the terminal and moves the cursor home.
const clearScreenSeq = "\033[2J\033[H"

type (
	// State is the supervisor's position in its loop.
	State int32

	// RerunFunc is called once per batch. Errors are logged; they never stop
	// the loop.
	RerunFunc func(ctx context.Context, batch Batch) error

	// Supervisor reruns a command whenever its Source reports a batch.
	Supervisor struct {
		Logger *log.Logger
		// ClearScreen writes an ANSI clear sequence to Stdout before each
		// rerun.
		ClearScreen bool
		Stdout      io.Writer
		// Initial, when set, runs once after the source is subscribed and
		// before the first batch is read. Changes made while it runs arrive
		// in the first batch. Its errors are logged like rerun errors.
		Initial func(ctx context.Context) error

		state atomic.Int32
	}
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWatching:
		return "watching"
	case StateChangeDetected:
		return "change-detected"
	case StateRerunning:
		return "rerunning"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// State returns the current state.
func (s *Supervisor) State() State { return State(s.state.Load()) }

// Run consumes src until ctx is cancelled, calling rerun exactly once for
// each non-empty batch. Reruns are serialized. Run returns nil on
// cancellation and the source's error if it stops on its own.
func (s *Supervisor) Run(ctx context.Context, src Source, rerun RerunFunc) error {
	defer s.setState(StateIdle)

	batches, err := src.Changes(ctx)
	if err != nil {
		return err
	}
	if s.Initial != nil {
		s.setState(StateRerunning)
		if err := s.Initial(ctx); err != nil && ctx.Err() == nil {
			s.logger().Error("initial run failed", "err", err)
		}
	}
	s.setState(StateWatching)

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-batches:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				if err := src.Err(); err != nil {
					return err
				}
				return errors.New("watch: source stopped")
			}
			if len(batch) == 0 {
				continue
			}
			s.handle(ctx, batch, rerun)
		}
	}
}

func (s *Supervisor) handle(ctx context.Context, batch Batch, rerun RerunFunc) {
	s.setState(StateChangeDetected)
	logger := s.logger()
	logger.Infof("Detected %d change(s)", len(batch))
	for _, c := range batch {
		logger.Debugf("%s %s", c.Path, c.Kind)
	}

	if s.ClearScreen && s.Stdout != nil {
		_, _ = io.WriteString(s.Stdout, clearScreenSeq)
	}

	s.setState(StateRerunning)
	if err := rerun(ctx, batch); err != nil && ctx.Err() == nil {
		logger.Error("rerun failed", "err", err)
	}
	s.setState(StateWatching)
}

func (s *Supervisor) setState(st State) { s.state.Store(int32(st)) }

func (s *Supervisor) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}
