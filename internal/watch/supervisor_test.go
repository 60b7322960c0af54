// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// scriptedSource delivers a fixed list of batches, then either stays open
// until cancelled or closes with err.
type scriptedSource struct {
	batches []Batch
	err     error
}

func (s *scriptedSource) Changes(ctx context.Context) (<-chan Batch, error) {
	ch := make(chan Batch)
	go func() {
		defer close(ch)
		for _, b := range s.batches {
			select {
			case ch <- b:
			case <-ctx.Done():
				return
			}
		}
		if s.err == nil {
			<-ctx.Done()
		}
	}()
	return ch, nil
}

func (s *scriptedSource) Err() error { return s.err }

// syncBuffer is a bytes.Buffer safe for concurrent logging and reading.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger(w *syncBuffer) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: log.DebugLevel})
}

func TestSupervisorRerunsOncePerBatch(t *testing.T) {
	t.Parallel()

	src := &scriptedSource{batches: []Batch{
		{{Path: "a.ts", Kind: KindWrite}, {Path: "b.ts", Kind: KindCreate}},
		{},
		{{Path: "c.ts", Kind: KindRemove}},
	}}

	var logs syncBuffer
	var stdout syncBuffer
	sup := &Supervisor{Logger: newTestLogger(&logs), ClearScreen: true, Stdout: &stdout}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu       sync.Mutex
		received []Batch
	)
	rerun := func(_ context.Context, b Batch) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, b)
		if len(received) == 2 {
			cancel()
		}
		return nil
	}

	if err := sup.Run(ctx, src, rerun); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("expected 2 reruns (empty batch skipped), got %d", len(received))
	}
	if got := received[0].Paths(); len(got) != 2 || got[0] != "a.ts" || got[1] != "b.ts" {
		t.Errorf("first batch = %v", got)
	}

	out := logs.String()
	for _, want := range []string{"Detected 2 change(s)", "Detected 1 change(s)", "a.ts write", "c.ts remove"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
	if strings.Count(stdout.String(), clearScreenSeq) != 2 {
		t.Errorf("expected one clear-screen per rerun, got %q", stdout.String())
	}
	if sup.State() != StateIdle {
		t.Errorf("State() after Run = %v, want idle", sup.State())
	}
}

func TestSupervisorSerializesReruns(t *testing.T) {
	t.Parallel()

	var batches []Batch
	for range 5 {
		batches = append(batches, Batch{{Path: "x", Kind: KindWrite}})
	}
	src := &scriptedSource{batches: batches}

	var logs syncBuffer
	sup := &Supervisor{Logger: newTestLogger(&logs)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var inFlight, maxInFlight, calls atomic.Int32
	rerun := func(_ context.Context, _ Batch) error {
		n := inFlight.Add(1)
		if n > maxInFlight.Load() {
			maxInFlight.Store(n)
		}
		if sup.State() != StateRerunning {
			t.Errorf("State() during rerun = %v", sup.State())
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		if calls.Add(1) == 5 {
			cancel()
		}
		return errors.New("child failed")
	}

	if err := sup.Run(ctx, src, rerun); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if calls.Load() != 5 {
		t.Errorf("rerun calls = %d, want 5 (errors must not stop the loop)", calls.Load())
	}
	if maxInFlight.Load() != 1 {
		t.Errorf("max concurrent reruns = %d, want 1", maxInFlight.Load())
	}
	if !strings.Contains(logs.String(), "child failed") {
		t.Errorf("rerun error should be logged:\n%s", logs.String())
	}
}

func TestSupervisorInitialRunPrecedesBatches(t *testing.T) {
	t.Parallel()

	src := &scriptedSource{batches: []Batch{{{Path: "a.ts", Kind: KindWrite}}}}

	var logs syncBuffer
	sup := &Supervisor{Logger: newTestLogger(&logs)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, name)
	}
	sup.Initial = func(context.Context) error {
		if sup.State() != StateRerunning {
			t.Errorf("State() during initial run = %v", sup.State())
		}
		record("initial")
		return errors.New("interpreter missing")
	}
	rerun := func(context.Context, Batch) error {
		record("rerun")
		cancel()
		return nil
	}

	if err := sup.Run(ctx, src, rerun); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "initial" || order[1] != "rerun" {
		t.Errorf("call order = %v, want [initial rerun]", order)
	}
	if !strings.Contains(logs.String(), "interpreter missing") {
		t.Errorf("initial run error should be logged:\n%s", logs.String())
	}
}

func TestSupervisorReturnsSourceError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("watch: fatal fsnotify error: too many open files")
	src := &scriptedSource{err: wantErr}

	var logs syncBuffer
	sup := &Supervisor{Logger: newTestLogger(&logs)}
	err := sup.Run(context.Background(), src, func(context.Context, Batch) error { return nil })
	if !errors.Is(err, wantErr) {
		t.Errorf("Run() error = %v, want %v", err, wantErr)
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	names := map[State]string{
		StateIdle:           "idle",
		StateWatching:       "watching",
		StateChangeDetected: "change-detected",
		StateRerunning:      "rerunning",
	}
	for st, want := range names {
		if got := st.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", st, got, want)
		}
	}
}
