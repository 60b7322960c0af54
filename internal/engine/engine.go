// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/drunsh/drun/internal/resolve"
	"github.com/drunsh/drun/internal/runtime"
	"github.com/drunsh/drun/internal/watch"
	"github.com/drunsh/drun/pkg/scriptfile"
)

type (
	// SourceFactory creates the change source for a watched script.
	SourceFactory func(cfg watch.Config) (watch.Source, error)

	// Engine runs scripts. Declaration and Launcher are required; every
	// other field has a default.
	Engine struct {
		Declaration *scriptfile.Declaration
		Launcher    *runtime.Launcher
		Logger      *log.Logger

		// Interpreter prefixes file scripts. Defaults to
		// runtime.DefaultInterpreter.
		Interpreter []string
		// Probe checks for the default .env file.
		Probe resolve.Probe
		// LoadEnvFile reads dotenv files.
		LoadEnvFile runtime.EnvFileLoader
		// NewSource creates watch sources. Defaults to an fsnotify source.
		NewSource SourceFactory
		// WatchInterval applies when a script does not set its own.
		WatchInterval time.Duration
		// ClearScreen clears the terminal before each rerun.
		ClearScreen bool
		// BaseDir anchors watch paths. Empty means the working directory.
		BaseDir string
		// Verbose echoes every composed command, like global debug.
		Verbose bool
	}
)

// Run resolves inv and runs it. Fatal configuration problems return
// runtime.ExitConfigError together with the error. Otherwise the code is the
// child's, or ExitSuccess when a watch loop is stopped through ctx.
func (e *Engine) Run(ctx context.Context, inv resolve.Invocation) (runtime.ExitCode, error) {
	rs, err := resolve.Resolve(inv, e.Declaration, e.Probe)
	if err != nil {
		return runtime.ExitConfigError, err
	}
	if rs.Watch != nil {
		return e.watch(ctx, rs, inv)
	}

	launch, err := e.prepare(rs, inv)
	if err != nil {
		return runtime.ExitConfigError, err
	}
	result := e.Launcher.Launch(ctx, launch, runtime.StreamInherit)
	return result.ExitCode, result.Error
}

func (e *Engine) watch(ctx context.Context, rs *resolve.ResolvedScript, inv resolve.Invocation) (runtime.ExitCode, error) {
	logger := e.logger()

	launch, err := e.prepare(rs, inv)
	if err != nil {
		return runtime.ExitConfigError, err
	}

	// The source is subscribed before the initial run so edits made while
	// it runs are not lost.
	src, err := e.newSource(rs)
	if err != nil {
		return runtime.ExitFailure, fmt.Errorf("failed to start watcher: %w", err)
	}

	logger.Info("Watching for changes (Ctrl+C to stop)", "paths", rs.WatchPaths())
	sup := &watch.Supervisor{
		Logger:      logger,
		ClearScreen: e.ClearScreen,
		Stdout:      e.Launcher.Stdout,
		Initial: func(ctx context.Context) error {
			logger.Infof("Watch mode: initial execution of '%s'", rs.Name)
			return e.launchCaptured(ctx, rs.Name, launch)
		},
	}
	rerun := func(ctx context.Context, batch watch.Batch) error {
		return e.rerun(ctx, inv, batch)
	}
	if err := sup.Run(ctx, src, rerun); err != nil {
		return runtime.ExitFailure, err
	}
	return runtime.ExitSuccess, nil
}

// rerun re-derives the invocation from the declaration and runs it captured.
func (e *Engine) rerun(ctx context.Context, inv resolve.Invocation, batch watch.Batch) error {
	rs, err := resolve.Resolve(inv, e.Declaration, e.Probe)
	if err != nil {
		return err
	}
	launch, err := e.prepare(rs, inv)
	if err != nil {
		return err
	}
	e.logger().Info(fmt.Sprintf("Re-executing '%s'", rs.Name), "changed", batch.Paths())
	return e.launchCaptured(ctx, rs.Name, launch)
}

// launchCaptured runs one watch-mode cycle. A failing child is reported and
// is not an error.
func (e *Engine) launchCaptured(ctx context.Context, name string, launch *runtime.Invocation) error {
	result := e.Launcher.Launch(ctx, launch, runtime.StreamCaptured)
	if result.Error != nil {
		return result.Error
	}
	e.reportExit(name, result.ExitCode)
	return nil
}

// prepare builds the environment and argv for one launch.
func (e *Engine) prepare(rs *resolve.ResolvedScript, inv resolve.Invocation) (*runtime.Invocation, error) {
	env, err := runtime.BuildEnv(rs, &e.Declaration.Global, e.LoadEnvFile)
	if err != nil {
		return nil, err
	}
	launch, err := runtime.Compose(rs, inv.RestArgs, e.Interpreter)
	if err != nil {
		return nil, err
	}
	launch.Env = env

	if rs.Debug || e.Verbose {
		e.logger().Info("command", "argv", strings.Join(launch.Argv, " "))
		if env != nil {
			e.logger().Info("env", "vars", runtime.EnvToSlice(env))
		}
	}
	return launch, nil
}

func (e *Engine) newSource(rs *resolve.ResolvedScript) (watch.Source, error) {
	interval := e.WatchInterval
	if rs.Watch.Interval != nil {
		interval = time.Duration(*rs.Watch.Interval) * time.Millisecond
	}
	recursive := true
	if rs.Watch.Recursive != nil {
		recursive = *rs.Watch.Recursive
	}

	cfg := watch.Config{
		Paths:      rs.WatchPaths(),
		Match:      rs.Watch.Match,
		Skip:       rs.Watch.Skip,
		Extensions: rs.Watch.Extensions,
		Interval:   interval,
		Recursive:  recursive,
		BaseDir:    e.BaseDir,
		Logger:     e.logger(),
	}
	if e.NewSource != nil {
		return e.NewSource(cfg)
	}
	return FSSourceFactory(cfg)
}

// FSSourceFactory is the default SourceFactory.
func FSSourceFactory(cfg watch.Config) (watch.Source, error) {
	src, err := watch.NewFSSource(cfg)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (e *Engine) reportExit(name string, code runtime.ExitCode) {
	if !code.IsSuccess() {
		e.logger().Warn("script exited", "script", name, "code", code)
	}
}

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}
