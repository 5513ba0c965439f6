package split

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/philipparndt/stlsplit/pkg/openscad"
	"github.com/philipparndt/stlsplit/pkg/watcher"
)

// DefaultDebounce is how long the input must stay unchanged before re-splitting
const DefaultDebounce = 500 * time.Millisecond

// Watch splits the input once and again every time it (or an OpenSCAD dependency) changes.
// The initial split must succeed; later failures are reported and watching continues.
// Watch returns nil once ctx is cancelled.
func Watch(ctx context.Context, opts Options, debounce time.Duration) error {
	return watch(ctx, opts, debounce, nil)
}

// watch is Watch with a hook invoked after every re-split
func watch(ctx context.Context, opts Options, debounce time.Duration, afterRun func(*Result, error)) error {
	logger := opts.logger()

	if _, err := Run(ctx, opts); err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(debounce, func(path string) {
		fmt.Fprintf(logger, "Change detected in %s\n", path)
		result, err := Run(ctx, opts)
		if err != nil {
			fmt.Fprintf(logger, "Error: %v\n", err)
		}
		if afterRun != nil {
			afterRun(result, err)
		}
	})
	if err != nil {
		return err
	}
	defer fw.Close()

	fw.OnError(func(err error) {
		fmt.Fprintf(logger, "Watcher error: %v\n", err)
	})

	files := []string{opts.Input}
	if openscad.IsSCAD(opts.Input) {
		deps, err := openscad.NewRenderer(filepath.Dir(opts.Input)).ResolveDependencies(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to resolve dependencies: %w", err)
		}
		files = deps
	}
	if err := fw.Watch(files...); err != nil {
		return err
	}

	fmt.Fprintf(logger, "Watching %d file(s) for changes, press Ctrl+C to stop\n", fw.Files())

	if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
