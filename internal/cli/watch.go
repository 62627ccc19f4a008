package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// watchDelay collapses the burst of events an editor save produces.
const watchDelay = 150 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <scene>",
		Short: "Re-check a scene every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			w, err := fsnotify.NewWatcher()
			if err != nil {
				return errors.Wrap(err, "start watcher")
			}
			defer w.Close()

			// Editors often replace the file, so watch its directory.
			if err := w.Add(filepath.Dir(path)); err != nil {
				return errors.Wrap(err, "watch scene directory")
			}

			var (
				mu      sync.Mutex
				stopped bool
			)
			out := cmd.OutOrStdout()
			report := func() {
				mu.Lock()
				defer mu.Unlock()
				if !stopped {
					a.report(out, path)
				}
			}
			report()

			debounced := debounce.New(watchDelay)
			// A save still pending when the watch ends must not print.
			defer func() {
				debounced(func() {})
				mu.Lock()
				stopped = true
				mu.Unlock()
			}()
			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-w.Events:
					if !ok {
						return nil
					}
					a.log.Debug("file event", "path", ev.Name, "op", ev.Op.String())
					if filepath.Clean(ev.Name) == path && (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
						debounced(report)
					}
				case err, ok := <-w.Errors:
					if !ok {
						return nil
					}
					a.log.Warn("watch error", "err", err)
				}
			}
		},
	}
}

// report prints one check pass over path. Failures are printed, never
// returned, so the watch keeps running.
func (a *app) report(w io.Writer, path string) {
	fmt.Fprintf(w, "== %s\n", filepath.Base(path))
	res, err := a.evaluate(path)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	rep := checkReport{Errors: res.Errors, Warnings: res.Warnings}
	if res.Scene != nil {
		rep.Collisions, err = detectAll(res.Scene, a.cfg.Detector())
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
	}
	printCheck(w, rep)
}
