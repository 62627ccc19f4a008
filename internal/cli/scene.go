package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/caisson/internal/logger"
	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/engine"
	"github.com/chazu/caisson/pkg/scene"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// evaluate reads and runs a scene source file. Evaluation errors are
// returned in the result, not as err.
func (a *app) evaluate(path string) (engine.EvalResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return engine.EvalResult{}, errors.Wrap(err, "read scene")
	}
	log := logger.ForComponent("engine")
	eng := engine.NewEngine(engine.WithLogger(log), engine.WithTimeout(a.cfg.Engine.Timeout))
	res := eng.Run(string(src))
	log.Debug("scene evaluated", "file", path, "errors", len(res.Errors), "warnings", len(res.Warnings))
	return res, nil
}

// loadScene evaluates path and fails on any evaluation or validation error.
func (a *app) loadScene(path string) (*scene.Scene, error) {
	res, err := a.evaluate(path)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		msgs := make([]string, len(res.Errors))
		for i, e := range res.Errors {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("%s: %s", path, strings.Join(msgs, "; "))
	}
	for _, w := range res.Warnings {
		a.log.Warn("scene warning", "cabinet", w.Cabinet, "message", w.Message)
	}
	return res.Scene, nil
}

// cabinets returns the indices to work on: all of them, or the one named.
func cabinets(s *scene.Scene, name string) ([]int, error) {
	if name == "" {
		out := make([]int, s.Len())
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	i, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("no cabinet named %q", name)
	}
	return []int{i}, nil
}

// snapshots pairs cabinet indices with their resolved snapshots.
func snapshots(s *scene.Scene, idx []int) ([]cabinet.Cabinet, error) {
	out := make([]cabinet.Cabinet, 0, len(idx))
	for _, i := range idx {
		c, err := s.Snapshot(i)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "write json")
}

// printer formats lengths with thousands separators.
func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

