package cli

import (
	"fmt"
	"io"

	"github.com/chazu/caisson/pkg/collision"
	"github.com/chazu/caisson/pkg/engine"
	"github.com/chazu/caisson/pkg/joinery"
	"github.com/chazu/caisson/pkg/panel"
	"github.com/chazu/caisson/pkg/scene"
	"github.com/spf13/cobra"
)

type panelConflict struct {
	Ref     string `json:"ref"`
	Cabinet string `json:"cabinet"`
	Role    string `json:"role"`
	collision.Conflict
}

type checkReport struct {
	Errors     []engine.EvalError   `json:"errors"`
	Warnings   []engine.EvalWarning `json:"warnings"`
	Collisions []panelConflict      `json:"collisions"`
}

func (r checkReport) blocking(strict bool) bool {
	return len(r.Errors) > 0 || (strict && len(r.Collisions) > 0)
}

func newCheckCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check <scene>",
		Short: "Validate a scene and report machining collisions",
		Long: "Check evaluates the scene, validates it and runs the collision detector\n" +
			"over every panel. It exits with status 1 when an error blocks export;\n" +
			"collisions only block with --strict.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.evaluate(args[0])
			if err != nil {
				return err
			}
			rep := checkReport{Errors: res.Errors, Warnings: res.Warnings}
			if res.Scene != nil {
				rep.Collisions, err = detectAll(res.Scene, a.cfg.Detector())
				if err != nil {
					return err
				}
			}
			for _, c := range rep.Collisions {
				a.log.Warn("collision", "panel", c.Ref, "kind", c.Kind.String(), "message", c.Message)
			}

			if a.flags.jsonMode {
				if err := writeJSON(cmd.OutOrStdout(), rep); err != nil {
					return err
				}
			} else {
				printCheck(cmd.OutOrStdout(), rep)
			}

			if rep.blocking(strict) {
				return &exitError{code: exitUserError, err: fmt.Errorf("%s: check failed", args[0])}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat collisions as errors")
	return cmd
}

// detectAll runs d over the full hole set of every panel in the scene.
func detectAll(s *scene.Scene, d collision.Detector) ([]panelConflict, error) {
	var out []panelConflict
	for i := range s.Cabinets {
		c, err := s.Snapshot(i)
		if err != nil {
			return nil, err
		}
		for _, p := range panel.Compute(c) {
			for _, cf := range d.Detect(joinery.ForPanel(p, c), c.Shelves) {
				out = append(out, panelConflict{Ref: p.Letter(i), Cabinet: c.Name, Role: p.Role.String(), Conflict: cf})
			}
		}
	}
	return out, nil
}

func printCheck(w io.Writer, rep checkReport) {
	pr := printer()
	for _, e := range rep.Errors {
		pr.Fprintf(w, "error: %s\n", e.Error())
	}
	for _, wn := range rep.Warnings {
		if wn.Cabinet != "" {
			pr.Fprintf(w, "warning: %s: %s\n", wn.Cabinet, wn.Message)
		} else {
			pr.Fprintf(w, "warning: %s\n", wn.Message)
		}
	}
	for _, c := range rep.Collisions {
		pr.Fprintf(w, "collision: %s %s (%s): %s: %s\n", c.Ref, c.Role, c.Cabinet, c.Kind, c.Message)
	}
	pr.Fprintf(w, "%d errors, %d warnings, %d collisions\n", len(rep.Errors), len(rep.Warnings), len(rep.Collisions))
}
