package cli

import (
	"io"

	"github.com/chazu/caisson/pkg/joinery"
	"github.com/chazu/caisson/pkg/panel"
	"github.com/spf13/cobra"
)

type panelHoles struct {
	Ref     string         `json:"ref"`
	Cabinet string         `json:"cabinet"`
	Role    string         `json:"role"`
	Length  float64        `json:"length"`
	Width   float64        `json:"width"`
	Holes   []joinery.Hole `json:"holes"`
}

func newHolesCmd(a *app) *cobra.Command {
	var cabName, roleName string
	cmd := &cobra.Command{
		Use:   "holes <scene>",
		Short: "List the machining holes of each panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var role *panel.Role
			if roleName != "" {
				r, err := panel.ParseRole(roleName)
				if err != nil {
					return err
				}
				role = &r
			}

			s, err := a.loadScene(args[0])
			if err != nil {
				return err
			}
			idx, err := cabinets(s, cabName)
			if err != nil {
				return err
			}
			cabs, err := snapshots(s, idx)
			if err != nil {
				return err
			}

			var out []panelHoles
			for k, c := range cabs {
				for _, p := range panel.Compute(c) {
					if role != nil && p.Role != *role {
						continue
					}
					out = append(out, panelHoles{
						Ref:     p.Letter(idx[k]),
						Cabinet: c.Name,
						Role:    p.Role.String(),
						Length:  p.Outline.X,
						Width:   p.Outline.Y,
						Holes:   joinery.ForPanel(p, c),
					})
				}
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printHoles(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&cabName, "cabinet", "", "only this cabinet")
	cmd.Flags().StringVar(&roleName, "role", "", "only panels of this role, e.g. left-stile")
	return cmd
}

func printHoles(w io.Writer, list []panelHoles) {
	pr := printer()
	for i, ph := range list {
		if i > 0 {
			pr.Fprintln(w)
		}
		pr.Fprintf(w, "%s %s (%s) %.1f x %.1f: %d holes\n", ph.Ref, ph.Role, ph.Cabinet, ph.Length, ph.Width, len(ph.Holes))
		for _, h := range ph.Holes {
			pr.Fprintf(w, "  %s\n", h)
		}
	}
}
