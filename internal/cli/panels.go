package cli

import (
	"io"
	"text/tabwriter"

	"github.com/chazu/caisson/pkg/panel"
	"github.com/chazu/caisson/pkg/scene"
	"github.com/spf13/cobra"
)

// cutList is the panel list of one cabinet.
type cutList struct {
	Cabinet string        `json:"cabinet"`
	Panels  []cutListLine `json:"panels"`
}

type cutListLine struct {
	Ref string `json:"ref"`
	panel.Panel
}

type panelsReport struct {
	Project  scene.Project       `json:"project"`
	Cabinets []cutList           `json:"cabinets"`
	Banding  panel.Summary       `json:"banding"`
	Parts    []panel.PartBanding `json:"parts"`
}

func newPanelsCmd(a *app) *cobra.Command {
	var waste float64
	cmd := &cobra.Command{
		Use:   "panels <scene>",
		Short: "Print the cut list and edge banding totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadScene(args[0])
			if err != nil {
				return err
			}
			rep, err := buildPanelsReport(s, waste)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			return printPanels(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().Float64Var(&waste, "waste", 10, "banding waste allowance in percent")
	return cmd
}

// buildPanelsReport multiplies every quantity by the project quantity.
func buildPanelsReport(s *scene.Scene, waste float64) (panelsReport, error) {
	rep := panelsReport{Project: s.Project}
	per := max(s.Project.Quantity, 1)

	var all []panel.Panel
	for i := range s.Cabinets {
		c, err := s.Snapshot(i)
		if err != nil {
			return panelsReport{}, err
		}
		cl := cutList{Cabinet: c.Name}
		for _, p := range panel.Compute(c) {
			p.Quantity *= per
			ref := p.Letter(i)
			cl.Panels = append(cl.Panels, cutListLine{Ref: ref, Panel: p})

			named := p
			named.Name = ref + " " + p.Name
			all = append(all, named)
		}
		rep.Cabinets = append(rep.Cabinets, cl)
	}
	rep.Banding = panel.BandingSummary(all, waste)
	rep.Parts = panel.PerPart(all)
	return rep, nil
}

func printPanels(w io.Writer, rep panelsReport) error {
	pr := printer()
	pr.Fprintf(w, "%s", rep.Project.Name)
	if rep.Project.Client != "" {
		pr.Fprintf(w, " for %s", rep.Project.Client)
	}
	if rep.Project.Date != "" {
		pr.Fprintf(w, ", %s", rep.Project.Date)
	}
	pr.Fprintf(w, " (x%d)\n", max(rep.Project.Quantity, 1))

	for _, cl := range rep.Cabinets {
		pr.Fprintf(w, "\n%s\n", cl.Cabinet)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		pr.Fprintf(tw, "REF\tPART\tQTY\tLENGTH\tWIDTH\tTHICK\tMATERIAL\tBANDING\n")
		for _, l := range cl.Panels {
			pr.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%.1f\t%.1f\t%s\t%s\n",
				l.Ref, l.Name, l.Quantity, l.Length, l.Width, l.Thickness, l.Material, l.Banding)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	b := rep.Banding
	pr.Fprintf(w, "\nEdge banding: %.0f mm on %d edges of %d parts\n", b.TotalLinearMM, b.EdgeCount, b.PartCount)
	pr.Fprintf(w, "With %.0f%% waste: %.0f mm (%.2f m)\n", b.WastePercent, b.TotalWithWasteMM, b.TotalWithWasteM)
	return nil
}
