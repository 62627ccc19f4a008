package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chazu/caisson/internal/config"
	"github.com/chazu/caisson/internal/logger"
	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/drawing"
	"github.com/chazu/caisson/pkg/drawing/dxfexport"
	"github.com/chazu/caisson/pkg/drawing/rasterexport"
	"github.com/chazu/caisson/pkg/drawing/svgexport"
	"github.com/chazu/caisson/pkg/joinery"
	"github.com/chazu/caisson/pkg/panel"
	"github.com/chazu/caisson/pkg/scene"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var drawFormats = []string{"svg", "dxf", "png"}

type drawOptions struct {
	cabinet string
	formats []string
	out     string
	pxPerMM float64
}

func newDrawCmd(a *app) *cobra.Command {
	var opts drawOptions
	cmd := &cobra.Command{
		Use:   "draw <scene>",
		Short: "Write a dimensioned drawing of every panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				opts.formats = a.cfg.Output.Formats
			}
			if !cmd.Flags().Changed("out") {
				opts.out = a.cfg.Output.Dir
			}
			for _, f := range opts.formats {
				if !slices.Contains(drawFormats, f) {
					return fmt.Errorf("unknown format %q, expected one of %s", f, strings.Join(drawFormats, ", "))
				}
			}
			style, err := a.cfg.Style()
			if err != nil {
				return err
			}

			s, err := a.loadScene(args[0])
			if err != nil {
				return err
			}
			files, err := a.drawScene(s, style, opts)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), files)
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.cabinet, "cabinet", "", "only this cabinet")
	cmd.Flags().StringSliceVar(&opts.formats, "format", []string{"svg"}, "output formats: svg, dxf, png")
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "output directory")
	cmd.Flags().Float64Var(&opts.pxPerMM, "px-per-mm", 0.5, "PNG resolution")
	return cmd
}

// drawScene writes one file per panel and format and returns their paths.
func (a *app) drawScene(s *scene.Scene, style drawing.Style, opts drawOptions) ([]string, error) {
	idx, err := cabinets(s, opts.cabinet)
	if err != nil {
		return nil, err
	}
	cabs, err := snapshots(s, idx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}

	eng := drawing.Engine{Style: style}
	meta := projectMeta(s.Project, a.cfg.Project)
	log := logger.ForComponent("draw")

	var files []string
	for k, c := range cabs {
		for _, p := range panel.Compute(c) {
			ref := p.Letter(idx[k])
			m := meta
			m.Designation = fmt.Sprintf("%s %s %s", ref, c.Name, p.Name)
			m.Quantity = p.Quantity * max(s.Project.Quantity, 1)

			d := eng.Layout(p, joinery.ForPanel(p, c), cutoutFor(p, c), m)
			for _, f := range opts.formats {
				path := filepath.Join(opts.out, ref+"."+f)
				if err := export(path, f, d, opts.pxPerMM); err != nil {
					return files, err
				}
				log.Info("exported", "file", path, "panel", d.Name)
				files = append(files, path)
			}
		}
	}
	return files, nil
}

// cutoutFor returns the integrated handle opening of a drawer face.
func cutoutFor(p panel.Panel, c cabinet.Cabinet) *drawing.Cutout {
	if p.Role != panel.DrawerFace {
		return nil
	}
	d, ok := c.Drawer()
	if !ok {
		return nil
	}
	return drawing.HandleCutout(d)
}

// projectMeta fills title block fields the scene left at their defaults
// from the config.
func projectMeta(p scene.Project, fallback config.ProjectConfig) drawing.Metadata {
	m := drawing.Metadata{Project: p.Name, Date: p.Date}
	if fallback.Name != "" && (p.Name == "" || p.Name == scene.New().Project.Name) {
		m.Project = fallback.Name
	}
	if m.Date == "" {
		m.Date = fallback.Date
	}
	return m
}

func export(path, format string, d drawing.Drawing, pxPerMM float64) error {
	switch format {
	case "svg":
		return svgexport.Save(path, d)
	case "dxf":
		return dxfexport.Save(path, d)
	case "png":
		return rasterexport.SavePNG(path, d, pxPerMM)
	}
	return fmt.Errorf("unknown format %q", format)
}
