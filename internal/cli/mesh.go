package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/chazu/caisson/pkg/engine"
	"github.com/chazu/caisson/pkg/kernel"
	"github.com/chazu/caisson/pkg/kernel/sdfx"
	"github.com/chazu/caisson/pkg/tessellate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// colorPalette assigns each cabinet a distinct preview colour.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON mesh format read by the preview viewer.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Cabinet  string    `json:"cabinet"`
	Material string    `json:"material"`
	Color    string    `json:"color"`
}

// MeshResult is the full document written by the mesh command.
type MeshResult struct {
	Meshes   []MeshData           `json:"meshes"`
	Errors   []engine.EvalError   `json:"errors"`
	Warnings []engine.EvalWarning `json:"warnings"`
}

func newMeshCmd(a *app) *cobra.Command {
	var (
		out   string
		cells int
		drill bool
	)
	cmd := &cobra.Command{
		Use:   "mesh <scene>",
		Short: "Tessellate the scene into preview meshes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.evaluate(args[0])
			if err != nil {
				return err
			}
			k := sdfx.New(sdfx.WithCells(cells))
			result := buildMeshes(res, k, tessellate.Options{Drill: drill})
			a.log.Info("tessellated", "meshes", len(result.Meshes), "errors", len(result.Errors))

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return errors.Wrap(err, "create mesh file")
				}
				defer f.Close()
				w = f
			}
			if err := writeJSON(w, result); err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return &exitError{code: exitUserError, err: fmt.Errorf("%s: %s", args[0], result.Errors[0].Message)}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "meshes.json", "output file, - for stdout")
	cmd.Flags().IntVar(&cells, "cells", sdfx.DefaultMeshCells, "marching cubes resolution")
	cmd.Flags().BoolVar(&drill, "drill", false, "subtract face holes from the panels")
	return cmd
}

// buildMeshes tessellates an evaluated scene. Evaluation errors are passed
// through and produce no meshes.
func buildMeshes(res engine.EvalResult, k kernel.Kernel, opts tessellate.Options) MeshResult {
	result := MeshResult{
		Meshes:   []MeshData{},
		Errors:   res.Errors,
		Warnings: res.Warnings,
	}
	if !res.OK() {
		return result
	}

	meshes, err := tessellate.Tessellate(res.Scene, k, opts)
	if err != nil {
		result.Errors = append(result.Errors, engine.EvalError{Message: "tessellation failed: " + err.Error()})
		return result
	}

	colors := map[string]string{}
	for _, m := range meshes {
		color, ok := colors[m.Cabinet]
		if !ok {
			color = colorPalette[len(colors)%len(colorPalette)]
			colors[m.Cabinet] = color
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Cabinet:  m.Cabinet,
			Material: m.Material,
			Color:    color,
		})
	}
	return result
}
