package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lisacrebassa/pals-analysis/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "render [combat|camp|zones|all]",
		Short: "Render views to stdout or a file",
		Long: `Render one view, or all of them, in one of these formats:

  json      Full page JSON (default)
  pretty    Pretty-printed JSON
  text      Human-readable tables and chart data
  csv       One CSV block per section (ready for Sheets/Excel)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "all"
			if len(args) == 1 {
				name = args[0]
			}

			pages, err := a.renderPages(cmd.Context(), name)
			if err != nil {
				return err
			}

			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := render.Write(w, format, pages...); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", render.FormatJSON,
		"Output format: "+strings.Join(render.Formats(), ", "))
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}
