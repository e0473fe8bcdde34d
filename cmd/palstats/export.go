package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lisacrebassa/pals-analysis/render"
)

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [combat|camp|zones|all]",
		Short: "Export views to an XLSX workbook",
		Args:  cobra.MaximumNArgs(1),
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
			if err := render.WriteXLSX(w, pages...); err != nil {
				_ = closeFn()
				return err
			}
			if out != "" {
				a.logger.Info("Workbook written", zap.String("path", out), zap.Int("views", len(pages)))
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "palstats.xlsx", "Output file path")
	return cmd
}
