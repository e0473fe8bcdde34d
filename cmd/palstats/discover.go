package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lisacrebassa/pals-analysis/render"
	"github.com/lisacrebassa/pals-analysis/schema"
)

func newDiscoverCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "discover [file.csv ...]",
		Short: "Print the inferred schema of each dataset",
		Long: `Print which columns load as dimensions (text) and which as measures
(numbers). Without arguments every configured dataset is inspected;
otherwise each CSV file given is.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas, err := a.discover(cmd, args)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case render.FormatJSON, render.FormatPretty:
				return render.WriteJSON(w, schemas, format == render.FormatPretty)
			case render.FormatText:
				return writeSchemaText(w, schemas)
			}
			return errors.Errorf("unknown format %q (want json, pretty or text)", format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", render.FormatText, "Output format: json, pretty, text")
	return cmd
}

func (a *app) discover(cmd *cobra.Command, files []string) ([]*schema.Config, error) {
	if len(files) == 0 {
		store, err := a.loadStore(cmd.Context())
		if err != nil {
			return nil, err
		}
		var out []*schema.Config
		for _, name := range store.Names() {
			out = append(out, store.Schema(name))
		}
		return out, nil
	}

	out := make([]*schema.Config, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		sch, err := schema.DiscoverFromCSV(data, schema.DiscoverOptions{Name: name})
		if err != nil {
			return nil, errors.Wrapf(err, "discover %s", path)
		}
		sch.DiscoveredFrom = path
		out = append(out, sch)
	}
	return out, nil
}

func writeSchemaText(w io.Writer, schemas []*schema.Config) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, s := range schemas {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (%s rows)\n", s.Name, humanize.Comma(int64(s.Rows)))
		for _, d := range s.Dimensions {
			fmt.Fprintf(tw, "  %s\tdimension\t%s unique\t%s\n",
				d.Key, humanize.Comma(int64(d.UniqueCount)), strings.Join(d.SampleValues, ", "))
		}
		for _, m := range s.Measures {
			kind := "measure"
			if m.IsFlag {
				kind = "flag"
			}
			empty := ""
			if m.NullCount > 0 {
				empty = humanize.Comma(int64(m.NullCount)) + " empty"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t\n", m.Key, kind, empty)
		}
	}
	return errors.WithStack(tw.Flush())
}
