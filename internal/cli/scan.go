package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ralt/metalinker/internal/config"
	"github.com/ralt/metalinker/internal/loader"
	"github.com/ralt/metalinker/internal/report"
	"github.com/ralt/metalinker/internal/scanner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// scanEntry is one row of the scan summary
type scanEntry struct {
	Path      string `json:"path" yaml:"path"`
	Type      string `json:"type" yaml:"type"`
	Files     int    `json:"files" yaml:"files"`
	Resources int    `json:"resources" yaml:"resources"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewScanCmd creates the scan command
func NewScanCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Parse every Metalink file below a directory",
		Long: `Recursively finds .metalink and .meta4 files, parses each one and
prints a summary. Files that fail to parse are reported and do not stop
the scan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := stringFlag(cmd, "output", opts.config.Output)
			if err := config.ValidateOutput(output); err != nil {
				return err
			}

			logrus.Infof("Scanning directory: %s", args[0])
			sc := scanner.NewFileSystemScanner()
			scanned, err := sc.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			entries := make([]scanEntry, 0, len(scanned))
			failures := 0
			for _, s := range scanned {
				entry := scanEntry{Path: s.Path, Type: s.Type.String()}

				ml, err := loader.FromPath(s.Path)
				if err != nil {
					logrus.Warnf("Failed to parse %s: %v", s.Path, err)
					entry.Error = err.Error()
					failures++
					entries = append(entries, entry)
					continue
				}

				entry.Files = len(ml.Files)
				for _, f := range ml.Files {
					entry.Resources += len(f.Resources)
				}
				entries = append(entries, entry)
			}

			if output == config.OutputText {
				if err := writeScan(cmd, entries); err != nil {
					return err
				}
			} else if err := report.Write(cmd.OutOrStdout(), output, entries); err != nil {
				return err
			}

			if failures > 0 {
				return fmt.Errorf("%d of %d metalink files failed to parse", failures, len(entries))
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", config.OutputText, "Output format (text, json, yaml)")

	return cmd
}

func writeScan(cmd *cobra.Command, entries []scanEntry) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tTYPE\tFILES\tMIRRORS\tERROR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", e.Path, e.Type, e.Files, e.Resources, e.Error)
	}
	return tw.Flush()
}
