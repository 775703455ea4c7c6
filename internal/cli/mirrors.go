package cli

import (
	"github.com/ralt/metalinker/internal/config"
	"github.com/ralt/metalinker/internal/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewMirrorsCmd creates the mirrors command
func NewMirrorsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirrors <file|->",
		Short: "List the mirrors of a Metalink document",
		Long: `Lists every resource of every file in document order.

Preferences are printed as found: Metalink 3.0 ranks higher preference
values first, Metalink 4.0 ranks lower priority values first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := stringFlag(cmd, "output", opts.config.Output)
			if err := config.ValidateOutput(output); err != nil {
				return err
			}

			filter := report.MirrorFilter{
				Location: stringFlag(cmd, "location", opts.config.Location),
				Type:     stringFlag(cmd, "type", opts.config.Type),
			}

			ml, err := loadMetalink(cmd, args[0])
			if err != nil {
				return err
			}

			mirrors := report.Mirrors(ml, filter)
			if len(mirrors) == 0 {
				logrus.Warn("No mirrors match the given filters")
			}

			if output == config.OutputText {
				return report.WriteMirrors(cmd.OutOrStdout(), mirrors)
			}
			return report.Write(cmd.OutOrStdout(), output, mirrors)
		},
	}

	cmd.Flags().StringP("output", "o", config.OutputText, "Output format (text, json, yaml)")
	cmd.Flags().StringP("location", "l", "", "Only list mirrors in this country code")
	cmd.Flags().StringP("type", "t", "", "Only list mirrors using this transport (http, https, ftp, ...)")

	return cmd
}
