package cli

import (
	"bytes"
	"fmt"

	"github.com/ralt/metalinker/internal/config"
	"github.com/ralt/metalinker/internal/loader"
	"github.com/ralt/metalinker/internal/models"
	"github.com/ralt/metalinker/internal/report"
	"github.com/ralt/metalinker/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewParseCmd creates the parse command
func NewParseCmd(opts *rootOptions) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print a parsed Metalink document",
		Long: `Parses a Metalink 3.0 or 4.0 document and prints its content.
Use "-" to read the document from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := stringFlag(cmd, "output", opts.config.Output)
			if err := config.ValidateOutput(output); err != nil {
				return err
			}

			ml, err := loadMetalink(cmd, args[0])
			if err != nil {
				return err
			}

			if outputFile == "" {
				return report.Write(cmd.OutOrStdout(), output, ml)
			}

			var buf bytes.Buffer
			if err := report.Write(&buf, output, ml); err != nil {
				return err
			}
			if err := utils.WriteFile(outputFile, buf.Bytes(), 0644); err != nil {
				return &models.MetalinkError{
					Type:    models.ErrFileOp,
					Element: outputFile,
					Err:     fmt.Errorf("failed to write report: %w", err),
				}
			}
			logrus.Infof("Report written to: %s", outputFile)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", config.OutputText, "Output format (text, json, yaml)")
	cmd.Flags().StringVarP(&outputFile, "output-file", "f", "", "Write the report to a file instead of stdout")

	return cmd
}

// loadMetalink loads a document from a path, or from stdin for "-"
func loadMetalink(cmd *cobra.Command, source string) (*models.Metalink, error) {
	var (
		ml  *models.Metalink
		err error
	)

	if source == "-" {
		logrus.Debug("Reading metalink from stdin")
		ml, err = loader.FromReader(cmd.InOrStdin())
	} else {
		ml, err = loader.FromPath(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", source, err)
	}

	logrus.Debugf("Parsed %d files from %s", len(ml.Files), source)
	return ml, nil
}
