// Package report renders parsed Metalink documents for the command line.
package report

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/ralt/metalinker/internal/config"
	"github.com/ralt/metalinker/internal/models"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Write renders v in the given output format. Text rendering is only
// defined for *models.Metalink; other values fall back to YAML.
func Write(w io.Writer, output string, v interface{}) error {
	switch output {
	case config.OutputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case config.OutputText:
		if ml, ok := v.(*models.Metalink); ok {
			return WriteText(w, ml)
		}
		return Write(w, config.OutputYAML, v)
	default:
		return config.ValidateOutput(output)
	}
}

// WriteText prints a human readable summary of a document
func WriteText(w io.Writer, ml *models.Metalink) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Generator:    %s\n", ml.Generator)
	fmt.Fprintf(&b, "Origin:       %s\n", ml.Origin)
	fmt.Fprintf(&b, "Dynamic:      %t\n", ml.Dynamic)
	fmt.Fprintf(&b, "Published:    %s\n", ml.PublishDate)
	if ml.Publisher != "" || ml.PublisherURL != "" {
		fmt.Fprintf(&b, "Publisher:    %s <%s>\n", ml.Publisher, ml.PublisherURL)
	}
	fmt.Fprintf(&b, "Files:        %d\n", len(ml.Files))

	for _, f := range ml.Files {
		fmt.Fprintf(&b, "\nFile: %s\n", f.File)
		if f.Size > 0 {
			fmt.Fprintf(&b, "  Size:       %d\n", f.Size)
		}
		for _, h := range f.Hashes {
			fmt.Fprintf(&b, "  Hash:       %s %s\n", h.HashSumType, h.HashSum)
		}
		if p := f.PieceInfo; p != nil {
			fmt.Fprintf(&b, "  Pieces:     %d x %d bytes (%s)\n", len(p.Hashes), p.Length, p.Type)
		}
		for _, s := range f.Signatures {
			fmt.Fprintf(&b, "  Signature:  %s (%s)\n", s.SignatureFile, s.SignatureType)
		}
		fmt.Fprintf(&b, "  Mirrors:    %d\n", len(f.Resources))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
