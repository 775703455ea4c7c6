package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ralt/metalinker/internal/models"
	"github.com/samber/lo"
)

// MirrorFilter selects resources by location and transport; empty fields match everything
type MirrorFilter struct {
	Location string
	Type     string
}

// Mirror is a resource together with the file it serves
type Mirror struct {
	File                    string `json:"file" yaml:"file"`
	models.MetalinkResource `yaml:",inline"`
}

// Mirrors returns the resources of every file matching filter, in document order
func Mirrors(ml *models.Metalink, filter MirrorFilter) []Mirror {
	var mirrors []Mirror
	for _, f := range ml.Files {
		matching := lo.Filter(f.Resources, func(r models.MetalinkResource, _ int) bool {
			return filter.matches(r)
		})
		mirrors = append(mirrors, lo.Map(matching, func(r models.MetalinkResource, _ int) Mirror {
			return Mirror{File: f.File, MetalinkResource: r}
		})...)
	}
	return mirrors
}

func (f MirrorFilter) matches(r models.MetalinkResource) bool {
	if f.Location != "" && !strings.EqualFold(f.Location, r.Location) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(f.Type, r.Type) {
		return false
	}
	return true
}

// CountByLocation counts mirrors per location; mirrors without one are counted under "-"
func CountByLocation(mirrors []Mirror) map[string]int {
	return lo.CountValuesBy(mirrors, func(m Mirror) string {
		if m.Location == "" {
			return "-"
		}
		return strings.ToLower(m.Location)
	})
}

// WriteMirrors prints mirrors as a table followed by a per-location count
func WriteMirrors(w io.Writer, mirrors []Mirror) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tTYPE\tLOCATION\tPREFERENCE\tURL")
	for _, m := range mirrors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", m.File, m.Type, lo.Ternary(m.Location == "", "-", m.Location), m.Preference, m.URL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts := CountByLocation(mirrors)
	locations := lo.Keys(counts)
	sort.Strings(locations)

	parts := lo.Map(locations, func(loc string, _ int) string {
		return fmt.Sprintf("%s=%d", loc, counts[loc])
	})
	_, err := fmt.Fprintf(w, "\n%d mirrors (%s)\n", len(mirrors), strings.Join(parts, ", "))
	return err
}
