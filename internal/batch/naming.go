package batch

import (
	"fmt"
	"strings"

	"attendgen/internal/exporter"
)

// unsafeName replaces characters that cannot appear in file names on
// common file systems.
var unsafeName = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
)

// BaseName returns the output name of a group without extension:
// prefix followed by the school code, or group_<n> when the code is missing.
func BaseName(prefix, code string, index int) string {
	code = unsafeName.Replace(strings.TrimSpace(code))
	if code == "" {
		return fmt.Sprintf("group_%d", index+1)
	}
	return prefix + code
}

// assignNames gives every group a unique base name. Groups sharing a
// school code get _2, _3... in group order.
func assignNames(groups []*GroupResult, prefix, codeColumn string) {
	taken := make(map[string]bool)
	for _, gr := range groups {
		root := BaseName(prefix, gr.Group.Value(codeColumn), gr.Group.Index)
		base := root
		for n := 2; taken[base]; n++ {
			base = fmt.Sprintf("%s_%d", root, n)
		}
		taken[base] = true
		gr.Base = base
	}
}

// outputSuffixes returns the file suffix of every renderer. A renderer whose
// extension is already used by an earlier one gets its format name in front,
// so pdf and office-pdf give .pdf and .office-pdf.pdf.
func outputSuffixes(renderers []exporter.Renderer) []string {
	suffixes := make([]string, len(renderers))
	taken := make(map[string]bool)
	for i, r := range renderers {
		suffix := "." + r.Extension()
		if taken[suffix] {
			suffix = "." + r.Format() + suffix
		}
		taken[suffix] = true
		suffixes[i] = suffix
	}
	return suffixes
}
