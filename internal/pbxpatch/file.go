package pbxpatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrAnchorNotFound is returned in strict mode when an insertion point is missing.
var ErrAnchorNotFound = errors.New("anchor not found")

// FileOptions controls PatchFile.
type FileOptions struct {
	Options

	// DryRun computes the report without writing the manifest.
	DryRun bool
	// Strict fails, without writing, if any anchor is missing.
	Strict bool
}

// FileResult is the outcome of PatchFile.
type FileResult struct {
	Report *Report
	// Written is true when the manifest on disk was overwritten.
	Written bool
}

// PatchFile reads the manifest at path, applies records and overwrites the
// file in a single write. No backup is kept. If nothing was inserted the file
// is left untouched.
func PatchFile(ctx context.Context, path string, records []FileRecord, opts FileOptions) (*FileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	patched, report, err := New(opts.Options).Apply(string(data), records)
	if err != nil {
		return nil, err
	}
	result := &FileResult{Report: report}

	if missing := report.Missing(); opts.Strict && len(missing) > 0 {
		return result, fmt.Errorf("%w: %s", ErrAnchorNotFound, describeMissing(missing))
	}
	if opts.DryRun || !report.Changed() {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if err := os.WriteFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return result, fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	result.Written = true
	return result, nil
}

func describeMissing(missing []Result) string {
	seen := make(map[string]bool)
	var parts []string
	for _, m := range missing {
		desc := string(m.Section)
		if m.Section == SectionGroup {
			desc += " " + m.Anchor
		}
		if !seen[desc] {
			seen[desc] = true
			parts = append(parts, desc)
		}
	}
	return strings.Join(parts, ", ")
}
