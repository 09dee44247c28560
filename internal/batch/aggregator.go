package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/format-converter/internal/logging"
)

// Summary aggregates the results of a batch run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    []Result
	// ByDirectory counts converted files per output directory.
	ByDirectory map[string]int
}

// Summarize aggregates results and logs one warning per failed file.
func Summarize(results []Result, logger logging.Logger) Summary {
	summary := Summary{
		Total:       len(results),
		ByDirectory: make(map[string]int),
	}

	for _, r := range results {
		if r.Err != nil {
			summary.Failed = append(summary.Failed, r)
			logger.Warn("File was not converted",
				logging.F(logging.FieldInputFile, filepath.Base(r.Input)),
				logging.F(logging.FieldError, r.Err.Error()))
			continue
		}
		summary.Succeeded++
		summary.ByDirectory[filepath.Dir(r.Output)]++
	}

	logger.Info("Batch summary",
		logging.F("total_files", summary.Total),
		logging.F("succeeded", summary.Succeeded),
		logging.F("failed", len(summary.Failed)))
	return summary
}

// HasFailures reports whether any file failed.
func (s Summary) HasFailures() bool {
	return len(s.Failed) > 0
}

// String renders the summary as the text printed at the end of a batch run.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Converted %d of %d files\n", s.Succeeded, s.Total)

	dirs := make([]string, 0, len(s.ByDirectory))
	for dir := range s.ByDirectory {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		fmt.Fprintf(&b, "  %s: %d\n", dir, s.ByDirectory[dir])
	}

	if len(s.Failed) > 0 {
		b.WriteString("Failed:\n")
		for _, r := range s.Failed {
			fmt.Fprintf(&b, "  - %s: %v\n", filepath.Base(r.Input), r.Err)
		}
	}
	return b.String()
}
