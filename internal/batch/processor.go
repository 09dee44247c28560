// Package batch converts every document of a directory concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/fileutils"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/mapping"
	"fjacquet/format-converter/internal/session"
)

// Request describes a directory conversion.
type Request struct {
	InputDir  string
	OutputDir string
	Source    codec.Format
	Target    codec.Format
	Options   codec.Options
	// Rules, when set, are applied to every file. Otherwise each file gets
	// the identity mapping of its own paths.
	Rules    []mapping.Rule
	MaxFiles int
}

// Result is the outcome for one input file.
type Result struct {
	Input  string
	Output string
	Err    error
}

// ErrOutputCollision marks files skipped because another input file of the
// same batch converts to the same output file, such as a.xml and a.xsd.
var ErrOutputCollision = errors.New("output file is shared with another input file")

// Processor runs conversions on a pool of workers.
type Processor struct {
	registry    *codec.Registry
	logger      logging.Logger
	workerCount int
}

// NewProcessor creates a processor. A worker count of zero or less uses one
// worker per CPU.
func NewProcessor(registry *codec.Registry, logger logging.Logger, workers int) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Processor{
		registry:    registry,
		logger:      logger,
		workerCount: workers,
	}
}

// Run converts the documents of req.InputDir whose extension matches
// req.Source. Results are returned in file name order. A failing file does
// not stop the others; only listing errors and cancellation are returned as
// errors.
//
// Files whose output name is shared with another file are not converted and
// fail with ErrOutputCollision. The batch is refused when an output file
// would replace its own input, which happens when OutputDir is empty and the
// source and target extensions match.
func (p *Processor) Run(ctx context.Context, req Request) ([]Result, error) {
	if req.Rules != nil {
		if err := mapping.ValidateRules(req.Rules); err != nil {
			return nil, err
		}
	}

	files, err := fileutils.ListDocuments(req.InputDir, req.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s files in %s: %w", req.Source, req.InputDir, err)
	}
	if req.MaxFiles > 0 && len(files) > req.MaxFiles {
		p.logger.Warn("Too many files, truncating batch",
			logging.F(logging.FieldCount, len(files)),
			logging.F("max_files", req.MaxFiles))
		files = files[:req.MaxFiles]
	}

	outDir := req.OutputDir
	if outDir == "" {
		outDir = req.InputDir
	}
	results, pending, err := p.plan(files, outDir, req.Target)
	if err != nil {
		return nil, err
	}
	if err := fileutils.EnsureDirectoryExists(outDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := p.workerCount
	if workers > len(pending) {
		workers = len(pending)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				results[index] = p.convertFile(results[index], req)
			}
		}()
	}

	cancelled := false
feed:
	for _, i := range pending {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			cancelled = true
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled {
		return nil, ctx.Err()
	}

	p.logger.Info("Batch conversion completed",
		logging.F(logging.FieldCount, len(files)),
		logging.F(logging.FieldWorkers, workers))
	return results, nil
}

// plan assigns an output file to every input. It returns the results with
// collisions already failed and the indexes of the files left to convert.
func (p *Processor) plan(files []string, outDir string, target codec.Format) ([]Result, []int, error) {
	results := make([]Result, len(files))
	owners := make(map[string]int, len(files))
	for i, input := range files {
		output := fileutils.OutputPath(input, outDir, target)
		key := absPath(output)
		if key == absPath(input) {
			return nil, nil, fmt.Errorf("output file %s would overwrite its input, choose another output directory", output)
		}
		results[i] = Result{Input: input, Output: output}
		owners[key]++
	}

	pending := make([]int, 0, len(files))
	for i := range results {
		if owners[absPath(results[i].Output)] > 1 {
			results[i].Err = fmt.Errorf("%w: %s", ErrOutputCollision, results[i].Output)
			p.logger.Warn("Output file name collision, skipping file",
				logging.F(logging.FieldFile, filepath.Base(results[i].Input)),
				logging.F(logging.FieldOutputFile, results[i].Output))
			continue
		}
		pending = append(pending, i)
	}
	return results, pending, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// convertFile runs one file through its own session so that no mapping
// state is shared between workers.
func (p *Processor) convertFile(result Result, req Request) Result {
	input := result.Input
	text, err := fileutils.ReadText(input)
	if err != nil {
		result.Err = err
		return result
	}

	s := session.New(p.registry, p.logger, req.Source, req.Target, req.Options)
	if req.Rules != nil {
		rules := make([]mapping.Rule, len(req.Rules))
		copy(rules, req.Rules)
		if err := s.LoadRules(rules); err != nil {
			result.Err = err
			return result
		}
	}

	out, err := s.Convert(text)
	if err != nil {
		p.logger.WithError(err).Error("Failed to convert file",
			logging.F(logging.FieldFile, filepath.Base(input)))
		result.Err = err
		return result
	}

	if err := fileutils.WriteText(result.Output, out); err != nil {
		result.Err = err
		return result
	}
	p.logger.Debug("Wrote file", logging.F(logging.FieldOutputFile, result.Output))
	return result
}
