// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/fileutils"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/parsererror"
)

// StdStream is the file name that stands for standard input or output.
const StdStream = "-"

// Converter is the part of a session used to process one file.
type Converter interface {
	Validate(text string) error
	Convert(text string) (string, error)
}

// ResolveFormats returns the source and target formats. Explicit format
// names win; otherwise they are inferred from the file extensions.
func ResolveFormats(input, output, from, to string) (codec.Format, codec.Format, error) {
	source, err := ResolveSource(input, from)
	if err != nil {
		return "", "", err
	}
	target, err := resolveFormat(output, to)
	if err != nil {
		return "", "", fmt.Errorf("target format: %w", err)
	}
	return source, target, nil
}

// ResolveSource returns the format of input, from the --from value or the
// file extension.
func ResolveSource(input, from string) (codec.Format, error) {
	source, err := resolveFormat(input, from)
	if err != nil {
		return "", fmt.Errorf("source format: %w", err)
	}
	return source, nil
}

func resolveFormat(path, name string) (codec.Format, error) {
	if name != "" {
		return codec.ParseFormat(name)
	}
	if isStd(path) {
		return "", fmt.Errorf("cannot be inferred without a file name, use --from or --to")
	}
	return codec.DetectFormat(path)
}

// ReadInput returns the content of path, or of stdin when path is empty or "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	if !isStd(path) {
		return fileutils.ReadText(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read standard input: %w", err)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// WriteLines writes one line per item to w.
func WriteLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteOutput writes text to path, or to stdout when path is empty or "-".
// The output always ends with a newline.
func WriteOutput(path, text string, stdout io.Writer) error {
	if !isStd(path) {
		return fileutils.WriteText(path, text)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(stdout, text)
	return err
}

// ProcessFileWithError converts inputFile to outputFile with conv.
func ProcessFileWithError(conv Converter, inputFile, outputFile string, validate bool, stdin io.Reader, stdout io.Writer, log logging.Logger) error {
	text, err := ReadInput(inputFile, stdin)
	if err != nil {
		return err
	}

	if validate {
		log.Info("Validating format...")
		if err := conv.Validate(text); err != nil {
			return &parsererror.ValidationError{FilePath: displayName(inputFile), Reason: err.Error()}
		}
		log.Info("Validation successful.")
	}

	out, err := conv.Convert(text)
	if err != nil {
		return fmt.Errorf("error converting %s: %w", displayName(inputFile), err)
	}
	if err := WriteOutput(outputFile, out, stdout); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}

	log.Info("Conversion completed successfully!",
		logging.F(logging.FieldInputFile, displayName(inputFile)),
		logging.F(logging.FieldOutputFile, displayName(outputFile)))
	return nil
}

func isStd(path string) bool {
	return path == "" || path == StdStream
}

func displayName(path string) string {
	if isStd(path) {
		return "<stdio>"
	}
	return path
}
