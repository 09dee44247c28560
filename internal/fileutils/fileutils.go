// Package fileutils reads and writes the documents handled by the CLI and
// derives output file names from the target format.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/format-converter/internal/codec"
)

// DefaultOutputBase is the file name, without extension, used when a
// converted document has no name of its own.
const DefaultOutputBase = "converted_data"

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// ReadText returns the content of a document. A leading UTF-8 byte order
// mark is dropped.
func ReadText(filePath string) (string, error) {
	if !FileExists(filePath) {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// WriteText writes text to a file, creating parent directories as needed.
// A final newline is added when text does not end with one.
func WriteText(filePath, text string) error {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return err
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := os.WriteFile(filePath, []byte(text), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// DefaultOutputName returns converted_data with the target's extension.
func DefaultOutputName(target codec.Format) string {
	return DefaultOutputBase + target.Extension()
}

// OutputPath returns the path in outDir of the converted version of
// inputPath: the same base name with the target's extension.
func OutputPath(inputPath, outDir string, target codec.Format) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = DefaultOutputBase
	}
	return filepath.Join(outDir, base+target.Extension())
}

// ListDocuments returns the files directly inside dirPath whose extension
// maps to format, sorted by name.
func ListDocuments(dirPath string, format codec.Format) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if f, err := codec.DetectFormat(entry.Name()); err == nil && f == format {
			files = append(files, filepath.Join(dirPath, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
