// Package config loads layered configuration files and resolves them into build settings.
package config

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

const commentPrefix = "#"

// LoadIgnoreFilePatterns reads an ignore file with one gitignore-style pattern per line.
// Blank lines and comments are skipped. Remaining lines keep their order and their
// spaces; trailing-space rules are applied when the patterns are compiled.
func LoadIgnoreFilePatterns(fileSystem afero.Fs, ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := fileSystem.Open(ignoreFilePath)
	if openFileError != nil {
		return nil, openFileError
	}
	defer fileHandle.Close()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		patternLine := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(patternLine) == "" || strings.HasPrefix(patternLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, patternLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("reading %s: %w", ignoreFilePath, scanError)
	}
	return ignorePatterns, nil
}
