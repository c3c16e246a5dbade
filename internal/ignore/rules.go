// Package ignore decides which paths are excluded from a generated tree.
// Rules come from explicit patterns, from every .gitignore between the repository
// root and an entry, or from both, and are evaluated with gitignore semantics:
// the last matching pattern wins and a leading "!" re-includes a path.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository marker.
	GitDirectoryName = ".git"

	pathSegmentSeparator = "/"
	negationPrefix       = "!"
	commentPrefix        = "#"
	escapePrefix         = `\`
	anyDepthSegment      = "**"
	classOpen            = '['
	classClose           = ']'
	classNegation        = '!'

	// go-gitignore compiles "?" literally and trims spaces, so both are handed to it
	// as regexp escapes.
	singleCharacterClass = `[^\x2f]`
	literalSpace         = `\x20`
	regexpMetacharacters = "()+{}|^$"
)

// RuleSet is an ordered, compiled collection of gitignore patterns.
// It is immutable and safe for concurrent use.
type RuleSet struct {
	lines   []string
	matcher *gitignore.GitIgnore
}

// CompileRuleSet compiles pattern lines in order. Blank lines and comments are dropped.
func CompileRuleSet(lines []string) *RuleSet {
	var patterns []string
	var translated []string
	for _, line := range lines {
		pattern, meaningful := cleanPatternLine(line)
		if !meaningful {
			continue
		}
		patterns = append(patterns, pattern)
		translated = append(translated, translatePattern(pattern))
	}
	return &RuleSet{
		lines:   patterns,
		matcher: gitignore.CompileIgnoreLines(translated...),
	}
}

// cleanPatternLine drops the line ending and unescaped trailing spaces. Leading spaces
// belong to the pattern. Blank lines and comments report false.
func cleanPatternLine(line string) (string, bool) {
	cleanedLine := strings.TrimRight(line, "\r\n")
	for strings.HasSuffix(cleanedLine, " ") && !strings.HasSuffix(cleanedLine, escapePrefix+" ") {
		cleanedLine = cleanedLine[:len(cleanedLine)-1]
	}
	if strings.TrimSpace(cleanedLine) == "" || strings.HasPrefix(cleanedLine, commentPrefix) {
		return "", false
	}
	return cleanedLine, true
}

// isAnchoredPattern reports whether a pattern body has a separator before its last
// character. Such patterns match relative to their base only.
func isAnchoredPattern(body string) bool {
	return strings.Contains(strings.TrimSuffix(body, pathSegmentSeparator), pathSegmentSeparator)
}

// translatePattern rewrites one gitignore pattern into the dialect go-gitignore compiles.
// Anchored patterns gain a leading separator, "?" matches one character other than the
// separator, "[!...]" negates a class and backslash escapes become literals.
func translatePattern(pattern string) string {
	negated := strings.HasPrefix(pattern, negationPrefix)
	body := strings.TrimPrefix(pattern, negationPrefix)
	if isAnchoredPattern(body) && !strings.HasPrefix(body, pathSegmentSeparator) {
		body = pathSegmentSeparator + body
	}

	var builder strings.Builder
	if negated {
		builder.WriteString(negationPrefix)
	}
	insideClass := false
	for index := 0; index < len(body); index++ {
		character := body[index]
		switch {
		case character == escapePrefix[0] && index+1 < len(body):
			index++
			builder.WriteString(escapedLiteral(body[index]))
		case insideClass:
			switch character {
			case classClose:
				insideClass = false
				builder.WriteByte(character)
			case '*':
				builder.WriteString(escapePrefix + "*")
			case ' ':
				builder.WriteString(literalSpace)
			default:
				builder.WriteByte(character)
			}
		case character == classOpen && strings.IndexByte(body[index+1:], classClose) > 0:
			insideClass = true
			builder.WriteByte(character)
			if body[index+1] == classNegation {
				builder.WriteByte('^')
				index++
			}
		case character == '?':
			builder.WriteString(singleCharacterClass)
		case character == ' ':
			builder.WriteString(literalSpace)
		case strings.IndexByte(regexpMetacharacters, character) >= 0:
			builder.WriteString(escapePrefix)
			builder.WriteByte(character)
		default:
			builder.WriteByte(character)
		}
	}
	return builder.String()
}

// escapedLiteral renders the character following a backslash so it matches itself.
func escapedLiteral(character byte) string {
	switch {
	case character == ' ':
		return literalSpace
	case character == '?' || character == '.':
		return string(character)
	case character < 0x80 && isASCIIPunctuation(character):
		return escapePrefix + string(character)
	default:
		return string(character)
	}
}

func isASCIIPunctuation(character byte) bool {
	return (character >= '!' && character <= '/') ||
		(character >= ':' && character <= '@') ||
		(character >= '[' && character <= '`') ||
		(character >= '{' && character <= '~')
}

// Lines returns the compiled pattern lines in evaluation order.
func (ruleSet *RuleSet) Lines() []string {
	if ruleSet == nil {
		return nil
	}
	return append([]string(nil), ruleSet.lines...)
}

// Matches reports whether relativePath is excluded. Directories are matched with a
// trailing separator so directory-only patterns apply to them.
func (ruleSet *RuleSet) Matches(relativePath string, isDirectory bool) bool {
	if ruleSet == nil || ruleSet.matcher == nil || len(ruleSet.lines) == 0 {
		return false
	}
	normalizedPath := strings.TrimPrefix(filepath.ToSlash(relativePath), "./")
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}
	if isDirectory && !strings.HasSuffix(normalizedPath, pathSegmentSeparator) {
		normalizedPath += pathSegmentSeparator
	}
	return ruleSet.matcher.MatchesPath(normalizedPath)
}

// scopePattern rewrites a pattern read from the .gitignore located at relativeDirectory
// (slash separated, relative to the matching base) so it keeps its meaning when all
// layers are evaluated against base-relative paths.
func scopePattern(pattern string, relativeDirectory string) string {
	if relativeDirectory == "" || relativeDirectory == "." || pattern == "" || strings.HasPrefix(pattern, commentPrefix) {
		return pattern
	}

	negated := strings.HasPrefix(pattern, negationPrefix)
	body := strings.TrimPrefix(pattern, negationPrefix)
	if strings.HasPrefix(body, escapePrefix+negationPrefix) || strings.HasPrefix(body, escapePrefix+commentPrefix) {
		body = strings.TrimPrefix(body, escapePrefix)
	}

	var scoped string
	if isAnchoredPattern(body) {
		scoped = pathSegmentSeparator + relativeDirectory + pathSegmentSeparator + strings.TrimPrefix(body, pathSegmentSeparator)
	} else {
		scoped = pathSegmentSeparator + relativeDirectory + pathSegmentSeparator + anyDepthSegment + pathSegmentSeparator + body
	}
	if negated {
		return negationPrefix + scoped
	}
	return scoped
}

// readGitignoreLines returns the raw lines of the .gitignore inside directoryPath.
// A missing file yields no lines and no error.
//
// #nosec G304
func readGitignoreLines(directoryPath string) ([]string, error) {
	gitignorePath := filepath.Join(directoryPath, GitIgnoreFileName)
	fileHandle, openFileError := os.Open(gitignorePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer fileHandle.Close()

	var lines []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		if patternLine, meaningful := cleanPatternLine(scanner.Text()); meaningful {
			lines = append(lines, patternLine)
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("scanning %s: %w", gitignorePath, scanError)
	}
	return lines, nil
}

// layerDirectories lists basePath and every directory below it down to
// directoryPath, root to leaf. A directoryPath outside basePath yields basePath only.
func layerDirectories(basePath string, directoryPath string) []string {
	layers := []string{basePath}
	relativePath, relativeError := filepath.Rel(basePath, directoryPath)
	if relativeError != nil || relativePath == "." || relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) {
		return layers
	}
	currentPath := basePath
	for _, segment := range strings.Split(relativePath, string(filepath.Separator)) {
		currentPath = filepath.Join(currentPath, segment)
		layers = append(layers, currentPath)
	}
	return layers
}
