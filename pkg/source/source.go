package source

import "strings"

// File is an immutable, 1-based table of source lines. All positional
// reporting throughout the engine uses these line numbers.
type File struct {
	lines []string
}

// Split builds a File from raw text. Windows line endings are tolerated.
func Split(text string) *File {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &File{lines: lines}
}

// Len returns the number of lines.
func (f *File) Len() int { return len(f.lines) }

// Line returns the 1-based line n, or "" when out of range.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	return f.lines[n-1]
}

// Lines returns the underlying slice. Callers must not mutate it.
func (f *File) Lines() []string { return f.lines }

// IsBlank reports whether the line contains only whitespace.
func IsBlank(line string) bool { return strings.TrimSpace(line) == "" }

// IsComment reports whether the line is wholly a comment: a line comment,
// a block-comment opener, or a block-comment continuation.
func IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*")
}

// IsPreprocessor reports whether the line is a preprocessor directive.
func IsPreprocessor(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// MaskLiterals returns a same-length copy of line with the interior of
// string literals (and, when maskChar is set, character literals) replaced
// by spaces. The quote characters themselves are preserved so that
// quote-sensitive patterns still match. Escaped quotes do not terminate a
// literal.
func MaskLiterals(line string, maskChar bool) string {
	out := []byte(line)
	inString := false
	inChar := false
	escaped := false
	for i := 0; i < len(out); i++ {
		c := out[i]
		if escaped {
			if inString || inChar {
				out[i] = ' '
			}
			escaped = false
			continue
		}
		switch {
		case c == '\\' && (inString || inChar):
			out[i] = ' '
			escaped = true
		case c == '"' && !inChar:
			inString = !inString
		case c == '\'' && maskChar && !inString:
			inChar = !inChar
		default:
			if inString || (inChar && maskChar) {
				out[i] = ' '
			}
		}
	}
	return string(out)
}

// SplitLineComment splits a line into its code portion and a trailing "//"
// comment (comment includes the delimiter; empty when absent). Delimiters
// inside string literals are not treated as comments.
func SplitLineComment(line string) (code, comment string) {
	masked := MaskLiterals(line, true)
	if idx := strings.Index(masked, "//"); idx >= 0 {
		return line[:idx], line[idx:]
	}
	return line, ""
}

// Code returns the line with any trailing line comment removed and literal
// interiors masked. This is the canonical view the heuristic passes scan.
func Code(line string) string {
	if IsComment(line) {
		return ""
	}
	code, _ := SplitLineComment(line)
	return MaskLiterals(code, true)
}

// CountOccurrences counts whole-word occurrences of name across all lines,
// comments stripped and literals masked.
func CountOccurrences(lines []string, name string) int {
	re := WordRe(name)
	n := 0
	for _, line := range lines {
		n += len(re.FindAllString(Code(line), -1))
	}
	return n
}

// ContainsWord reports whether the code portion of line contains name as a
// whole word.
func ContainsWord(line, name string) bool {
	return WordRe(name).MatchString(Code(line))
}
