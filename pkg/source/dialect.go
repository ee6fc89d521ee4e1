// Package source provides the line table and the shared scanning utilities
// used by every detection pass: comment stripping, string/char literal
// masking, identifier and call-site matching, and the C-dialect keyword
// tables.
package source

import (
	"regexp"
	"strings"
)

// TypeKeywords are the declarable value types of the dialect.
var TypeKeywords = []string{"int", "float", "char", "double", "long", "short"}

// ControlKeywords are the control-flow keywords of the dialect.
var ControlKeywords = []string{
	"if", "else", "while", "for", "do", "switch", "case", "default",
	"break", "continue", "return", "goto",
}

// OtherKeywords round out the reserved-word set.
var OtherKeywords = []string{
	"void", "struct", "union", "enum", "typedef", "static", "const",
	"unsigned", "signed", "sizeof", "extern",
}

// StdlibFunctions is the fixed allow-list of externally defined names that
// are never reported as undefined.
var StdlibFunctions = map[string]bool{
	"printf": true, "scanf": true, "malloc": true, "free": true,
	"strlen": true, "strcpy": true, "strcmp": true, "fopen": true,
	"fclose": true, "fread": true, "fwrite": true, "fprintf": true,
	"fscanf": true, "getchar": true, "putchar": true, "gets": true,
	"puts": true, "exit": true, "abs": true, "sqrt": true, "pow": true,
	"sin": true, "cos": true, "tan": true, "log": true, "exp": true,
	"rand": true, "srand": true, "time": true, "memset": true,
	"memcpy": true, "memmove": true, "atoi": true, "atof": true,
	"sizeof": true,
}

var typeKeywordSet = toSet(TypeKeywords)
var reservedSet = buildReservedSet()

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func buildReservedSet() map[string]bool {
	m := make(map[string]bool)
	for _, w := range TypeKeywords {
		m[w] = true
	}
	for _, w := range ControlKeywords {
		m[w] = true
	}
	for _, w := range OtherKeywords {
		m[w] = true
	}
	return m
}

// IsTypeKeyword reports whether s is a declarable type keyword.
func IsTypeKeyword(s string) bool { return typeKeywordSet[s] }

// IsReserved reports whether s is any reserved word of the dialect.
func IsReserved(s string) bool { return reservedSet[s] }

// IsStdlib reports whether name is on the standard-library allow-list.
func IsStdlib(name string) bool { return StdlibFunctions[name] }

// IdentPattern matches a single dialect identifier.
const IdentPattern = `[A-Za-z_][A-Za-z0-9_]*`

var (
	identRe    = regexp.MustCompile(IdentPattern)
	callSiteRe = regexp.MustCompile(`(` + IdentPattern + `)\s*\(`)
)

// Identifiers returns every identifier-shaped token on the line, in order.
// Reserved words are included; callers filter as needed.
func Identifiers(line string) []string {
	return identRe.FindAllString(line, -1)
}

// CallSites returns every identifier immediately followed by an opening
// parenthesis, reserved words excluded.
func CallSites(line string) []string {
	var calls []string
	for _, m := range callSiteRe.FindAllStringSubmatch(line, -1) {
		if !IsReserved(m[1]) {
			calls = append(calls, m[1])
		}
	}
	return calls
}

// WordRe compiles a whole-word pattern for the given identifier. The name
// must already be identifier-shaped; it is not escaped.
func WordRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + name + `\b`)
}

// Extensions are the file suffixes treated as dialect sources.
var Extensions = []string{".c", ".h"}

// IsSourcePath reports whether path names a dialect source file.
func IsSourcePath(path string) bool {
	for _, ext := range Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
